// Package credential derives and verifies the password-equivalent secrets
// that gate access to the local database. Pure functions, no I/O.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// DefaultIterations is the PBKDF2 iteration count used unless configured
// otherwise.
const DefaultIterations = 10000

const (
	saltBytes = 16
	keyBytes  = 32

	minPinLen      = 4
	maxPinLen      = 8
	minUsernameLen = 3
	maxUsernameLen = 20
)

var (
	pinPattern      = regexp.MustCompile(`^[0-9]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

	// weakPinPatterns are flagged anywhere inside a PIN, not just as the
	// whole value.
	weakPinPatterns = []string{
		"1234", "0000", "1111", "2222", "3333", "4444",
		"5555", "6666", "7777", "8888", "9999",
	}
)

// NewSalt returns a fresh random salt, hex encoded.
func NewSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Hash derives a hex-encoded PBKDF2-SHA256 key from the PIN and salt.
func Hash(pin, salt string, iterations int) string {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	key := pbkdf2.Key([]byte(pin), []byte(salt), iterations, keyBytes, sha256.New)
	return hex.EncodeToString(key)
}

// Verify reports whether the PIN matches the stored hash for the given salt
// and iteration count. Comparison is constant time.
func Verify(pin, hash, salt string, iterations int) bool {
	derived := Hash(pin, salt, iterations)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(hash)) == 1
}

// ValidatePin checks the PIN format: numeric, 4-8 characters.
func ValidatePin(pin string) error {
	if pin == "" {
		return fmt.Errorf("pin cannot be empty")
	}
	if len(pin) < minPinLen {
		return fmt.Errorf("pin must have at least %d digits", minPinLen)
	}
	if len(pin) > maxPinLen {
		return fmt.Errorf("pin cannot have more than %d digits", maxPinLen)
	}
	if !pinPattern.MatchString(pin) {
		return fmt.Errorf("pin may only contain digits")
	}
	return nil
}

// ValidateUsername checks the username format: 3-20 characters, letters,
// digits and underscore.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if len(username) < minUsernameLen {
		return fmt.Errorf("username must have at least %d characters", minUsernameLen)
	}
	if len(username) > maxUsernameLen {
		return fmt.Errorf("username cannot have more than %d characters", maxUsernameLen)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username may only contain letters, digits and underscore")
	}
	return nil
}

// PinStrength classifies how guessable a PIN is.
type PinStrength string

const (
	// StrengthWeak flags short PINs and obvious patterns.
	StrengthWeak PinStrength = "weak"
	// StrengthMedium flags acceptable but short PINs.
	StrengthMedium PinStrength = "medium"
	// StrengthStrong flags PINs of six or more varied digits.
	StrengthStrong PinStrength = "strong"
)

// EvaluatePin scores a PIN against common weak patterns: repeated digits,
// ascending or descending runs, and well-known sequences.
func EvaluatePin(pin string) PinStrength {
	if len(pin) < minPinLen {
		return StrengthWeak
	}
	for _, pattern := range weakPinPatterns {
		if strings.Contains(pin, pattern) {
			return StrengthWeak
		}
	}
	allSame := true
	for i := 1; i < len(pin); i++ {
		if pin[i] != pin[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return StrengthWeak
	}
	sequence := true
	for i := 0; i < len(pin)-1; i++ {
		diff := int(pin[i+1]) - int(pin[i])
		if diff != 1 && diff != -1 {
			sequence = false
			break
		}
	}
	if sequence {
		return StrengthWeak
	}
	if len(pin) == minPinLen {
		return StrengthWeak
	}
	if len(pin) >= 6 {
		return StrengthStrong
	}
	return StrengthMedium
}
