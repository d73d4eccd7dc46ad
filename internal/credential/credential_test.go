package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	require.Len(t, salt, 32)

	hash := Hash("1234", salt, DefaultIterations)
	assert.NotEmpty(t, hash)
	assert.NotContains(t, hash, "1234")

	assert.True(t, Verify("1234", hash, salt, DefaultIterations))
	assert.False(t, Verify("4321", hash, salt, DefaultIterations))
	assert.False(t, Verify("1234", hash, salt, DefaultIterations+1))
}

func TestHashIsDeterministicPerSalt(t *testing.T) {
	saltA, err := NewSalt()
	require.NoError(t, err)
	saltB, err := NewSalt()
	require.NoError(t, err)
	require.NotEqual(t, saltA, saltB)

	assert.Equal(t, Hash("9999", saltA, 0), Hash("9999", saltA, 0))
	assert.NotEqual(t, Hash("9999", saltA, 0), Hash("9999", saltB, 0))
}

func TestValidatePin(t *testing.T) {
	tests := []struct {
		name    string
		pin     string
		wantErr bool
	}{
		{name: "valid four digits", pin: "1234"},
		{name: "valid eight digits", pin: "12345678"},
		{name: "empty", pin: "", wantErr: true},
		{name: "too short", pin: "123", wantErr: true},
		{name: "too long", pin: "123456789", wantErr: true},
		{name: "letters", pin: "12ab", wantErr: true},
		{name: "whitespace", pin: "12 4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePin(tt.pin)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "valid", username: "alice"},
		{name: "valid with underscore", username: "alice_99"},
		{name: "empty", username: "", wantErr: true},
		{name: "too short", username: "al", wantErr: true},
		{name: "too long", username: "abcdefghijklmnopqrstu", wantErr: true},
		{name: "spaces", username: "alice smith", wantErr: true},
		{name: "symbols", username: "alice!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEvaluatePin(t *testing.T) {
	tests := []struct {
		pin  string
		want PinStrength
	}{
		{pin: "12", want: StrengthWeak},
		{pin: "0000", want: StrengthWeak},
		{pin: "1234", want: StrengthWeak},
		{pin: "4321", want: StrengthWeak},
		{pin: "1357", want: StrengthWeak}, // four digits is weak regardless
		{pin: "13579", want: StrengthMedium},
		{pin: "294817", want: StrengthStrong},
		{pin: "81234567", want: StrengthWeak}, // known run buried inside
		{pin: "90000218", want: StrengthWeak},
		{pin: "571111", want: StrengthWeak},
	}

	for _, tt := range tests {
		t.Run(tt.pin, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluatePin(tt.pin))
		})
	}
}
