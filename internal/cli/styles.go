// Package cli provides styled terminal output for the centavo commands.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	// AccentColor is the main theme color.
	AccentColor = lipgloss.Color("#2E8B57")
	// IncomeColor marks money coming in.
	IncomeColor = lipgloss.Color("#4ECDC4")
	// ExpenseColor marks money going out.
	ExpenseColor = lipgloss.Color("#FF6B6B")
	// WarningColor marks caution messages.
	WarningColor = lipgloss.Color("#FFE66D")
	// SubtleColor marks secondary text.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle renders section titles.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
	// IncomeStyle renders income amounts.
	IncomeStyle = lipgloss.NewStyle().Foreground(IncomeColor)
	// ExpenseStyle renders expense amounts.
	ExpenseStyle = lipgloss.NewStyle().Foreground(ExpenseColor)
	// ErrorStyle renders failures.
	ErrorStyle = lipgloss.NewStyle().Foreground(ExpenseColor)
	// WarningStyle renders caution messages.
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	// SubtleStyle renders secondary text.
	SubtleStyle = lipgloss.NewStyle().Foreground(SubtleColor)
	// HeaderStyle renders table headers.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
)

// FormatTitle renders a command section title.
func FormatTitle(title string) string {
	return TitleStyle.Render(title)
}

// FormatSuccess renders a success line.
func FormatSuccess(message string) string {
	return IncomeStyle.Render("✓ " + message)
}

// FormatError renders a failure line.
func FormatError(message string) string {
	return ErrorStyle.Render("✗ " + message)
}

// FormatWarning renders a caution line.
func FormatWarning(message string) string {
	return WarningStyle.Render("! " + message)
}

// FormatMoney renders an amount with its currency symbol, colored by
// direction. Income is prefixed with +, expense with -.
func FormatMoney(symbol string, amount decimal.Decimal, income bool) string {
	text := symbol + amount.StringFixed(2)
	if income {
		return IncomeStyle.Render("+" + text)
	}
	return ExpenseStyle.Render("-" + text)
}

// Confirm asks a yes/no question and reads the answer from in. Only an
// explicit "y" or "yes" counts as confirmation.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s [y/N]: ", question); err != nil {
		return false, err
	}
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
