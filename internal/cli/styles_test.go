package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centavo/internal/cli"
)

func TestFormatMoney(t *testing.T) {
	income := cli.FormatMoney("$", decimal.NewFromFloat(1234.5), true)
	assert.Contains(t, income, "+$1234.50")

	expense := cli.FormatMoney("€", decimal.NewFromInt(10), false)
	assert.Contains(t, expense, "-€10.00")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "yes\n", want: true},
		{name: "y", input: "y\n", want: true},
		{name: "uppercase", input: "Y\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty", input: "\n", want: false},
		{name: "garbage", input: "sure\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := cli.Confirm(strings.NewReader(tt.input), &out, "proceed?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "proceed?")
		})
	}
}
