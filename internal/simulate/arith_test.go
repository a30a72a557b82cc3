package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalArithmetic(t *testing.T) {
	cases := map[string]float64{
		"1 + 2":       3,
		"2 * 3 + 4":   10,
		"2 * (3 + 4)": 14,
		"2 * 3 ^ 2":   18,
		"2 ^ 3 ^ 2":   512,
		"-2 ^ 2":      -4,
		"2 ^ -1":      0.5,
		"7 / 2":       3.5,
		"7 // 2":      3,
		"-7 // 2":     -4,
		"7 % 3":       1,
		"-7 % 3":      2,
		"1.5 * 4":     6,
		"--3":         3,
		"2**10":       1024,
	}
	for expr, want := range cases {
		got, err := evalArithmetic(expr)
		require.NoError(t, err, expr)
		assert.InDelta(t, want, got, 1e-9, expr)
	}
}

func TestEvalArithmeticRejects(t *testing.T) {
	for _, expr := range []string{"", "abc", "1 +", "(1 + 2", "1 / 0", "5 % 0", "1 2", "2..3", "import os"} {
		_, err := evalArithmetic(expr)
		assert.Error(t, err, expr)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "4", formatNumber(4))
	assert.Equal(t, "3.5", formatNumber(3.5))
}
