package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundUSD(t *testing.T) {
	tests := []struct {
		input    float64
		expected int64
	}{
		{65000.7, 65001},
		{65000.4, 65000},
		{65000.5, 65001},
		{0.5, 1},
		{0.49, 0},
		{28512, 28512},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RoundUSD(tt.input), "RoundUSD(%v)", tt.input)
	}
}

func TestParseUSD(t *testing.T) {
	v, err := ParseUSD("65000.70000000")
	require.NoError(t, err)
	assert.InDelta(t, 65000.7, v, 1e-9)

	_, err = ParseUSD("not-a-number")
	assert.Error(t, err)
}
