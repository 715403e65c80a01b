package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	tok, err := NewToken(32)
	require.NoError(t, err)
	assert.Len(t, tok, 64)

	raw, err := hex.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	// defaulting kicks in for non-positive sizes
	tok2, err := NewToken(0)
	require.NoError(t, err)
	assert.Len(t, tok2, 64)

	other, err := NewToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestNewOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		otp, err := NewOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)
		for _, r := range otp {
			require.True(t, r >= '0' && r <= '9', "otp %q contains non-digit", otp)
		}
		seen[otp] = true
	}
	// 100 draws from a 10^6 space collapsing to a handful of values would
	// mean the generator is broken
	assert.Greater(t, len(seen), 90)
}
