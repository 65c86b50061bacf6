package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefreshTokenDefaultsTo256Bits(t *testing.T) {
	token, err := NewRefreshToken(0)
	require.NoError(t, err)
	assert.Len(t, token, refreshTokenBytes*2) // hex doubles the byte count
}

func TestNewRefreshTokenIsUnique(t *testing.T) {
	a, err := NewRefreshToken(32)
	require.NoError(t, err)
	b, err := NewRefreshToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
