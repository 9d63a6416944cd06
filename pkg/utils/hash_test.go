package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)
	require.True(t, CheckPassword("correct horse battery staple", hash))
	require.False(t, CheckPassword("wrong", hash))
}

func TestGenerateTokenUniqueness(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.NotEmpty(t, a)
}

func TestHashTokenDeterministic(t *testing.T) {
	h1 := HashToken("invite-token")
	h2 := HashToken("invite-token")
	require.Equal(t, h1, h2)
	require.Len(t, h1, 64) // hex sha-256
	require.NotEqual(t, h1, HashToken("other-token"))
}
