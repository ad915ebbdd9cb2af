package cryptox_test

import (
	"testing"

	"github.com/datadash-io/datadash/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := cryptox.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2hunter2", hash)

	require.NoError(t, cryptox.VerifyPassword("hunter2hunter2", hash))
	require.Error(t, cryptox.VerifyPassword("wrong-password", hash))
}

func TestHashIsSalted(t *testing.T) {
	a, err := cryptox.HashPassword("same-input")
	require.NoError(t, err)
	b, err := cryptox.HashPassword("same-input")
	require.NoError(t, err)

	// Random salt means two hashes of the same input never collide.
	require.NotEqual(t, a, b)
}

func TestGeneratePassword(t *testing.T) {
	seen := map[string]bool{}
	for range 10 {
		p, err := cryptox.GeneratePassword()
		require.NoError(t, err)
		require.Len(t, p, 12)
		require.False(t, seen[p], "generated passwords should not repeat")
		seen[p] = true
	}
}
