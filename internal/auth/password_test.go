package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$2a$10$"), "hash should use cost factor 10")
	assert.NotContains(t, hash, "correct horse battery")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	ok, err := VerifyPassword("secret123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_BadHash(t *testing.T) {
	_, err := VerifyPassword("anything", "not-a-bcrypt-hash")
	assert.Error(t, err)
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
