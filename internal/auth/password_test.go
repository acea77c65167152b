package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, salt, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.Len(t, salt, SaltSize)
	assert.Len(t, hash, 64)

	assert.True(t, VerifyPassword("correct horse", hash, salt))
	assert.False(t, VerifyPassword("correct horse!", hash, salt))
	assert.False(t, VerifyPassword("correct horse", hash, nil))
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	hash1, salt1, err := HashPassword("same")
	require.NoError(t, err)
	hash2, salt2, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
	assert.False(t, VerifyPassword("same", hash1, salt2))
}
