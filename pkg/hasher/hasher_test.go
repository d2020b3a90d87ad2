package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecretRoundTrip(t *testing.T) {
	hash, err := HashSecret([]byte("hunter2"))
	require.NoError(t, err)

	assert.True(t, SecretCorrect("hunter2", hash))
	assert.False(t, SecretCorrect("hunter3", hash))
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret(32)
	require.NoError(t, err)
	b, err := GenerateSecret(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
