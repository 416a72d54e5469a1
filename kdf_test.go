package piicrypt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveContextKey_Deterministic(t *testing.T) {
	key1, err := deriveContextKey(testKey("hash"), "user:email-query")
	require.NoError(t, err)

	key2, err := deriveContextKey(testKey("hash"), "user:email-query")
	require.NoError(t, err)

	require.Equal(t, key1, key2)
	require.Len(t, key1, contextKeySize)
}

func TestDeriveContextKey_DifferentContexts(t *testing.T) {
	key1, err := deriveContextKey(testKey("hash"), "user:email-query")
	require.NoError(t, err)

	key2, err := deriveContextKey(testKey("hash"), "company:contactEmail-query")
	require.NoError(t, err)

	require.NotEqual(t, key1, key2)
}

func TestDeriveContextKey_DifferentHashKeys(t *testing.T) {
	key1, err := deriveContextKey(testKey("hash"), "user:email-query")
	require.NoError(t, err)

	key2, err := deriveContextKey(testKey("other"), "user:email-query")
	require.NoError(t, err)

	require.NotEqual(t, key1, key2)
}

func TestDeriveContextKey_NotTheHashKey(t *testing.T) {
	hashKey := testKey("hash")
	derived, err := deriveContextKey(hashKey, "user:email-query")
	require.NoError(t, err)
	require.NotEqual(t, hashKey, derived[:KeySize])
}
