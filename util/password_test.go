package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt_Unique(t *testing.T) {
	s1, err := GenerateSalt()
	require.NoError(t, err)
	s2, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)
	assert.NotEmpty(t, s1)
}

func TestHashPasswordArgon2Deterministic(t *testing.T) {
	h1 := HashPasswordArgon2("password", "salt")
	h2 := HashPasswordArgon2("password", "salt")
	if h1 != h2 {
		t.Fatalf("expected same hash for same salt, got %s vs %s", h1, h2)
	}
}

func TestHashPasswordArgon2DifferentSalts(t *testing.T) {
	h1 := HashPasswordArgon2("password", "saltA")
	h2 := HashPasswordArgon2("password", "saltB")
	if h1 == h2 {
		t.Fatalf("expected different hashes for different salts, both %s", h1)
	}
}

func TestVerifyPassword(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)
	hash := HashPasswordArgon2("correct horse", salt)

	assert.True(t, VerifyPassword("correct horse", hash, salt))
	assert.False(t, VerifyPassword("wrong", hash, salt))
	assert.False(t, VerifyPassword("correct horse", hash, "other"))
}

func TestJWTSecretCopy(t *testing.T) {
	SetJWTSecret("secretA")
	b := GetJWTSecretByte()
	b[0] = 'X'
	assert.Equal(t, []byte("secretA"), GetJWTSecretByte())
}
