package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("65f0c0ffee0000000000abcd")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := UserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "65f0c0ffee0000000000abcd", userID)
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateToken("abc")
	assert.Error(t, err)
}

func TestUserIDFromTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := UserIDFromToken("not-a-jwt")
	assert.Error(t, err)
}

func TestUserIDFromTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	token, err := GenerateToken("abc")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-two")
	_, err = UserIDFromToken(token)
	assert.Error(t, err)
}
