package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(testSecret, time.Hour, 42, "handler@example.com", false, true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "handler@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
	assert.True(t, claims.IsStorageHandler)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, time.Hour, 1, "user@example.com", false, false)
	require.NoError(t, err)

	_, err = ValidateToken("other-secret", token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken(testSecret, -time.Minute, 1, "user@example.com", false, false)
	require.NoError(t, err)

	_, err = ValidateToken(testSecret, token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken(testSecret, "not-a-token")
	assert.Error(t, err)
}

func TestTokensHaveUniqueJTI(t *testing.T) {
	a, err := GenerateToken(testSecret, time.Hour, 1, "user@example.com", false, false)
	require.NoError(t, err)
	b, err := GenerateToken(testSecret, time.Hour, 1, "user@example.com", false, false)
	require.NoError(t, err)

	ca, err := ValidateToken(testSecret, a)
	require.NoError(t, err)
	cb, err := ValidateToken(testSecret, b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}
