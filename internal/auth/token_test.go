package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_AccessToken(t *testing.T) {
	m := NewTokenManager("test-secret")

	t.Run("round trip", func(t *testing.T) {
		token, err := m.IssueAccessToken("user-1")
		require.NoError(t, err)

		userID, err := m.VerifyAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := m.IssueAccessToken("user-1")
		require.NoError(t, err)

		other := NewTokenManager("other-secret")
		_, err = other.VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := m.VerifyAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		issued := time.Now()
		m := NewTokenManager("test-secret")
		m.now = func() time.Time { return issued }

		token, err := m.IssueAccessToken("user-1")
		require.NoError(t, err)

		m.now = func() time.Time { return issued.Add(AccessTokenTTL + time.Minute) }
		_, err = m.VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTokenManager_PurposeSeparation(t *testing.T) {
	m := NewTokenManager("test-secret")

	reset, err := m.IssueResetToken("user-1")
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(reset)
	assert.ErrorIs(t, err, ErrInvalidToken, "a reset token must not authenticate requests")

	userID, err := m.VerifyResetToken(reset)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	access, err := m.IssueAccessToken("user-1")
	require.NoError(t, err)
	_, err = m.VerifyResetToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("not-a-hash", "anything"))
}
