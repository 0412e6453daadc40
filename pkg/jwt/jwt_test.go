package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(7, "reader@example.com", "member")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "reader@example.com", claims.Email)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, "library", claims.Issuer)
}

func TestManager_RefreshTokenCannotAccess(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken(1, "a@b.c", "admin")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.RefreshToken)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))

	_, err = m.RefreshAccessToken(pair.AccessToken)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestManager_RefreshAccessToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken(3, "a@b.c", "admin")
	require.NoError(t, err)

	access, err := m.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := m.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestManager_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, time.Hour)
	pair, err := m.GenerateToken(1, "a@b.c", "member")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.AccessToken)
	assert.True(t, errors.Is(err, apperrors.ErrTokenExpired))
}

func TestManager_WrongSecret(t *testing.T) {
	pair, err := NewManager("secret-a", time.Hour, time.Hour).GenerateToken(1, "a@b.c", "member")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour, time.Hour).ParseToken(pair.AccessToken)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}
