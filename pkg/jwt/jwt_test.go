package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

func TestManager_GenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(Identity{UserID: 7, Email: "kim@example.com", Nickname: "김철수", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "storefront", claims.Issuer)
}

func TestManager_ParseToken_Errors(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, time.Hour)
	pair, err := m.GenerateToken(Identity{UserID: 1})
	require.NoError(t, err)

	_, err = m.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	other := NewManager("other-secret", time.Hour, time.Hour)
	_, err = other.ParseToken(pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = m.ParseToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestManager_RefreshAccessToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken(Identity{UserID: 3, Role: "user"})
	require.NoError(t, err)

	access, err := m.RefreshAccessToken(pair.RefreshToken, Identity{UserID: 3, Role: "admin"})
	require.NoError(t, err)
	claims, err := m.ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	_, err = m.RefreshAccessToken(pair.RefreshToken, Identity{UserID: 4})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
