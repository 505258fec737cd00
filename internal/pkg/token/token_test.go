package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub/internal/pkg/fault"
)

func newManager() *Manager {
	return NewManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newManager()

	schoolID := int64(7)
	raw, err := m.GenerateAccessToken(42, "schoolAdmin", &schoolID)
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "schoolAdmin", claims.Role)
	require.NotNil(t, claims.SchoolID)
	assert.Equal(t, int64(7), *claims.SchoolID)
}

func TestAccessTokenWithoutSchool(t *testing.T) {
	m := newManager()

	raw, err := m.GenerateAccessToken(1, "superadmin", nil)
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(raw)
	require.NoError(t, err)
	assert.Nil(t, claims.SchoolID)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	m := newManager()

	access, err := m.GenerateAccessToken(1, "student", nil)
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken(1)
	require.NoError(t, err)

	_, err = m.VerifyRefreshToken(access)
	assert.Equal(t, fault.ErrInvalidRefreshToken, err)

	_, err = m.VerifyAccessToken(refresh)
	assert.Equal(t, fault.ErrInvalidToken, err)
}

func TestExpiredTokensRejected(t *testing.T) {
	expired := NewManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	access, err := expired.GenerateAccessToken(1, "student", nil)
	require.NoError(t, err)
	refresh, err := expired.GenerateRefreshToken(1)
	require.NoError(t, err)

	fresh := newManager()
	_, err = fresh.VerifyAccessToken(access)
	assert.Equal(t, fault.ErrInvalidToken, err)
	_, err = fresh.VerifyRefreshToken(refresh)
	assert.Equal(t, fault.ErrInvalidRefreshToken, err)
}

func TestDifferentSecretRejected(t *testing.T) {
	m := newManager()
	other := NewManager("other-access", "other-refresh", 15*time.Minute, time.Hour)

	raw, err := m.GenerateAccessToken(1, "student", nil)
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(raw)
	assert.Equal(t, fault.ErrInvalidToken, err)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	m := newManager()

	// Same user, same second: the jti still makes them distinct.
	a, err := m.GenerateRefreshToken(5)
	require.NoError(t, err)
	b, err := m.GenerateRefreshToken(5)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGarbageRejected(t *testing.T) {
	m := newManager()

	_, err := m.VerifyAccessToken("not.a.jwt")
	assert.Equal(t, fault.ErrInvalidToken, err)
	_, err = m.VerifyRefreshToken("")
	assert.Equal(t, fault.ErrInvalidRefreshToken, err)
}
