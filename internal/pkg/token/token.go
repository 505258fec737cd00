// Package token issues and verifies the two JWT kinds used by the API:
// short-lived access tokens carrying role and school claims, and
// long-lived refresh tokens carrying only the user id. The two kinds
// are signed with independent secrets so leaking one does not
// compromise the other.
package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"schoolhub/internal/pkg/fault"
)

type AccessClaims struct {
	UserID   int64  `json:"userId"`
	Role     string `json:"role"`
	SchoolID *int64 `json:"schoolId,omitempty"`
	jwtlib.RegisteredClaims
}

// RefreshClaims carry only the user id. Role and school are looked up
// again on refresh so they cannot go stale inside a 7-day token.
type RefreshClaims struct {
	UserID int64 `json:"userId"`
	jwtlib.RegisteredClaims
}

type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (m *Manager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

func (m *Manager) GenerateAccessToken(userID int64, role string, schoolID *int64) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:   userID,
		Role:     role,
		SchoolID: schoolID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(m.accessTTL)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(m.accessSecret)
}

func (m *Manager) GenerateRefreshToken(userID int64) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			// jti keeps two tokens minted in the same second distinct,
			// otherwise overwriting the session record with an identical
			// string would not revoke the earlier login.
			ID:        uuid.NewString(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(m.refreshTTL)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(m.refreshSecret)
}

func (m *Manager) VerifyAccessToken(tokenStr string) (*AccessClaims, error) {
	parsed, err := jwtlib.ParseWithClaims(tokenStr, &AccessClaims{}, func(t *jwtlib.Token) (any, error) {
		return m.accessSecret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, fault.ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok {
		return nil, fault.ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) VerifyRefreshToken(tokenStr string) (*RefreshClaims, error) {
	parsed, err := jwtlib.ParseWithClaims(tokenStr, &RefreshClaims{}, func(t *jwtlib.Token) (any, error) {
		return m.refreshSecret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, fault.ErrInvalidRefreshToken
	}
	claims, ok := parsed.Claims.(*RefreshClaims)
	if !ok {
		return nil, fault.ErrInvalidRefreshToken
	}
	return claims, nil
}
