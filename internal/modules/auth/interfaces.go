package auth

import (
	"context"
	"time"

	"schoolhub/internal/domain"
	"schoolhub/internal/pkg/token"
)

// UserRepository covers only the lookups the auth service needs.
// Find* methods return (nil, nil) when no active user matches.
type UserRepository interface {
	FindActiveByUsername(ctx context.Context, username string) (*domain.User, error)
	FindActiveByID(ctx context.Context, id int64) (*domain.User, error)
}

// tokenManager mirrors token.Manager for mocking in tests.
type tokenManager interface {
	GenerateAccessToken(userID int64, role string, schoolID *int64) (string, error)
	GenerateRefreshToken(userID int64) (string, error)
	VerifyRefreshToken(tokenStr string) (*token.RefreshClaims, error)
	RefreshTTL() time.Duration
}
