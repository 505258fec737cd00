package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"schoolhub/internal/pkg/fault"
	"schoolhub/internal/session"
)

// Service implements the login lifecycle. The session cache record is
// the sole source of truth for refresh-token validity: every login or
// rotation overwrites it, logout and admin mutations delete it.
type Service struct {
	users    UserRepository
	sessions session.Store
	tokens   tokenManager
}

func NewService(users UserRepository, sessions session.Store, tokens tokenManager) *Service {
	return &Service{users: users, sessions: sessions, tokens: tokens}
}

type LoginResult struct {
	User         any    `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RotateResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login verifies credentials and establishes a session. The "no such
// user" and "wrong password" cases return the same failure so
// usernames cannot be enumerated. Writing the session record
// implicitly revokes any refresh token from a previous login.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindActiveByUsername(ctx, username)
	if err != nil {
		return nil, fault.OperationFailed("Authentication failed")
	}
	if user == nil {
		return nil, fault.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fault.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, string(user.Role), user.SchoolID)
	if err != nil {
		return nil, fault.OperationFailed("Authentication failed")
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fault.OperationFailed("Authentication failed")
	}

	rec := session.Record{
		Token:     refreshToken,
		Role:      string(user.Role),
		SchoolID:  user.SchoolID,
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Put(ctx, user.ID, rec, s.tokens.RefreshTTL()); err != nil {
		return nil, fault.OperationFailed("Authentication failed")
	}

	return &LoginResult{
		User:         user.Sanitized(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout drops the session record. Deleting an absent key is fine, so
// repeated logouts succeed.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return fault.OperationFailed("Logout failed")
	}
	return nil
}

// Refresh exchanges a refresh token for a new access token. The token
// must textually match the cached record; a signature-valid token that
// was revoked by logout or superseded by a later login fails here. The
// new access token is minted from the cached role/school so admin-side
// updates to the record take effect without a re-login.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	rec, err := s.sessions.Get(ctx, claims.UserID)
	if err != nil {
		return "", fault.OperationFailed("Token refresh failed")
	}
	if rec == nil || rec.Token != refreshToken {
		return "", fault.ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.GenerateAccessToken(claims.UserID, rec.Role, rec.SchoolID)
	if err != nil {
		return "", fault.OperationFailed("Token refresh failed")
	}
	return accessToken, nil
}

// Rotate is the second refresh variant: it re-checks the principal is
// still active, reissues both tokens from the user's current role and
// school, and rewrites the cache record (revoking the old refresh
// token by overwrite).
func (s *Service) Rotate(ctx context.Context, refreshToken string) (*RotateResult, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	rec, err := s.sessions.Get(ctx, claims.UserID)
	if err != nil {
		return nil, fault.OperationFailed("Token refresh failed")
	}
	if rec == nil || rec.Token != refreshToken {
		return nil, fault.ErrInvalidRefreshToken
	}

	user, err := s.users.FindActiveByID(ctx, claims.UserID)
	if err != nil {
		return nil, fault.OperationFailed("Token refresh failed")
	}
	if user == nil {
		return nil, fault.ErrUserInactive
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, string(user.Role), user.SchoolID)
	if err != nil {
		return nil, fault.OperationFailed("Token refresh failed")
	}
	newRefresh, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fault.OperationFailed("Token refresh failed")
	}

	rec2 := session.Record{
		Token:     newRefresh,
		Role:      string(user.Role),
		SchoolID:  user.SchoolID,
		CreatedAt: rec.CreatedAt,
	}
	if err := s.sessions.Put(ctx, user.ID, rec2, s.tokens.RefreshTTL()); err != nil {
		return nil, fault.OperationFailed("Token refresh failed")
	}

	return &RotateResult{AccessToken: accessToken, RefreshToken: newRefresh}, nil
}
