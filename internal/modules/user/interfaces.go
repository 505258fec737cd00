package user

import (
	"context"

	"schoolhub/internal/domain"
	"schoolhub/internal/repository"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindActiveByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetRole(ctx context.Context, id int64, role domain.Role, schoolID *int64) error
	Deactivate(ctx context.Context, id int64, performedBy string) error
	List(ctx context.Context, q repository.UserQuery) ([]domain.User, int64, error)
}

type SchoolRepository interface {
	FindActiveByID(ctx context.Context, id int64) (*domain.School, error)
}

// auditor is the slice of audit.Emitter the service uses.
type auditor interface {
	Emit(userID int64, performedBy, action, details string)
}
