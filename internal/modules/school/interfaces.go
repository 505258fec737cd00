package school

import (
	"context"

	"schoolhub/internal/domain"
	"schoolhub/internal/repository"
)

type SchoolRepository interface {
	Create(ctx context.Context, s *domain.School) error
	FindByID(ctx context.Context, id int64) (*domain.School, error)
	FindActiveByID(ctx context.Context, id int64) (*domain.School, error)
	Update(ctx context.Context, s *domain.School) error
	Delete(ctx context.Context, id int64) error
	SetAdmin(ctx context.Context, schoolID int64, adminID *int64) error
	List(ctx context.Context, q repository.SchoolQuery) ([]domain.School, int64, error)
}

type UserRepository interface {
	FindActiveByID(ctx context.Context, id int64) (*domain.User, error)
	SetRole(ctx context.Context, id int64, role domain.Role, schoolID *int64) error
}

type ClassroomCounter interface {
	CountBySchool(ctx context.Context, schoolID int64) (int64, error)
}

type StudentCounter interface {
	CountBySchool(ctx context.Context, schoolID int64) (int64, error)
	CountActiveBySchool(ctx context.Context, schoolID int64) (int64, error)
}

type auditor interface {
	Emit(userID int64, performedBy, action, details string)
}
