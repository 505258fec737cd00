package student

import (
	"context"

	"schoolhub/internal/domain"
	"schoolhub/internal/repository"
)

type StudentRepository interface {
	Create(ctx context.Context, s *domain.Student) error
	FindByID(ctx context.Context, id int64) (*domain.Student, error)
	FindByUserID(ctx context.Context, userID int64) (*domain.Student, error)
	Update(ctx context.Context, s *domain.Student) error
	CountByClassroom(ctx context.Context, classroomID int64) (int64, error)
	List(ctx context.Context, q repository.StudentQuery) ([]domain.Student, int64, error)
}

type ClassroomRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Classroom, error)
}

type UserRepository interface {
	FindActiveByID(ctx context.Context, id int64) (*domain.User, error)
}
