package classroom

import (
	"context"

	"schoolhub/internal/domain"
	"schoolhub/internal/repository"
)

type ClassroomRepository interface {
	Create(ctx context.Context, c *domain.Classroom) error
	FindByID(ctx context.Context, id int64) (*domain.Classroom, error)
	Update(ctx context.Context, c *domain.Classroom) error
	Delete(ctx context.Context, id int64) error
	ExistsByNameGrade(ctx context.Context, schoolID int64, name, grade string) (bool, error)
	List(ctx context.Context, q repository.ClassroomQuery) ([]domain.Classroom, int64, error)
}

type SchoolRepository interface {
	FindActiveByID(ctx context.Context, id int64) (*domain.School, error)
}

type StudentCounter interface {
	CountByClassroom(ctx context.Context, classroomID int64) (int64, error)
}
