package classroom

import (
	"context"

	"schoolhub/internal/domain"
	"schoolhub/internal/pkg/fault"
	"schoolhub/internal/rbac"
	"schoolhub/internal/repository"
)

type Service struct {
	classrooms ClassroomRepository
	schools    SchoolRepository
	students   StudentCounter
}

func NewService(classrooms ClassroomRepository, schools SchoolRepository, students StudentCounter) *Service {
	return &Service{classrooms: classrooms, schools: schools, students: students}
}

// scoped loads a classroom and applies the per-role visibility rules.
// Superadmins see everything; schoolAdmins and students only rooms of
// their own school. Hidden rooms read as absent.
func (s *Service) scoped(ctx context.Context, actor rbac.Actor, id int64) (*domain.Classroom, error) {
	room, err := s.classrooms.FindByID(ctx, id)
	if err != nil {
		return nil, fault.OperationFailed("Classroom lookup failed")
	}
	if room == nil {
		return nil, ErrNotFound
	}
	if actor.Role != domain.RoleSuperadmin {
		if actor.SchoolID == nil || *actor.SchoolID != room.SchoolID {
			return nil, ErrNotFound
		}
	}
	return room, nil
}

func (s *Service) Create(ctx context.Context, actor rbac.Actor, req CreateClassroomRequest) (*domain.Classroom, error) {
	if !rbac.Can(actor.Role, rbac.OpCreateClassroom) {
		return nil, fault.ErrUnauthorized
	}

	// Classrooms are created by schoolAdmins inside their own school.
	schoolID := actor.SchoolID
	if schoolID == nil {
		return nil, fault.ErrSchoolAccess
	}

	school, err := s.schools.FindActiveByID(ctx, *schoolID)
	if err != nil {
		return nil, fault.OperationFailed("Classroom creation failed")
	}
	if school == nil {
		return nil, ErrSchoolNotFound
	}

	dup, err := s.classrooms.ExistsByNameGrade(ctx, *schoolID, req.Name, req.Grade)
	if err != nil {
		return nil, fault.OperationFailed("Classroom creation failed")
	}
	if dup {
		return nil, ErrDuplicate
	}

	room := &domain.Classroom{
		SchoolID: *schoolID,
		Name:     req.Name,
		Capacity: req.Capacity,
		Grade:    req.Grade,
		Teacher:  req.Teacher,
		Schedule: req.Schedule,
		Status:   domain.ClassroomActive,
	}
	if req.Resources != nil {
		room.Resources = *req.Resources
	}
	if err := s.classrooms.Create(ctx, room); err != nil {
		return nil, fault.OperationFailed("Classroom creation failed")
	}
	return room, nil
}

func (s *Service) Get(ctx context.Context, actor rbac.Actor, id int64) (*domain.Classroom, error) {
	if !rbac.Can(actor.Role, rbac.OpViewClassrooms) {
		return nil, fault.ErrUnauthorized
	}
	return s.scoped(ctx, actor, id)
}

func (s *Service) List(ctx context.Context, actor rbac.Actor, q ListQuery) ([]domain.Classroom, int64, error) {
	if !rbac.Can(actor.Role, rbac.OpViewClassrooms) {
		return nil, 0, fault.ErrUnauthorized
	}

	query := repository.ClassroomQuery{
		SchoolID: q.SchoolID,
		Grade:    q.Grade,
		Status:   domain.ClassroomStatus(q.Status),
		Page:     q.Page,
		Limit:    q.Limit,
	}
	if actor.Role == domain.RoleSchoolAdmin {
		query.SchoolID = actor.SchoolID
	}

	rooms, total, err := s.classrooms.List(ctx, query)
	if err != nil {
		return nil, 0, fault.OperationFailed("Classroom listing failed")
	}
	return rooms, total, nil
}

func (s *Service) Update(ctx context.Context, actor rbac.Actor, id int64, req UpdateClassroomRequest) (*domain.Classroom, error) {
	if !rbac.Can(actor.Role, rbac.OpUpdateClassroom) {
		return nil, fault.ErrUnauthorized
	}

	room, err := s.scoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	name := room.Name
	grade := room.Grade
	if req.Name != nil {
		name = *req.Name
	}
	if req.Grade != nil {
		grade = *req.Grade
	}
	if name != room.Name || grade != room.Grade {
		dup, err := s.classrooms.ExistsByNameGrade(ctx, room.SchoolID, name, grade)
		if err != nil {
			return nil, fault.OperationFailed("Classroom update failed")
		}
		if dup {
			return nil, ErrDuplicate
		}
	}

	room.Name = name
	room.Grade = grade
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Teacher != nil {
		room.Teacher = *req.Teacher
	}
	if req.Schedule != nil {
		room.Schedule = req.Schedule
	}
	if req.Status != nil {
		room.Status = domain.ClassroomStatus(*req.Status)
	}

	if err := s.classrooms.Update(ctx, room); err != nil {
		return nil, fault.OperationFailed("Classroom update failed")
	}
	return room, nil
}

// Delete refuses to remove a classroom that still has active students.
func (s *Service) Delete(ctx context.Context, actor rbac.Actor, id int64) error {
	if !rbac.Can(actor.Role, rbac.OpDeleteClassroom) {
		return fault.ErrUnauthorized
	}

	room, err := s.scoped(ctx, actor, id)
	if err != nil {
		return err
	}

	assigned, err := s.students.CountByClassroom(ctx, room.ID)
	if err != nil {
		return fault.OperationFailed("Classroom deletion failed")
	}
	if assigned > 0 {
		return ErrNotEmpty
	}

	if err := s.classrooms.Delete(ctx, room.ID); err != nil {
		return fault.OperationFailed("Classroom deletion failed")
	}
	return nil
}

func (s *Service) UpdateResources(ctx context.Context, actor rbac.Actor, id int64, res domain.ClassroomResources) (*domain.Classroom, error) {
	if !rbac.Can(actor.Role, rbac.OpUpdateClassroom) {
		return nil, fault.ErrUnauthorized
	}

	room, err := s.scoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	room.Resources = res
	if err := s.classrooms.Update(ctx, room); err != nil {
		return nil, fault.OperationFailed("Classroom update failed")
	}
	return room, nil
}

// Schedule is readable by students too, scoped to their own school.
func (s *Service) Schedule(ctx context.Context, actor rbac.Actor, id int64) ([]domain.ScheduleEntry, error) {
	room, err := s.scoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if room.Schedule == nil {
		return []domain.ScheduleEntry{}, nil
	}
	return room.Schedule, nil
}
