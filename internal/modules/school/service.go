package school

import (
	"context"
	"fmt"

	"schoolhub/internal/domain"
	"schoolhub/internal/pkg/audit"
	"schoolhub/internal/pkg/fault"
	"schoolhub/internal/rbac"
	"schoolhub/internal/repository"
	"schoolhub/internal/session"
)

type Service struct {
	schools    SchoolRepository
	users      UserRepository
	classrooms ClassroomCounter
	students   StudentCounter
	sessions   session.Store
	audit      auditor
}

func NewService(
	schools SchoolRepository,
	users UserRepository,
	classrooms ClassroomCounter,
	students StudentCounter,
	sessions session.Store,
	audit auditor,
) *Service {
	return &Service{
		schools:    schools,
		users:      users,
		classrooms: classrooms,
		students:   students,
		sessions:   sessions,
		audit:      audit,
	}
}

func actorRef(actor rbac.Actor) string {
	return fmt.Sprintf("user:%d", actor.UserID)
}

func (s *Service) Create(ctx context.Context, actor rbac.Actor, req CreateSchoolRequest) (*domain.School, error) {
	if !rbac.Can(actor.Role, rbac.OpCreateSchool) {
		return nil, fault.ErrUnauthorized
	}

	school := &domain.School{
		Name:         req.Name,
		Address:      req.Address,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Description:  req.Description,
		Website:      req.Website,
		Status:       domain.SchoolActive,
	}
	if err := s.schools.Create(ctx, school); err != nil {
		return nil, fault.OperationFailed("School creation failed")
	}
	return school, nil
}

func (s *Service) Get(ctx context.Context, actor rbac.Actor, id int64) (*domain.School, error) {
	if !rbac.Can(actor.Role, rbac.OpListSchools) {
		return nil, fault.ErrUnauthorized
	}
	if actor.Role == domain.RoleSchoolAdmin {
		if actor.SchoolID == nil || *actor.SchoolID != id {
			return nil, ErrNotFound
		}
	}

	school, err := s.schools.FindByID(ctx, id)
	if err != nil {
		return nil, fault.OperationFailed("School lookup failed")
	}
	if school == nil {
		return nil, ErrNotFound
	}
	return school, nil
}

func (s *Service) List(ctx context.Context, actor rbac.Actor, q ListQuery) ([]domain.School, int64, error) {
	if !rbac.Can(actor.Role, rbac.OpListSchools) {
		return nil, 0, fault.ErrUnauthorized
	}

	schools, total, err := s.schools.List(ctx, repository.SchoolQuery{
		Status: domain.SchoolStatus(q.Status),
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		return nil, 0, fault.OperationFailed("School listing failed")
	}
	return schools, total, nil
}

func (s *Service) Update(ctx context.Context, actor rbac.Actor, id int64, req UpdateSchoolRequest) (*domain.School, error) {
	if !rbac.Can(actor.Role, rbac.OpUpdateSchool) {
		return nil, fault.ErrUnauthorized
	}

	school, err := s.schools.FindByID(ctx, id)
	if err != nil {
		return nil, fault.OperationFailed("School update failed")
	}
	if school == nil {
		return nil, ErrNotFound
	}

	if req.Name != nil {
		school.Name = *req.Name
	}
	if req.Address != nil {
		school.Address = *req.Address
	}
	if req.ContactEmail != nil {
		school.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		school.ContactPhone = *req.ContactPhone
	}
	if req.Description != nil {
		school.Description = *req.Description
	}
	if req.Website != nil {
		school.Website = *req.Website
	}
	if req.Status != nil {
		school.Status = domain.SchoolStatus(*req.Status)
	}

	if err := s.schools.Update(ctx, school); err != nil {
		return nil, fault.OperationFailed("School update failed")
	}
	return school, nil
}

// Delete refuses to remove a school that still has classrooms or
// students; those have to be moved or removed first.
func (s *Service) Delete(ctx context.Context, actor rbac.Actor, id int64) error {
	if !rbac.Can(actor.Role, rbac.OpDeleteSchool) {
		return fault.ErrUnauthorized
	}

	school, err := s.schools.FindByID(ctx, id)
	if err != nil {
		return fault.OperationFailed("School deletion failed")
	}
	if school == nil {
		return ErrNotFound
	}

	classroomCount, err := s.classrooms.CountBySchool(ctx, id)
	if err != nil {
		return fault.OperationFailed("School deletion failed")
	}
	studentCount, err := s.students.CountBySchool(ctx, id)
	if err != nil {
		return fault.OperationFailed("School deletion failed")
	}
	if classroomCount > 0 || studentCount > 0 {
		return ErrNotEmpty
	}

	if err := s.schools.Delete(ctx, id); err != nil {
		return fault.OperationFailed("School deletion failed")
	}
	return nil
}

func (s *Service) Stats(ctx context.Context, actor rbac.Actor, id int64) (*domain.SchoolStats, error) {
	if !rbac.Can(actor.Role, rbac.OpSchoolStats) {
		return nil, fault.ErrUnauthorized
	}

	school, err := s.schools.FindByID(ctx, id)
	if err != nil {
		return nil, fault.OperationFailed("School stats failed")
	}
	if school == nil {
		return nil, ErrNotFound
	}

	total, err := s.students.CountBySchool(ctx, id)
	if err != nil {
		return nil, fault.OperationFailed("School stats failed")
	}
	active, err := s.students.CountActiveBySchool(ctx, id)
	if err != nil {
		return nil, fault.OperationFailed("School stats failed")
	}
	classrooms, err := s.classrooms.CountBySchool(ctx, id)
	if err != nil {
		return nil, fault.OperationFailed("School stats failed")
	}

	return &domain.SchoolStats{
		TotalStudents:   total,
		ActiveStudents:  active,
		TotalClassrooms: classrooms,
	}, nil
}

// AssignAdmin binds an active user to the school as its schoolAdmin.
// The user's role and school binding change, so the target's session
// record is dropped and the change is audited.
func (s *Service) AssignAdmin(ctx context.Context, actor rbac.Actor, schoolID int64, req AssignAdminRequest) (*domain.School, error) {
	if !rbac.Can(actor.Role, rbac.OpAssignSchoolAdmin) {
		return nil, fault.ErrUnauthorized
	}

	school, err := s.schools.FindActiveByID(ctx, schoolID)
	if err != nil {
		return nil, fault.OperationFailed("Admin assignment failed")
	}
	if school == nil {
		return nil, ErrNotFound
	}
	if school.AdminID != nil {
		return nil, ErrAdminAssigned
	}

	user, err := s.users.FindActiveByID(ctx, req.UserID)
	if err != nil {
		return nil, fault.OperationFailed("Admin assignment failed")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.users.SetRole(ctx, req.UserID, domain.RoleSchoolAdmin, &schoolID); err != nil {
		return nil, fault.OperationFailed("Admin assignment failed")
	}
	if err := s.schools.SetAdmin(ctx, schoolID, &req.UserID); err != nil {
		return nil, fault.OperationFailed("Admin assignment failed")
	}

	_ = s.sessions.Delete(ctx, req.UserID)
	s.audit.Emit(req.UserID, actorRef(actor), audit.ActionAdminAssigned,
		fmt.Sprintf("assigned as admin of school %d", schoolID))

	school.AdminID = &req.UserID
	return school, nil
}

// RemoveAdmin clears the school's admin slot and the former admin's
// school binding. The role is kept; the user stays a schoolAdmin
// without a school until reassigned.
func (s *Service) RemoveAdmin(ctx context.Context, actor rbac.Actor, schoolID int64) (*domain.School, error) {
	if !rbac.Can(actor.Role, rbac.OpAssignSchoolAdmin) {
		return nil, fault.ErrUnauthorized
	}

	school, err := s.schools.FindByID(ctx, schoolID)
	if err != nil {
		return nil, fault.OperationFailed("Admin removal failed")
	}
	if school == nil {
		return nil, ErrNotFound
	}
	if school.AdminID == nil {
		return nil, ErrNoAdmin
	}
	adminID := *school.AdminID

	if err := s.users.SetRole(ctx, adminID, domain.RoleSchoolAdmin, nil); err != nil {
		return nil, fault.OperationFailed("Admin removal failed")
	}
	if err := s.schools.SetAdmin(ctx, schoolID, nil); err != nil {
		return nil, fault.OperationFailed("Admin removal failed")
	}

	_ = s.sessions.Delete(ctx, adminID)
	s.audit.Emit(adminID, actorRef(actor), audit.ActionAdminRemoved,
		fmt.Sprintf("removed as admin of school %d", schoolID))

	school.AdminID = nil
	return school, nil
}
