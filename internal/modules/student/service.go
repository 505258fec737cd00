package student

import (
	"context"
	"time"

	"schoolhub/internal/domain"
	"schoolhub/internal/pkg/fault"
	"schoolhub/internal/rbac"
	"schoolhub/internal/repository"
)

type Service struct {
	students   StudentRepository
	classrooms ClassroomRepository
	users      UserRepository
}

func NewService(students StudentRepository, classrooms ClassroomRepository, users UserRepository) *Service {
	return &Service{students: students, classrooms: classrooms, users: users}
}

func (s *Service) scoped(ctx context.Context, actor rbac.Actor, id int64) (*domain.Student, error) {
	st, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, fault.OperationFailed("Student lookup failed")
	}
	if st == nil {
		return nil, ErrNotFound
	}
	if actor.Role != domain.RoleSuperadmin {
		if actor.SchoolID == nil || *actor.SchoolID != st.SchoolID {
			return nil, ErrNotFound
		}
	}
	return st, nil
}

// checkClassroom verifies the target room belongs to the school and has
// a free seat. The count covers active students only, so graduated and
// transferred students do not hold seats.
func (s *Service) checkClassroom(ctx context.Context, schoolID, classroomID int64) (*domain.Classroom, error) {
	room, err := s.classrooms.FindByID(ctx, classroomID)
	if err != nil {
		return nil, fault.OperationFailed("Classroom lookup failed")
	}
	if room == nil {
		return nil, ErrClassroomNotFound
	}
	if room.SchoolID != schoolID {
		return nil, ErrWrongSchool
	}

	occupied, err := s.students.CountByClassroom(ctx, classroomID)
	if err != nil {
		return nil, fault.OperationFailed("Classroom lookup failed")
	}
	if occupied >= int64(room.Capacity) {
		return nil, ErrClassroomFull
	}
	return room, nil
}

// Enroll turns an existing student-role user into an enrolled student
// of the admin's school.
func (s *Service) Enroll(ctx context.Context, actor rbac.Actor, req EnrollRequest) (*domain.Student, error) {
	if !rbac.Can(actor.Role, rbac.OpEnrollStudent) {
		return nil, fault.ErrUnauthorized
	}
	if actor.SchoolID == nil {
		return nil, fault.ErrSchoolAccess
	}
	schoolID := *actor.SchoolID

	user, err := s.users.FindActiveByID(ctx, req.UserID)
	if err != nil {
		return nil, fault.OperationFailed("Enrollment failed")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Role != domain.RoleStudent || user.SchoolID == nil || *user.SchoolID != schoolID {
		return nil, ErrNotStudentRole
	}

	existing, err := s.students.FindByUserID(ctx, req.UserID)
	if err != nil {
		return nil, fault.OperationFailed("Enrollment failed")
	}
	if existing != nil {
		return nil, ErrAlreadyEnrolled
	}

	if req.ClassroomID != nil {
		if _, err := s.checkClassroom(ctx, schoolID, *req.ClassroomID); err != nil {
			return nil, err
		}
	}

	st := &domain.Student{
		UserID:         req.UserID,
		SchoolID:       schoolID,
		ClassroomID:    req.ClassroomID,
		Grade:          req.Grade,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		GuardianPhone:  req.GuardianPhone,
		Status:         domain.StudentActive,
		EnrollmentDate: time.Now(),
	}
	if err := s.students.Create(ctx, st); err != nil {
		return nil, fault.OperationFailed("Enrollment failed")
	}
	return st, nil
}

func (s *Service) Get(ctx context.Context, actor rbac.Actor, id int64) (*domain.Student, error) {
	if !rbac.Can(actor.Role, rbac.OpViewStudents) {
		return nil, fault.ErrUnauthorized
	}
	return s.scoped(ctx, actor, id)
}

func (s *Service) List(ctx context.Context, actor rbac.Actor, q ListQuery) ([]domain.Student, int64, error) {
	if !rbac.Can(actor.Role, rbac.OpViewStudents) {
		return nil, 0, fault.ErrUnauthorized
	}

	query := repository.StudentQuery{
		SchoolID:    q.SchoolID,
		ClassroomID: q.ClassroomID,
		Grade:       q.Grade,
		Status:      domain.StudentStatus(q.Status),
		Page:        q.Page,
		Limit:       q.Limit,
	}
	if actor.Role == domain.RoleSchoolAdmin {
		query.SchoolID = actor.SchoolID
	}

	students, total, err := s.students.List(ctx, query)
	if err != nil {
		return nil, 0, fault.OperationFailed("Student listing failed")
	}
	return students, total, nil
}

func (s *Service) Update(ctx context.Context, actor rbac.Actor, id int64, req UpdateStudentRequest) (*domain.Student, error) {
	if !rbac.Can(actor.Role, rbac.OpUpdateStudent) {
		return nil, fault.ErrUnauthorized
	}

	st, err := s.scoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Grade != nil {
		st.Grade = *req.Grade
	}
	if req.FirstName != nil {
		st.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		st.LastName = *req.LastName
	}
	if req.GuardianPhone != nil {
		st.GuardianPhone = *req.GuardianPhone
	}

	if err := s.students.Update(ctx, st); err != nil {
		return nil, fault.OperationFailed("Student update failed")
	}
	return st, nil
}

// Transfer moves an active student to another classroom of the same
// school, subject to capacity.
func (s *Service) Transfer(ctx context.Context, actor rbac.Actor, id int64, req TransferRequest) (*domain.Student, error) {
	if !rbac.Can(actor.Role, rbac.OpTransferStudent) {
		return nil, fault.ErrUnauthorized
	}

	st, err := s.scoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if st.Status != domain.StudentActive {
		return nil, ErrNotActive
	}
	if st.ClassroomID != nil && *st.ClassroomID == req.ClassroomID {
		return st, nil
	}

	if _, err := s.checkClassroom(ctx, st.SchoolID, req.ClassroomID); err != nil {
		return nil, err
	}

	st.ClassroomID = &req.ClassroomID
	if err := s.students.Update(ctx, st); err != nil {
		return nil, fault.OperationFailed("Student transfer failed")
	}
	return st, nil
}

// Graduate marks the student graduated. The classroom reference is kept
// for history; graduated students no longer count against capacity.
func (s *Service) Graduate(ctx context.Context, actor rbac.Actor, id int64) (*domain.Student, error) {
	if !rbac.Can(actor.Role, rbac.OpGraduateStudent) {
		return nil, fault.ErrUnauthorized
	}

	st, err := s.scoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if st.Status != domain.StudentActive {
		return nil, ErrNotActive
	}

	now := time.Now()
	st.Status = domain.StudentGraduated
	st.GraduatedAt = &now

	if err := s.students.Update(ctx, st); err != nil {
		return nil, fault.OperationFailed("Student graduation failed")
	}
	return st, nil
}

// Profile returns the caller's own student record.
func (s *Service) Profile(ctx context.Context, actor rbac.Actor) (*domain.Student, error) {
	if actor.Role != domain.RoleStudent {
		return nil, fault.ErrUnauthorized
	}

	st, err := s.students.FindByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, fault.OperationFailed("Profile lookup failed")
	}
	if st == nil {
		return nil, ErrNoProfile
	}
	return st, nil
}
