package user

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"schoolhub/internal/domain"
	"schoolhub/internal/pkg/audit"
	"schoolhub/internal/pkg/fault"
	"schoolhub/internal/rbac"
	"schoolhub/internal/repository"
	"schoolhub/internal/session"
)

// Service implements user administration. Mutations that affect what a
// live session is allowed to do (password, role, status, school
// binding) delete the session cache record so the user's refresh token
// stops working immediately, and emit an audit event.
type Service struct {
	users    UserRepository
	schools  SchoolRepository
	sessions session.Store
	audit    auditor
}

func NewService(users UserRepository, schools SchoolRepository, sessions session.Store, audit auditor) *Service {
	return &Service{users: users, schools: schools, sessions: sessions, audit: audit}
}

func actorRef(actor rbac.Actor) string {
	return fmt.Sprintf("user:%d", actor.UserID)
}

// visible applies the read-scoping rules: superadmins see everyone,
// schoolAdmins see themselves and users bound to their school,
// students see only themselves.
func visible(actor rbac.Actor, u *domain.User) bool {
	if actor.UserID == u.ID {
		return true
	}
	switch actor.Role {
	case domain.RoleSuperadmin:
		return true
	case domain.RoleSchoolAdmin:
		return actor.SchoolID != nil && u.SchoolID != nil && *actor.SchoolID == *u.SchoolID
	default:
		return false
	}
}

func (s *Service) Create(ctx context.Context, actor rbac.Actor, req CreateUserRequest) (*domain.User, error) {
	role := domain.Role(req.Role)
	if !role.Valid() {
		return nil, fault.ErrInvalidRole
	}
	if !rbac.CanCreateRole(actor.Role, role) {
		return nil, fault.ErrUnauthorized
	}

	schoolID := req.SchoolID
	if actor.Role == domain.RoleSchoolAdmin {
		// schoolAdmins only ever create students in their own school.
		schoolID = actor.SchoolID
	}
	if role.SchoolBound() {
		if schoolID == nil {
			return nil, ErrSchoolRequired
		}
		school, err := s.schools.FindActiveByID(ctx, *schoolID)
		if err != nil {
			return nil, fault.OperationFailed("User creation failed")
		}
		if school == nil {
			return nil, ErrSchoolNotFound
		}
	} else {
		schoolID = nil
	}

	taken, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fault.OperationFailed("User creation failed")
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fault.OperationFailed("User creation failed")
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fault.OperationFailed("User creation failed")
	}

	u := &domain.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(strings.ToLower(req.Email)),
		PasswordHash: string(hash),
		Role:         role,
		SchoolID:     schoolID,
		Status:       domain.UserActive,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fault.OperationFailed("User creation failed")
	}
	return u.Sanitized(), nil
}

func (s *Service) Get(ctx context.Context, actor rbac.Actor, id int64) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fault.OperationFailed("User lookup failed")
	}
	// Out-of-scope users are reported as absent, not forbidden.
	if u == nil || !visible(actor, u) {
		return nil, ErrNotFound
	}
	return u.Sanitized(), nil
}

func (s *Service) List(ctx context.Context, actor rbac.Actor, q ListQuery) ([]domain.User, int64, error) {
	if !rbac.Can(actor.Role, rbac.OpViewUsers) {
		return nil, 0, fault.ErrUnauthorized
	}

	query := repository.UserQuery{
		SchoolID: q.SchoolID,
		Status:   domain.UserStatus(q.Status),
		Page:     q.Page,
		Limit:    q.Limit,
	}
	if q.Role != "" {
		role := domain.Role(q.Role)
		query.Role = &role
	}
	if actor.Role == domain.RoleSchoolAdmin {
		// Pinned to the admin's school and to students regardless of
		// what the query asked for.
		query.SchoolID = actor.SchoolID
		role := domain.RoleStudent
		query.Role = &role
	}

	users, total, err := s.users.List(ctx, query)
	if err != nil {
		return nil, 0, fault.OperationFailed("User listing failed")
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, total, nil
}

func (s *Service) Update(ctx context.Context, actor rbac.Actor, id int64, req UpdateUserRequest) (*domain.User, error) {
	if !rbac.Can(actor.Role, rbac.OpUpdateUser) {
		return nil, fault.ErrUnauthorized
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fault.OperationFailed("User update failed")
	}
	if u == nil || !visible(actor, u) {
		return nil, ErrNotFound
	}

	if req.Username != nil && *req.Username != u.Username {
		taken, err := s.users.ExistsByUsername(ctx, *req.Username)
		if err != nil {
			return nil, fault.OperationFailed("User update failed")
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		u.Username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil && !strings.EqualFold(*req.Email, u.Email) {
		taken, err := s.users.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fault.OperationFailed("User update failed")
		}
		if taken {
			return nil, ErrEmailTaken
		}
		u.Email = strings.TrimSpace(strings.ToLower(*req.Email))
	}

	deactivated := false
	if req.Status != nil {
		status := domain.UserStatus(*req.Status)
		if status != domain.UserActive && status != domain.UserInactive {
			return nil, ErrInvalidStatus
		}
		deactivated = status == domain.UserInactive && u.Status == domain.UserActive
		u.Status = status
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, fault.OperationFailed("User update failed")
	}

	if deactivated {
		_ = s.sessions.Delete(ctx, u.ID)
		s.audit.Emit(u.ID, actorRef(actor), audit.ActionUserDeactivation, "status set to inactive")
	}
	return u.Sanitized(), nil
}

// ChangePassword is strictly self-service: the caller proves knowledge
// of the current password and must pick a different one. The session
// record is deleted afterwards so every device has to log in again.
func (s *Service) ChangePassword(ctx context.Context, actor rbac.Actor, id int64, req ChangePasswordRequest) error {
	if actor.UserID != id {
		return fault.ErrUnauthorized
	}

	u, err := s.users.FindActiveByID(ctx, id)
	if err != nil {
		return fault.OperationFailed("Password change failed")
	}
	if u == nil {
		return fault.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrPasswordMismatch
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.NewPassword)) == nil {
		return ErrPasswordReuse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fault.OperationFailed("Password change failed")
	}
	if err := s.users.UpdatePassword(ctx, id, string(hash)); err != nil {
		return fault.OperationFailed("Password change failed")
	}

	_ = s.sessions.Delete(ctx, id)
	s.audit.Emit(id, actorRef(actor), audit.ActionPasswordChange, "password changed by owner")
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, actor rbac.Actor, id int64, req ResetPasswordRequest) error {
	if !rbac.Can(actor.Role, rbac.OpResetPassword) {
		return fault.ErrUnauthorized
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return fault.OperationFailed("Password reset failed")
	}
	if u == nil || !visible(actor, u) {
		return ErrNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fault.OperationFailed("Password reset failed")
	}
	if err := s.users.UpdatePassword(ctx, id, string(hash)); err != nil {
		return fault.OperationFailed("Password reset failed")
	}

	_ = s.sessions.Delete(ctx, id)
	s.audit.Emit(id, actorRef(actor), audit.ActionPasswordReset, "password reset by administrator")
	return nil
}

func (s *Service) AssignRole(ctx context.Context, actor rbac.Actor, id int64, req AssignRoleRequest) (*domain.User, error) {
	if !rbac.Can(actor.Role, rbac.OpAssignRole) {
		return nil, fault.ErrUnauthorized
	}

	role := domain.Role(req.Role)
	if !role.Valid() || role == domain.RoleSuperadmin {
		return nil, fault.ErrInvalidRole
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fault.OperationFailed("Role assignment failed")
	}
	if u == nil {
		return nil, ErrNotFound
	}

	schoolID := req.SchoolID
	if role.SchoolBound() {
		if schoolID == nil {
			return nil, ErrSchoolRequired
		}
		school, err := s.schools.FindActiveByID(ctx, *schoolID)
		if err != nil {
			return nil, fault.OperationFailed("Role assignment failed")
		}
		if school == nil {
			return nil, ErrSchoolNotFound
		}
	} else {
		schoolID = nil
	}

	if err := s.users.SetRole(ctx, id, role, schoolID); err != nil {
		return nil, fault.OperationFailed("Role assignment failed")
	}

	// A live session would keep authorizing under the old role until
	// its access token expires; dropping the record at least caps the
	// exposure at the access-token lifetime.
	_ = s.sessions.Delete(ctx, id)
	s.audit.Emit(id, actorRef(actor), audit.ActionRoleChange,
		fmt.Sprintf("role %s -> %s", u.Role, role))

	u.Role = role
	u.SchoolID = schoolID
	return u.Sanitized(), nil
}

func (s *Service) Deactivate(ctx context.Context, actor rbac.Actor, id int64) error {
	if !rbac.Can(actor.Role, rbac.OpDeactivateUser) {
		return fault.ErrUnauthorized
	}
	if actor.UserID == id {
		return ErrSelfDeactivation
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return fault.OperationFailed("User deactivation failed")
	}
	if u == nil || !visible(actor, u) {
		return ErrNotFound
	}

	if err := s.users.Deactivate(ctx, id, actorRef(actor)); err != nil {
		return fault.OperationFailed("User deactivation failed")
	}

	_ = s.sessions.Delete(ctx, id)
	s.audit.Emit(id, actorRef(actor), audit.ActionUserDeactivation, "account deactivated")
	return nil
}
