package domain

import "time"

type Role string

const (
	RoleSuperadmin  Role = "superadmin"
	RoleSchoolAdmin Role = "schoolAdmin"
	RoleStudent     Role = "student"
)

// SchoolBound reports whether the role must be attached to a school.
func (r Role) SchoolBound() bool {
	return r == RoleSchoolAdmin || r == RoleStudent
}

func (r Role) Valid() bool {
	switch r {
	case RoleSuperadmin, RoleSchoolAdmin, RoleStudent:
		return true
	}
	return false
}

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// User is the authenticated principal. SchoolID is set iff the role is
// school-bound (schoolAdmin, student); superadmins have none.
type User struct {
	ID            int64      `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Role          Role       `json:"role"`
	SchoolID      *int64     `json:"schoolId,omitempty"`
	Status        UserStatus `json:"status"`
	DeactivatedAt *time.Time `json:"deactivatedAt,omitempty"`
	DeactivatedBy string     `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (u *User) IsActive() bool {
	return u.Status == UserActive
}

// Sanitized returns a copy safe to return to clients.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	return &c
}
