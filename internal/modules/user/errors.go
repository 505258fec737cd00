package user

import "schoolhub/internal/pkg/fault"

var (
	ErrNotFound         = fault.New(fault.KindNotFound, "User not found")
	ErrUsernameTaken    = fault.New(fault.KindConflict, "Username already exists")
	ErrEmailTaken       = fault.New(fault.KindConflict, "Email already exists")
	ErrSchoolNotFound   = fault.New(fault.KindNotFound, "School not found")
	ErrSchoolRequired   = fault.New(fault.KindValidation, "schoolId is required for this role")
	ErrPasswordMismatch = fault.New(fault.KindInvalidCredentials, "Current password is incorrect")
	ErrPasswordReuse    = fault.New(fault.KindValidation, "New password must differ from the current password")
	ErrSelfDeactivation = fault.New(fault.KindValidation, "Cannot deactivate your own account")
	ErrInvalidStatus    = fault.New(fault.KindValidation, "Invalid status")
)
