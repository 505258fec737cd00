package school

import "schoolhub/internal/pkg/fault"

var (
	ErrNotFound      = fault.New(fault.KindNotFound, "School not found")
	ErrNotEmpty      = fault.New(fault.KindConflict, "School has classrooms or students and cannot be deleted")
	ErrUserNotFound  = fault.New(fault.KindNotFound, "User not found")
	ErrNoAdmin       = fault.New(fault.KindNotFound, "School has no assigned admin")
	ErrAdminAssigned = fault.New(fault.KindConflict, "School already has an assigned admin")
)
