package classroom

import "schoolhub/internal/pkg/fault"

var (
	ErrNotFound       = fault.New(fault.KindNotFound, "Classroom not found")
	ErrDuplicate      = fault.New(fault.KindConflict, "Classroom with this name and grade already exists")
	ErrNotEmpty       = fault.New(fault.KindConflict, "Classroom has assigned students and cannot be deleted")
	ErrSchoolNotFound = fault.New(fault.KindNotFound, "School not found")
)
