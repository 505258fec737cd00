package student

import "schoolhub/internal/pkg/fault"

var (
	ErrNotFound          = fault.New(fault.KindNotFound, "Student not found")
	ErrUserNotFound      = fault.New(fault.KindNotFound, "User not found")
	ErrNotStudentRole    = fault.New(fault.KindValidation, "User does not have the student role")
	ErrAlreadyEnrolled   = fault.New(fault.KindConflict, "User is already enrolled")
	ErrClassroomNotFound = fault.New(fault.KindNotFound, "Classroom not found")
	ErrWrongSchool       = fault.New(fault.KindValidation, "Classroom belongs to a different school")
	ErrClassroomFull     = fault.New(fault.KindConflict, "Classroom is at capacity")
	ErrNotActive         = fault.New(fault.KindValidation, "Student is not active")
	ErrNoProfile         = fault.New(fault.KindNotFound, "Student profile not found")
)
