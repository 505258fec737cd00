package domain

import "time"

type StudentStatus string

const (
	StudentActive      StudentStatus = "active"
	StudentInactive    StudentStatus = "inactive"
	StudentGraduated   StudentStatus = "graduated"
	StudentTransferred StudentStatus = "transferred"
)

type Student struct {
	ID             int64         `json:"id"`
	UserID         int64         `json:"userId"`
	SchoolID       int64         `json:"schoolId"`
	ClassroomID    *int64        `json:"classroomId,omitempty"`
	Grade          string        `json:"grade"`
	FirstName      string        `json:"firstName"`
	LastName       string        `json:"lastName"`
	GuardianPhone  string        `json:"guardianPhone,omitempty"`
	Status         StudentStatus `json:"status"`
	EnrollmentDate time.Time     `json:"enrollmentDate"`
	GraduatedAt    *time.Time    `json:"graduatedAt,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}
