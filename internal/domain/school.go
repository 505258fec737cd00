package domain

import "time"

type SchoolStatus string

const (
	SchoolActive    SchoolStatus = "active"
	SchoolInactive  SchoolStatus = "inactive"
	SchoolSuspended SchoolStatus = "suspended"
)

type School struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Address      string       `json:"address"`
	ContactEmail string       `json:"contactEmail"`
	ContactPhone string       `json:"contactPhone"`
	AdminID      *int64       `json:"adminId,omitempty"`
	Status       SchoolStatus `json:"status"`
	Description  string       `json:"description,omitempty"`
	Website      string       `json:"website,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// SchoolStats aggregates per-school counters for the stats endpoint.
type SchoolStats struct {
	TotalStudents   int64 `json:"totalStudents"`
	ActiveStudents  int64 `json:"activeStudents"`
	TotalClassrooms int64 `json:"totalClassrooms"`
}
