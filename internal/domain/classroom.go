package domain

import "time"

type ClassroomStatus string

const (
	ClassroomActive      ClassroomStatus = "active"
	ClassroomInactive    ClassroomStatus = "inactive"
	ClassroomMaintenance ClassroomStatus = "maintenance"
)

// ClassroomResources describes the equipment available in a classroom.
type ClassroomResources struct {
	Computers        int      `json:"computers"`
	Projector        bool     `json:"projector"`
	Whiteboard       bool     `json:"whiteboard"`
	SpecialEquipment []string `json:"specialEquipment,omitempty"`
}

// ScheduleEntry is one slot of a classroom's weekly schedule.
type ScheduleEntry struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Subject   string `json:"subject"`
}

type Classroom struct {
	ID        int64              `json:"id"`
	SchoolID  int64              `json:"schoolId"`
	Name      string             `json:"name"`
	Capacity  int                `json:"capacity"`
	Grade     string             `json:"grade"`
	Teacher   string             `json:"teacher"`
	Resources ClassroomResources `json:"resources"`
	Schedule  []ScheduleEntry    `json:"schedule,omitempty"`
	Status    ClassroomStatus    `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
