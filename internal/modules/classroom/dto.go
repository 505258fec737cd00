package classroom

import "schoolhub/internal/domain"

type CreateClassroomRequest struct {
	SchoolID  *int64                     `json:"schoolId"`
	Name      string                     `json:"name" binding:"required,min=1,max=60"`
	Capacity  int                        `json:"capacity" binding:"required,min=1,max=200"`
	Grade     string                     `json:"grade" binding:"required"`
	Teacher   string                     `json:"teacher"`
	Resources *domain.ClassroomResources `json:"resources"`
	Schedule  []domain.ScheduleEntry     `json:"schedule"`
}

type UpdateClassroomRequest struct {
	Name     *string                `json:"name" binding:"omitempty,min=1,max=60"`
	Capacity *int                   `json:"capacity" binding:"omitempty,min=1,max=200"`
	Grade    *string                `json:"grade"`
	Teacher  *string                `json:"teacher"`
	Schedule []domain.ScheduleEntry `json:"schedule"`
	Status   *string                `json:"status" binding:"omitempty,oneof=active inactive maintenance"`
}

type ListQuery struct {
	SchoolID *int64 `form:"schoolId"`
	Grade    string `form:"grade"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}
