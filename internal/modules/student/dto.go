package student

type EnrollRequest struct {
	UserID        int64  `json:"userId" binding:"required"`
	ClassroomID   *int64 `json:"classroomId"`
	Grade         string `json:"grade" binding:"required"`
	FirstName     string `json:"firstName" binding:"required"`
	LastName      string `json:"lastName" binding:"required"`
	GuardianPhone string `json:"guardianPhone"`
}

type UpdateStudentRequest struct {
	Grade         *string `json:"grade"`
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	GuardianPhone *string `json:"guardianPhone"`
}

type TransferRequest struct {
	ClassroomID int64 `json:"classroomId" binding:"required"`
}

type ListQuery struct {
	SchoolID    *int64 `form:"schoolId"`
	ClassroomID *int64 `form:"classroomId"`
	Grade       string `form:"grade"`
	Status      string `form:"status"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}
