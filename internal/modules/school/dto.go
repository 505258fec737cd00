package school

type CreateSchoolRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=120"`
	Address      string `json:"address" binding:"required"`
	ContactEmail string `json:"contactEmail" binding:"required,email"`
	ContactPhone string `json:"contactPhone"`
	Description  string `json:"description"`
	Website      string `json:"website" binding:"omitempty,url"`
}

type UpdateSchoolRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=2,max=120"`
	Address      *string `json:"address"`
	ContactEmail *string `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone *string `json:"contactPhone"`
	Description  *string `json:"description"`
	Website      *string `json:"website" binding:"omitempty,url"`
	Status       *string `json:"status" binding:"omitempty,oneof=active inactive suspended"`
}

type AssignAdminRequest struct {
	UserID int64 `json:"userId" binding:"required"`
}

type ListQuery struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
