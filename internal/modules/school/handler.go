package school

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"schoolhub/internal/middleware"
	"schoolhub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	schools := r.Group("/schools")
	{
		schools.POST("", h.Create)
		schools.GET("", h.List)
		schools.GET("/:schoolId", h.Get)
		schools.PUT("/:schoolId", h.Update)
		schools.DELETE("/:schoolId", h.Delete)
		schools.GET("/:schoolId/stats", h.Stats)
		schools.POST("/:schoolId/admin", h.AssignAdmin)
		schools.DELETE("/:schoolId/admin", h.RemoveAdmin)
	}
}

func schoolIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("schoolId"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, "Invalid school id")
		return 0, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	school, err := h.service.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, school)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := schoolIDParam(c)
	if !ok {
		return
	}

	school, err := h.service.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, school)
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	schools, total, err := h.service.List(c.Request.Context(), middleware.ActorFrom(c), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{
		"schools": schools,
		"total":   total,
	})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := schoolIDParam(c)
	if !ok {
		return
	}

	var req UpdateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	school, err := h.service.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, school)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := schoolIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "School deleted")
}

func (h *Handler) Stats(c *gin.Context) {
	id, ok := schoolIDParam(c)
	if !ok {
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

func (h *Handler) AssignAdmin(c *gin.Context) {
	id, ok := schoolIDParam(c)
	if !ok {
		return
	}

	var req AssignAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	school, err := h.service.AssignAdmin(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, school)
}

func (h *Handler) RemoveAdmin(c *gin.Context) {
	id, ok := schoolIDParam(c)
	if !ok {
		return
	}

	school, err := h.service.RemoveAdmin(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, school)
}
