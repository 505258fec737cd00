package classroom

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"schoolhub/internal/domain"
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
	classrooms := r.Group("/classrooms")
	{
		classrooms.POST("", h.Create)
		classrooms.GET("", h.List)
		classrooms.GET("/:classroomId", h.Get)
		classrooms.PUT("/:classroomId", h.Update)
		classrooms.DELETE("/:classroomId", h.Delete)
		classrooms.PUT("/:classroomId/resources", h.UpdateResources)
		classrooms.GET("/:classroomId/schedule", h.Schedule)
	}
}

func classroomIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("classroomId"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, "Invalid classroom id")
		return 0, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	room, err := h.service.Create(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := classroomIDParam(c)
	if !ok {
		return
	}

	room, err := h.service.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, room)
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	rooms, total, err := h.service.List(c.Request.Context(), middleware.ActorFrom(c), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{
		"classrooms": rooms,
		"total":      total,
	})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := classroomIDParam(c)
	if !ok {
		return
	}

	var req UpdateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	room, err := h.service.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, room)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := classroomIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Classroom deleted")
}

func (h *Handler) UpdateResources(c *gin.Context) {
	id, ok := classroomIDParam(c)
	if !ok {
		return
	}

	var res domain.ClassroomResources
	if err := c.ShouldBindJSON(&res); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	room, err := h.service.UpdateResources(c.Request.Context(), middleware.ActorFrom(c), id, res)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, room)
}

func (h *Handler) Schedule(c *gin.Context) {
	id, ok := classroomIDParam(c)
	if !ok {
		return
	}

	schedule, err := h.service.Schedule(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"schedule": schedule})
}
