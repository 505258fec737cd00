package student

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
	students := r.Group("/students")
	{
		students.POST("", h.Enroll)
		students.GET("", h.List)
		// gin's router cannot register /profile next to /:studentId,
		// so Get dispatches the literal "profile" segment itself.
		students.GET("/:studentId", h.Get)
		students.PUT("/:studentId", h.Update)
		students.POST("/:studentId/transfer", h.Transfer)
		students.POST("/:studentId/graduate", h.Graduate)
	}
}

func studentIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("studentId"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, "Invalid student id")
		return 0, false
	}
	return id, true
}

func (h *Handler) Enroll(c *gin.Context) {
	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := h.service.Enroll(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, st)
}

func (h *Handler) Get(c *gin.Context) {
	if c.Param("studentId") == "profile" {
		h.Profile(c)
		return
	}

	id, ok := studentIDParam(c)
	if !ok {
		return
	}

	st, err := h.service.Get(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, st)
}

func (h *Handler) Profile(c *gin.Context) {
	st, err := h.service.Profile(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, st)
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	students, total, err := h.service.List(c.Request.Context(), middleware.ActorFrom(c), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{
		"students": students,
		"total":    total,
	})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := studentIDParam(c)
	if !ok {
		return
	}

	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := h.service.Update(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, st)
}

func (h *Handler) Transfer(c *gin.Context) {
	id, ok := studentIDParam(c)
	if !ok {
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	st, err := h.service.Transfer(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, st)
}

func (h *Handler) Graduate(c *gin.Context) {
	id, ok := studentIDParam(c)
	if !ok {
		return
	}

	st, err := h.service.Graduate(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, st)
}
