package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gab-cat/qpi-calculator-sub000/internal/dto"
	"github.com/gab-cat/qpi-calculator-sub000/internal/service"
	"github.com/gab-cat/qpi-calculator-sub000/pkg/response"
)

// SemesterHandler serves the semester endpoints.
type SemesterHandler struct {
	svc    service.RecordService
	logger *zap.Logger
}

// List returns every semester in display order.
func (h *SemesterHandler) List(c *gin.Context) {
	semesters, err := h.svc.ListSemesters(c.Request.Context())
	if err != nil {
		h.handleError(c, "list semesters", err)
		return
	}
	response.OK(c, semesters)
}

// Create adds a new semester.
func (h *SemesterHandler) Create(c *gin.Context) {
	var req dto.CreateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, err.Error())
		return
	}

	semester, err := h.svc.CreateSemester(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, "create semester", err)
		return
	}
	response.Created(c, semester)
}

// Get returns one semester with its grades.
func (h *SemesterHandler) Get(c *gin.Context) {
	semester, err := h.svc.GetSemester(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, "get semester", err)
		return
	}
	response.OK(c, semester)
}

// Update patches a semester.
func (h *SemesterHandler) Update(c *gin.Context) {
	var req dto.UpdateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, err.Error())
		return
	}

	semester, err := h.svc.UpdateSemester(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, "update semester", err)
		return
	}
	response.OK(c, semester)
}

// Complete toggles the completed flag.
func (h *SemesterHandler) Complete(c *gin.Context) {
	var req dto.CompleteSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, err.Error())
		return
	}

	semester, err := h.svc.CompleteSemester(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, "complete semester", err)
		return
	}
	response.OK(c, semester)
}

// Delete removes a semester and its grades.
func (h *SemesterHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteSemester(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, "delete semester", err)
		return
	}
	response.OK(c, nil)
}

// ReorderGrades sets the display order of the semester's grades.
func (h *SemesterHandler) ReorderGrades(c *gin.Context) {
	var req dto.ReorderGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, err.Error())
		return
	}

	semester, err := h.svc.ReorderGrades(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, "reorder grades", err)
		return
	}
	response.OK(c, semester)
}

func (h *SemesterHandler) handleError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 40410, "semester not found")
	case errors.Is(err, service.ErrSemesterExists):
		response.Conflict(c, 40910, "a semester for that academic year and term already exists")
	case errors.Is(err, service.ErrInvalidAcademicYear):
		response.BadRequest(c, 40010, "academic year must be YYYY or a consecutive YYYY-YYYY range")
	case errors.Is(err, service.ErrInvalidSemesterType):
		response.BadRequest(c, 40011, "semester must be first, second or summer")
	case errors.Is(err, service.ErrReorderMismatch):
		response.BadRequest(c, 40012, "grade_ids must list every grade in the semester exactly once")
	case handleStorageError(c, err):
	default:
		fallthroughError(c, h.logger, op, err)
	}
}
