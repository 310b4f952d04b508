package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gab-cat/qpi-calculator-sub000/internal/dto"
	"github.com/gab-cat/qpi-calculator-sub000/internal/qpi"
	"github.com/gab-cat/qpi-calculator-sub000/internal/service"
	"github.com/gab-cat/qpi-calculator-sub000/pkg/response"
)

// GradeHandler serves the grade endpoints.
type GradeHandler struct {
	svc    service.RecordService
	logger *zap.Logger
}

// Add appends a course to a semester.
func (h *GradeHandler) Add(c *gin.Context) {
	var req dto.AddGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, err.Error())
		return
	}

	grade, err := h.svc.AddGrade(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, "add grade", err)
		return
	}
	response.Created(c, grade)
}

// Update patches a grade record.
func (h *GradeHandler) Update(c *gin.Context) {
	var req dto.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, err.Error())
		return
	}

	grade, err := h.svc.UpdateGrade(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, "update grade", err)
		return
	}
	response.OK(c, grade)
}

// UpdateScore enters, replaces or clears the grade on a course.
func (h *GradeHandler) UpdateScore(c *gin.Context) {
	var req dto.UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, err.Error())
		return
	}

	grade, err := h.svc.UpdateScore(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, "update score", err)
		return
	}
	response.OK(c, grade)
}

// Remove deletes a grade record.
func (h *GradeHandler) Remove(c *gin.Context) {
	if err := h.svc.RemoveGrade(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, "remove grade", err)
		return
	}
	response.OK(c, nil)
}

func (h *GradeHandler) handleError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrGradeNotFound):
		response.NotFound(c, 40420, "grade not found")
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 40410, "semester not found")
	case errors.Is(err, service.ErrScoreConflict):
		response.BadRequest(c, 40020, "set exactly one of numerical_grade, letter_grade or clear")
	case errors.Is(err, service.ErrInvalidLetter):
		response.BadRequest(c, 40021, "the only letter-only grade is INC")
	case errors.Is(err, qpi.ErrInvalidGrade):
		response.BadRequest(c, 40022, "numerical grade must be between 0 and 100")
	case handleStorageError(c, err):
	default:
		fallthroughError(c, h.logger, op, err)
	}
}
