package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gab-cat/qpi-calculator-sub000/internal/catalog"
	"github.com/gab-cat/qpi-calculator-sub000/internal/dto"
	"github.com/gab-cat/qpi-calculator-sub000/internal/service"
	"github.com/gab-cat/qpi-calculator-sub000/pkg/response"
)

const defaultCourseLimit = 20

// CatalogHandler proxies the remote course/template catalog.
type CatalogHandler struct {
	svc    service.CatalogService
	logger *zap.Logger
}

// ListCourses searches the catalog.
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultCourseLimit)))
	if err != nil || limit < 1 || limit > 100 {
		response.BadRequest(c, 40000, "limit must be an integer between 1 and 100")
		return
	}

	list, err := h.svc.SearchCourses(c.Request.Context(), c.Query("search"), c.Query("cursor"), limit)
	if err != nil {
		h.handleError(c, "list courses", err)
		return
	}
	response.OK(c, list)
}

// GetCourse looks one course up by code.
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	course, err := h.svc.LookupCourse(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleError(c, "get course", err)
		return
	}
	response.OK(c, course)
}

// CreateCourse registers a course in the catalog.
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, err.Error())
		return
	}

	course, err := h.svc.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, "create course", err)
		return
	}
	response.Created(c, course)
}

// CreateTemplate registers a reusable course plan.
func (h *CatalogHandler) CreateTemplate(c *gin.Context) {
	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, err.Error())
		return
	}

	tpl, err := h.svc.CreateTemplate(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, "create template", err)
		return
	}
	response.Created(c, tpl)
}

// PublishTemplate builds a template from the current academic record.
func (h *CatalogHandler) PublishTemplate(c *gin.Context) {
	var req dto.PublishTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, err.Error())
		return
	}

	tpl, err := h.svc.CreateTemplateFromRecord(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		h.handleError(c, "publish template", err)
		return
	}
	response.Created(c, tpl)
}

// ApplyTemplate copies a template into the academic record.
func (h *CatalogHandler) ApplyTemplate(c *gin.Context) {
	var req dto.ApplyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, err.Error())
		return
	}

	result, err := h.svc.ApplyTemplate(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleError(c, "apply template", err)
		return
	}
	response.OK(c, result)
}

func (h *CatalogHandler) handleError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, catalog.ErrCourseNotFound):
		response.NotFound(c, 40430, "course not found")
	case errors.Is(err, catalog.ErrTemplateNotFound):
		response.NotFound(c, 40431, "template not found")
	case errors.Is(err, catalog.ErrDuplicateCourseCode):
		response.Conflict(c, 40930, "course code already exists")
	case errors.Is(err, catalog.ErrDuplicateTemplateName):
		response.Conflict(c, 40931, "template name already exists")
	case errors.Is(err, catalog.ErrInvalidCourseCode),
		errors.Is(err, catalog.ErrInvalidTitle),
		errors.Is(err, catalog.ErrInvalidUnits),
		errors.Is(err, catalog.ErrInvalidTemplateName),
		errors.Is(err, catalog.ErrEmptyTemplate),
		errors.Is(err, catalog.ErrInvalidSemesterStructure):
		response.Error(c, http.StatusUnprocessableEntity, 42230, err.Error())
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		response.Error(c, http.StatusBadGateway, 50230, "catalog service unavailable")
	case handleStorageError(c, err):
	default:
		fallthroughError(c, h.logger, op, err)
	}
}
