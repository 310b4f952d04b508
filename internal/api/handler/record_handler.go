package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gab-cat/qpi-calculator-sub000/internal/dto"
	"github.com/gab-cat/qpi-calculator-sub000/internal/service"
	"github.com/gab-cat/qpi-calculator-sub000/pkg/response"
)

// RecordHandler serves the academic record endpoints.
type RecordHandler struct {
	svc    service.RecordService
	logger *zap.Logger
}

// Get returns the full record with its semester tree. The record is
// created on first access.
func (h *RecordHandler) Get(c *gin.Context) {
	record, err := h.svc.GetRecord(c.Request.Context())
	if err != nil {
		h.handleError(c, "get record", err)
		return
	}
	response.OK(c, record)
}

// UpdateConfiguration changes the program shape.
func (h *RecordHandler) UpdateConfiguration(c *gin.Context) {
	var req dto.UpdateConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40000, err.Error())
		return
	}

	record, err := h.svc.UpdateConfiguration(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, "update configuration", err)
		return
	}
	response.OK(c, record)
}

// Recalculate forces a full recomputation of every derived field.
func (h *RecordHandler) Recalculate(c *gin.Context) {
	record, err := h.svc.Recalculate(c.Request.Context())
	if err != nil {
		h.handleError(c, "recalculate", err)
		return
	}
	response.OK(c, record)
}

func (h *RecordHandler) handleError(c *gin.Context, op string, err error) {
	if handleStorageError(c, err) {
		return
	}
	fallthroughError(c, h.logger, op, err)
}
