// Package handler contains the HTTP handlers. Handlers bind and
// validate the request, call one service method and translate sentinel
// errors into the response envelope; no business logic lives here.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gab-cat/qpi-calculator-sub000/internal/service"
	pkgerrors "github.com/gab-cat/qpi-calculator-sub000/pkg/errors"
	"github.com/gab-cat/qpi-calculator-sub000/pkg/response"
)

// Handler aggregates every HTTP handler group.
type Handler struct {
	Record   *RecordHandler
	Semester *SemesterHandler
	Grade    *GradeHandler
	Transfer *TransferHandler
	Catalog  *CatalogHandler
}

// NewHandler wires the handler groups against the service layer.
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Record:   &RecordHandler{svc: svc.Record, logger: logger},
		Semester: &SemesterHandler{svc: svc.Record, logger: logger},
		Grade:    &GradeHandler{svc: svc.Record, logger: logger},
		Transfer: &TransferHandler{
			importSvc:   svc.Import,
			exportSvc:   svc.Export,
			snapshotSvc: svc.Snapshot,
			logger:      logger,
		},
		Catalog: &CatalogHandler{svc: svc.Catalog, logger: logger},
	}
}

// handleStorageError covers the failure mode every mutating endpoint
// shares. Returns false when the error was not one of them.
func handleStorageError(c *gin.Context, err error) bool {
	if errors.Is(err, pkgerrors.ErrStorageQuotaExceeded) {
		response.Error(c, http.StatusInsufficientStorage, 50700, "storage quota exceeded, nothing was saved")
		return true
	}
	return false
}

// fallthroughError logs an unclassified failure and answers 500.
func fallthroughError(c *gin.Context, logger *zap.Logger, op string, err error) {
	logger.Error(op, zap.Error(err))
	response.InternalError(c)
}
