package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gab-cat/qpi-calculator-sub000/internal/dto"
	"github.com/gab-cat/qpi-calculator-sub000/internal/service"
	pkgerrors "github.com/gab-cat/qpi-calculator-sub000/pkg/errors"
	"github.com/gab-cat/qpi-calculator-sub000/pkg/response"
)

// TransferHandler serves the bulk import/export and snapshot endpoints.
type TransferHandler struct {
	importSvc   service.ImportService
	exportSvc   service.ExportService
	snapshotSvc service.SnapshotService
	logger      *zap.Logger
}

// ImportCSV ingests a CSV upload and commits the valid rows.
func (h *TransferHandler) ImportCSV(c *gin.Context) {
	h.runCSVImport(c, false)
}

// ValidateCSV runs the import pipeline without committing anything and
// returns the full validation report.
func (h *TransferHandler) ValidateCSV(c *gin.Context) {
	h.runCSVImport(c, true)
}

func (h *TransferHandler) runCSVImport(c *gin.Context, dryRun bool) {
	opts, ok := h.bindImportOptions(c)
	if !ok {
		return
	}
	body, ok := h.uploadReader(c)
	if !ok {
		return
	}
	defer body.Close()

	report, err := h.importSvc.ImportCSV(c.Request.Context(), body, opts, dryRun)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	response.OK(c, report)
}

// ImportXLSX ingests the first sheet of an XLSX upload.
func (h *TransferHandler) ImportXLSX(c *gin.Context) {
	opts, ok := h.bindImportOptions(c)
	if !ok {
		return
	}
	body, ok := h.uploadReader(c)
	if !ok {
		return
	}
	defer body.Close()

	report, err := h.importSvc.ImportXLSX(c.Request.Context(), body, opts, false)
	if err != nil {
		h.handleImportError(c, err)
		return
	}
	response.OK(c, report)
}

// ImportTemplate serves the downloadable sample CSV.
func (h *TransferHandler) ImportTemplate(c *gin.Context) {
	buf, name := h.exportSvc.TemplateCSV()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportCSV streams the record as CSV.
func (h *TransferHandler) ExportCSV(c *gin.Context) {
	params := service.ExportParams{
		Profile:        service.ExportProfile(c.Query("profile")),
		Layout:         service.ExportLayout(c.Query("layout")),
		IncludeSummary: c.Query("summary") == "true",
	}

	buf, name, err := h.exportSvc.ExportCSV(c.Request.Context(), params)
	if err != nil {
		fallthroughError(c, h.logger, "export csv", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportXLSX streams the record as a styled workbook.
func (h *TransferHandler) ExportXLSX(c *gin.Context) {
	buf, name, err := h.exportSvc.ExportXLSX(c.Request.Context())
	if err != nil {
		fallthroughError(c, h.logger, "export xlsx", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportSnapshot streams the whole-state backup.
func (h *TransferHandler) ExportSnapshot(c *gin.Context) {
	snap, err := h.snapshotSvc.ExportAll(c.Request.Context())
	if err != nil {
		fallthroughError(c, h.logger, "export snapshot", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="academic-record-snapshot.json"`)
	c.JSON(http.StatusOK, snap)
}

// ImportSnapshot restores a whole-state backup.
func (h *TransferHandler) ImportSnapshot(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	if err := h.snapshotSvc.ImportAll(c.Request.Context(), raw); err != nil {
		h.handleImportError(c, err)
		return
	}
	response.OK(c, nil)
}

// bindImportOptions reads the fallback placement from query or form
// fields.
func (h *TransferHandler) bindImportOptions(c *gin.Context) (*dto.ImportOptionsRequest, bool) {
	var opts dto.ImportOptionsRequest
	if err := c.ShouldBindQuery(&opts); err != nil {
		response.BadRequest(c, 40000, err.Error())
		return nil, false
	}
	return &opts, true
}

// uploadReader hands back the uploaded file: the "file" multipart part
// when present, the raw request body otherwise.
func (h *TransferHandler) uploadReader(c *gin.Context) (io.ReadCloser, bool) {
	file, err := c.FormFile("file")
	if err == nil {
		f, err := file.Open()
		if err != nil {
			response.BadRequest(c, 40030, "could not open uploaded file")
			return nil, false
		}
		return f, true
	}
	return c.Request.Body, true
}

func (h *TransferHandler) handleImportError(c *gin.Context, err error) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		response.Error(c, http.StatusRequestEntityTooLarge, 41300, "file exceeds the size limit")
	case errors.Is(err, service.ErrMissingColumn):
		response.Error(c, http.StatusUnprocessableEntity, 42210, err.Error())
	case errors.Is(err, service.ErrUnreadableFile), errors.Is(err, service.ErrEmptyWorkbook):
		response.BadRequest(c, 40031, "file could not be read")
	case errors.Is(err, service.ErrInvalidAcademicYear):
		response.BadRequest(c, 40010, "academic year must be YYYY or a consecutive YYYY-YYYY range")
	case errors.Is(err, service.ErrInvalidSemesterType):
		response.BadRequest(c, 40011, "semester must be first, second or summer")
	case errors.Is(err, pkgerrors.ErrSnapshotInvalid):
		response.Error(c, http.StatusUnprocessableEntity, 42220, "snapshot shape is invalid, nothing was restored")
	case handleStorageError(c, err):
	default:
		fallthroughError(c, h.logger, "import", err)
	}
}
