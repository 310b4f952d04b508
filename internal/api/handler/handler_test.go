package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gab-cat/qpi-calculator-sub000/internal/dto"
	"github.com/gab-cat/qpi-calculator-sub000/internal/service"
	pkgerrors "github.com/gab-cat/qpi-calculator-sub000/pkg/errors"
	"github.com/gab-cat/qpi-calculator-sub000/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)

	// The router registers the real domain tags at startup; tests only
	// need the tags to exist so binding does not panic.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("academicyear", func(validator.FieldLevel) bool { return true })
		v.RegisterValidation("semestertype", func(validator.FieldLevel) bool { return true })
	}
}

// Function-field mocks: each test plugs in only the method it exercises.

type mockRecordService struct {
	getRecord      func(ctx context.Context) (*dto.AcademicRecordResponse, error)
	createSemester func(ctx context.Context, req *dto.CreateSemesterRequest) (*dto.SemesterResponse, error)
	deleteSemester func(ctx context.Context, id string) error
	updateScore    func(ctx context.Context, id string, req *dto.UpdateScoreRequest) (*dto.GradeResponse, error)
}

func (m *mockRecordService) GetRecord(ctx context.Context) (*dto.AcademicRecordResponse, error) {
	return m.getRecord(ctx)
}

func (m *mockRecordService) UpdateConfiguration(context.Context, *dto.UpdateConfigurationRequest) (*dto.AcademicRecordResponse, error) {
	return nil, nil
}

func (m *mockRecordService) Recalculate(context.Context) (*dto.AcademicRecordResponse, error) {
	return nil, nil
}

func (m *mockRecordService) CreateSemester(ctx context.Context, req *dto.CreateSemesterRequest) (*dto.SemesterResponse, error) {
	return m.createSemester(ctx, req)
}

func (m *mockRecordService) ListSemesters(context.Context) ([]dto.SemesterResponse, error) {
	return nil, nil
}

func (m *mockRecordService) GetSemester(context.Context, string) (*dto.SemesterResponse, error) {
	return nil, nil
}

func (m *mockRecordService) UpdateSemester(context.Context, string, *dto.UpdateSemesterRequest) (*dto.SemesterResponse, error) {
	return nil, nil
}

func (m *mockRecordService) CompleteSemester(context.Context, string, *dto.CompleteSemesterRequest) (*dto.SemesterResponse, error) {
	return nil, nil
}

func (m *mockRecordService) DeleteSemester(ctx context.Context, id string) error {
	return m.deleteSemester(ctx, id)
}

func (m *mockRecordService) ReorderGrades(context.Context, string, *dto.ReorderGradesRequest) (*dto.SemesterResponse, error) {
	return nil, nil
}

func (m *mockRecordService) AddGrade(context.Context, string, *dto.AddGradeRequest) (*dto.GradeResponse, error) {
	return nil, nil
}

func (m *mockRecordService) UpdateGrade(context.Context, string, *dto.UpdateGradeRequest) (*dto.GradeResponse, error) {
	return nil, nil
}

func (m *mockRecordService) UpdateScore(ctx context.Context, id string, req *dto.UpdateScoreRequest) (*dto.GradeResponse, error) {
	return m.updateScore(ctx, id, req)
}

func (m *mockRecordService) RemoveGrade(context.Context, string) error { return nil }

type mockImportService struct {
	importCSV func(ctx context.Context, r io.Reader, opts *dto.ImportOptionsRequest, dryRun bool) (*dto.ImportReportResponse, error)
}

func (m *mockImportService) ImportCSV(ctx context.Context, r io.Reader, opts *dto.ImportOptionsRequest, dryRun bool) (*dto.ImportReportResponse, error) {
	return m.importCSV(ctx, r, opts, dryRun)
}

func (m *mockImportService) ImportXLSX(context.Context, io.Reader, *dto.ImportOptionsRequest, bool) (*dto.ImportReportResponse, error) {
	return nil, nil
}

type mockSnapshotService struct {
	importAll func(ctx context.Context, raw []byte) error
}

func (m *mockSnapshotService) ExportAll(context.Context) (*service.Snapshot, error) { return nil, nil }
func (m *mockSnapshotService) ImportAll(ctx context.Context, raw []byte) error {
	return m.importAll(ctx, raw)
}
func (m *mockSnapshotService) Migrate(context.Context) (int, error) { return 0, nil }

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var env response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	return env
}

func TestRecordHandlerGet(t *testing.T) {
	h := &RecordHandler{
		svc: &mockRecordService{
			getRecord: func(context.Context) (*dto.AcademicRecordResponse, error) {
				return &dto.AcademicRecordResponse{ID: "main", Version: 1}, nil
			},
		},
		logger: zap.NewNop(),
	}

	r := gin.New()
	r.GET("/record", h.Get)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/record", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Code != 0 {
		t.Errorf("envelope code = %d", env.Code)
	}
}

func TestSemesterHandlerCreateConflict(t *testing.T) {
	h := &SemesterHandler{
		svc: &mockRecordService{
			createSemester: func(context.Context, *dto.CreateSemesterRequest) (*dto.SemesterResponse, error) {
				return nil, service.ErrSemesterExists
			},
		},
		logger: zap.NewNop(),
	}

	r := gin.New()
	r.POST("/semesters", h.Create)

	body := `{"year_level":1,"semester_type":"first","academic_year":"2023-2024"}`
	req := httptest.NewRequest(http.MethodPost, "/semesters", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Code != 40910 {
		t.Errorf("envelope code = %d", env.Code)
	}
}

func TestSemesterHandlerCreateBadPayload(t *testing.T) {
	h := &SemesterHandler{svc: &mockRecordService{}, logger: zap.NewNop()}

	r := gin.New()
	r.POST("/semesters", h.Create)

	// Missing required fields never reaches the service.
	req := httptest.NewRequest(http.MethodPost, "/semesters", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSemesterHandlerDeleteNotFound(t *testing.T) {
	h := &SemesterHandler{
		svc: &mockRecordService{
			deleteSemester: func(context.Context, string) error { return service.ErrSemesterNotFound },
		},
		logger: zap.NewNop(),
	}

	r := gin.New()
	r.DELETE("/semesters/:id", h.Delete)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/semesters/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGradeHandlerScoreConflict(t *testing.T) {
	h := &GradeHandler{
		svc: &mockRecordService{
			updateScore: func(context.Context, string, *dto.UpdateScoreRequest) (*dto.GradeResponse, error) {
				return nil, service.ErrScoreConflict
			},
		},
		logger: zap.NewNop(),
	}

	r := gin.New()
	r.PUT("/grades/:id/score", h.UpdateScore)

	body := `{"numerical_grade":95,"clear":true}`
	req := httptest.NewRequest(http.MethodPut, "/grades/g1/score", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Code != 40020 {
		t.Errorf("envelope code = %d", env.Code)
	}
}

func TestTransferHandlerImportCSVRawBody(t *testing.T) {
	var gotDryRun bool
	h := &TransferHandler{
		importSvc: &mockImportService{
			importCSV: func(_ context.Context, r io.Reader, _ *dto.ImportOptionsRequest, dryRun bool) (*dto.ImportReportResponse, error) {
				gotDryRun = dryRun
				raw, _ := io.ReadAll(r)
				if !bytes.Contains(raw, []byte("CS101")) {
					t.Error("body not passed through")
				}
				return &dto.ImportReportResponse{TotalRows: 1, ValidRows: 1, GradesAdded: 1}, nil
			},
		},
		logger: zap.NewNop(),
	}

	r := gin.New()
	r.POST("/import/csv", h.ImportCSV)
	r.POST("/import/csv/validate", h.ValidateCSV)

	file := "Course Code,Course Title,Units,Numerical Grade\nCS101,Intro,3,95\n"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/import/csv", strings.NewReader(file)))
	if w.Code != http.StatusOK || gotDryRun {
		t.Fatalf("status = %d, dryRun = %v", w.Code, gotDryRun)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/import/csv/validate", strings.NewReader(file)))
	if w.Code != http.StatusOK || !gotDryRun {
		t.Fatalf("validate: status = %d, dryRun = %v", w.Code, gotDryRun)
	}
}

func TestTransferHandlerImportCSVMissingColumn(t *testing.T) {
	h := &TransferHandler{
		importSvc: &mockImportService{
			importCSV: func(context.Context, io.Reader, *dto.ImportOptionsRequest, bool) (*dto.ImportReportResponse, error) {
				return nil, &service.MissingColumnError{Field: "units"}
			},
		},
		logger: zap.NewNop(),
	}

	r := gin.New()
	r.POST("/import/csv", h.ImportCSV)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/import/csv", strings.NewReader("x")))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}

func TestTransferHandlerSnapshotErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid shape", err: pkgerrors.ErrSnapshotInvalid, wantStatus: http.StatusUnprocessableEntity},
		{name: "quota", err: pkgerrors.ErrStorageQuotaExceeded, wantStatus: http.StatusInsufficientStorage},
	}

	for _, tt := range tests {
		h := &TransferHandler{
			snapshotSvc: &mockSnapshotService{
				importAll: func(context.Context, []byte) error { return tt.err },
			},
			logger: zap.NewNop(),
		}

		r := gin.New()
		r.POST("/import/snapshot", h.ImportSnapshot)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/import/snapshot", strings.NewReader(`{}`)))

		if w.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d", tt.name, w.Code, tt.wantStatus)
		}
	}
}
