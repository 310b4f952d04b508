package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gab-cat/qpi-calculator-sub000/internal/dto"
	"github.com/gab-cat/qpi-calculator-sub000/internal/model"
	"github.com/gab-cat/qpi-calculator-sub000/internal/repository"
	pkgerrors "github.com/gab-cat/qpi-calculator-sub000/pkg/errors"
)

// ── import errors ──

var (
	// ErrUnreadableFile is returned when the upload cannot be parsed at
	// all (not CSV/XLSX, truncated archive).
	ErrUnreadableFile = errors.New("file could not be read")
	// ErrEmptyWorkbook is returned for an XLSX upload with no sheets.
	ErrEmptyWorkbook = errors.New("workbook has no sheets")
)

// ImportService ingests grade files. Row-level problems accumulate into
// the report and never abort the batch; only file-level failures (bad
// format, missing required column) return an error. Valid rows land in
// semesters resolved by the normalized (academicYear, semesterType)
// key, reusing existing semesters and creating missing ones.
type ImportService interface {
	ImportCSV(ctx context.Context, r io.Reader, opts *dto.ImportOptionsRequest, dryRun bool) (*dto.ImportReportResponse, error)
	ImportXLSX(ctx context.Context, r io.Reader, opts *dto.ImportOptionsRequest, dryRun bool) (*dto.ImportReportResponse, error)
}

type importService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewImportService creates the import service.
func NewImportService(repo *repository.Repository, logger *zap.Logger) ImportService {
	return &importService{repo: repo, logger: logger, now: time.Now}
}

func (s *importService) ImportCSV(ctx context.Context, r io.Reader, opts *dto.ImportOptionsRequest, dryRun bool) (*dto.ImportReportResponse, error) {
	parsed, err := parseGradeCSV(r)
	if err != nil {
		return nil, err
	}
	return s.commitEntries(ctx, parsed, opts, dryRun)
}

// ImportXLSX reads the first sheet of the workbook and feeds its rows
// through the same pipeline as CSV.
func (s *importService) ImportXLSX(ctx context.Context, r io.Reader, opts *dto.ImportOptionsRequest, dryRun bool) (*dto.ImportReportResponse, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Join(ErrUnreadableFile, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Join(ErrUnreadableFile, err)
	}

	parsed, err := parseGradeRows(rows)
	if err != nil {
		return nil, err
	}
	return s.commitEntries(ctx, parsed, opts, dryRun)
}

// semesterBucket is one target semester during an import run.
type semesterBucket struct {
	semester *model.SemesterRecord
	created  bool
	entries  []csvEntry
}

// commitEntries groups the validated entries by semester key, resolves
// each key to an existing or new semester and persists everything in one
// transaction. Dry runs compute the identical report without writing.
func (s *importService) commitEntries(ctx context.Context, parsed *csvParseResult, opts *dto.ImportOptionsRequest, dryRun bool) (*dto.ImportReportResponse, error) {
	report := &dto.ImportReportResponse{
		TotalRows: parsed.TotalRows,
		DryRun:    dryRun,
	}
	for _, e := range parsed.Errors {
		report.Errors = append(report.Errors, dto.RowErrorResponse{
			Row: e.Row, Field: e.Field, Value: e.Value, Reason: e.Reason,
		})
	}

	fallbackYear, fallbackSem := "", ""
	if opts != nil {
		if opts.AcademicYear != "" {
			year, err := normalizeAcademicYear(opts.AcademicYear)
			if err != nil {
				return nil, ErrInvalidAcademicYear
			}
			opts.AcademicYear = year
			fallbackYear = year
		}
		if opts.SemesterType != "" {
			semType, err := normalizeSemesterType(opts.SemesterType)
			if err != nil {
				return nil, ErrInvalidSemesterType
			}
			opts.SemesterType = semType
			fallbackSem = semType
		}
	}

	// Group in first-seen key order so created semesters and positions
	// are deterministic for a given file. Each placement half a row
	// leaves blank is filled from the fallback options independently; a
	// half that neither the row nor the options supply fails the row so
	// no semester ever gets an empty year or type.
	buckets := make(map[string]*semesterBucket)
	var keyOrder []string
	for _, entry := range parsed.Entries {
		if entry.AcademicYear == "" {
			entry.AcademicYear = fallbackYear
		}
		if entry.SemesterType == "" {
			entry.SemesterType = fallbackSem
		}
		if entry.AcademicYear == "" || entry.SemesterType == "" {
			field := fieldAcademicYear
			if entry.AcademicYear != "" {
				field = fieldSemester
			}
			report.Errors = append(report.Errors, dto.RowErrorResponse{
				Row:    entry.SourceRow,
				Field:  string(field),
				Reason: "row does not fully place the course in a semester and no fallback placement was given",
			})
			continue
		}
		key := entry.GroupKey()
		b, ok := buckets[key]
		if !ok {
			b = &semesterBucket{}
			buckets[key] = b
			keyOrder = append(keyOrder, key)
		}
		b.entries = append(b.entries, entry)
	}

	// Resolve each key: reuse the semester that already owns it, create
	// one otherwise. Rows sharing a key always land together regardless
	// of file order.
	for _, key := range keyOrder {
		b := buckets[key]
		first := b.entries[0]
		existing, err := s.repo.Semester.GetByKey(ctx, first.AcademicYear, first.SemesterType)
		switch {
		case err == nil:
			b.semester = existing
			report.SemestersReused = append(report.SemestersReused, existing.GroupKey())
		case errors.Is(err, gorm.ErrRecordNotFound):
			semester := &model.SemesterRecord{
				ID:           uuid.New().String(),
				YearLevel:    s.resolveYearLevel(b.entries, opts),
				SemesterType: first.SemesterType,
				AcademicYear: first.AcademicYear,
			}
			semester.Touch(s.now())
			b.semester = semester
			b.created = true
			report.SemestersCreated = append(report.SemestersCreated, semester.GroupKey())
		default:
			return nil, err
		}
	}

	// A row can fail several checks; count rows, not errors.
	badRows := make(map[int]bool, len(report.Errors))
	for _, e := range report.Errors {
		badRows[e.Row] = true
	}
	report.InvalidRows = len(badRows)
	report.ValidRows = report.TotalRows - report.InvalidRows

	if dryRun {
		for _, key := range keyOrder {
			report.GradesAdded += len(buckets[key].entries)
		}
		return report, nil
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	repo := s.repo.WithTx(tx)

	for _, key := range keyOrder {
		b := buckets[key]
		if b.created {
			if err := repo.Semester.Create(ctx, b.semester); err != nil {
				rollback(tx)
				return nil, pkgerrors.ClassifyWriteError(err)
			}
		}
		existing, err := repo.Grade.ListBySemester(ctx, b.semester.ID)
		if err != nil {
			rollback(tx)
			return nil, err
		}

		grades := make([]model.GradeRecord, 0, len(b.entries))
		for i, entry := range b.entries {
			grade := model.GradeRecord{
				ID:          uuid.New().String(),
				SemesterID:  b.semester.ID,
				CourseCode:  entry.CourseCode,
				CourseTitle: entry.CourseTitle,
				Units:       entry.Units,
				Notes:       entry.Notes,
				Position:    len(existing) + i,
			}
			if entry.NumericalGrade != nil {
				ng := *entry.NumericalGrade
				letter := entry.LetterGrade
				point := entry.GradePoint
				qp := entry.QualityPoints
				grade.NumericalGrade = &ng
				grade.LetterGrade = &letter
				grade.GradePoint = &point
				grade.QualityPoints = &qp
			}
			grade.Touch(s.now())
			grades = append(grades, grade)
		}
		if err := repo.Grade.CreateBatch(ctx, grades); err != nil {
			rollback(tx)
			return nil, pkgerrors.ClassifyWriteError(err)
		}
		report.GradesAdded += len(grades)
	}

	if _, err := recalcAndPersist(ctx, repo, s.now()); err != nil {
		rollback(tx)
		return nil, err
	}
	if err := commit(tx); err != nil {
		return nil, pkgerrors.ClassifyWriteError(err)
	}

	s.logger.Info("import committed",
		zap.Int("total_rows", report.TotalRows),
		zap.Int("valid_rows", report.ValidRows),
		zap.Int("invalid_rows", report.InvalidRows),
		zap.Int("grades_added", report.GradesAdded),
		zap.Int("semesters_created", len(report.SemestersCreated)))
	return report, nil
}

// resolveYearLevel picks the year level for a semester the import is
// about to create: the first entry that states one, the fallback
// placement otherwise, year 1 as the last resort.
func (s *importService) resolveYearLevel(entries []csvEntry, opts *dto.ImportOptionsRequest) int {
	for _, e := range entries {
		if e.YearLevel > 0 {
			return e.YearLevel
		}
	}
	if opts != nil && opts.YearLevel > 0 {
		return opts.YearLevel
	}
	return 1
}
