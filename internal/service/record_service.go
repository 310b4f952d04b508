// Package service holds the business orchestration layer: validation,
// persistence coordination and the recalculation that follows every
// mutation. Handlers call services; services call repositories and the
// pure computation engine.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gab-cat/qpi-calculator-sub000/internal/dto"
	"github.com/gab-cat/qpi-calculator-sub000/internal/model"
	"github.com/gab-cat/qpi-calculator-sub000/internal/qpi"
	"github.com/gab-cat/qpi-calculator-sub000/internal/repository"
	pkgerrors "github.com/gab-cat/qpi-calculator-sub000/pkg/errors"
)

// ── service errors ──

var (
	ErrSemesterNotFound = errors.New("semester not found")
	ErrGradeNotFound    = errors.New("grade not found")
	// ErrSemesterExists rejects a second semester with the same
	// (academicYear, semesterType) identity.
	ErrSemesterExists = errors.New("semester already exists for that year and term")
	// ErrInvalidAcademicYear rejects years that are not "YYYY" or a
	// consecutive "YYYY-YYYY" range.
	ErrInvalidAcademicYear = errors.New("invalid academic year")
	ErrInvalidSemesterType = errors.New("invalid semester type")
	// ErrScoreConflict rejects a score update that sets more than one of
	// numerical grade, letter grade and clear.
	ErrScoreConflict = errors.New("set exactly one of numerical_grade, letter_grade or clear")
	ErrInvalidLetter = errors.New("letter-only entry must be INC")
	// ErrReorderMismatch rejects a reorder list that is not a permutation
	// of the semester's grade ids.
	ErrReorderMismatch = errors.New("grade ids must list every grade in the semester exactly once")
)

// RecordService owns the academic record aggregate and every mutation
// on its semesters and grades. Each mutation ends with a full
// recalculation so derived fields are never stale.
type RecordService interface {
	GetRecord(ctx context.Context) (*dto.AcademicRecordResponse, error)
	UpdateConfiguration(ctx context.Context, req *dto.UpdateConfigurationRequest) (*dto.AcademicRecordResponse, error)
	Recalculate(ctx context.Context) (*dto.AcademicRecordResponse, error)

	CreateSemester(ctx context.Context, req *dto.CreateSemesterRequest) (*dto.SemesterResponse, error)
	ListSemesters(ctx context.Context) ([]dto.SemesterResponse, error)
	GetSemester(ctx context.Context, id string) (*dto.SemesterResponse, error)
	UpdateSemester(ctx context.Context, id string, req *dto.UpdateSemesterRequest) (*dto.SemesterResponse, error)
	CompleteSemester(ctx context.Context, id string, req *dto.CompleteSemesterRequest) (*dto.SemesterResponse, error)
	DeleteSemester(ctx context.Context, id string) error
	ReorderGrades(ctx context.Context, semesterID string, req *dto.ReorderGradesRequest) (*dto.SemesterResponse, error)

	AddGrade(ctx context.Context, semesterID string, req *dto.AddGradeRequest) (*dto.GradeResponse, error)
	UpdateGrade(ctx context.Context, gradeID string, req *dto.UpdateGradeRequest) (*dto.GradeResponse, error)
	UpdateScore(ctx context.Context, gradeID string, req *dto.UpdateScoreRequest) (*dto.GradeResponse, error)
	RemoveGrade(ctx context.Context, gradeID string) error
}

type recordService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewRecordService creates the record service.
func NewRecordService(repo *repository.Repository, logger *zap.Logger) RecordService {
	return &recordService{repo: repo, logger: logger, now: time.Now}
}

// ── record operations ──

func (s *recordService) GetRecord(ctx context.Context) (*dto.AcademicRecordResponse, error) {
	record, err := getOrCreateRecord(ctx, s.repo, s.now())
	if err != nil {
		return nil, err
	}
	return s.buildRecordResponse(ctx, record)
}

func (s *recordService) UpdateConfiguration(ctx context.Context, req *dto.UpdateConfigurationRequest) (*dto.AcademicRecordResponse, error) {
	record, err := getOrCreateRecord(ctx, s.repo, s.now())
	if err != nil {
		return nil, err
	}

	record.SetConfig(model.RecordConfiguration{
		TotalYears:     req.TotalYears,
		IncludesSummer: *req.IncludesSummer,
	})
	record.Touch(s.now())
	if err := s.repo.Record.Save(ctx, record); err != nil {
		return nil, pkgerrors.ClassifyWriteError(err)
	}

	s.logger.Info("configuration updated",
		zap.Int("total_years", req.TotalYears),
		zap.Bool("includes_summer", *req.IncludesSummer))
	return s.buildRecordResponse(ctx, record)
}

// Recalculate forces a full pass of the engine. The operation is
// idempotent: a second run on an unchanged store produces the same
// stored state apart from the timestamp.
func (s *recordService) Recalculate(ctx context.Context) (*dto.AcademicRecordResponse, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	repo := s.repo.WithTx(tx)

	record, err := recalcAndPersist(ctx, repo, s.now())
	if err != nil {
		rollback(tx)
		return nil, err
	}
	if err := commit(tx); err != nil {
		return nil, pkgerrors.ClassifyWriteError(err)
	}
	return s.buildRecordResponse(ctx, record)
}

// ── semester operations ──

func (s *recordService) CreateSemester(ctx context.Context, req *dto.CreateSemesterRequest) (*dto.SemesterResponse, error) {
	year, err := normalizeAcademicYear(req.AcademicYear)
	if err != nil {
		return nil, ErrInvalidAcademicYear
	}
	semType, err := normalizeSemesterType(req.SemesterType)
	if err != nil {
		return nil, ErrInvalidSemesterType
	}

	if existing, err := s.repo.Semester.GetByKey(ctx, year, semType); err == nil && existing != nil {
		return nil, ErrSemesterExists
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	semester := &model.SemesterRecord{
		ID:           uuid.New().String(),
		YearLevel:    req.YearLevel,
		SemesterType: semType,
		AcademicYear: year,
	}
	semester.Touch(s.now())

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	repo := s.repo.WithTx(tx)

	if err := repo.Semester.Create(ctx, semester); err != nil {
		rollback(tx)
		return nil, pkgerrors.ClassifyWriteError(err)
	}
	if _, err := recalcAndPersist(ctx, repo, s.now()); err != nil {
		rollback(tx)
		return nil, err
	}
	if err := commit(tx); err != nil {
		return nil, pkgerrors.ClassifyWriteError(err)
	}

	s.logger.Info("semester created",
		zap.String("semester_id", semester.ID),
		zap.String("academic_year", year),
		zap.String("semester_type", semType))
	return s.buildSemesterResponse(ctx, semester.ID)
}

func (s *recordService) ListSemesters(ctx context.Context) ([]dto.SemesterResponse, error) {
	semesters, err := s.repo.Semester.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SemesterResponse, 0, len(semesters))
	for i := range semesters {
		grades, err := s.repo.Grade.ListBySemester(ctx, semesters[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, semesterToResponse(&semesters[i], grades))
	}
	return out, nil
}

func (s *recordService) GetSemester(ctx context.Context, id string) (*dto.SemesterResponse, error) {
	return s.buildSemesterResponse(ctx, id)
}

func (s *recordService) UpdateSemester(ctx context.Context, id string, req *dto.UpdateSemesterRequest) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrSemesterNotFound)
	}

	if req.YearLevel != nil {
		semester.YearLevel = *req.YearLevel
	}
	if req.AcademicYear != nil {
		year, err := normalizeAcademicYear(*req.AcademicYear)
		if err != nil {
			return nil, ErrInvalidAcademicYear
		}
		semester.AcademicYear = year
	}
	if req.SemesterType != nil {
		semType, err := normalizeSemesterType(*req.SemesterType)
		if err != nil {
			return nil, ErrInvalidSemesterType
		}
		semester.SemesterType = semType
	}

	// Changing year or type changes the semester's identity; the new key
	// must stay unique.
	if req.AcademicYear != nil || req.SemesterType != nil {
		if existing, err := s.repo.Semester.GetByKey(ctx, semester.AcademicYear, semester.SemesterType); err == nil && existing != nil && existing.ID != id {
			return nil, ErrSemesterExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	semester.Touch(s.now())

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	repo := s.repo.WithTx(tx)

	if err := repo.Semester.Update(ctx, semester); err != nil {
		rollback(tx)
		return nil, pkgerrors.ClassifyWriteError(err)
	}
	if _, err := recalcAndPersist(ctx, repo, s.now()); err != nil {
		rollback(tx)
		return nil, err
	}
	if err := commit(tx); err != nil {
		return nil, pkgerrors.ClassifyWriteError(err)
	}
	return s.buildSemesterResponse(ctx, id)
}

func (s *recordService) CompleteSemester(ctx context.Context, id string, req *dto.CompleteSemesterRequest) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrSemesterNotFound)
	}

	semester.IsCompleted = *req.IsCompleted
	semester.Touch(s.now())
	if err := s.repo.Semester.Update(ctx, semester); err != nil {
		return nil, pkgerrors.ClassifyWriteError(err)
	}
	return s.buildSemesterResponse(ctx, id)
}

// DeleteSemester removes the semester and cascades to its grades, then
// recalculates everything that depended on them.
func (s *recordService) DeleteSemester(ctx context.Context, id string) error {
	if _, err := s.repo.Semester.GetByID(ctx, id); err != nil {
		return mapNotFound(err, ErrSemesterNotFound)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	repo := s.repo.WithTx(tx)

	if err := repo.Grade.DeleteBySemester(ctx, id); err != nil {
		rollback(tx)
		return pkgerrors.ClassifyWriteError(err)
	}
	if err := repo.Semester.Delete(ctx, id); err != nil {
		rollback(tx)
		return pkgerrors.ClassifyWriteError(err)
	}
	if _, err := recalcAndPersist(ctx, repo, s.now()); err != nil {
		rollback(tx)
		return err
	}
	if err := commit(tx); err != nil {
		return pkgerrors.ClassifyWriteError(err)
	}

	s.logger.Info("semester deleted", zap.String("semester_id", id))
	return nil
}

// ReorderGrades persists the user's display order. The request must be
// a permutation of the semester's grade ids.
func (s *recordService) ReorderGrades(ctx context.Context, semesterID string, req *dto.ReorderGradesRequest) (*dto.SemesterResponse, error) {
	if _, err := s.repo.Semester.GetByID(ctx, semesterID); err != nil {
		return nil, mapNotFound(err, ErrSemesterNotFound)
	}
	grades, err := s.repo.Grade.ListBySemester(ctx, semesterID)
	if err != nil {
		return nil, err
	}

	if len(req.GradeIDs) != len(grades) {
		return nil, ErrReorderMismatch
	}
	existing := make(map[string]bool, len(grades))
	for _, g := range grades {
		existing[g.ID] = true
	}
	seen := make(map[string]bool, len(req.GradeIDs))
	for _, id := range req.GradeIDs {
		if !existing[id] || seen[id] {
			return nil, ErrReorderMismatch
		}
		seen[id] = true
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	repo := s.repo.WithTx(tx)

	for i, id := range req.GradeIDs {
		if err := repo.Grade.UpdatePosition(ctx, id, i); err != nil {
			rollback(tx)
			return nil, pkgerrors.ClassifyWriteError(err)
		}
	}
	if err := commit(tx); err != nil {
		return nil, pkgerrors.ClassifyWriteError(err)
	}
	return s.buildSemesterResponse(ctx, semesterID)
}

// ── grade operations ──

func (s *recordService) AddGrade(ctx context.Context, semesterID string, req *dto.AddGradeRequest) (*dto.GradeResponse, error) {
	if _, err := s.repo.Semester.GetByID(ctx, semesterID); err != nil {
		return nil, mapNotFound(err, ErrSemesterNotFound)
	}
	siblings, err := s.repo.Grade.ListBySemester(ctx, semesterID)
	if err != nil {
		return nil, err
	}

	grade := &model.GradeRecord{
		ID:          uuid.New().String(),
		SemesterID:  semesterID,
		CourseID:    req.CourseID,
		CourseCode:  req.CourseCode,
		CourseTitle: req.CourseTitle,
		Units:       req.Units,
		Notes:       req.Notes,
		Position:    len(siblings),
	}
	if req.NumericalGrade != nil {
		if err := applyNumericalGrade(grade, *req.NumericalGrade); err != nil {
			return nil, err
		}
	}
	grade.Touch(s.now())

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	repo := s.repo.WithTx(tx)

	if err := repo.Grade.Create(ctx, grade); err != nil {
		rollback(tx)
		return nil, pkgerrors.ClassifyWriteError(err)
	}
	if _, err := recalcAndPersist(ctx, repo, s.now()); err != nil {
		rollback(tx)
		return nil, err
	}
	if err := commit(tx); err != nil {
		return nil, pkgerrors.ClassifyWriteError(err)
	}

	s.logger.Info("grade added",
		zap.String("grade_id", grade.ID),
		zap.String("semester_id", semesterID),
		zap.String("course_code", grade.CourseCode))
	resp := gradeToResponse(grade)
	return &resp, nil
}

func (s *recordService) UpdateGrade(ctx context.Context, gradeID string, req *dto.UpdateGradeRequest) (*dto.GradeResponse, error) {
	grade, err := s.repo.Grade.GetByID(ctx, gradeID)
	if err != nil {
		return nil, mapNotFound(err, ErrGradeNotFound)
	}

	if req.CourseCode != nil {
		grade.CourseCode = *req.CourseCode
	}
	if req.CourseTitle != nil {
		grade.CourseTitle = *req.CourseTitle
	}
	if req.Notes != nil {
		grade.Notes = *req.Notes
	}
	if req.Units != nil {
		grade.Units = *req.Units
	}
	if req.NumericalGrade != nil {
		if err := applyNumericalGrade(grade, *req.NumericalGrade); err != nil {
			return nil, err
		}
	} else if req.Units != nil && grade.NumericalGrade != nil {
		// Units changed under an existing grade: quality points shift.
		if err := applyNumericalGrade(grade, *grade.NumericalGrade); err != nil {
			return nil, err
		}
	}

	return s.saveGradeAndRecalc(ctx, grade)
}

// UpdateScore enters, replaces or clears the grade on a course. Exactly
// one of the request fields may be set; the only letter accepted without
// a number is INC.
func (s *recordService) UpdateScore(ctx context.Context, gradeID string, req *dto.UpdateScoreRequest) (*dto.GradeResponse, error) {
	set := 0
	if req.NumericalGrade != nil {
		set++
	}
	if req.LetterGrade != nil {
		set++
	}
	if req.Clear {
		set++
	}
	if set != 1 {
		return nil, ErrScoreConflict
	}

	grade, err := s.repo.Grade.GetByID(ctx, gradeID)
	if err != nil {
		return nil, mapNotFound(err, ErrGradeNotFound)
	}

	switch {
	case req.Clear:
		grade.NumericalGrade = nil
		grade.LetterGrade = nil
		grade.GradePoint = nil
		grade.QualityPoints = nil
	case req.NumericalGrade != nil:
		if err := applyNumericalGrade(grade, *req.NumericalGrade); err != nil {
			return nil, err
		}
	default:
		if !strings.EqualFold(strings.TrimSpace(*req.LetterGrade), qpi.LetterInc) {
			return nil, ErrInvalidLetter
		}
		letter := qpi.LetterInc
		point := 0.0
		qp := qpi.QualityPoints(grade.Units, point)
		grade.NumericalGrade = nil
		grade.LetterGrade = &letter
		grade.GradePoint = &point
		grade.QualityPoints = &qp
	}

	return s.saveGradeAndRecalc(ctx, grade)
}

func (s *recordService) RemoveGrade(ctx context.Context, gradeID string) error {
	grade, err := s.repo.Grade.GetByID(ctx, gradeID)
	if err != nil {
		return mapNotFound(err, ErrGradeNotFound)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	repo := s.repo.WithTx(tx)

	if err := repo.Grade.Delete(ctx, gradeID); err != nil {
		rollback(tx)
		return pkgerrors.ClassifyWriteError(err)
	}
	// Close the position gap left behind.
	siblings, err := repo.Grade.ListBySemester(ctx, grade.SemesterID)
	if err != nil {
		rollback(tx)
		return err
	}
	for i := range siblings {
		if siblings[i].Position != i {
			if err := repo.Grade.UpdatePosition(ctx, siblings[i].ID, i); err != nil {
				rollback(tx)
				return pkgerrors.ClassifyWriteError(err)
			}
		}
	}
	if _, err := recalcAndPersist(ctx, repo, s.now()); err != nil {
		rollback(tx)
		return err
	}
	if err := commit(tx); err != nil {
		return pkgerrors.ClassifyWriteError(err)
	}

	s.logger.Info("grade removed", zap.String("grade_id", gradeID))
	return nil
}

// ── internals ──

// applyNumericalGrade sets the numeric grade and rederives letter, point
// and quality points through the scale.
func applyNumericalGrade(grade *model.GradeRecord, score float64) error {
	band, err := qpi.Classify(score)
	if err != nil {
		return err
	}
	qp := qpi.QualityPoints(grade.Units, band.GradePoint)
	grade.NumericalGrade = &score
	grade.LetterGrade = &band.Letter
	grade.GradePoint = &band.GradePoint
	grade.QualityPoints = &qp
	return nil
}

func (s *recordService) saveGradeAndRecalc(ctx context.Context, grade *model.GradeRecord) (*dto.GradeResponse, error) {
	grade.Touch(s.now())

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	repo := s.repo.WithTx(tx)

	if err := repo.Grade.Update(ctx, grade); err != nil {
		rollback(tx)
		return nil, pkgerrors.ClassifyWriteError(err)
	}
	if _, err := recalcAndPersist(ctx, repo, s.now()); err != nil {
		rollback(tx)
		return nil, err
	}
	if err := commit(tx); err != nil {
		return nil, pkgerrors.ClassifyWriteError(err)
	}

	resp := gradeToResponse(grade)
	return &resp, nil
}

// getOrCreateRecord loads the single main record, creating it with the
// default configuration on first access.
func getOrCreateRecord(ctx context.Context, repo *repository.Repository, now time.Time) (*model.AcademicRecord, error) {
	record, err := repo.Record.Get(ctx)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record = &model.AcademicRecord{ID: model.MainRecordID, Version: 1}
	record.SetConfig(model.DefaultConfiguration())
	record.Touch(now)
	if err := repo.Record.Save(ctx, record); err != nil {
		return nil, pkgerrors.ClassifyWriteError(err)
	}
	return record, nil
}

// recalcAndPersist runs the engine over the full graph and stores the
// derived fields. Called inside the mutation's transaction so stale
// aggregates are never observable. Shared by every service that mutates
// the graph.
func recalcAndPersist(ctx context.Context, repo *repository.Repository, now time.Time) (*model.AcademicRecord, error) {
	record, err := getOrCreateRecord(ctx, repo, now)
	if err != nil {
		return nil, err
	}
	semesters, err := repo.Semester.List(ctx)
	if err != nil {
		return nil, err
	}
	grades, err := repo.Grade.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := qpi.Recalculate(qpi.Graph{
		Record:    *record,
		Semesters: semesters,
		Grades:    grades,
	}, now)

	if err := repo.Semester.UpdateBatch(ctx, out.Semesters); err != nil {
		return nil, pkgerrors.ClassifyWriteError(err)
	}
	if err := repo.Record.Save(ctx, &out.Record); err != nil {
		return nil, pkgerrors.ClassifyWriteError(err)
	}
	return &out.Record, nil
}

func (s *recordService) buildRecordResponse(ctx context.Context, record *model.AcademicRecord) (*dto.AcademicRecordResponse, error) {
	semesters, err := s.repo.Semester.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.AcademicRecordResponse{
		ID:                 record.ID,
		TotalUnits:         record.TotalUnits,
		TotalQualityPoints: record.TotalQualityPoints,
		CumulativeQPI:      record.CumulativeQPI,
		YearlyQPIs:         []dto.YearlyQPIResponse{},
		Semesters:          []dto.SemesterResponse{},
		Version:            record.Version,
	}
	cfg := record.Config()
	resp.Configuration = dto.ConfigurationResponse{
		TotalYears:     cfg.TotalYears,
		IncludesSummer: cfg.IncludesSummer,
	}
	for _, y := range record.YearlyQPIList() {
		resp.YearlyQPIs = append(resp.YearlyQPIs, dto.YearlyQPIResponse{
			AcademicYear: y.AcademicYear,
			FirstSemQPI:  y.FirstSemQPI,
			SecondSemQPI: y.SecondSemQPI,
			SummerQPI:    y.SummerQPI,
			YearlyQPI:    y.YearlyQPI,
		})
	}
	if record.LastCalculated != nil {
		resp.LastCalculated = record.LastCalculated.Format(time.RFC3339)
	}

	for i := range semesters {
		sem := &semesters[i]
		grades, err := s.repo.Grade.ListBySemester(ctx, sem.ID)
		if err != nil {
			return nil, err
		}
		resp.Semesters = append(resp.Semesters, semesterToResponse(sem, grades))
	}
	return resp, nil
}

func (s *recordService) buildSemesterResponse(ctx context.Context, id string) (*dto.SemesterResponse, error) {
	semester, err := s.repo.Semester.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrSemesterNotFound)
	}
	grades, err := s.repo.Grade.ListBySemester(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := semesterToResponse(semester, grades)
	return &resp, nil
}

func semesterToResponse(s *model.SemesterRecord, grades []model.GradeRecord) dto.SemesterResponse {
	resp := dto.SemesterResponse{
		ID:                 s.ID,
		YearLevel:          s.YearLevel,
		SemesterType:       s.SemesterType,
		AcademicYear:       s.AcademicYear,
		TotalUnits:         s.TotalUnits,
		TotalQualityPoints: s.TotalQualityPoints,
		SemesterQPI:        s.SemesterQPI,
		IsCompleted:        s.IsCompleted,
		CreatedAt:          formatTime(s.CreatedAt),
		UpdatedAt:          formatTime(s.UpdatedAt),
	}
	for i := range grades {
		resp.Grades = append(resp.Grades, gradeToResponse(&grades[i]))
	}
	return resp
}

func gradeToResponse(g *model.GradeRecord) dto.GradeResponse {
	return dto.GradeResponse{
		ID:             g.ID,
		SemesterID:     g.SemesterID,
		CourseID:       g.CourseID,
		CourseCode:     g.CourseCode,
		CourseTitle:    g.CourseTitle,
		Units:          g.Units,
		NumericalGrade: g.NumericalGrade,
		LetterGrade:    g.LetterGrade,
		GradePoint:     g.GradePoint,
		QualityPoints:  g.QualityPoints,
		Notes:          g.Notes,
		Position:       g.Position,
		CreatedAt:      formatTime(g.CreatedAt),
		UpdatedAt:      formatTime(g.UpdatedAt),
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func mapNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func rollback(tx *gorm.DB) {
	if tx != nil {
		tx.Rollback()
	}
}

func commit(tx *gorm.DB) error {
	if tx == nil {
		return nil
	}
	return tx.Commit().Error
}
