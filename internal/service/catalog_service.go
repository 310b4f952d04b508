package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gab-cat/qpi-calculator-sub000/internal/catalog"
	"github.com/gab-cat/qpi-calculator-sub000/internal/dto"
	"github.com/gab-cat/qpi-calculator-sub000/internal/model"
	"github.com/gab-cat/qpi-calculator-sub000/internal/repository"
	pkgerrors "github.com/gab-cat/qpi-calculator-sub000/pkg/errors"
)

// CatalogService fronts the remote course/template catalog and applies
// templates onto the local academic record.
type CatalogService interface {
	SearchCourses(ctx context.Context, search, cursor string, limit int) (*catalog.CourseList, error)
	LookupCourse(ctx context.Context, code string) (*catalog.Course, error)
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*catalog.Course, error)
	GetTemplate(ctx context.Context, id string) (*catalog.Template, error)
	CreateTemplate(ctx context.Context, req *dto.CreateTemplateRequest) (*catalog.Template, error)
	// CreateTemplateFromRecord publishes the current record's course plan
	// as a reusable template, registering unknown courses on the way.
	CreateTemplateFromRecord(ctx context.Context, name, description string) (*catalog.Template, error)
	// ApplyTemplate copies a template's courses into the record as
	// ungraded entries. StartYear anchors year level 1.
	ApplyTemplate(ctx context.Context, templateID string, req *dto.ApplyTemplateRequest) (*dto.ApplyTemplateResponse, error)
}

type catalogService struct {
	repo    *repository.Repository
	catalog catalog.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

// NewCatalogService creates the catalog service.
func NewCatalogService(repo *repository.Repository, cat catalog.Catalog, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, catalog: cat, logger: logger, now: time.Now}
}

func (s *catalogService) SearchCourses(ctx context.Context, search, cursor string, limit int) (*catalog.CourseList, error) {
	return s.catalog.ListCourses(ctx, search, cursor, limit)
}

func (s *catalogService) LookupCourse(ctx context.Context, code string) (*catalog.Course, error) {
	return s.catalog.FindCourseByCode(ctx, code)
}

func (s *catalogService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*catalog.Course, error) {
	return s.catalog.CreateCourse(ctx, req.Code, req.Title, req.Units)
}

func (s *catalogService) GetTemplate(ctx context.Context, id string) (*catalog.Template, error) {
	return s.catalog.GetTemplateByID(ctx, id)
}

func (s *catalogService) CreateTemplate(ctx context.Context, req *dto.CreateTemplateRequest) (*catalog.Template, error) {
	semesters := make([]catalog.NewTemplateSemester, 0, len(req.Semesters))
	for _, sem := range req.Semesters {
		semesters = append(semesters, catalog.NewTemplateSemester{
			YearLevel:    sem.YearLevel,
			SemesterType: sem.SemesterType,
			CourseIDs:    sem.CourseIDs,
		})
	}
	return s.catalog.CreateTemplate(ctx, req.Name, req.Description, semesters)
}

func (s *catalogService) CreateTemplateFromRecord(ctx context.Context, name, description string) (*catalog.Template, error) {
	semesters, err := s.repo.Semester.List(ctx)
	if err != nil {
		return nil, err
	}

	var slots []catalog.NewTemplateSemester
	for i := range semesters {
		sem := &semesters[i]
		grades, err := s.repo.Grade.ListBySemester(ctx, sem.ID)
		if err != nil {
			return nil, err
		}
		if len(grades) == 0 {
			continue
		}

		slot := catalog.NewTemplateSemester{
			YearLevel:    sem.YearLevel,
			SemesterType: sem.SemesterType,
		}
		for j := range grades {
			course, err := s.resolveCourse(ctx, &grades[j])
			if err != nil {
				return nil, err
			}
			slot.CourseIDs = append(slot.CourseIDs, course.ID)
		}
		slots = append(slots, slot)
	}
	if len(slots) == 0 {
		return nil, catalog.ErrEmptyTemplate
	}

	tpl, err := s.catalog.CreateTemplate(ctx, name, description, slots)
	if err != nil {
		return nil, err
	}
	s.logger.Info("template published from record",
		zap.String("template_id", tpl.ID),
		zap.Int("semesters", len(slots)))
	return tpl, nil
}

// resolveCourse finds the catalog entry matching a grade's course code,
// registering the course when the catalog does not know it yet.
func (s *catalogService) resolveCourse(ctx context.Context, grade *model.GradeRecord) (*catalog.Course, error) {
	course, err := s.catalog.FindCourseByCode(ctx, grade.CourseCode)
	if err == nil {
		return course, nil
	}
	if !errors.Is(err, catalog.ErrCourseNotFound) {
		return nil, err
	}
	return s.catalog.CreateCourse(ctx, grade.CourseCode, grade.CourseTitle, grade.Units)
}

func (s *catalogService) ApplyTemplate(ctx context.Context, templateID string, req *dto.ApplyTemplateRequest) (*dto.ApplyTemplateResponse, error) {
	tpl, err := s.catalog.GetTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ApplyTemplateResponse{TemplateName: tpl.Name}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	repo := s.repo.WithTx(tx)

	for _, slot := range tpl.Semesters {
		from := req.StartYear + slot.YearLevel - 1
		year := fmt.Sprintf("%d-%d", from, from+1)

		semester, err := repo.Semester.GetByKey(ctx, year, slot.SemesterType)
		switch {
		case err == nil:
			resp.SemestersReused = append(resp.SemestersReused, semester.GroupKey())
		case errors.Is(err, gorm.ErrRecordNotFound):
			semester = &model.SemesterRecord{
				ID:           uuid.New().String(),
				YearLevel:    slot.YearLevel,
				SemesterType: slot.SemesterType,
				AcademicYear: year,
			}
			semester.Touch(s.now())
			if err := repo.Semester.Create(ctx, semester); err != nil {
				rollback(tx)
				return nil, pkgerrors.ClassifyWriteError(err)
			}
			resp.SemestersCreated = append(resp.SemestersCreated, semester.GroupKey())
		default:
			rollback(tx)
			return nil, err
		}

		existing, err := repo.Grade.ListBySemester(ctx, semester.ID)
		if err != nil {
			rollback(tx)
			return nil, err
		}
		present := make(map[string]bool, len(existing))
		for _, g := range existing {
			present[g.CourseCode] = true
		}

		grades := make([]model.GradeRecord, 0, len(slot.Courses))
		for _, course := range slot.Courses {
			// A course already in the semester is not duplicated.
			if present[course.Code] {
				continue
			}
			grade := model.GradeRecord{
				ID:          uuid.New().String(),
				SemesterID:  semester.ID,
				CourseID:    course.ID,
				CourseCode:  course.Code,
				CourseTitle: course.Title,
				Units:       course.Units,
				Position:    len(existing) + len(grades),
			}
			grade.Touch(s.now())
			grades = append(grades, grade)
		}
		if err := repo.Grade.CreateBatch(ctx, grades); err != nil {
			rollback(tx)
			return nil, pkgerrors.ClassifyWriteError(err)
		}
		resp.GradesAdded += len(grades)
	}

	if _, err := recalcAndPersist(ctx, repo, s.now()); err != nil {
		rollback(tx)
		return nil, err
	}
	if err := commit(tx); err != nil {
		return nil, pkgerrors.ClassifyWriteError(err)
	}

	s.logger.Info("template applied",
		zap.String("template_id", templateID),
		zap.String("template_name", tpl.Name),
		zap.Int("grades_added", resp.GradesAdded))
	return resp, nil
}
