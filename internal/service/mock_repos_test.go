package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gab-cat/qpi-calculator-sub000/internal/model"
	"github.com/gab-cat/qpi-calculator-sub000/internal/repository"
)

// Map-backed repositories for service tests. Repository.DB stays nil so
// BeginTx hands back a nil transaction and services run the same code
// path without a database.

var testClock = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type mockGradeRepo struct {
	grades map[string]model.GradeRecord
}

func newMockGradeRepo() *mockGradeRepo {
	return &mockGradeRepo{grades: make(map[string]model.GradeRecord)}
}

func (m *mockGradeRepo) Create(_ context.Context, grade *model.GradeRecord) error {
	m.grades[grade.ID] = *grade
	return nil
}

func (m *mockGradeRepo) CreateBatch(_ context.Context, grades []model.GradeRecord) error {
	for _, g := range grades {
		m.grades[g.ID] = g
	}
	return nil
}

func (m *mockGradeRepo) GetByID(_ context.Context, id string) (*model.GradeRecord, error) {
	g, ok := m.grades[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &g, nil
}

func (m *mockGradeRepo) ListBySemester(_ context.Context, semesterID string) ([]model.GradeRecord, error) {
	var out []model.GradeRecord
	for _, g := range m.grades {
		if g.SemesterID == semesterID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockGradeRepo) ListAll(_ context.Context) ([]model.GradeRecord, error) {
	var out []model.GradeRecord
	for _, g := range m.grades {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SemesterID != out[j].SemesterID {
			return out[i].SemesterID < out[j].SemesterID
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (m *mockGradeRepo) Update(_ context.Context, grade *model.GradeRecord) error {
	m.grades[grade.ID] = *grade
	return nil
}

func (m *mockGradeRepo) UpdatePosition(_ context.Context, id string, position int) error {
	g, ok := m.grades[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	g.Position = position
	m.grades[id] = g
	return nil
}

func (m *mockGradeRepo) Delete(_ context.Context, id string) error {
	delete(m.grades, id)
	return nil
}

func (m *mockGradeRepo) DeleteBySemester(_ context.Context, semesterID string) error {
	for id, g := range m.grades {
		if g.SemesterID == semesterID {
			delete(m.grades, id)
		}
	}
	return nil
}

func (m *mockGradeRepo) ReplaceAll(_ context.Context, grades []model.GradeRecord) error {
	m.grades = make(map[string]model.GradeRecord, len(grades))
	for _, g := range grades {
		m.grades[g.ID] = g
	}
	return nil
}

type mockSemesterRepo struct {
	semesters map[string]model.SemesterRecord
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{semesters: make(map[string]model.SemesterRecord)}
}

func (m *mockSemesterRepo) Create(_ context.Context, semester *model.SemesterRecord) error {
	m.semesters[semester.ID] = *semester
	return nil
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id string) (*model.SemesterRecord, error) {
	s, ok := m.semesters[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (m *mockSemesterRepo) GetByKey(_ context.Context, academicYear, semesterType string) (*model.SemesterRecord, error) {
	for _, s := range m.semesters {
		if s.AcademicYear == academicYear && s.SemesterType == semesterType {
			out := s
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) List(_ context.Context) ([]model.SemesterRecord, error) {
	var out []model.SemesterRecord
	for _, s := range m.semesters {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].YearLevel != out[j].YearLevel {
			return out[i].YearLevel < out[j].YearLevel
		}
		return model.SemesterTypeOrder(out[i].SemesterType) < model.SemesterTypeOrder(out[j].SemesterType)
	})
	return out, nil
}

func (m *mockSemesterRepo) Update(_ context.Context, semester *model.SemesterRecord) error {
	m.semesters[semester.ID] = *semester
	return nil
}

func (m *mockSemesterRepo) UpdateBatch(_ context.Context, semesters []model.SemesterRecord) error {
	for _, s := range semesters {
		m.semesters[s.ID] = s
	}
	return nil
}

func (m *mockSemesterRepo) Delete(_ context.Context, id string) error {
	delete(m.semesters, id)
	return nil
}

func (m *mockSemesterRepo) ReplaceAll(_ context.Context, semesters []model.SemesterRecord) error {
	m.semesters = make(map[string]model.SemesterRecord, len(semesters))
	for _, s := range semesters {
		m.semesters[s.ID] = s
	}
	return nil
}

type mockRecordRepo struct {
	record *model.AcademicRecord
}

func (m *mockRecordRepo) Get(_ context.Context) (*model.AcademicRecord, error) {
	if m.record == nil {
		return nil, gorm.ErrRecordNotFound
	}
	out := *m.record
	return &out, nil
}

func (m *mockRecordRepo) Save(_ context.Context, record *model.AcademicRecord) error {
	out := *record
	m.record = &out
	return nil
}

type mockSchemaMetaRepo struct {
	version int
}

func (m *mockSchemaMetaRepo) GetVersion(_ context.Context) (int, error) {
	if m.version == 0 {
		return 1, nil
	}
	return m.version, nil
}

func (m *mockSchemaMetaRepo) SetVersion(_ context.Context, version int) error {
	m.version = version
	return nil
}

func newMockRepository() *repository.Repository {
	return &repository.Repository{
		Grade:      newMockGradeRepo(),
		Semester:   newMockSemesterRepo(),
		Record:     &mockRecordRepo{},
		SchemaMeta: &mockSchemaMetaRepo{},
	}
}

func newTestRecordService(repo *repository.Repository) *recordService {
	return &recordService{
		repo:   repo,
		logger: zap.NewNop(),
		now:    func() time.Time { return testClock },
	}
}

func newTestImportService(repo *repository.Repository) *importService {
	return &importService{
		repo:   repo,
		logger: zap.NewNop(),
		now:    func() time.Time { return testClock },
	}
}

func newTestExportService(repo *repository.Repository) *exportService {
	return &exportService{
		repo:   repo,
		logger: zap.NewNop(),
		now:    func() time.Time { return testClock },
	}
}

func newTestSnapshotService(repo *repository.Repository, maxSize int64) *snapshotService {
	return &snapshotService{
		repo:            repo,
		logger:          zap.NewNop(),
		maxSnapshotSize: maxSize,
		now:             func() time.Time { return testClock },
	}
}
