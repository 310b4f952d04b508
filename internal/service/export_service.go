package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/gab-cat/qpi-calculator-sub000/internal/model"
	"github.com/gab-cat/qpi-calculator-sub000/internal/repository"
)

// ExportParams selects the serialization shape for a CSV export.
type ExportParams struct {
	Profile        ExportProfile
	Layout         ExportLayout
	IncludeSummary bool
}

// ExportService serializes the record for download. CSV honors the
// round-trip law: a reimport-profile export fed back through the import
// pipeline reconstructs equivalent grade records. XLSX is a styled
// human-facing rendition of the full profile.
type ExportService interface {
	ExportCSV(ctx context.Context, params ExportParams) (*bytes.Buffer, string, error)
	ExportXLSX(ctx context.Context) (*bytes.Buffer, string, error)
	TemplateCSV() (*bytes.Buffer, string)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService creates the export service.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

func (s *exportService) ExportCSV(ctx context.Context, params ExportParams) (*bytes.Buffer, string, error) {
	record, semesters, gradesBySemester, err := s.loadGraph(ctx)
	if err != nil {
		return nil, "", err
	}

	if params.Profile != ProfileFull {
		params.Profile = ProfileReimport
	}
	if params.Layout != LayoutSectioned {
		params.Layout = LayoutFlat
	}

	var buf bytes.Buffer
	if err := writeGradeCSV(&buf, record, semesters, gradesBySemester, exportOptions{
		Profile:        params.Profile,
		Layout:         params.Layout,
		IncludeSummary: params.IncludeSummary,
	}); err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("academic-record-%s.csv", s.now().Format("20060102"))
	s.logger.Info("csv exported",
		zap.String("profile", string(params.Profile)),
		zap.String("layout", string(params.Layout)),
		zap.Int("semesters", len(semesters)))
	return &buf, name, nil
}

// ExportXLSX writes one styled sheet of grades plus a summary sheet of
// per-semester and cumulative QPIs.
func (s *exportService) ExportXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	record, semesters, gradesBySemester, err := s.loadGraph(ctx)
	if err != nil {
		return nil, "", err
	}

	book := excelize.NewFile()
	defer book.Close()

	const gradeSheet = "Grades"
	book.SetSheetName(book.GetSheetName(0), gradeSheet)

	headerStyle, err := book.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, "", err
	}

	for i, title := range fullHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		book.SetCellValue(gradeSheet, cell, title)
	}
	endCol, _ := excelize.CoordinatesToCellName(len(fullHeader), 1)
	book.SetCellStyle(gradeSheet, "A1", endCol, headerStyle)

	rowNum := 2
	for i := range semesters {
		sem := &semesters[i]
		for _, g := range gradesBySemester[sem.ID] {
			for col, value := range gradeRow(&g, sem, ProfileFull) {
				cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
				book.SetCellValue(gradeSheet, cell, value)
			}
			rowNum++
		}
	}
	book.SetColWidth(gradeSheet, "A", "B", 24)

	const summarySheet = "Summary"
	if _, err := book.NewSheet(summarySheet); err != nil {
		return nil, "", err
	}
	book.SetCellValue(summarySheet, "A1", "Semester")
	book.SetCellValue(summarySheet, "B1", "QPI")
	book.SetCellStyle(summarySheet, "A1", "B1", headerStyle)
	sumRow := 2
	for i := range semesters {
		sem := &semesters[i]
		book.SetCellValue(summarySheet, fmt.Sprintf("A%d", sumRow), sectionLabel(sem))
		if sem.SemesterQPI != nil {
			book.SetCellValue(summarySheet, fmt.Sprintf("B%d", sumRow), *sem.SemesterQPI)
		}
		sumRow++
	}
	book.SetCellValue(summarySheet, fmt.Sprintf("A%d", sumRow), "Cumulative")
	if record.CumulativeQPI != nil {
		book.SetCellValue(summarySheet, fmt.Sprintf("B%d", sumRow), *record.CumulativeQPI)
	}
	book.SetColWidth(summarySheet, "A", "A", 36)

	buf, err := book.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("academic-record-%s.xlsx", s.now().Format("20060102"))
	return buf, name, nil
}

// TemplateCSV is the downloadable sample import file.
func (s *exportService) TemplateCSV() (*bytes.Buffer, string) {
	return bytes.NewBuffer(sampleCSV()), "import-template.csv"
}

// loadGraph reads the full record hierarchy in display order.
func (s *exportService) loadGraph(ctx context.Context) (*model.AcademicRecord, []model.SemesterRecord, map[string][]model.GradeRecord, error) {
	record, err := getOrCreateRecord(ctx, s.repo, s.now())
	if err != nil {
		return nil, nil, nil, err
	}
	semesters, err := s.repo.Semester.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	gradesBySemester := make(map[string][]model.GradeRecord, len(semesters))
	for i := range semesters {
		grades, err := s.repo.Grade.ListBySemester(ctx, semesters[i].ID)
		if err != nil {
			return nil, nil, nil, err
		}
		gradesBySemester[semesters[i].ID] = grades
	}
	return record, semesters, gradesBySemester, nil
}
