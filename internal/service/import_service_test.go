package service

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/gab-cat/qpi-calculator-sub000/internal/dto"
)

func TestImportCSVCreatesSemestersAndGrades(t *testing.T) {
	repo := newMockRepository()
	svc := newTestImportService(repo)
	ctx := context.Background()

	file := "Course Code,Course Title,Units,Numerical Grade,Semester,Academic Year,Year Level\n" +
		"CS101,Intro,3,95,first,2023-2024,1\n" +
		"MA101,Calculus,4,88,first,2023-2024,1\n" +
		"CS102,Data Structures,3,90,second,2023-2024,1\n"

	report, err := svc.ImportCSV(ctx, strings.NewReader(file), nil, false)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if report.TotalRows != 3 || report.ValidRows != 3 || report.GradesAdded != 3 {
		t.Errorf("report = %+v", report)
	}
	if len(report.SemestersCreated) != 2 {
		t.Errorf("semesters created = %v, want 2", report.SemestersCreated)
	}

	semesters, _ := repo.Semester.List(ctx)
	if len(semesters) != 2 {
		t.Fatalf("got %d semesters", len(semesters))
	}

	// Aggregates were recalculated in the same commit.
	record, err := repo.Record.Get(ctx)
	if err != nil {
		t.Fatalf("record not created: %v", err)
	}
	// 3×3.5 + 4×2.5 + 3×3.0 = 29.5 over 10 units.
	if record.CumulativeQPI == nil || math.Abs(*record.CumulativeQPI-2.95) > epsilon {
		t.Errorf("cumulative QPI = %v, want 2.95", record.CumulativeQPI)
	}
}

func TestImportCSVReusesSemesterByKey(t *testing.T) {
	repo := newMockRepository()
	recordSvc := newTestRecordService(repo)
	importSvc := newTestImportService(repo)
	ctx := context.Background()

	semID := seedSemester(t, recordSvc, "2023-2024", "first")
	seedGrade(t, recordSvc, semID, 3, 95)

	// The bare year and alias spell the same semester key.
	file := "Course Code,Course Title,Units,Numerical Grade,Semester,Academic Year\n" +
		"MA101,Calculus,4,88,1st,2024\n"

	report, err := importSvc.ImportCSV(ctx, strings.NewReader(file), nil, false)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if len(report.SemestersCreated) != 0 || len(report.SemestersReused) != 1 {
		t.Errorf("report = %+v", report)
	}

	grades, _ := repo.Grade.ListBySemester(ctx, semID)
	if len(grades) != 2 {
		t.Fatalf("got %d grades in the reused semester", len(grades))
	}
	// Imported grades append after existing ones.
	if grades[1].CourseCode != "MA101" || grades[1].Position != 1 {
		t.Errorf("appended grade = %+v", grades[1])
	}
}

func TestImportCSVFallbackPlacement(t *testing.T) {
	repo := newMockRepository()
	svc := newTestImportService(repo)
	ctx := context.Background()

	file := "Course Code,Course Title,Units,Numerical Grade\nCS101,Intro,3,95\n"

	// Without a fallback the row has nowhere to go.
	report, err := svc.ImportCSV(ctx, strings.NewReader(file), nil, false)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if report.GradesAdded != 0 || report.InvalidRows != 1 {
		t.Errorf("report without fallback = %+v", report)
	}

	// With one, the row lands there.
	opts := &dto.ImportOptionsRequest{AcademicYear: "2024", SemesterType: "1st", YearLevel: 2}
	report, err = svc.ImportCSV(ctx, strings.NewReader(file), opts, false)
	if err != nil {
		t.Fatalf("ImportCSV with fallback: %v", err)
	}
	if report.GradesAdded != 1 || len(report.SemestersCreated) != 1 {
		t.Fatalf("report with fallback = %+v", report)
	}

	sem, err := repo.Semester.GetByKey(ctx, "2023-2024", "first")
	if err != nil {
		t.Fatalf("fallback semester not created: %v", err)
	}
	if sem.YearLevel != 2 {
		t.Errorf("year level = %d, want 2 from options", sem.YearLevel)
	}
}

func TestImportCSVPartialPlacement(t *testing.T) {
	repo := newMockRepository()
	svc := newTestImportService(repo)
	ctx := context.Background()

	// Semester column only, no academic year anywhere: the row fails,
	// nothing half-placed is created.
	file := "Course Code,Course Title,Units,Numerical Grade,Semester\n" +
		"CS101,Intro,3,95,first\n"
	report, err := svc.ImportCSV(ctx, strings.NewReader(file), nil, false)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if report.GradesAdded != 0 || report.InvalidRows != 1 {
		t.Errorf("report without fallback = %+v", report)
	}
	if semesters, _ := repo.Semester.List(ctx); len(semesters) != 0 {
		t.Fatalf("half-placed semester created: %+v", semesters)
	}

	// The fallback options supply the missing half.
	opts := &dto.ImportOptionsRequest{AcademicYear: "2023-2024"}
	report, err = svc.ImportCSV(ctx, strings.NewReader(file), opts, false)
	if err != nil {
		t.Fatalf("ImportCSV with fallback year: %v", err)
	}
	if report.GradesAdded != 1 || len(report.SemestersCreated) != 1 {
		t.Fatalf("report with fallback year = %+v", report)
	}
	if _, err := repo.Semester.GetByKey(ctx, "2023-2024", "first"); err != nil {
		t.Errorf("semester not placed under the fallback year: %v", err)
	}

	// Mirror case: year column only, semester type from the options.
	file = "Course Code,Course Title,Units,Numerical Grade,Academic Year\n" +
		"MA101,Calculus,4,88,2022-2023\n"
	report, err = svc.ImportCSV(ctx, strings.NewReader(file), &dto.ImportOptionsRequest{SemesterType: "2nd"}, false)
	if err != nil {
		t.Fatalf("ImportCSV with fallback semester: %v", err)
	}
	if report.GradesAdded != 1 {
		t.Fatalf("report with fallback semester = %+v", report)
	}
	if _, err := repo.Semester.GetByKey(ctx, "2022-2023", "second"); err != nil {
		t.Errorf("semester not placed under the fallback type: %v", err)
	}
}

func TestImportCSVDryRunWritesNothing(t *testing.T) {
	repo := newMockRepository()
	svc := newTestImportService(repo)
	ctx := context.Background()

	file := "Course Code,Course Title,Units,Numerical Grade,Semester,Academic Year\n" +
		"CS101,Intro,3,95,first,2023-2024\n" +
		"XX,Bad,99,150,first,2023-2024\n"

	report, err := svc.ImportCSV(ctx, strings.NewReader(file), nil, true)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if !report.DryRun {
		t.Error("report not marked dry-run")
	}
	if report.ValidRows != 1 || report.InvalidRows != 1 || report.GradesAdded != 1 {
		t.Errorf("report = %+v", report)
	}
	if len(report.SemestersCreated) != 1 {
		t.Errorf("semesters created = %v", report.SemestersCreated)
	}

	semesters, _ := repo.Semester.List(ctx)
	grades, _ := repo.Grade.ListAll(ctx)
	if len(semesters) != 0 || len(grades) != 0 {
		t.Errorf("dry run persisted %d semesters, %d grades", len(semesters), len(grades))
	}
}

func TestImportCSVCountsInvalidRowsNotErrors(t *testing.T) {
	svc := newTestImportService(newMockRepository())

	// One row, several problems on it.
	file := "Course Code,Course Title,Units,Numerical Grade,Semester,Academic Year\n" +
		"X,,0,200,first,2023-2024\n"

	report, err := svc.ImportCSV(context.Background(), strings.NewReader(file), nil, false)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if report.InvalidRows != 1 {
		t.Errorf("InvalidRows = %d, want 1", report.InvalidRows)
	}
	if len(report.Errors) < 3 {
		t.Errorf("got %d errors, want one per failed check", len(report.Errors))
	}
}
