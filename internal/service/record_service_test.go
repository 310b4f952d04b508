package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/gab-cat/qpi-calculator-sub000/internal/dto"
)

const epsilon = 1e-9

func seedSemester(t *testing.T, svc *recordService, year, semType string) string {
	t.Helper()
	resp, err := svc.CreateSemester(context.Background(), &dto.CreateSemesterRequest{
		YearLevel:    1,
		SemesterType: semType,
		AcademicYear: year,
	})
	if err != nil {
		t.Fatalf("CreateSemester: %v", err)
	}
	return resp.ID
}

func seedGrade(t *testing.T, svc *recordService, semesterID string, units, score float64) string {
	t.Helper()
	resp, err := svc.AddGrade(context.Background(), semesterID, &dto.AddGradeRequest{
		CourseCode:     "CS101",
		CourseTitle:    "Intro",
		Units:          units,
		NumericalGrade: &score,
	})
	if err != nil {
		t.Fatalf("AddGrade: %v", err)
	}
	return resp.ID
}

func TestGetRecordCreatesDefault(t *testing.T) {
	svc := newTestRecordService(newMockRepository())

	record, err := svc.GetRecord(context.Background())
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if record.ID != "main" {
		t.Errorf("record id = %q", record.ID)
	}
	if record.Configuration.TotalYears != 4 || record.Configuration.IncludesSummer {
		t.Errorf("default configuration = %+v", record.Configuration)
	}
	if record.CumulativeQPI != nil {
		t.Error("empty record has a cumulative QPI")
	}
}

func TestCreateSemesterNormalizesAndRejectsDuplicates(t *testing.T) {
	svc := newTestRecordService(newMockRepository())
	ctx := context.Background()

	resp, err := svc.CreateSemester(ctx, &dto.CreateSemesterRequest{
		YearLevel:    1,
		SemesterType: "1st",
		AcademicYear: "2024",
	})
	if err != nil {
		t.Fatalf("CreateSemester: %v", err)
	}
	if resp.AcademicYear != "2023-2024" || resp.SemesterType != "first" {
		t.Errorf("not normalized: %s %s", resp.AcademicYear, resp.SemesterType)
	}

	// Same identity under a different spelling.
	_, err = svc.CreateSemester(ctx, &dto.CreateSemesterRequest{
		YearLevel:    1,
		SemesterType: "First Semester",
		AcademicYear: "2023-2024",
	})
	if !errors.Is(err, ErrSemesterExists) {
		t.Fatalf("duplicate accepted: %v", err)
	}
}

func TestAddGradeRecalculatesAggregates(t *testing.T) {
	svc := newTestRecordService(newMockRepository())
	ctx := context.Background()

	semID := seedSemester(t, svc, "2023-2024", "first")
	seedGrade(t, svc, semID, 3, 95) // B+ 3.5 → 10.5 QP

	sem, err := svc.GetSemester(ctx, semID)
	if err != nil {
		t.Fatalf("GetSemester: %v", err)
	}
	if sem.SemesterQPI == nil || math.Abs(*sem.SemesterQPI-3.5) > epsilon {
		t.Errorf("semester QPI = %v, want 3.5", sem.SemesterQPI)
	}
	if sem.TotalUnits == nil || *sem.TotalUnits != 3 {
		t.Errorf("total units = %v", sem.TotalUnits)
	}

	record, err := svc.GetRecord(ctx)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if record.CumulativeQPI == nil || math.Abs(*record.CumulativeQPI-3.5) > epsilon {
		t.Errorf("cumulative QPI = %v, want 3.5", record.CumulativeQPI)
	}
	if len(record.YearlyQPIs) != 1 || record.YearlyQPIs[0].AcademicYear != "2023-2024" {
		t.Errorf("yearly summaries = %+v", record.YearlyQPIs)
	}
	if record.LastCalculated == "" {
		t.Error("LastCalculated not stamped")
	}
}

func TestUpdateScoreVariants(t *testing.T) {
	svc := newTestRecordService(newMockRepository())
	ctx := context.Background()

	semID := seedSemester(t, svc, "2023-2024", "first")
	gradeID := seedGrade(t, svc, semID, 3, 95)

	// Replace the number: everything rederives.
	score := 99.0
	resp, err := svc.UpdateScore(ctx, gradeID, &dto.UpdateScoreRequest{NumericalGrade: &score})
	if err != nil {
		t.Fatalf("UpdateScore: %v", err)
	}
	if resp.LetterGrade == nil || *resp.LetterGrade != "A" || *resp.QualityPoints != 12 {
		t.Errorf("rederived = %+v", resp)
	}

	// INC: letter-only, point 0, still counts its units.
	inc := "inc"
	resp, err = svc.UpdateScore(ctx, gradeID, &dto.UpdateScoreRequest{LetterGrade: &inc})
	if err != nil {
		t.Fatalf("UpdateScore INC: %v", err)
	}
	if resp.NumericalGrade != nil || *resp.LetterGrade != "INC" || *resp.GradePoint != 0 {
		t.Errorf("INC entry = %+v", resp)
	}
	sem, _ := svc.GetSemester(ctx, semID)
	if sem.SemesterQPI == nil || *sem.SemesterQPI != 0 {
		t.Errorf("INC semester QPI = %v, want 0", sem.SemesterQPI)
	}

	// Clear: back to ungraded, QPI becomes undefined again.
	resp, err = svc.UpdateScore(ctx, gradeID, &dto.UpdateScoreRequest{Clear: true})
	if err != nil {
		t.Fatalf("UpdateScore clear: %v", err)
	}
	if resp.NumericalGrade != nil || resp.QualityPoints != nil {
		t.Errorf("cleared entry = %+v", resp)
	}
	sem, _ = svc.GetSemester(ctx, semID)
	if sem.SemesterQPI != nil {
		t.Errorf("cleared semester QPI = %v, want nil", *sem.SemesterQPI)
	}

	// Arbitrary letters are not writable.
	letter := "B+"
	if _, err := svc.UpdateScore(ctx, gradeID, &dto.UpdateScoreRequest{LetterGrade: &letter}); !errors.Is(err, ErrInvalidLetter) {
		t.Errorf("letter B+ accepted: %v", err)
	}

	// More than one field set at once.
	if _, err := svc.UpdateScore(ctx, gradeID, &dto.UpdateScoreRequest{NumericalGrade: &score, Clear: true}); !errors.Is(err, ErrScoreConflict) {
		t.Errorf("conflicting request accepted: %v", err)
	}
}

func TestUpdateGradeUnitsRederivesQualityPoints(t *testing.T) {
	svc := newTestRecordService(newMockRepository())
	ctx := context.Background()

	semID := seedSemester(t, svc, "2023-2024", "first")
	gradeID := seedGrade(t, svc, semID, 3, 95) // 10.5 QP

	units := 4.0
	resp, err := svc.UpdateGrade(ctx, gradeID, &dto.UpdateGradeRequest{Units: &units})
	if err != nil {
		t.Fatalf("UpdateGrade: %v", err)
	}
	if resp.QualityPoints == nil || math.Abs(*resp.QualityPoints-14) > epsilon {
		t.Errorf("quality points = %v, want 14", resp.QualityPoints)
	}
}

func TestRemoveGradeClosesPositionGap(t *testing.T) {
	svc := newTestRecordService(newMockRepository())
	ctx := context.Background()

	semID := seedSemester(t, svc, "2023-2024", "first")
	first := seedGrade(t, svc, semID, 3, 95)
	_ = seedGrade(t, svc, semID, 3, 90)
	_ = seedGrade(t, svc, semID, 3, 85)

	if err := svc.RemoveGrade(ctx, first); err != nil {
		t.Fatalf("RemoveGrade: %v", err)
	}

	sem, err := svc.GetSemester(ctx, semID)
	if err != nil {
		t.Fatalf("GetSemester: %v", err)
	}
	if len(sem.Grades) != 2 {
		t.Fatalf("got %d grades, want 2", len(sem.Grades))
	}
	for i, g := range sem.Grades {
		if g.Position != i {
			t.Errorf("grade %d at position %d", i, g.Position)
		}
	}
}

func TestReorderGradesValidatesPermutation(t *testing.T) {
	svc := newTestRecordService(newMockRepository())
	ctx := context.Background()

	semID := seedSemester(t, svc, "2023-2024", "first")
	a := seedGrade(t, svc, semID, 3, 95)
	b := seedGrade(t, svc, semID, 3, 90)

	resp, err := svc.ReorderGrades(ctx, semID, &dto.ReorderGradesRequest{GradeIDs: []string{b, a}})
	if err != nil {
		t.Fatalf("ReorderGrades: %v", err)
	}
	if resp.Grades[0].ID != b || resp.Grades[1].ID != a {
		t.Errorf("order not applied: %s %s", resp.Grades[0].ID, resp.Grades[1].ID)
	}

	for _, bad := range [][]string{
		{a},              // incomplete
		{a, a},           // repeated
		{a, b, "ghost"},  // wrong length
		{a, "not-there"}, // unknown id
	} {
		if _, err := svc.ReorderGrades(ctx, semID, &dto.ReorderGradesRequest{GradeIDs: bad}); !errors.Is(err, ErrReorderMismatch) {
			t.Errorf("ReorderGrades(%v) = %v, want ErrReorderMismatch", bad, err)
		}
	}
}

func TestDeleteSemesterCascades(t *testing.T) {
	repo := newMockRepository()
	svc := newTestRecordService(repo)
	ctx := context.Background()

	semID := seedSemester(t, svc, "2023-2024", "first")
	seedGrade(t, svc, semID, 3, 95)
	otherID := seedSemester(t, svc, "2023-2024", "second")
	seedGrade(t, svc, otherID, 4, 88)

	if err := svc.DeleteSemester(ctx, semID); err != nil {
		t.Fatalf("DeleteSemester: %v", err)
	}
	if _, err := svc.GetSemester(ctx, semID); !errors.Is(err, ErrSemesterNotFound) {
		t.Errorf("deleted semester still readable: %v", err)
	}

	grades, _ := repo.Grade.ListAll(ctx)
	for _, g := range grades {
		if g.SemesterID == semID {
			t.Error("orphan grade survived the cascade")
		}
	}

	// Aggregates now reflect only the surviving semester: 4u × 2.5.
	record, err := svc.GetRecord(ctx)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if record.CumulativeQPI == nil || math.Abs(*record.CumulativeQPI-2.5) > epsilon {
		t.Errorf("cumulative QPI = %v, want 2.5", record.CumulativeQPI)
	}
}

func TestUpdateConfiguration(t *testing.T) {
	svc := newTestRecordService(newMockRepository())
	yes := true

	record, err := svc.UpdateConfiguration(context.Background(), &dto.UpdateConfigurationRequest{
		TotalYears:     5,
		IncludesSummer: &yes,
	})
	if err != nil {
		t.Fatalf("UpdateConfiguration: %v", err)
	}
	if record.Configuration.TotalYears != 5 || !record.Configuration.IncludesSummer {
		t.Errorf("configuration = %+v", record.Configuration)
	}
}

func TestUpdateSemesterIdentityCollision(t *testing.T) {
	svc := newTestRecordService(newMockRepository())
	ctx := context.Background()

	seedSemester(t, svc, "2023-2024", "first")
	secondID := seedSemester(t, svc, "2023-2024", "second")

	toFirst := "first"
	if _, err := svc.UpdateSemester(ctx, secondID, &dto.UpdateSemesterRequest{SemesterType: &toFirst}); !errors.Is(err, ErrSemesterExists) {
		t.Fatalf("identity collision accepted: %v", err)
	}

	// Moving to a free slot works.
	year := "2024-2025"
	resp, err := svc.UpdateSemester(ctx, secondID, &dto.UpdateSemesterRequest{AcademicYear: &year})
	if err != nil {
		t.Fatalf("UpdateSemester: %v", err)
	}
	if resp.AcademicYear != "2024-2025" {
		t.Errorf("academic year = %q", resp.AcademicYear)
	}
}
