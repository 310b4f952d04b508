package qpi

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/gab-cat/qpi-calculator-sub000/internal/model"
)

func testGraph() Graph {
	sem1 := model.SemesterRecord{ID: "sem-1", YearLevel: 1, SemesterType: model.SemesterFirst, AcademicYear: "2023-2024"}
	sem2 := model.SemesterRecord{ID: "sem-2", YearLevel: 1, SemesterType: model.SemesterSecond, AcademicYear: "2023-2024"}

	g1 := gradedRecord(3, 95) // 10.5 QP
	g1.ID = "g-1"
	g1.SemesterID = "sem-1"
	g2 := gradedRecord(4, 88) // 10.0 QP
	g2.ID = "g-2"
	g2.SemesterID = "sem-1"
	g3 := gradedRecord(3, 98) // 12.0 QP
	g3.ID = "g-3"
	g3.SemesterID = "sem-2"

	return Graph{
		Record:    model.AcademicRecord{ID: model.MainRecordID},
		Semesters: []model.SemesterRecord{sem1, sem2},
		Grades:    []model.GradeRecord{g1, g2, g3},
	}
}

func TestRecalculate_SemesterTotals(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	out := Recalculate(testGraph(), now)

	s1 := out.Semesters[0]
	if s1.TotalUnits == nil || *s1.TotalUnits != 7 {
		t.Fatalf("sem-1 TotalUnits = %v, want 7", s1.TotalUnits)
	}
	if s1.TotalQualityPoints == nil || *s1.TotalQualityPoints != 20.5 {
		t.Fatalf("sem-1 TotalQualityPoints = %v, want 20.5", s1.TotalQualityPoints)
	}
	if s1.SemesterQPI == nil || math.Abs(*s1.SemesterQPI-20.5/7) > epsilon {
		t.Fatalf("sem-1 SemesterQPI = %v, want %v", s1.SemesterQPI, 20.5/7)
	}

	s2 := out.Semesters[1]
	if s2.SemesterQPI == nil || *s2.SemesterQPI != 4.0 {
		t.Fatalf("sem-2 SemesterQPI = %v, want 4.0", s2.SemesterQPI)
	}
}

func TestRecalculate_CumulativeIsUnitWeighted(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	out := Recalculate(testGraph(), now)

	r := out.Record
	if r.TotalUnits == nil || *r.TotalUnits != 10 {
		t.Fatalf("TotalUnits = %v, want 10", r.TotalUnits)
	}
	if r.TotalQualityPoints == nil || *r.TotalQualityPoints != 32.5 {
		t.Fatalf("TotalQualityPoints = %v, want 32.5", r.TotalQualityPoints)
	}
	if r.CumulativeQPI == nil || math.Abs(*r.CumulativeQPI-3.25) > epsilon {
		t.Fatalf("CumulativeQPI = %v, want 3.25", r.CumulativeQPI)
	}
	if r.LastCalculated == nil || !r.LastCalculated.Equal(now) {
		t.Fatalf("LastCalculated = %v, want %v", r.LastCalculated, now)
	}
}

func TestRecalculate_YearlyIsUnweightedMean(t *testing.T) {
	// 18 units at QPI 3.0 and 6 units at QPI 4.0 in the same year:
	// yearly = 3.5 (simple mean), cumulative = 3.25 (weighted).
	sem1 := model.SemesterRecord{ID: "s1", YearLevel: 2, SemesterType: model.SemesterFirst, AcademicYear: "2024-2025"}
	sem2 := model.SemesterRecord{ID: "s2", YearLevel: 2, SemesterType: model.SemesterSecond, AcademicYear: "2024-2025"}

	var grades []model.GradeRecord
	for i := 0; i < 6; i++ { // 6 × 3 units at grade 90 (3.0)
		g := gradedRecord(3, 90)
		g.SemesterID = "s1"
		grades = append(grades, g)
	}
	for i := 0; i < 2; i++ { // 2 × 3 units at grade 98 (4.0)
		g := gradedRecord(3, 98)
		g.SemesterID = "s2"
		grades = append(grades, g)
	}

	out := Recalculate(Graph{
		Record:    model.AcademicRecord{ID: model.MainRecordID},
		Semesters: []model.SemesterRecord{sem1, sem2},
		Grades:    grades,
	}, time.Unix(0, 0))

	yearly := out.Record.YearlyQPIList()
	if len(yearly) != 1 {
		t.Fatalf("yearly count = %d, want 1", len(yearly))
	}
	y := yearly[0]
	if y.AcademicYear != "2024-2025" {
		t.Errorf("AcademicYear = %s, want 2024-2025", y.AcademicYear)
	}
	if y.YearlyQPI == nil || math.Abs(*y.YearlyQPI-3.5) > epsilon {
		t.Errorf("YearlyQPI = %v, want 3.5 (unweighted)", y.YearlyQPI)
	}
	if out.Record.CumulativeQPI == nil || math.Abs(*out.Record.CumulativeQPI-3.25) > epsilon {
		t.Errorf("CumulativeQPI = %v, want 3.25 (unit-weighted)", out.Record.CumulativeQPI)
	}
}

func TestRecalculate_SummerIncludedOnlyWhenPresent(t *testing.T) {
	sem1 := model.SemesterRecord{ID: "s1", YearLevel: 1, SemesterType: model.SemesterFirst, AcademicYear: "2023-2024"}
	sem2 := model.SemesterRecord{ID: "s2", YearLevel: 1, SemesterType: model.SemesterSummer, AcademicYear: "2023-2024"}

	g1 := gradedRecord(3, 90) // 3.0
	g1.SemesterID = "s1"
	g2 := gradedRecord(3, 98) // 4.0
	g2.SemesterID = "s2"

	out := Recalculate(Graph{
		Record:    model.AcademicRecord{ID: model.MainRecordID},
		Semesters: []model.SemesterRecord{sem1, sem2},
		Grades:    []model.GradeRecord{g1, g2},
	}, time.Unix(0, 0))

	yearly := out.Record.YearlyQPIList()
	if len(yearly) != 1 {
		t.Fatalf("yearly count = %d, want 1", len(yearly))
	}
	y := yearly[0]
	if y.SummerQPI == nil || *y.SummerQPI != 4.0 {
		t.Errorf("SummerQPI = %v, want 4.0", y.SummerQPI)
	}
	if y.SecondSemQPI != nil {
		t.Errorf("SecondSemQPI = %v, want nil (no second semester)", y.SecondSemQPI)
	}
	if y.YearlyQPI == nil || math.Abs(*y.YearlyQPI-3.5) > epsilon {
		t.Errorf("YearlyQPI = %v, want mean of first+summer = 3.5", y.YearlyQPI)
	}
}

func TestRecalculate_Idempotent(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	once := Recalculate(testGraph(), now)
	twice := Recalculate(once, now)

	if !reflect.DeepEqual(once.Record, twice.Record) {
		t.Errorf("record differs after second recalculation:\n once: %+v\ntwice: %+v", once.Record, twice.Record)
	}
	if !reflect.DeepEqual(once.Semesters, twice.Semesters) {
		t.Errorf("semesters differ after second recalculation")
	}
	if string(once.Record.YearlyQPIs) != string(twice.Record.YearlyQPIs) {
		t.Errorf("yearly JSON differs:\n once: %s\ntwice: %s", once.Record.YearlyQPIs, twice.Record.YearlyQPIs)
	}
}

func TestRecalculate_EmptyGraph(t *testing.T) {
	out := Recalculate(Graph{Record: model.AcademicRecord{ID: model.MainRecordID}}, time.Unix(0, 0))

	if out.Record.CumulativeQPI != nil {
		t.Errorf("CumulativeQPI = %v, want nil for empty graph", out.Record.CumulativeQPI)
	}
	if out.Record.TotalUnits == nil || *out.Record.TotalUnits != 0 {
		t.Errorf("TotalUnits = %v, want 0", out.Record.TotalUnits)
	}
}

func TestRecalculate_SemesterWithOnlyUngradedCourses(t *testing.T) {
	sem := model.SemesterRecord{ID: "s1", YearLevel: 1, SemesterType: model.SemesterFirst, AcademicYear: "2023-2024"}
	out := Recalculate(Graph{
		Record:    model.AcademicRecord{ID: model.MainRecordID},
		Semesters: []model.SemesterRecord{sem},
		Grades:    []model.GradeRecord{{ID: "g", SemesterID: "s1", Units: 3}},
	}, time.Unix(0, 0))

	s := out.Semesters[0]
	if s.SemesterQPI != nil {
		t.Errorf("SemesterQPI = %v, want nil (no graded units)", s.SemesterQPI)
	}
	if s.TotalUnits == nil || *s.TotalUnits != 0 {
		t.Errorf("TotalUnits = %v, want 0 (ungraded units excluded)", s.TotalUnits)
	}
}
