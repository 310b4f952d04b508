package qpi

import (
	"sort"
	"time"

	"github.com/gab-cat/qpi-calculator-sub000/internal/model"
)

// Graph is a snapshot of the full record hierarchy handed to the
// recalculation engine. The engine treats it as a value: input slices
// are never mutated in place.
type Graph struct {
	Record    model.AcademicRecord
	Semesters []model.SemesterRecord
	Grades    []model.GradeRecord
}

// Recalculate recomputes every derived field from the current graph and
// returns the updated graph. It is a pure, total function: the same
// graph and clock always produce identical output, it never rejects
// input, and running it twice changes nothing. The mutation layer calls
// it after each commit.
func Recalculate(g Graph, now time.Time) Graph {
	out := Graph{
		Record:    g.Record,
		Semesters: make([]model.SemesterRecord, len(g.Semesters)),
		Grades:    make([]model.GradeRecord, len(g.Grades)),
	}
	copy(out.Semesters, g.Semesters)
	copy(out.Grades, g.Grades)

	gradesBySemester := make(map[string][]model.GradeRecord, len(out.Semesters))
	for _, gr := range out.Grades {
		gradesBySemester[gr.SemesterID] = append(gradesBySemester[gr.SemesterID], gr)
	}

	// 1. Per-semester totals and QPI.
	for i := range out.Semesters {
		s := &out.Semesters[i]
		t := Aggregate(gradesBySemester[s.ID])
		s.TotalUnits = f(t.TotalUnits)
		s.TotalQualityPoints = f(t.TotalQualityPoints)
		if t.TotalUnits > 0 {
			s.SemesterQPI = f(t.QPI)
		} else {
			// QPI is undefined with no graded units.
			s.SemesterQPI = nil
		}
	}

	// 2. Yearly summaries: at most one semester per type per year, QPI as
	// the unweighted mean of whichever type QPIs exist.
	out.Record.SetYearlyQPIs(yearlySummaries(out.Semesters))

	// 3. Record totals, unit-weighted over all grades.
	total := Aggregate(out.Grades)
	out.Record.TotalUnits = f(total.TotalUnits)
	out.Record.TotalQualityPoints = f(total.TotalQualityPoints)
	if total.TotalUnits > 0 {
		out.Record.CumulativeQPI = f(total.QPI)
	} else {
		out.Record.CumulativeQPI = nil
	}

	// 4. Stamp.
	ts := now
	out.Record.LastCalculated = &ts

	return out
}

func yearlySummaries(semesters []model.SemesterRecord) []model.YearlyQPI {
	// Deterministic pick when a year/type pair is duplicated: the
	// earliest-created (then lowest-id) semester wins.
	picked := make(map[string]*model.SemesterRecord)
	for i := range semesters {
		s := &semesters[i]
		key := s.GroupKey()
		cur, ok := picked[key]
		if !ok || earlier(s, cur) {
			picked[key] = s
		}
	}

	byYear := make(map[string]*model.YearlyQPI)
	var years []string
	for _, s := range picked {
		y, ok := byYear[s.AcademicYear]
		if !ok {
			y = &model.YearlyQPI{AcademicYear: s.AcademicYear}
			byYear[s.AcademicYear] = y
			years = append(years, s.AcademicYear)
		}
		switch s.SemesterType {
		case model.SemesterFirst:
			y.FirstSemQPI = s.SemesterQPI
		case model.SemesterSecond:
			y.SecondSemQPI = s.SemesterQPI
		case model.SemesterSummer:
			y.SummerQPI = s.SemesterQPI
		}
	}

	sort.Strings(years)
	list := make([]model.YearlyQPI, 0, len(years))
	for _, year := range years {
		y := byYear[year]
		var qpis []float64
		for _, q := range []*float64{y.FirstSemQPI, y.SecondSemQPI, y.SummerQPI} {
			if q != nil {
				qpis = append(qpis, *q)
			}
		}
		if len(qpis) > 0 {
			y.YearlyQPI = f(YearlyAverage(qpis))
		}
		list = append(list, *y)
	}
	return list
}

func earlier(a, b *model.SemesterRecord) bool {
	switch {
	case a.CreatedAt == nil && b.CreatedAt == nil:
		return a.ID < b.ID
	case a.CreatedAt == nil:
		return false
	case b.CreatedAt == nil:
		return true
	case a.CreatedAt.Equal(*b.CreatedAt):
		return a.ID < b.ID
	default:
		return a.CreatedAt.Before(*b.CreatedAt)
	}
}

func f(v float64) *float64 { return &v }
