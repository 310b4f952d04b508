package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/gab-cat/qpi-calculator-sub000/internal/model"
)

// ── CSV export serializer ──────────────────────────────────────
//
// Inverse of the import normalizer. Two header profiles:
//   - full: every stored and derived field plus semester context
//   - reimport: only what reconstructs a GradeRecord losslessly;
//     derived letter/point/quality-points are excluded on purpose
//     since they are recomputable
//
// Two layouts:
//   - flat: one table, all semesters interleaved, optional trailing
//     summary block
//   - sectioned: one table per semester, ordered by
//     (yearLevel, first < second < summer), separated by label lines
//
// Quoting follows RFC 4180 via encoding/csv: a field is quoted iff it
// contains the delimiter, a quote or a line break; quotes double.
// ────────────────────────────────────────────────────────────────

// ExportProfile selects the exported column set.
type ExportProfile string

// ExportLayout selects the table arrangement.
type ExportLayout string

const (
	ProfileFull     ExportProfile = "full"
	ProfileReimport ExportProfile = "reimport"

	LayoutFlat      ExportLayout = "flat"
	LayoutSectioned ExportLayout = "sectioned"
)

type exportOptions struct {
	Profile        ExportProfile
	Layout         ExportLayout
	IncludeSummary bool
}

var (
	reimportHeader = []string{
		"Course Code", "Course Title", "Units", "Numerical Grade",
		"Notes", "Semester", "Academic Year", "Year Level",
	}
	fullHeader = []string{
		"Course Code", "Course Title", "Units", "Numerical Grade",
		"Letter Grade", "Grade Point", "Quality Points",
		"Notes", "Semester", "Academic Year", "Year Level",
	}
)

// writeGradeCSV serializes the record graph into buf. Semesters are
// expected in display order; grades in their user-significant order.
func writeGradeCSV(
	buf *bytes.Buffer,
	record *model.AcademicRecord,
	semesters []model.SemesterRecord,
	gradesBySemester map[string][]model.GradeRecord,
	opts exportOptions,
) error {
	w := csv.NewWriter(buf)

	switch opts.Layout {
	case LayoutSectioned:
		for i := range semesters {
			s := &semesters[i]
			if err := w.Write([]string{sectionLabel(s)}); err != nil {
				return err
			}
			if err := w.Write(headerFor(opts.Profile)); err != nil {
				return err
			}
			for _, g := range gradesBySemester[s.ID] {
				if err := w.Write(gradeRow(&g, s, opts.Profile)); err != nil {
					return err
				}
			}
			if err := w.Write([]string{""}); err != nil {
				return err
			}
		}
	default: // flat
		if err := w.Write(headerFor(opts.Profile)); err != nil {
			return err
		}
		for i := range semesters {
			s := &semesters[i]
			for _, g := range gradesBySemester[s.ID] {
				if err := w.Write(gradeRow(&g, s, opts.Profile)); err != nil {
					return err
				}
			}
		}
		if opts.IncludeSummary {
			if err := writeSummaryBlock(w, record, semesters); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func headerFor(profile ExportProfile) []string {
	if profile == ProfileFull {
		return fullHeader
	}
	return reimportHeader
}

func gradeRow(g *model.GradeRecord, s *model.SemesterRecord, profile ExportProfile) []string {
	base := []string{
		g.CourseCode,
		g.CourseTitle,
		formatFloat(g.Units),
		formatOptFloat(g.NumericalGrade),
	}

	if profile == ProfileFull {
		letter := ""
		if g.LetterGrade != nil {
			letter = *g.LetterGrade
		}
		base = append(base,
			letter,
			formatOptFloat(g.GradePoint),
			formatOptFloat(g.QualityPoints),
		)
	}

	return append(base,
		g.Notes,
		s.SemesterType,
		s.AcademicYear,
		strconv.Itoa(s.YearLevel),
	)
}

// writeSummaryBlock appends the human-readable totals after a blank
// line. The import parser never sees this block: it is for people.
func writeSummaryBlock(w *csv.Writer, record *model.AcademicRecord, semesters []model.SemesterRecord) error {
	if err := w.Write([]string{""}); err != nil {
		return err
	}
	if err := w.Write([]string{"Summary"}); err != nil {
		return err
	}
	for i := range semesters {
		s := &semesters[i]
		qpiText := "-"
		if s.SemesterQPI != nil {
			qpiText = strconv.FormatFloat(*s.SemesterQPI, 'f', 2, 64)
		}
		if err := w.Write([]string{sectionLabel(s), "QPI", qpiText}); err != nil {
			return err
		}
	}
	cumulative := "-"
	if record.CumulativeQPI != nil {
		cumulative = strconv.FormatFloat(*record.CumulativeQPI, 'f', 2, 64)
	}
	return w.Write([]string{"Cumulative", "QPI", cumulative})
}

func sectionLabel(s *model.SemesterRecord) string {
	return fmt.Sprintf("Year %d - %s (%s)", s.YearLevel, semesterTitle(s.SemesterType), s.AcademicYear)
}

func semesterTitle(t string) string {
	switch t {
	case model.SemesterFirst:
		return "First Semester"
	case model.SemesterSecond:
		return "Second Semester"
	case model.SemesterSummer:
		return "Summer"
	default:
		return t
	}
}

// formatFloat renders at full precision so a re-import parses back the
// identical value.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// sampleCSV is the downloadable import template: documentation, not a
// runtime dependency.
func sampleCSV() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(reimportHeader)
	_ = w.Write([]string{"CS101", "Introduction to Programming", "3", "95", "", "first", "2023-2024", "1"})
	_ = w.Write([]string{"MATH21", "Calculus I", "4", "88", "retake", "first", "2023-2024", "1"})
	_ = w.Write([]string{"PE100", "Physical Education", "2", "", "ongoing", "second", "2023-2024", "1"})
	w.Flush()
	return buf.Bytes()
}
