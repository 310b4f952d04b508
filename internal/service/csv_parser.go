package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gab-cat/qpi-calculator-sub000/internal/qpi"
)

// ── CSV import normalizer ──────────────────────────────────────
//
// Pipeline: raw text → parsed rows → validated rows → semester-grouped
// entries. Row problems accumulate across the whole file so the caller
// gets one complete validation report; only file-level failures
// (unreadable input, missing required column) abort early. Nothing here
// touches storage: ImportService commits the grouped entries afterward.
// ────────────────────────────────────────────────────────────────

// ErrMissingColumn aborts the import when a required header is absent.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnError names the absent required column.
type MissingColumnError struct {
	Field string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column: %s", e.Field)
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumn }

// csvField is a logical import column.
type csvField string

const (
	fieldCourseCode     csvField = "courseCode"
	fieldCourseTitle    csvField = "courseTitle"
	fieldUnits          csvField = "units"
	fieldNumericalGrade csvField = "numericalGrade"
	fieldNotes          csvField = "notes"
	fieldSemester       csvField = "semester"
	fieldAcademicYear   csvField = "academicYear"
	fieldYearLevel      csvField = "yearLevel"
)

// csvHeaderSpellings maps each logical field to its accepted header
// spellings: human Title Case, machine camelCase, and a legacy alias.
// Matching is case-insensitive after trimming. The header row is
// inspected once and the field→index mapping is fixed for the file.
var csvHeaderSpellings = map[csvField][]string{
	fieldCourseCode:     {"course code", "coursecode", "code"},
	fieldCourseTitle:    {"course title", "coursetitle", "title"},
	fieldUnits:          {"units", "units", "credits"},
	fieldNumericalGrade: {"numerical grade", "numericalgrade", "grade"},
	fieldNotes:          {"notes", "notes", "remarks"},
	fieldSemester:       {"semester", "semester", "term"},
	fieldAcademicYear:   {"academic year", "academicyear", "school year"},
	fieldYearLevel:      {"year level", "yearlevel", "year"},
}

var requiredCSVFields = []csvField{
	fieldCourseCode, fieldCourseTitle, fieldUnits, fieldNumericalGrade,
}

// csvRowError is one validation failure on one data row. Rows are
// numbered 1-based excluding the header.
type csvRowError struct {
	Row    int
	Field  string
	Value  string
	Reason string
}

// csvEntry is a validated, GradeRecord-shaped import row tagged with
// its semester group key.
type csvEntry struct {
	SourceRow      int
	CourseCode     string
	CourseTitle    string
	Units          float64
	NumericalGrade *float64
	LetterGrade    string
	GradePoint     float64
	QualityPoints  float64
	Notes          string
	YearLevel      int    // 0 when the file does not say
	AcademicYear   string // normalized "YYYY-YYYY"; "" when unspecified
	SemesterType   string // normalized; "" when unspecified
}

// GroupKey buckets entries by their normalized semester identity. Rows
// sharing a key must land in the same semester regardless of order.
func (e *csvEntry) GroupKey() string {
	if e.AcademicYear == "" && e.SemesterType == "" {
		return ""
	}
	return e.AcademicYear + "-" + e.SemesterType
}

// csvParseResult is the output of the normalizer: valid entries plus
// the complete list of row errors.
type csvParseResult struct {
	TotalRows int
	Entries   []csvEntry
	Errors    []csvRowError
}

// parseGradeCSV reads RFC 4180 CSV (quoted fields, doubled quotes,
// embedded delimiters and newlines) and normalizes it.
func parseGradeCSV(r io.Reader) (*csvParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	return parseGradeRows(rows)
}

// parseGradeRows normalizes pre-split rows. The XLSX import path feeds
// sheet rows through here so both formats share one pipeline.
func parseGradeRows(rows [][]string) (*csvParseResult, error) {
	if len(rows) == 0 {
		return nil, &MissingColumnError{Field: string(fieldCourseCode)}
	}

	index, err := detectDialect(rows[0])
	if err != nil {
		return nil, err
	}

	result := &csvParseResult{}
	rowNum := 0
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rowNum++
		result.TotalRows++

		entry, rowErrs := validateRow(rowNum, row, index)
		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, rowErrs...)
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}

// detectDialect resolves the header row into a fixed field→index map.
// Required fields must all be present; optional ones may be absent.
func detectDialect(header []string) (map[csvField]int, error) {
	index := make(map[csvField]int, len(csvHeaderSpellings))

	for i, cell := range header {
		name := normalizeHeader(cell)
		for field, spellings := range csvHeaderSpellings {
			if _, taken := index[field]; taken {
				continue
			}
			for _, s := range spellings {
				if name == s {
					index[field] = i
					break
				}
			}
		}
	}

	for _, field := range requiredCSVFields {
		if _, ok := index[field]; !ok {
			return nil, &MissingColumnError{Field: string(field)}
		}
	}
	return index, nil
}

func normalizeHeader(cell string) string {
	cell = strings.TrimPrefix(cell, "\ufeff")
	return strings.ToLower(strings.TrimSpace(cell))
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func cellAt(row []string, index map[csvField]int, field csvField) (string, bool) {
	i, ok := index[field]
	if !ok || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

// validateRow applies every field check and returns either a complete
// entry or the full list of reasons the row is invalid.
func validateRow(rowNum int, row []string, index map[csvField]int) (csvEntry, []csvRowError) {
	var errs []csvRowError
	fail := func(field csvField, value, reason string) {
		errs = append(errs, csvRowError{Row: rowNum, Field: string(field), Value: value, Reason: reason})
	}

	entry := csvEntry{SourceRow: rowNum}

	code, _ := cellAt(row, index, fieldCourseCode)
	if len(code) < 3 || len(code) > 20 {
		fail(fieldCourseCode, code, "course code must be 3-20 characters")
	} else {
		entry.CourseCode = code
	}

	title, _ := cellAt(row, index, fieldCourseTitle)
	if len(title) < 1 || len(title) > 200 {
		fail(fieldCourseTitle, title, "course title must be 1-200 characters")
	} else {
		entry.CourseTitle = title
	}

	unitsText, _ := cellAt(row, index, fieldUnits)
	units, err := strconv.ParseFloat(unitsText, 64)
	if err != nil || math.IsNaN(units) || units <= 0 || units > 6 {
		fail(fieldUnits, unitsText, "units must be a number greater than 0 and at most 6")
	} else {
		entry.Units = units
	}

	// An empty grade cell means the course has no grade entered yet.
	gradeText, _ := cellAt(row, index, fieldNumericalGrade)
	if gradeText != "" {
		grade, err := strconv.ParseFloat(gradeText, 64)
		if err != nil {
			fail(fieldNumericalGrade, gradeText, "numerical grade must be a number between 0 and 100")
		} else if band, cerr := qpi.Classify(grade); cerr != nil {
			fail(fieldNumericalGrade, gradeText, "numerical grade must be a number between 0 and 100")
		} else {
			entry.NumericalGrade = &grade
			entry.LetterGrade = band.Letter
			entry.GradePoint = band.GradePoint
			entry.QualityPoints = qpi.QualityPoints(units, band.GradePoint)
		}
	}

	if notes, ok := cellAt(row, index, fieldNotes); ok {
		if len(notes) > 500 {
			fail(fieldNotes, notes, "notes must be at most 500 characters")
		} else {
			entry.Notes = notes
		}
	}

	if levelText, ok := cellAt(row, index, fieldYearLevel); ok && levelText != "" {
		level, err := strconv.Atoi(levelText)
		if err != nil || level < 1 || level > 5 {
			fail(fieldYearLevel, levelText, "year level must be an integer between 1 and 5")
		} else {
			entry.YearLevel = level
		}
	}

	if yearText, ok := cellAt(row, index, fieldAcademicYear); ok && yearText != "" {
		year, err := normalizeAcademicYear(yearText)
		if err != nil {
			fail(fieldAcademicYear, yearText, "academic year must be YYYY or YYYY-YYYY")
		} else {
			entry.AcademicYear = year
		}
	}

	if semText, ok := cellAt(row, index, fieldSemester); ok && semText != "" {
		sem, err := normalizeSemesterType(semText)
		if err != nil {
			fail(fieldSemester, semText, "semester must be first, second or summer")
		} else {
			entry.SemesterType = sem
		}
	}

	if len(errs) > 0 {
		return csvEntry{}, errs
	}
	return entry, nil
}

// normalizeAcademicYear canonicalizes to "YYYY-YYYY". A bare 4-digit
// year names the school year ending in it: "2021" → "2020-2021".
func normalizeAcademicYear(s string) (string, error) {
	s = strings.TrimSpace(s)

	if len(s) == 4 {
		year, err := strconv.Atoi(s)
		if err != nil || year < 1900 || year > 2200 {
			return "", fmt.Errorf("invalid academic year %q", s)
		}
		return fmt.Sprintf("%d-%d", year-1, year), nil
	}

	parts := strings.SplitN(s, "-", 2)
	if len(parts) == 2 {
		from, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		to, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 == nil && err2 == nil && to == from+1 && from >= 1900 && from <= 2200 {
			return fmt.Sprintf("%d-%d", from, to), nil
		}
	}
	return "", fmt.Errorf("invalid academic year %q", s)
}

// normalizeSemesterType lower-cases and trims the semester text and
// accepts the common aliases seen in exported files.
func normalizeSemesterType(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first", "1st", "1st sem", "first semester", "1":
		return "first", nil
	case "second", "2nd", "2nd sem", "second semester", "2":
		return "second", nil
	case "summer", "intersession", "midyear":
		return "summer", nil
	default:
		return "", fmt.Errorf("unrecognized semester %q", s)
	}
}
