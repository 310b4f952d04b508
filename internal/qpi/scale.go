// Package qpi holds the pure academic computations: the grade scale
// table, the quality-point calculator and the record recalculation
// engine. Nothing in this package touches storage or I/O.
package qpi

import (
	"errors"
	"math"
	"strings"
)

var (
	// ErrInvalidGrade rejects numerical grades outside [0,100] or non-finite.
	ErrInvalidGrade = errors.New("numerical grade must be a finite number between 0 and 100")
	// ErrInvalidLetterGrade rejects letters outside the scale.
	ErrInvalidLetterGrade = errors.New("unknown letter grade")
)

// Band is one row of the grade scale: a contiguous score range mapped to
// a letter and a grade point.
type Band struct {
	Letter     string
	MinScore   int
	MaxScore   int
	GradePoint float64
}

// Scale is the fixed 8-band grade scale, highest band first. Bands are
// contiguous and exhaustive over [0,100]: each band's MinScore is the
// previous band's MaxScore + 1.
var Scale = []Band{
	{Letter: "A", MinScore: 98, MaxScore: 100, GradePoint: 4.0},
	{Letter: "B+", MinScore: 94, MaxScore: 97, GradePoint: 3.5},
	{Letter: "B", MinScore: 90, MaxScore: 93, GradePoint: 3.0},
	{Letter: "C+", MinScore: 86, MaxScore: 89, GradePoint: 2.5},
	{Letter: "C", MinScore: 82, MaxScore: 85, GradePoint: 2.0},
	{Letter: "D+", MinScore: 78, MaxScore: 81, GradePoint: 1.5},
	{Letter: "D", MinScore: 75, MaxScore: 77, GradePoint: 1.0},
	{Letter: "F", MinScore: 0, MaxScore: 74, GradePoint: 0.0},
}

// LetterInc marks an incomplete grade. It is accepted as a letter-only
// entry with grade point 0 but is never produced by the numeric scale.
const LetterInc = "INC"

// Classify returns the unique band containing score. Bands are
// lower-bound inclusive, so fractional scores fall into the band whose
// MinScore they reach.
func Classify(score float64) (Band, error) {
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 || score > 100 {
		return Band{}, ErrInvalidGrade
	}
	for _, b := range Scale {
		if score >= float64(b.MinScore) {
			return b, nil
		}
	}
	// Unreachable: the last band starts at 0.
	return Scale[len(Scale)-1], nil
}

// GradePointOf is the case-insensitive inverse lookup from letter to
// grade point. INC maps to 0.
func GradePointOf(letter string) (float64, error) {
	up := strings.ToUpper(strings.TrimSpace(letter))
	if up == LetterInc {
		return 0, nil
	}
	for _, b := range Scale {
		if b.Letter == up {
			return b.GradePoint, nil
		}
	}
	return 0, ErrInvalidLetterGrade
}
