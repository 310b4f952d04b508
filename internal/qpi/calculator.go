package qpi

import "github.com/gab-cat/qpi-calculator-sub000/internal/model"

// Totals is the aggregate over a set of graded courses.
type Totals struct {
	TotalUnits         float64
	TotalQualityPoints float64
	QPI                float64
}

// QualityPoints computes units × gradePoint for one course. No
// rounding; display precision is the caller's concern.
func QualityPoints(units, gradePoint float64) float64 {
	return units * gradePoint
}

// Aggregate sums units and quality points over the records that have a
// grade entered, skipping ungraded ones entirely. QPI is 0 when no
// graded units exist; the caller distinguishes "no data" from a real 0.
func Aggregate(records []model.GradeRecord) Totals {
	var t Totals
	for i := range records {
		r := &records[i]
		if !r.Graded() {
			continue
		}
		t.TotalUnits += r.Units
		t.TotalQualityPoints += *r.QualityPoints
	}
	if t.TotalUnits > 0 {
		t.QPI = t.TotalQualityPoints / t.TotalUnits
	}
	return t
}

// YearlyAverage is the unweighted mean of the given semester QPIs. This
// is the year-level display formula, intentionally different from the
// unit-weighted cumulative QPI.
func YearlyAverage(qpis []float64) float64 {
	if len(qpis) == 0 {
		return 0
	}
	var sum float64
	for _, q := range qpis {
		sum += q
	}
	return sum / float64(len(qpis))
}

// WeightedAverage is the unit-weighted mean Σ(qpi·units)/Σ(units) over
// parallel slices. Returns 0 when no units exist or lengths differ.
func WeightedAverage(qpis, units []float64) float64 {
	if len(qpis) != len(units) {
		return 0
	}
	var num, den float64
	for i := range qpis {
		num += qpis[i] * units[i]
		den += units[i]
	}
	if den == 0 {
		return 0
	}
	return num / den
}
