package model

// Semester types, in display order.
const (
	SemesterFirst  = "first"
	SemesterSecond = "second"
	SemesterSummer = "summer"
)

// SemesterTypeOrder ranks semester types for display and export
// (first < second < summer). Unknown types sort last.
func SemesterTypeOrder(t string) int {
	switch t {
	case SemesterFirst:
		return 0
	case SemesterSecond:
		return 1
	case SemesterSummer:
		return 2
	default:
		return 3
	}
}

// SemesterRecord is one academic term. The derived totals cover exactly
// the GradeRecords pointing at this semester and are recomputed after
// every mutation; SemesterQPI is nil while no graded units exist.
//
// (AcademicYear, SemesterType) is the semester's identity for import
// grouping: rows sharing that normalized key always resolve to the same
// semester regardless of processing order.
type SemesterRecord struct {
	ID                 string   `gorm:"type:uuid;primaryKey"                                        json:"id"`
	YearLevel          int      `gorm:"type:smallint;not null"                                      json:"year_level"`
	SemesterType       string   `gorm:"type:varchar(10);not null;uniqueIndex:idx_semester_records_key" json:"semester_type"`
	AcademicYear       string   `gorm:"type:varchar(9);not null;uniqueIndex:idx_semester_records_key" json:"academic_year"`
	TotalUnits         *float64 `json:"total_units,omitempty"`
	TotalQualityPoints *float64 `json:"total_quality_points,omitempty"`
	SemesterQPI        *float64 `json:"semester_qpi,omitempty"`
	IsCompleted        bool     `gorm:"not null;default:false" json:"is_completed"`
	BaseModel
}

// TableName sets the table name.
func (SemesterRecord) TableName() string { return "semester_records" }

// GroupKey is the normalized bucket key used by the CSV importer.
func (s *SemesterRecord) GroupKey() string {
	return s.AcademicYear + "-" + s.SemesterType
}
