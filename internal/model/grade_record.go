package model

// GradeRecord is one course enrollment within one semester. The course
// code and title are denormalized snapshots taken at add-time; the
// catalog course is referenced by CourseID only.
//
// LetterGrade, GradePoint and QualityPoints are derived from
// NumericalGrade through the grade scale and are present iff a grade has
// been entered. They are rewritten on every mutation, never edited
// directly. The one exception is an INC (incomplete) entry, which is a
// letter-only grade with point 0.
type GradeRecord struct {
	ID             string   `gorm:"type:uuid;primaryKey"       json:"id"`
	SemesterID     string   `gorm:"type:uuid;not null;index"   json:"semester_id"`
	CourseID       string   `gorm:"type:varchar(64)"           json:"course_id,omitempty"`
	CourseCode     string   `gorm:"type:varchar(20);not null"  json:"course_code"`
	CourseTitle    string   `gorm:"type:varchar(200);not null" json:"course_title"`
	Units          float64  `gorm:"not null"                   json:"units"`
	NumericalGrade *float64 `json:"numerical_grade,omitempty"`
	LetterGrade    *string  `gorm:"type:varchar(3)"            json:"letter_grade,omitempty"`
	GradePoint     *float64 `json:"grade_point,omitempty"`
	QualityPoints  *float64 `json:"quality_points,omitempty"`
	Notes          string   `gorm:"type:varchar(500)"          json:"notes,omitempty"`
	Position       int      `gorm:"not null;default:0"         json:"position"`
	BaseModel
}

// TableName sets the table name.
func (GradeRecord) TableName() string { return "grade_records" }

// Graded reports whether this record contributes to aggregation, i.e.
// a grade has been entered and quality points derived.
func (g *GradeRecord) Graded() bool { return g.QualityPoints != nil }
