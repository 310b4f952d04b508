package dto

// ── grade DTOs ──

// AddGradeRequest adds a course to a semester. The grade itself is
// optional at add-time; entering it later triggers rederivation.
type AddGradeRequest struct {
	CourseID       string   `json:"course_id"       binding:"omitempty,max=64"`
	CourseCode     string   `json:"course_code"     binding:"required,min=3,max=20"`
	CourseTitle    string   `json:"course_title"    binding:"required,min=1,max=200"`
	Units          float64  `json:"units"           binding:"required,gt=0,lte=6"`
	NumericalGrade *float64 `json:"numerical_grade" binding:"omitempty,gte=0,lte=100"`
	Notes          string   `json:"notes"           binding:"omitempty,max=500"`
}

// UpdateGradeRequest patches a grade record. Changing the numerical
// grade rederives letter, point and quality points.
type UpdateGradeRequest struct {
	CourseCode     *string  `json:"course_code"     binding:"omitempty,min=3,max=20"`
	CourseTitle    *string  `json:"course_title"    binding:"omitempty,min=1,max=200"`
	Units          *float64 `json:"units"           binding:"omitempty,gt=0,lte=6"`
	NumericalGrade *float64 `json:"numerical_grade" binding:"omitempty,gte=0,lte=100"`
	Notes          *string  `json:"notes"           binding:"omitempty,max=500"`
}

// UpdateScoreRequest enters or clears the grade for a course. Exactly
// one of the fields may be set: a numerical grade, the literal letter
// "INC" (incomplete, point 0), or clear=true to remove the grade.
type UpdateScoreRequest struct {
	NumericalGrade *float64 `json:"numerical_grade" binding:"omitempty,gte=0,lte=100"`
	LetterGrade    *string  `json:"letter_grade"    binding:"omitempty,max=3"`
	Clear          bool     `json:"clear"`
}

// GradeResponse is one course enrollment with derived fields.
type GradeResponse struct {
	ID             string   `json:"id"`
	SemesterID     string   `json:"semester_id"`
	CourseID       string   `json:"course_id,omitempty"`
	CourseCode     string   `json:"course_code"`
	CourseTitle    string   `json:"course_title"`
	Units          float64  `json:"units"`
	NumericalGrade *float64 `json:"numerical_grade,omitempty"`
	LetterGrade    *string  `json:"letter_grade,omitempty"`
	GradePoint     *float64 `json:"grade_point,omitempty"`
	QualityPoints  *float64 `json:"quality_points,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	Position       int      `json:"position"`
	CreatedAt      string   `json:"created_at,omitempty"`
	UpdatedAt      string   `json:"updated_at,omitempty"`
}
