package dto

// ── semester DTOs ──

// CreateSemesterRequest creates one academic term. AcademicYear accepts
// "YYYY-YYYY" or a bare "YYYY" which is normalized to the range form.
type CreateSemesterRequest struct {
	YearLevel    int    `json:"year_level"    binding:"required,min=1,max=6"`
	SemesterType string `json:"semester_type" binding:"required,semestertype"`
	AcademicYear string `json:"academic_year" binding:"required,academicyear"`
}

// UpdateSemesterRequest patches a semester.
type UpdateSemesterRequest struct {
	YearLevel    *int    `json:"year_level"    binding:"omitempty,min=1,max=6"`
	SemesterType *string `json:"semester_type" binding:"omitempty,semestertype"`
	AcademicYear *string `json:"academic_year" binding:"omitempty,academicyear"`
}

// CompleteSemesterRequest toggles the completed flag.
type CompleteSemesterRequest struct {
	IsCompleted *bool `json:"is_completed" binding:"required"`
}

// ReorderGradesRequest sets the user-significant display order of the
// semester's grades. Must list every grade in the semester exactly once.
type ReorderGradesRequest struct {
	GradeIDs []string `json:"grade_ids" binding:"required,min=1"`
}

// SemesterResponse is one term with its derived totals.
type SemesterResponse struct {
	ID                 string          `json:"id"`
	YearLevel          int             `json:"year_level"`
	SemesterType       string          `json:"semester_type"`
	AcademicYear       string          `json:"academic_year"`
	TotalUnits         *float64        `json:"total_units,omitempty"`
	TotalQualityPoints *float64        `json:"total_quality_points,omitempty"`
	SemesterQPI        *float64        `json:"semester_qpi,omitempty"`
	IsCompleted        bool            `json:"is_completed"`
	Grades             []GradeResponse `json:"grades,omitempty"`
	CreatedAt          string          `json:"created_at,omitempty"`
	UpdatedAt          string          `json:"updated_at,omitempty"`
}
