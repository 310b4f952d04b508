package dto

// ── import/export DTOs ──

// ImportOptionsRequest carries the fallback placement for rows that do
// not specify their own semester columns. Passed explicitly rather than
// read from ambient UI state.
type ImportOptionsRequest struct {
	AcademicYear string `form:"academic_year" binding:"omitempty,academicyear"`
	SemesterType string `form:"semester_type" binding:"omitempty,semestertype"`
	YearLevel    int    `form:"year_level"    binding:"omitempty,min=1,max=6"`
}

// RowErrorResponse reports one failed validation on one row.
type RowErrorResponse struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

// ImportReportResponse is the complete validation report for a file.
// Row errors never abort the batch; the caller sees every problem at
// once.
type ImportReportResponse struct {
	TotalRows        int                `json:"total_rows"`
	ValidRows        int                `json:"valid_rows"`
	InvalidRows      int                `json:"invalid_rows"`
	Errors           []RowErrorResponse `json:"errors,omitempty"`
	GradesAdded      int                `json:"grades_added"`
	SemestersCreated []string           `json:"semesters_created,omitempty"`
	SemestersReused  []string           `json:"semesters_reused,omitempty"`
	DryRun           bool               `json:"dry_run"`
}
