package dto

// ── catalog DTOs ──

// CreateCourseRequest registers a course in the remote catalog.
type CreateCourseRequest struct {
	Code  string  `json:"code"  binding:"required,min=3,max=20"`
	Title string  `json:"title" binding:"required,min=1,max=200"`
	Units float64 `json:"units" binding:"required,gt=0,lte=6"`
}

// TemplateSemesterRequest is one term slot in a new template.
type TemplateSemesterRequest struct {
	YearLevel    int      `json:"year_level"    binding:"required,min=1,max=6"`
	SemesterType string   `json:"semester_type" binding:"required,semestertype"`
	CourseIDs    []string `json:"course_ids"    binding:"required,min=1"`
}

// CreateTemplateRequest registers a reusable course plan.
type CreateTemplateRequest struct {
	Name        string                    `json:"name"        binding:"required,min=1,max=100"`
	Description string                    `json:"description" binding:"omitempty,max=500"`
	Semesters   []TemplateSemesterRequest `json:"semesters"   binding:"required,min=1,dive"`
}

// PublishTemplateRequest names the template built from the current
// academic record.
type PublishTemplateRequest struct {
	Name        string `json:"name"        binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// ApplyTemplateRequest copies a template into the academic record.
// StartYear anchors year level 1; year level n becomes the academic
// year "(StartYear+n-1)-(StartYear+n)".
type ApplyTemplateRequest struct {
	StartYear int `json:"start_year" binding:"required,min=1900,max=2100"`
}

// ApplyTemplateResponse summarizes what the template application added.
type ApplyTemplateResponse struct {
	TemplateName     string   `json:"template_name"`
	SemestersCreated []string `json:"semesters_created"`
	SemestersReused  []string `json:"semesters_reused,omitempty"`
	GradesAdded      int      `json:"grades_added"`
}
