// Package catalog is the client side of the remote course/template
// catalog service. The catalog is a black box: this package only
// consumes its success payload shapes and maps its failures onto
// sentinel errors.
package catalog

import (
	"context"
	"errors"
)

// ── catalog errors ──

var (
	ErrCourseNotFound            = errors.New("course not found")
	ErrTemplateNotFound          = errors.New("template not found")
	ErrDuplicateCourseCode       = errors.New("course code already exists")
	ErrDuplicateTemplateName     = errors.New("template name already exists")
	ErrInvalidCourseCode         = errors.New("invalid course code")
	ErrInvalidTitle              = errors.New("invalid course title")
	ErrInvalidUnits              = errors.New("invalid units")
	ErrInvalidTemplateName       = errors.New("invalid template name")
	ErrEmptyTemplate             = errors.New("template has no courses")
	ErrInvalidSemesterStructure  = errors.New("invalid template semester structure")
	ErrCatalogUnavailable        = errors.New("catalog service unavailable")
)

// Course is a catalog course entry, identified by an opaque id and a
// unique human-readable code.
type Course struct {
	ID    string  `json:"id"`
	Code  string  `json:"code"`
	Title string  `json:"title"`
	Units float64 `json:"units"`
}

// TemplateSemester is one term slot inside a template.
type TemplateSemester struct {
	YearLevel    int      `json:"year_level"`
	SemesterType string   `json:"semester_type"`
	Courses      []Course `json:"courses"`
}

// Template is a reusable course plan.
type Template struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Semesters   []TemplateSemester `json:"semesters"`
}

// CourseList is one page of a course listing.
type CourseList struct {
	Courses []Course `json:"courses"`
	HasMore bool     `json:"has_more"`
	Cursor  string   `json:"cursor,omitempty"`
}

// NewTemplateSemester describes one term slot when creating a template.
type NewTemplateSemester struct {
	YearLevel    int      `json:"year_level"`
	SemesterType string   `json:"semester_type"`
	CourseIDs    []string `json:"course_ids"`
}

// Catalog is the remote collaborator interface consumed by the service
// layer. Implementations must map collaborator failures onto the
// sentinel errors above.
type Catalog interface {
	FindCourseByCode(ctx context.Context, code string) (*Course, error)
	ListCourses(ctx context.Context, search, cursor string, limit int) (*CourseList, error)
	CreateCourse(ctx context.Context, code, title string, units float64) (*Course, error)
	GetTemplateByID(ctx context.Context, id string) (*Template, error)
	CreateTemplate(ctx context.Context, name, description string, semesters []NewTemplateSemester) (*Template, error)
}
