package router

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerValidators installs the domain binding tags used by the DTOs.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("academicyear", validAcademicYear)
	v.RegisterValidation("semestertype", validSemesterType)
}

// validAcademicYear accepts "YYYY" or a consecutive "YYYY-YYYY" range.
// Normalization happens in the service; binding only rejects garbage.
func validAcademicYear(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())

	if len(s) == 4 {
		year, err := strconv.Atoi(s)
		return err == nil && year >= 1900 && year <= 2200
	}

	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return false
	}
	from, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	to, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	return err1 == nil && err2 == nil && to == from+1 && from >= 1900 && from <= 2200
}

// validSemesterType accepts the canonical types plus the aliases the
// importer understands.
func validSemesterType(fl validator.FieldLevel) bool {
	switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
	case "first", "1st", "1st sem", "first semester", "1",
		"second", "2nd", "2nd sem", "second semester", "2",
		"summer", "intersession", "midyear":
		return true
	default:
		return false
	}
}
