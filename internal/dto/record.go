package dto

// ── academic record DTOs ──

// UpdateConfigurationRequest changes the program shape on the record.
type UpdateConfigurationRequest struct {
	TotalYears     int   `json:"total_years"     binding:"required,min=1,max=6"`
	IncludesSummer *bool `json:"includes_summer" binding:"required"`
}

// YearlyQPIResponse is the per-year summary block.
type YearlyQPIResponse struct {
	AcademicYear string   `json:"academic_year"`
	FirstSemQPI  *float64 `json:"first_sem_qpi,omitempty"`
	SecondSemQPI *float64 `json:"second_sem_qpi,omitempty"`
	SummerQPI    *float64 `json:"summer_qpi,omitempty"`
	YearlyQPI    *float64 `json:"yearly_qpi,omitempty"`
}

// ConfigurationResponse echoes the stored configuration.
type ConfigurationResponse struct {
	TotalYears     int  `json:"total_years"`
	IncludesSummer bool `json:"includes_summer"`
}

// AcademicRecordResponse is the full record with its semester tree.
type AcademicRecordResponse struct {
	ID                 string                `json:"id"`
	TotalUnits         *float64              `json:"total_units,omitempty"`
	TotalQualityPoints *float64              `json:"total_quality_points,omitempty"`
	CumulativeQPI      *float64              `json:"cumulative_qpi,omitempty"`
	YearlyQPIs         []YearlyQPIResponse   `json:"yearly_qpis"`
	Configuration      ConfigurationResponse `json:"configuration"`
	Semesters          []SemesterResponse    `json:"semesters"`
	LastCalculated     string                `json:"last_calculated,omitempty"`
	Version            int                   `json:"version"`
}
