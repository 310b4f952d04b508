package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// MainRecordID is the id of the single per-store academic record.
const MainRecordID = "main"

// YearlyQPI is the per-academic-year summary kept on the academic
// record. YearlyQPI is the unweighted mean of whichever semester QPIs
// exist for the year; it is deliberately not unit-weighted, unlike the
// cumulative QPI.
type YearlyQPI struct {
	AcademicYear string   `json:"academic_year"`
	FirstSemQPI  *float64 `json:"first_sem_qpi,omitempty"`
	SecondSemQPI *float64 `json:"second_sem_qpi,omitempty"`
	SummerQPI    *float64 `json:"summer_qpi,omitempty"`
	YearlyQPI    *float64 `json:"yearly_qpi,omitempty"`
}

// RecordConfiguration is the user's program shape.
type RecordConfiguration struct {
	TotalYears     int  `json:"total_years"`
	IncludesSummer bool `json:"includes_summer"`
}

// DefaultConfiguration is applied when the record is first created.
func DefaultConfiguration() RecordConfiguration {
	return RecordConfiguration{TotalYears: 4, IncludesSummer: false}
}

// AcademicRecord is the single root aggregate. Totals and cumulative QPI
// are unit-weighted over all grades across all semesters and recomputed
// after every mutation.
type AcademicRecord struct {
	ID                 string         `gorm:"type:varchar(32);primaryKey" json:"id"`
	TotalUnits         *float64       `json:"total_units,omitempty"`
	TotalQualityPoints *float64       `json:"total_quality_points,omitempty"`
	CumulativeQPI      *float64       `json:"cumulative_qpi,omitempty"`
	YearlyQPIs         datatypes.JSON `json:"yearly_qpis,omitempty"`
	Configuration      datatypes.JSON `json:"configuration,omitempty"`
	LastCalculated     *time.Time     `gorm:"type:timestamptz" json:"last_calculated,omitempty"`
	Version            int            `gorm:"not null;default:1" json:"version"`
	BaseModel
}

// TableName sets the table name.
func (AcademicRecord) TableName() string { return "academic_records" }

// YearlyQPIList decodes the stored yearly summaries. Corrupted JSON
// degrades to an empty list rather than failing the load.
func (r *AcademicRecord) YearlyQPIList() []YearlyQPI {
	if len(r.YearlyQPIs) == 0 {
		return nil
	}
	var list []YearlyQPI
	if err := json.Unmarshal(r.YearlyQPIs, &list); err != nil {
		return nil
	}
	return list
}

// SetYearlyQPIs encodes and stores the yearly summaries.
func (r *AcademicRecord) SetYearlyQPIs(list []YearlyQPI) {
	raw, err := json.Marshal(list)
	if err != nil {
		return
	}
	r.YearlyQPIs = datatypes.JSON(raw)
}

// Config decodes the stored configuration, falling back to the default
// when absent or corrupted.
func (r *AcademicRecord) Config() RecordConfiguration {
	if len(r.Configuration) == 0 {
		return DefaultConfiguration()
	}
	var cfg RecordConfiguration
	if err := json.Unmarshal(r.Configuration, &cfg); err != nil {
		return DefaultConfiguration()
	}
	if cfg.TotalYears < 1 || cfg.TotalYears > 6 {
		cfg.TotalYears = DefaultConfiguration().TotalYears
	}
	return cfg
}

// SetConfig encodes and stores the configuration.
func (r *AcademicRecord) SetConfig(cfg RecordConfiguration) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	r.Configuration = datatypes.JSON(raw)
}
