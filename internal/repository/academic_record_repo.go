package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gab-cat/qpi-calculator-sub000/internal/model"
)

// AcademicRecordRepository is the root-aggregate data access interface.
// Exactly one record (id "main") exists per store.
type AcademicRecordRepository interface {
	Get(ctx context.Context) (*model.AcademicRecord, error)
	Save(ctx context.Context, record *model.AcademicRecord) error
}

type academicRecordRepo struct {
	db *gorm.DB
}

// NewAcademicRecordRepo creates the gorm-backed AcademicRecordRepository.
func NewAcademicRecordRepo(db *gorm.DB) AcademicRecordRepository {
	return &academicRecordRepo{db: db}
}

func (r *academicRecordRepo) Get(ctx context.Context) (*model.AcademicRecord, error) {
	var record model.AcademicRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", model.MainRecordID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Save upserts the record by primary key.
func (r *academicRecordRepo) Save(ctx context.Context, record *model.AcademicRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(record).Error
}
