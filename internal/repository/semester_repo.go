package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gab-cat/qpi-calculator-sub000/internal/model"
)

// SemesterRepository is the semester-record data access interface.
type SemesterRepository interface {
	Create(ctx context.Context, semester *model.SemesterRecord) error
	GetByID(ctx context.Context, id string) (*model.SemesterRecord, error)
	// GetByKey looks a semester up by its normalized
	// (academicYear, semesterType) identity. Import grouping depends on
	// this exact-match lookup.
	GetByKey(ctx context.Context, academicYear, semesterType string) (*model.SemesterRecord, error)
	List(ctx context.Context) ([]model.SemesterRecord, error)
	Update(ctx context.Context, semester *model.SemesterRecord) error
	UpdateBatch(ctx context.Context, semesters []model.SemesterRecord) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, semesters []model.SemesterRecord) error
}

type semesterRepo struct {
	db *gorm.DB
}

// NewSemesterRepo creates the gorm-backed SemesterRepository.
func NewSemesterRepo(db *gorm.DB) SemesterRepository {
	return &semesterRepo{db: db}
}

func (r *semesterRepo) Create(ctx context.Context, semester *model.SemesterRecord) error {
	return r.db.WithContext(ctx).Create(semester).Error
}

func (r *semesterRepo) GetByID(ctx context.Context, id string) (*model.SemesterRecord, error) {
	var semester model.SemesterRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) GetByKey(ctx context.Context, academicYear, semesterType string) (*model.SemesterRecord, error) {
	var semester model.SemesterRecord
	err := r.db.WithContext(ctx).
		Where("academic_year = ? AND semester_type = ?", academicYear, semesterType).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

// List returns semesters in display order: year level, then
// first < second < summer within the year.
func (r *semesterRepo) List(ctx context.Context) ([]model.SemesterRecord, error) {
	var semesters []model.SemesterRecord
	err := r.db.WithContext(ctx).
		Order("year_level ASC").
		Order("CASE semester_type WHEN 'first' THEN 0 WHEN 'second' THEN 1 WHEN 'summer' THEN 2 ELSE 3 END").
		Find(&semesters).Error
	return semesters, err
}

func (r *semesterRepo) Update(ctx context.Context, semester *model.SemesterRecord) error {
	return r.db.WithContext(ctx).Save(semester).Error
}

func (r *semesterRepo) UpdateBatch(ctx context.Context, semesters []model.SemesterRecord) error {
	for i := range semesters {
		if err := r.db.WithContext(ctx).Save(&semesters[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *semesterRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.SemesterRecord{}).Error
}

// ReplaceAll overwrites the whole collection (snapshot import).
func (r *semesterRepo) ReplaceAll(ctx context.Context, semesters []model.SemesterRecord) error {
	if err := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.SemesterRecord{}).Error; err != nil {
		return err
	}
	if len(semesters) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&semesters).Error
}
