package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gab-cat/qpi-calculator-sub000/internal/model"
)

// GradeRepository is the grade-record data access interface.
type GradeRepository interface {
	Create(ctx context.Context, grade *model.GradeRecord) error
	CreateBatch(ctx context.Context, grades []model.GradeRecord) error
	GetByID(ctx context.Context, id string) (*model.GradeRecord, error)
	ListBySemester(ctx context.Context, semesterID string) ([]model.GradeRecord, error)
	ListAll(ctx context.Context) ([]model.GradeRecord, error)
	Update(ctx context.Context, grade *model.GradeRecord) error
	UpdatePosition(ctx context.Context, id string, position int) error
	Delete(ctx context.Context, id string) error
	DeleteBySemester(ctx context.Context, semesterID string) error
	ReplaceAll(ctx context.Context, grades []model.GradeRecord) error
}

type gradeRepo struct {
	db *gorm.DB
}

// NewGradeRepo creates the gorm-backed GradeRepository.
func NewGradeRepo(db *gorm.DB) GradeRepository {
	return &gradeRepo{db: db}
}

func (r *gradeRepo) Create(ctx context.Context, grade *model.GradeRecord) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *gradeRepo) CreateBatch(ctx context.Context, grades []model.GradeRecord) error {
	if len(grades) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&grades).Error
}

func (r *gradeRepo) GetByID(ctx context.Context, id string) (*model.GradeRecord, error) {
	var grade model.GradeRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&grade).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (r *gradeRepo) ListBySemester(ctx context.Context, semesterID string) ([]model.GradeRecord, error) {
	var grades []model.GradeRecord
	err := r.db.WithContext(ctx).
		Where("semester_id = ?", semesterID).
		Order("position ASC, created_at ASC").
		Find(&grades).Error
	return grades, err
}

func (r *gradeRepo) ListAll(ctx context.Context) ([]model.GradeRecord, error) {
	var grades []model.GradeRecord
	err := r.db.WithContext(ctx).
		Order("semester_id ASC, position ASC").
		Find(&grades).Error
	return grades, err
}

func (r *gradeRepo) Update(ctx context.Context, grade *model.GradeRecord) error {
	return r.db.WithContext(ctx).Save(grade).Error
}

func (r *gradeRepo) UpdatePosition(ctx context.Context, id string, position int) error {
	return r.db.WithContext(ctx).
		Model(&model.GradeRecord{}).
		Where("id = ?", id).
		Update("position", position).Error
}

func (r *gradeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.GradeRecord{}).Error
}

func (r *gradeRepo) DeleteBySemester(ctx context.Context, semesterID string) error {
	return r.db.WithContext(ctx).
		Where("semester_id = ?", semesterID).
		Delete(&model.GradeRecord{}).Error
}

// ReplaceAll overwrites the whole collection (snapshot import).
func (r *gradeRepo) ReplaceAll(ctx context.Context, grades []model.GradeRecord) error {
	if err := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.GradeRecord{}).Error; err != nil {
		return err
	}
	if len(grades) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&grades).Error
}
