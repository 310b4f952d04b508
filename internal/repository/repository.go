package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every data-access interface.
type Repository struct {
	DB         *gorm.DB
	Grade      GradeRepository
	Semester   SemesterRepository
	Record     AcademicRecordRepository
	SchemaMeta SchemaMetaRepository
}

// NewRepository wires the gorm-backed repositories.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:         db,
		Grade:      NewGradeRepo(db),
		Semester:   NewSemesterRepo(db),
		Record:     NewAcademicRecordRepo(db),
		SchemaMeta: NewSchemaMetaRepo(db),
	}
}

// BeginTx starts a transaction. Returns (nil, nil) when no database is
// attached (mock repositories in tests), so callers guard on tx != nil.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.DB == nil {
		return nil, nil
	}
	tx := r.DB.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx returns a Repository bound to the given transaction. A nil tx
// returns the receiver unchanged.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
