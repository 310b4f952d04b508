package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// SchemaMeta is the single-row store schema version marker. This is the
// application-level record schema version, independent of the SQL DDL
// migrations.
type SchemaMeta struct {
	Singleton bool `gorm:"primaryKey;default:true" json:"-"`
	Version   int  `gorm:"not null;default:1"      json:"version"`
}

// TableName sets the table name.
func (SchemaMeta) TableName() string { return "schema_meta" }

// SchemaMetaRepository reads and writes the schema version marker.
type SchemaMetaRepository interface {
	GetVersion(ctx context.Context) (int, error)
	SetVersion(ctx context.Context, version int) error
}

type schemaMetaRepo struct {
	db *gorm.DB
}

// NewSchemaMetaRepo creates the gorm-backed SchemaMetaRepository.
func NewSchemaMetaRepo(db *gorm.DB) SchemaMetaRepository {
	return &schemaMetaRepo{db: db}
}

func (r *schemaMetaRepo) GetVersion(ctx context.Context) (int, error) {
	var meta SchemaMeta
	err := r.db.WithContext(ctx).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 1, nil
		}
		return 0, err
	}
	return meta.Version, nil
}

func (r *schemaMetaRepo) SetVersion(ctx context.Context, version int) error {
	meta := SchemaMeta{Singleton: true, Version: version}
	return r.db.WithContext(ctx).Save(&meta).Error
}
