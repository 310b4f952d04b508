package service

import (
	"go.uber.org/zap"

	"github.com/gab-cat/qpi-calculator-sub000/config"
	"github.com/gab-cat/qpi-calculator-sub000/internal/catalog"
	"github.com/gab-cat/qpi-calculator-sub000/internal/repository"
)

// Service aggregates every business service behind one wiring point.
type Service struct {
	Record   RecordService
	Import   ImportService
	Export   ExportService
	Snapshot SnapshotService
	Catalog  CatalogService
}

// NewService wires the services against the shared repository and the
// remote catalog client.
func NewService(cfg *config.Config, repo *repository.Repository, cat catalog.Catalog, logger *zap.Logger) *Service {
	return &Service{
		Record:   NewRecordService(repo, logger),
		Import:   NewImportService(repo, logger),
		Export:   NewExportService(repo, logger),
		Snapshot: NewSnapshotService(repo, cfg.Storage.MaxSnapshotSize, logger),
		Catalog:  NewCatalogService(repo, cat, logger),
	}
}
