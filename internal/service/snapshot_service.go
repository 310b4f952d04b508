package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gab-cat/qpi-calculator-sub000/internal/model"
	"github.com/gab-cat/qpi-calculator-sub000/internal/repository"
	pkgerrors "github.com/gab-cat/qpi-calculator-sub000/pkg/errors"
)

// CurrentSchemaVersion is the store layout version written by this
// build. Version 1 predates audit timestamps; the v1→v2 migration
// backfills them.
const CurrentSchemaVersion = 2

// Snapshot is the whole-state backup format. Collections are pointers
// so an import can tell "absent, leave alone" from "present but empty,
// replace with nothing". Keys are snake_case ("schema_version",
// "academic_record"), matching the rest of the API's JSON; consumers
// producing snapshots by hand must use that spelling.
type Snapshot struct {
	SchemaVersion  int                     `json:"schema_version"`
	ExportedAt     time.Time               `json:"exported_at"`
	AcademicRecord *model.AcademicRecord   `json:"academic_record,omitempty"`
	Semesters      *[]model.SemesterRecord `json:"semesters,omitempty"`
	Grades         *[]model.GradeRecord    `json:"grades,omitempty"`
}

// SnapshotService backs up and restores the whole store and runs the
// application-level schema migration.
type SnapshotService interface {
	ExportAll(ctx context.Context) (*Snapshot, error)
	// ImportAll validates and atomically restores a snapshot. Collections
	// absent from the snapshot are left untouched; present ones are
	// replaced wholesale. Nothing persists if any step fails.
	ImportAll(ctx context.Context, raw []byte) error
	// Migrate upgrades the store layout to CurrentSchemaVersion and
	// reports the version it started from.
	Migrate(ctx context.Context) (from int, err error)
}

type snapshotService struct {
	repo            *repository.Repository
	logger          *zap.Logger
	maxSnapshotSize int64
	now             func() time.Time
}

// NewSnapshotService creates the snapshot service.
func NewSnapshotService(repo *repository.Repository, maxSnapshotSize int64, logger *zap.Logger) SnapshotService {
	return &snapshotService{
		repo:            repo,
		logger:          logger,
		maxSnapshotSize: maxSnapshotSize,
		now:             time.Now,
	}
}

func (s *snapshotService) ExportAll(ctx context.Context) (*Snapshot, error) {
	record, err := getOrCreateRecord(ctx, s.repo, s.now())
	if err != nil {
		return nil, err
	}
	semesters, err := s.repo.Semester.List(ctx)
	if err != nil {
		return nil, err
	}
	grades, err := s.repo.Grade.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	version, err := s.repo.SchemaMeta.GetVersion(ctx)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		SchemaVersion:  version,
		ExportedAt:     s.now(),
		AcademicRecord: record,
		Semesters:      &semesters,
		Grades:         &grades,
	}, nil
}

func (s *snapshotService) ImportAll(ctx context.Context, raw []byte) error {
	if s.maxSnapshotSize > 0 && int64(len(raw)) > s.maxSnapshotSize {
		return pkgerrors.ErrStorageQuotaExceeded
	}

	snap, err := decodeSnapshot(raw)
	if err != nil {
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	repo := s.repo.WithTx(tx)

	if snap.Semesters != nil {
		if err := repo.Semester.ReplaceAll(ctx, *snap.Semesters); err != nil {
			rollback(tx)
			return pkgerrors.ClassifyWriteError(err)
		}
	}
	if snap.Grades != nil {
		if err := repo.Grade.ReplaceAll(ctx, *snap.Grades); err != nil {
			rollback(tx)
			return pkgerrors.ClassifyWriteError(err)
		}
	}
	if snap.AcademicRecord != nil {
		snap.AcademicRecord.ID = model.MainRecordID
		if err := repo.Record.Save(ctx, snap.AcademicRecord); err != nil {
			rollback(tx)
			return pkgerrors.ClassifyWriteError(err)
		}
	}

	if err := s.migrateTx(ctx, repo, snap.SchemaVersion); err != nil {
		rollback(tx)
		return err
	}
	if _, err := recalcAndPersist(ctx, repo, s.now()); err != nil {
		rollback(tx)
		return err
	}
	if err := commit(tx); err != nil {
		return pkgerrors.ClassifyWriteError(err)
	}

	s.logger.Info("snapshot restored",
		zap.Int("schema_version", snap.SchemaVersion),
		zap.Bool("semesters", snap.Semesters != nil),
		zap.Bool("grades", snap.Grades != nil))
	return nil
}

func (s *snapshotService) Migrate(ctx context.Context) (int, error) {
	from, err := s.repo.SchemaMeta.GetVersion(ctx)
	if err != nil {
		return 0, err
	}
	if from >= CurrentSchemaVersion {
		return from, nil
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return 0, err
	}
	repo := s.repo.WithTx(tx)

	if err := s.migrateTx(ctx, repo, from); err != nil {
		rollback(tx)
		return 0, err
	}
	if err := commit(tx); err != nil {
		return 0, pkgerrors.ClassifyWriteError(err)
	}

	s.logger.Info("store migrated",
		zap.Int("from", from),
		zap.Int("to", CurrentSchemaVersion))
	return from, nil
}

// migrateTx applies the version upgrades inside the caller's
// transaction. Each step is idempotent so a restored older snapshot can
// be upgraded on the spot.
func (s *snapshotService) migrateTx(ctx context.Context, repo *repository.Repository, from int) error {
	if from < 1 || from > CurrentSchemaVersion {
		return pkgerrors.ErrSnapshotInvalid
	}
	if from < 2 {
		if err := s.backfillTimestamps(ctx, repo); err != nil {
			return err
		}
	}
	if err := repo.SchemaMeta.SetVersion(ctx, CurrentSchemaVersion); err != nil {
		return pkgerrors.ClassifyWriteError(err)
	}
	return nil
}

// backfillTimestamps is the v1→v2 step: rows written before audit
// timestamps existed get stamped with the migration time.
func (s *snapshotService) backfillTimestamps(ctx context.Context, repo *repository.Repository) error {
	now := s.now()

	semesters, err := repo.Semester.List(ctx)
	if err != nil {
		return err
	}
	var touched []model.SemesterRecord
	for i := range semesters {
		if semesters[i].CreatedAt == nil || semesters[i].UpdatedAt == nil {
			semesters[i].Touch(now)
			touched = append(touched, semesters[i])
		}
	}
	if err := repo.Semester.UpdateBatch(ctx, touched); err != nil {
		return pkgerrors.ClassifyWriteError(err)
	}

	grades, err := repo.Grade.ListAll(ctx)
	if err != nil {
		return err
	}
	for i := range grades {
		if grades[i].CreatedAt == nil || grades[i].UpdatedAt == nil {
			grades[i].Touch(now)
			if err := repo.Grade.Update(ctx, &grades[i]); err != nil {
				return pkgerrors.ClassifyWriteError(err)
			}
		}
	}

	record, err := repo.Record.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if record.CreatedAt == nil || record.UpdatedAt == nil {
		record.Touch(now)
		if err := repo.Record.Save(ctx, record); err != nil {
			return pkgerrors.ClassifyWriteError(err)
		}
	}
	return nil
}

// decodeSnapshot parses and shape-checks the payload before anything is
// written. A malformed snapshot is rejected whole.
func decodeSnapshot(raw []byte) (*Snapshot, error) {
	var snap Snapshot
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return nil, errors.Join(pkgerrors.ErrSnapshotInvalid, err)
	}
	if snap.SchemaVersion < 1 || snap.SchemaVersion > CurrentSchemaVersion {
		return nil, pkgerrors.ErrSnapshotInvalid
	}
	if snap.Semesters != nil {
		for i := range *snap.Semesters {
			sem := &(*snap.Semesters)[i]
			if sem.ID == "" || sem.AcademicYear == "" || sem.SemesterType == "" {
				return nil, pkgerrors.ErrSnapshotInvalid
			}
		}
	}
	if snap.Grades != nil {
		for i := range *snap.Grades {
			g := &(*snap.Grades)[i]
			if g.ID == "" || g.SemesterID == "" || g.CourseCode == "" || g.Units <= 0 {
				return nil, pkgerrors.ErrSnapshotInvalid
			}
		}
	}
	return &snap, nil
}
