package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tablecraft/menu-importer/constants"
	"github.com/tablecraft/menu-importer/internal/common"
	"github.com/tablecraft/menu-importer/internal/entity"
)

// sqliteJobRepo backs the local CLI and tests. Same conditional-update
// semantics as the Postgres store.
type sqliteJobRepo struct {
	db  *sql.DB
	log *slog.Logger
}

// OpenSQLite opens (or creates) a sqlite job store at path. Use ":memory:"
// for an ephemeral store.
func OpenSQLite(path string, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// each pooled conn would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if log != nil {
		log.Info("sqlite job store ready", "path", path)
	}
	return db, nil
}

// EnsureSchema bootstraps the import_job table.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS import_job (
			id TEXT PRIMARY KEY,
			store_ref TEXT NOT NULL,
			file_key TEXT NOT NULL,
			format TEXT NOT NULL,
			status TEXT NOT NULL,
			comparison_data TEXT,
			error_message TEXT,
			created_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("ensure import_job schema: %w", err)
	}
	return nil
}

func NewSQLiteJobRepository(db *sql.DB, log *slog.Logger) ImportJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &sqliteJobRepo{db: db, log: log}
}

func (r *sqliteJobRepo) Create(ctx context.Context, job *entity.ImportJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = constants.ImportStatusProcessing
	}
	job.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO import_job (id, store_ref, file_key, format, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		job.ID.String(), job.StoreRef, job.FileKey, string(job.Format), string(job.Status), job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	r.log.Info("import_job created", "job_id", job.ID, "store_ref", job.StoreRef)
	return nil
}

func (r *sqliteJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ImportJob, error) {
	var (
		job        entity.ImportJob
		idStr      string
		format     string
		status     string
		comparison sql.NullString
		errMsg     sql.NullString
		finished   sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, store_ref, file_key, format, status, comparison_data, error_message, created_at, finished_at
		FROM import_job WHERE id = ?`, id.String(),
	).Scan(&idStr, &job.StoreRef, &job.FileKey, &format, &status, &comparison, &errMsg, &job.CreatedAt, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", common.ErrJobNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}

	job.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("%w: bad job id %q", common.ErrDatabase, idStr)
	}
	job.Format = constants.FileFormat(format)
	job.Status = constants.ImportStatus(status)
	if comparison.Valid {
		job.ComparisonData = json.RawMessage(comparison.String)
	}
	if errMsg.Valid {
		job.ErrorMessage = &errMsg.String
	}
	if finished.Valid {
		job.FinishedAt = &finished.Time
	}
	return &job, nil
}

func (r *sqliteJobRepo) SetReady(ctx context.Context, id uuid.UUID, comparison json.RawMessage) (bool, error) {
	return r.transition(ctx, `
		UPDATE import_job SET status = ?, comparison_data = ?, finished_at = ?
		WHERE id = ? AND status = ?`,
		string(constants.ImportStatusReady), string(comparison), time.Now().UTC(),
		id.String(), string(constants.ImportStatusProcessing),
	)
}

func (r *sqliteJobRepo) SetFailed(ctx context.Context, id uuid.UUID, message string) (bool, error) {
	return r.transition(ctx, `
		UPDATE import_job SET status = ?, error_message = ?, finished_at = ?
		WHERE id = ? AND status = ?`,
		string(constants.ImportStatusFailed), message, time.Now().UTC(),
		id.String(), string(constants.ImportStatusProcessing),
	)
}

func (r *sqliteJobRepo) SetCompleted(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.transition(ctx, `
		UPDATE import_job SET status = ?, finished_at = ?
		WHERE id = ? AND status = ?`,
		string(constants.ImportStatusCompleted), time.Now().UTC(),
		id.String(), string(constants.ImportStatusReady),
	)
}

func (r *sqliteJobRepo) transition(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return n == 1, nil
}
