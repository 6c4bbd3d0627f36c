package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tablecraft/menu-importer/constants"
	"github.com/tablecraft/menu-importer/internal/common"
	"github.com/tablecraft/menu-importer/internal/entity"
)

type pgJobRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPostgresJobRepository(pool *pgxpool.Pool, log *slog.Logger) ImportJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &pgJobRepo{pool: pool, log: log}
}

func (r *pgJobRepo) Create(ctx context.Context, job *entity.ImportJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = constants.ImportStatusProcessing
	}
	job.CreatedAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO import_job (id, store_ref, file_key, format, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		job.ID, job.StoreRef, job.FileKey, string(job.Format), string(job.Status), job.CreatedAt,
	)
	if err != nil {
		r.log.Error("import_job create failed", "store_ref", job.StoreRef, "err", err)
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	r.log.Info("import_job created", "job_id", job.ID, "store_ref", job.StoreRef, "format", job.Format)
	return nil
}

func (r *pgJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ImportJob, error) {
	var (
		job    entity.ImportJob
		format string
		status string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, store_ref, file_key, format, status, comparison_data, error_message, created_at, finished_at
		FROM import_job WHERE id = $1`, id,
	).Scan(&job.ID, &job.StoreRef, &job.FileKey, &format, &status,
		&job.ComparisonData, &job.ErrorMessage, &job.CreatedAt, &job.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", common.ErrJobNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	job.Format = constants.FileFormat(format)
	job.Status = constants.ImportStatus(status)
	return &job, nil
}

func (r *pgJobRepo) SetReady(ctx context.Context, id uuid.UUID, comparison json.RawMessage) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE import_job
		SET status = $2, comparison_data = $3, finished_at = $4
		WHERE id = $1 AND status = $5`,
		id, string(constants.ImportStatusReady), comparison, time.Now().UTC(), string(constants.ImportStatusProcessing),
	)
	if err != nil {
		r.log.Error("import_job set READY failed", "job_id", id, "err", err)
		return false, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	claimed := tag.RowsAffected() == 1
	r.log.Info("import_job READY", "job_id", id, "claimed", claimed)
	return claimed, nil
}

func (r *pgJobRepo) SetFailed(ctx context.Context, id uuid.UUID, message string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE import_job
		SET status = $2, error_message = $3, finished_at = $4
		WHERE id = $1 AND status = $5`,
		id, string(constants.ImportStatusFailed), message, time.Now().UTC(), string(constants.ImportStatusProcessing),
	)
	if err != nil {
		r.log.Error("import_job set FAILED failed", "job_id", id, "err", err)
		return false, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	claimed := tag.RowsAffected() == 1
	r.log.Warn("import_job FAILED", "job_id", id, "claimed", claimed, "error", message)
	return claimed, nil
}

func (r *pgJobRepo) SetCompleted(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE import_job
		SET status = $2, finished_at = $3
		WHERE id = $1 AND status = $4`,
		id, string(constants.ImportStatusCompleted), time.Now().UTC(), string(constants.ImportStatusReady),
	)
	if err != nil {
		r.log.Error("import_job set COMPLETED failed", "job_id", id, "err", err)
		return false, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	claimed := tag.RowsAffected() == 1
	r.log.Info("import_job COMPLETED", "job_id", id, "claimed", claimed)
	return claimed, nil
}
