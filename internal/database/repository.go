package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-easyapply-automation/internal/logger"
	"go-easyapply-automation/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
    id          BIGSERIAL PRIMARY KEY,
    source      TEXT NOT NULL,
    external_id TEXT NOT NULL DEFAULT '',
    url         TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (source, url)
);
CREATE TABLE IF NOT EXISTS applications (
    id               BIGSERIAL PRIMARY KEY,
    job_id           BIGINT NOT NULL REFERENCES jobs(id),
    provider         TEXT NOT NULL,
    status           TEXT NOT NULL,
    handlers_done    INT NOT NULL DEFAULT 0,
    handlers_skipped INT NOT NULL DEFAULT 0,
    error            TEXT,
    created_at       TIMESTAMPTZ NOT NULL,
    updated_at       TIMESTAMPTZ NOT NULL
);
`

const (
	sqlUpsertJob = `
		INSERT INTO jobs (source, external_id, url)
		VALUES ($1, $2, $3)
		ON CONFLICT (source, url)
		DO UPDATE SET external_id = EXCLUDED.external_id
		RETURNING id, created_at`

	sqlInsertApplication = `
		INSERT INTO applications (job_id, provider, status, handlers_done, handlers_skipped, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
)

// DBPool is the subset of pgxpool.Pool the repository uses, so tests can mock it.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Repository logs jobs and application attempts to PostgreSQL.
type Repository struct {
	db  DBPool
	log *zap.Logger
}

func ConnectDB(ctx context.Context, connString string, log *zap.Logger) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// PgBouncer in transaction mode does not support prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	repo, err := New(ctx, pool, log)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

// New verifies the connection and makes sure the tables exist.
func New(ctx context.Context, pool DBPool, log *zap.Logger) (*Repository, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Repository{db: pool, log: logger.OrNop(log).Named("database")}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// SaveJob inserts a job or refreshes the existing row for the same source and URL.
func (r *Repository) SaveJob(ctx context.Context, job models.Job) (models.Job, error) {
	return saveJob(ctx, r.db, job)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func saveJob(ctx context.Context, q queryRower, job models.Job) (models.Job, error) {
	var id int64
	err := q.QueryRow(ctx, sqlUpsertJob, job.Source, job.ExternalID, job.URL).Scan(&id, &job.CreatedAt)
	if err != nil {
		return job, fmt.Errorf("failed to save job: %w", err)
	}
	job.ID = fmt.Sprint(id)
	return job, nil
}

// RecordAttempt stores the job and one application attempt in a single transaction.
func (r *Repository) RecordAttempt(ctx context.Context, job models.Job, app models.Application) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			r.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	saved, err := saveJob(ctx, tx, job)
	if err != nil {
		return err
	}

	var appID int64
	err = tx.QueryRow(ctx, sqlInsertApplication,
		saved.ID, app.Provider, string(app.Status), app.HandlersDone, app.HandlersSkipped, app.Error,
		app.CreatedAt.UTC(), app.UpdatedAt.UTC(),
	).Scan(&appID)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit attempt: %w", err)
	}
	r.log.Debug("🗄️ Attempt recorded", zap.String("job_id", saved.ID), zap.Int64("application_id", appID), zap.String("status", string(app.Status)))
	return nil
}
