// Package repository persists metric records and run bookkeeping.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salespulse_backend/internal/analysis/domain"
	"salespulse_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Run represents one batch run of the daily analysis.
type Run struct {
	ID          uuid.UUID  `db:"id"`
	RunDate     time.Time  `db:"run_date"`
	Status      string     `db:"status"`
	Error       *string    `db:"error"`
	StartedAt   time.Time  `db:"started_at"`
	CompletedAt *time.Time `db:"completed_at"`
}

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusSkipped   = "skipped"
)

// Repository provides database operations for metric records and runs.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new analysis repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UpsertMetrics writes metric records keyed by (metric_date, rep, metric_name).
// Re-running a day overwrites the previous values, so the operation is
// idempotent at the row level. All records go in one batch.
func (r *Repository) UpsertMetrics(ctx context.Context, records []domain.MetricRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO metric_records (metric_date, rep, metric_name, value, metric_type, source, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (metric_date, rep, metric_name)
		DO UPDATE SET value = EXCLUDED.value,
		              metric_type = EXCLUDED.metric_type,
		              source = EXCLUDED.source,
		              updated_at = now()`

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query, rec.Date, rec.Rep, rec.MetricName, rec.Value, rec.MetricType, rec.Source)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert metric records: %w", err)
		}
	}

	return nil
}

// GetMetricsByDate retrieves all metric records for one business day.
func (r *Repository) GetMetricsByDate(ctx context.Context, date time.Time) ([]domain.MetricRecord, error) {
	query := `SELECT metric_date, rep, metric_name, value, metric_type, source
		FROM metric_records WHERE metric_date = $1 ORDER BY rep, metric_name`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric records: %w", err)
	}
	defer rows.Close()

	var records []domain.MetricRecord
	for rows.Next() {
		var rec domain.MetricRecord
		if err := rows.Scan(&rec.Date, &rec.Rep, &rec.MetricName, &rec.Value, &rec.MetricType, &rec.Source); err != nil {
			return nil, fmt.Errorf("failed to scan metric record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metric records: %w", err)
	}

	return records, nil
}

// GetRepMetricHistory retrieves one metric for one representative over a
// date range, oldest first.
func (r *Repository) GetRepMetricHistory(ctx context.Context, rep, metricName string, from, to time.Time) ([]domain.MetricRecord, error) {
	query := `SELECT metric_date, rep, metric_name, value, metric_type, source
		FROM metric_records
		WHERE rep = $1 AND metric_name = $2 AND metric_date BETWEEN $3 AND $4
		ORDER BY metric_date`

	rows, err := r.pool.Query(ctx, query, rep, metricName, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric history: %w", err)
	}
	defer rows.Close()

	var records []domain.MetricRecord
	for rows.Next() {
		var rec domain.MetricRecord
		if err := rows.Scan(&rec.Date, &rec.Rep, &rec.MetricName, &rec.Value, &rec.MetricType, &rec.Source); err != nil {
			return nil, fmt.Errorf("failed to scan metric record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metric history: %w", err)
	}

	return records, nil
}

// CreateRun records the start of a batch run.
func (r *Repository) CreateRun(ctx context.Context, id uuid.UUID, runDate time.Time) error {
	query := `INSERT INTO analysis_runs (id, run_date, status, started_at)
		VALUES ($1, $2, $3, now())`

	if _, err := r.pool.Exec(ctx, query, id, runDate, RunStatusRunning); err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun marks a run as finished with the given terminal status.
// A non-empty errMsg is stored for failed runs.
func (r *Repository) CompleteRun(ctx context.Context, id uuid.UUID, status, errMsg string) error {
	query := `UPDATE analysis_runs
		SET status = $2, error = NULLIF($3, ''), completed_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status, errMsg)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("run not found")
	}
	return nil
}

// GetLatestRun retrieves the most recent run for a business day.
func (r *Repository) GetLatestRun(ctx context.Context, runDate time.Time) (*Run, error) {
	query := `SELECT id, run_date, status, error, started_at, completed_at
		FROM analysis_runs WHERE run_date = $1 ORDER BY started_at DESC LIMIT 1`

	var run Run
	err := r.pool.QueryRow(ctx, query, runDate).Scan(
		&run.ID, &run.RunDate, &run.Status, &run.Error, &run.StartedAt, &run.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("no run for date")
		}
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	return &run, nil
}
