package database

import (
	"context"
	"fmt"
	"time"

	"github.com/catalogiq/catalog-service/internal/pkg/ids"
)

// Migrate creates the persistence schema if it does not exist.
func Migrate(ctx context.Context) error {
	pool := Pool()
	if pool == nil {
		return fmt.Errorf("database not initialized")
	}

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS parse_runs (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ,
			total_files INT NOT NULL DEFAULT 0,
			succeeded INT NOT NULL DEFAULT 0,
			failed INT NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS parse_files (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL REFERENCES parse_runs(id) ON DELETE CASCADE,
			filename TEXT NOT NULL,
			file_kind TEXT NOT NULL DEFAULT '',
			success BOOLEAN NOT NULL,
			total_rows INT NOT NULL DEFAULT 0,
			valid_rows INT NOT NULL DEFAULT 0,
			manufacturer TEXT NOT NULL DEFAULT '',
			mapping JSONB,
			error TEXT NOT NULL DEFAULT '',
			duration_ms BIGINT NOT NULL DEFAULT 0,
			storage_key TEXT NOT NULL DEFAULT '',
			checksum TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_parse_files_run_id ON parse_files(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_parse_files_checksum ON parse_files(checksum)`,
	}

	for _, stmt := range ddl {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// CreateParseRun inserts a new running parse run and returns it.
func CreateParseRun(ctx context.Context, totalFiles int) (*ParseRun, error) {
	pool := Pool()
	if pool == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	run := &ParseRun{
		ID:         ids.NewRunID(),
		StartedAt:  time.Now(),
		TotalFiles: totalFiles,
		Status:     RunStatusRunning,
	}

	query := `
		INSERT INTO parse_runs (id, started_at, total_files, status)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := pool.Exec(ctx, query, run.ID, run.StartedAt, run.TotalFiles, run.Status); err != nil {
		return nil, fmt.Errorf("failed to create parse run: %w", err)
	}
	return run, nil
}

// FinishParseRun records the final counts and status of a run.
func FinishParseRun(ctx context.Context, runID string, succeeded, failed int, runErr string) error {
	pool := Pool()
	if pool == nil {
		return fmt.Errorf("database not initialized")
	}

	status := RunStatusCompleted
	if runErr != "" {
		status = RunStatusFailed
	}

	query := `
		UPDATE parse_runs
		SET finished_at = $2, succeeded = $3, failed = $4, status = $5, error = $6
		WHERE id = $1
	`
	if _, err := pool.Exec(ctx, query, runID, time.Now(), succeeded, failed, status, runErr); err != nil {
		return fmt.Errorf("failed to finish parse run: %w", err)
	}
	return nil
}

// GetParseRun retrieves a run by ID.
func GetParseRun(ctx context.Context, runID string) (*ParseRun, error) {
	pool := Pool()
	if pool == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT id, started_at, finished_at, total_files, succeeded, failed, status, error
		FROM parse_runs
		WHERE id = $1
	`
	var run ParseRun
	err := pool.QueryRow(ctx, query, runID).Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt, &run.TotalFiles,
		&run.Succeeded, &run.Failed, &run.Status, &run.Error,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListParseRuns returns runs ordered newest first.
func ListParseRuns(ctx context.Context, limit, offset int) ([]ParseRun, error) {
	pool := Pool()
	if pool == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, started_at, finished_at, total_files, succeeded, failed, status, error
		FROM parse_runs
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list parse runs: %w", err)
	}
	defer rows.Close()

	runs := make([]ParseRun, 0)
	for rows.Next() {
		var run ParseRun
		if err := rows.Scan(
			&run.ID, &run.StartedAt, &run.FinishedAt, &run.TotalFiles,
			&run.Succeeded, &run.Failed, &run.Status, &run.Error,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CreateParseFile persists one file outcome under a run. The column
// mapping is stored as JSONB so detection quality can be audited later.
func CreateParseFile(ctx context.Context, record *ParseFileRecord) error {
	pool := Pool()
	if pool == nil {
		return fmt.Errorf("database not initialized")
	}

	if record.ID == "" {
		record.ID = ids.NewFileID()
	}
	record.CreatedAt = time.Now()

	query := `
		INSERT INTO parse_files (
			id, run_id, filename, file_kind, success, total_rows, valid_rows,
			manufacturer, mapping, error, duration_ms, storage_key, checksum, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := pool.Exec(ctx, query,
		record.ID, record.RunID, record.Filename, record.FileKind, record.Success,
		record.TotalRows, record.ValidRows, record.Manufacturer, record.Mapping,
		record.Error, record.DurationMS, record.StorageKey, record.Checksum, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create parse file record: %w", err)
	}
	return nil
}

// GetParseFilesByRun returns the file outcomes for a run.
func GetParseFilesByRun(ctx context.Context, runID string) ([]ParseFileRecord, error) {
	pool := Pool()
	if pool == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT id, run_id, filename, file_kind, success, total_rows, valid_rows,
			manufacturer, mapping, error, duration_ms, storage_key, checksum, created_at
		FROM parse_files
		WHERE run_id = $1
		ORDER BY created_at ASC
	`
	rows, err := pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query parse files: %w", err)
	}
	defer rows.Close()

	records := make([]ParseFileRecord, 0)
	for rows.Next() {
		var rec ParseFileRecord
		if err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.Filename, &rec.FileKind, &rec.Success,
			&rec.TotalRows, &rec.ValidRows, &rec.Manufacturer, &rec.Mapping,
			&rec.Error, &rec.DurationMS, &rec.StorageKey, &rec.Checksum, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
