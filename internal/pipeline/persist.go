package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/catalogiq/catalog-service/internal/database"
	"github.com/catalogiq/catalog-service/internal/storage"
	"github.com/catalogiq/catalog-service/internal/types"
)

// Runner couples the parse pipeline with run persistence and raw file
// archival. Both backends are optional so the CLI can run without
// infrastructure.
type Runner struct {
	pipeline *Pipeline
	archive  storage.Storage
	persist  bool
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	Pipeline *Pipeline
	// Archive receives the raw uploads. Nil disables archival.
	Archive storage.Storage
	// Persist enables parse run bookkeeping in the database. Requires
	// database.Connect to have been called.
	Persist bool
}

func NewRunner(opts RunnerOptions) *Runner {
	if opts.Pipeline == nil {
		opts.Pipeline = New(Options{})
	}
	return &Runner{
		pipeline: opts.Pipeline,
		archive:  opts.Archive,
		persist:  opts.Persist,
	}
}

// Pipeline exposes the wrapped pipeline for direct single-file use.
func (r *Runner) Pipeline() *Pipeline {
	return r.pipeline
}

// RunBatch parses the inputs and records the run and its per-file
// outcomes. Persistence failures are logged and do not fail the parse.
func (r *Runner) RunBatch(ctx context.Context, inputs []FileInput, options BatchOptions) (*types.BatchResult, string, error) {
	var runID string
	if r.persist {
		run, err := database.CreateParseRun(ctx, len(inputs))
		if err != nil {
			log.Error().Err(err).Msg("failed to create parse run, continuing without persistence")
		} else {
			runID = run.ID
		}
	}

	result, err := r.pipeline.ParseBatch(ctx, inputs, options)
	if err != nil {
		if runID != "" {
			if ferr := database.FinishParseRun(ctx, runID, 0, 0, err.Error()); ferr != nil {
				log.Error().Err(ferr).Str("runId", runID).Msg("failed to mark run failed")
			}
		}
		return nil, runID, err
	}

	for i, file := range result.Files {
		key := r.archiveFile(ctx, inputs[i])
		if runID != "" {
			r.recordFile(ctx, runID, file, key, inputs[i])
		}
	}

	if runID != "" {
		if err := database.FinishParseRun(ctx, runID, result.Succeeded, result.Failed, ""); err != nil {
			log.Error().Err(err).Str("runId", runID).Msg("failed to finish parse run")
		}
	}
	return result, runID, nil
}

func (r *Runner) archiveFile(ctx context.Context, input FileInput) string {
	if r.archive == nil {
		return ""
	}

	key := storage.BuildUploadKey(time.Now(), input.Filename, storage.ComputeChecksum(input.Content))
	meta := &storage.Metadata{
		OriginalName: input.Filename,
		UploadedAt:   time.Now(),
	}
	if err := r.archive.Put(ctx, key, input.Content, meta); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to archive upload")
		return ""
	}
	return key
}

func (r *Runner) recordFile(ctx context.Context, runID string, file types.FileResult, storageKey string, input FileInput) {
	parsed := file.Result

	mapping := make(map[string]string, len(parsed.Mapping))
	for field, header := range parsed.Mapping {
		mapping[string(field)] = header
	}

	record := &database.ParseFileRecord{
		RunID:        runID,
		Filename:     file.Filename,
		FileKind:     string(parsed.FileKind),
		Success:      parsed.Success,
		TotalRows:    parsed.TotalRows,
		ValidRows:    parsed.ValidRows,
		Manufacturer: parsed.Manufacturer,
		Mapping:      mapping,
		Error:        parsed.Error,
		DurationMS:   parsed.Duration.Milliseconds(),
		StorageKey:   storageKey,
		Checksum:     storage.ComputeChecksum(input.Content),
	}
	if err := database.CreateParseFile(ctx, record); err != nil {
		log.Error().Err(err).Str("runId", runID).Str("filename", file.Filename).
			Msg("failed to persist file outcome")
	}
}
