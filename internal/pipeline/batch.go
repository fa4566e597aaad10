package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/catalogiq/catalog-service/internal/types"
)

// BatchOptions tunes concurrent batch parsing.
type BatchOptions struct {
	// Concurrency bounds files parsed in parallel. Defaults to 4.
	Concurrency int
	// FileTimeout bounds one file's parse. Defaults to 2 minutes.
	FileTimeout time.Duration
}

func (o *BatchOptions) withDefaults() BatchOptions {
	opts := *o
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.FileTimeout <= 0 {
		opts.FileTimeout = 2 * time.Minute
	}
	return opts
}

// FileInput is one file queued for batch parsing.
type FileInput struct {
	Filename string
	Content  []byte
}

// ParseBatch parses files concurrently. Per-file failures land in the
// per-file results; the error return covers only batch-level aborts
// such as context cancellation.
func (p *Pipeline) ParseBatch(ctx context.Context, inputs []FileInput, options BatchOptions) (*types.BatchResult, error) {
	opts := options.withDefaults()

	result := &types.BatchResult{
		Files: make([]types.FileResult, len(inputs)),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, input := range inputs {
		g.Go(func() error {
			fileCtx, cancel := context.WithTimeout(gctx, opts.FileTimeout)
			defer cancel()

			parsed, err := p.ParseFile(fileCtx, input.Filename, input.Content)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				parsed = &types.ParseResult{
					Success: false,
					Error:   err.Error(),
				}
			}

			mu.Lock()
			result.Files[i] = types.FileResult{Filename: input.Filename, Result: parsed}
			if parsed.Success {
				result.Succeeded++
			} else {
				result.Failed++
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// ParseDirectory parses every supported file found directly under dir.
func (p *Pipeline) ParseDirectory(ctx context.Context, dir string, options BatchOptions) (*types.BatchResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	inputs := make([]FileInput, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Str("path", path).Err(err).Msg("skipping unreadable file")
			continue
		}
		inputs = append(inputs, FileInput{Filename: entry.Name(), Content: content})
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Filename < inputs[j].Filename })

	if len(inputs) == 0 {
		return &types.BatchResult{Files: []types.FileResult{}}, nil
	}
	return p.ParseBatch(ctx, inputs, options)
}
