package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/catalogiq/catalog-service/internal/database"
	"github.com/catalogiq/catalog-service/internal/pipeline"
	"github.com/catalogiq/catalog-service/internal/storage"
	"github.com/catalogiq/catalog-service/internal/writer"
)

var (
	batchConcurrency int
	batchTimeout     time.Duration
	batchOutDir      string
	batchPersist     bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Parse every catalog file in a directory",
	Long: `Parse all supported files found directly under a directory, in
parallel. Per-file failures are reported and do not stop the batch.

With --out, the standardized records of each successfully parsed file
are written as CSV next to a summary. With --persist, the run and its
per-file outcomes are recorded in the database.`,
	Example: `  catalog-service batch ./catalogs
  catalog-service batch ./catalogs --concurrency 8 --out ./normalized
  catalog-service batch ./catalogs --persist`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "Files parsed in parallel")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 2*time.Minute, "Per-file parse timeout")
	batchCmd.Flags().StringVar(&batchOutDir, "out", "", "Directory for normalized CSV output")
	batchCmd.Flags().BoolVar(&batchPersist, "persist", false, "Record the run in the database")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx := context.Background()

	if batchPersist {
		if err := initDatabase(ctx); err != nil {
			return err
		}
		defer database.Close()
	}

	var archive storage.Storage
	if batchPersist && cfg != nil && cfg.Storage.BasePath != "" {
		local, err := storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			return fmt.Errorf("failed to initialize upload storage: %w", err)
		}
		archive = local
	}

	runner := pipeline.NewRunner(pipeline.RunnerOptions{
		Pipeline: newPipeline(),
		Archive:  archive,
		Persist:  batchPersist,
	})
	options := pipeline.BatchOptions{
		Concurrency: batchConcurrency,
		FileTimeout: batchTimeout,
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}
	inputs := make([]pipeline.FileInput, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Warn().Str("file", entry.Name()).Err(err).Msg("Skipping unreadable file")
			continue
		}
		inputs = append(inputs, pipeline.FileInput{Filename: entry.Name(), Content: content})
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no files found in %s", dir)
	}

	result, runID, err := runner.RunBatch(ctx, inputs, options)
	if err != nil {
		return err
	}

	if batchOutDir != "" {
		if err := os.MkdirAll(batchOutDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		for _, file := range result.Files {
			if !file.Result.Success {
				continue
			}
			name := strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename)) + ".csv"
			outPath := filepath.Join(batchOutDir, name)
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			werr := writer.WriteCSV(f, file.Result.Records)
			f.Close()
			if werr != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, werr)
			}
		}
	}

	fmt.Printf("Parsed %d files: %d succeeded, %d failed\n", len(result.Files), result.Succeeded, result.Failed)
	if runID != "" {
		fmt.Printf("Run ID: %s\n", runID)
	}
	for _, file := range result.Files {
		status := "ok"
		if !file.Result.Success {
			status = "FAILED: " + file.Result.Error
		}
		fmt.Printf("  %-40s %6d/%d rows  %s\n", file.Filename, file.Result.ValidRows, file.Result.TotalRows, status)
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", result.Failed, len(result.Files))
	}
	return nil
}
