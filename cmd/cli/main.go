package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/catalogiq/catalog-service/config"
	"github.com/catalogiq/catalog-service/internal/database"
	"github.com/catalogiq/catalog-service/internal/mapping"
	"github.com/catalogiq/catalog-service/internal/pipeline"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "catalog-service",
	Short: "Catalog Service CLI - Supplier catalog normalization tool",
	Long: `A CLI tool for parsing supplier product catalogs in arbitrary layouts
(spreadsheets, CSV, text exports, zip bundles, PDF price lists) into the
standardized catalog schema. Column meanings are detected automatically,
so no per-supplier configuration is needed.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		setupLogging()
		return nil
	},
}

func init() {
	cobra.OnInitialize(func() {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			// Config is optional for parse-only commands.
			fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		}
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

// setupLogging configures the global zerolog logger. Logs go to stderr
// so command output can be piped.
func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.WarnLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsed
		}
	}

	var out io.Writer = os.Stderr
	if cfg == nil || cfg.Logging.Format != "json" {
		noColor := cfg != nil && cfg.Logging.NoColor
		out = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}
	}

	zlog.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// newPipeline builds the parse pipeline, honoring the configured
// mapping confidence threshold when a config file is loaded.
func newPipeline() *pipeline.Pipeline {
	opts := pipeline.Options{}
	if cfg != nil && cfg.Parser.ConfidenceThreshold > 0 {
		opts.Mapper = mapping.New(mapping.Options{
			ConfidenceThreshold: cfg.Parser.ConfidenceThreshold,
		})
	}
	return pipeline.New(opts)
}

// initDatabase connects the shared pool and applies the schema. Only
// the batch command persists runs, so it calls this on demand.
func initDatabase(ctx context.Context) error {
	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}
	if cfg == nil {
		return fmt.Errorf("config not loaded")
	}

	if err := database.Connect(
		ctx,
		dbURL,
		cfg.Database.MaxConnections,
		cfg.Database.MinConnections,
		cfg.Database.MaxConnLifetime,
		cfg.Database.MaxConnIdleTime,
	); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	return database.Migrate(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
