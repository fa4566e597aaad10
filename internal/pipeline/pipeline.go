// Package pipeline wires the file detector, format readers, column
// mapper and row transformer into the end-to-end parse flow.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/catalogiq/catalog-service/internal/manufacturer"
	"github.com/catalogiq/catalog-service/internal/mapping"
	"github.com/catalogiq/catalog-service/internal/readers"
	"github.com/catalogiq/catalog-service/internal/transform"
	"github.com/catalogiq/catalog-service/internal/types"
)

// sampleRowCount bounds the rows handed to content-based column
// detection.
const sampleRowCount = 20

// Pipeline parses catalog files into standardized records.
type Pipeline struct {
	mapper   *mapping.Mapper
	detector *manufacturer.Detector
}

// Options configures a Pipeline. Zero values get defaults.
type Options struct {
	Mapper   *mapping.Mapper
	Detector *manufacturer.Detector
}

func New(opts Options) *Pipeline {
	if opts.Mapper == nil {
		opts.Mapper = mapping.New(mapping.Options{})
	}
	if opts.Detector == nil {
		opts.Detector = manufacturer.NewDetector()
	}
	return &Pipeline{
		mapper:   opts.Mapper,
		detector: opts.Detector,
	}
}

// ParseFile runs the full parse flow for one file. Data-quality
// problems land in the result, not in the error return; an error means
// the content could not be processed at all.
func (p *Pipeline) ParseFile(ctx context.Context, filename string, content []byte) (*types.ParseResult, error) {
	start := time.Now()

	ctx, span := otel.Tracer("pipeline").Start(ctx, "ParseFile",
		trace.WithAttributes(attribute.String("filename", filename)))
	defer span.End()

	kind, ok := readers.DetectKind(filename, content)
	if !ok {
		recordFileParsed("unknown", "unsupported")
		return &types.ParseResult{
			Success: false,
			Error:   fmt.Sprintf("unsupported file type: %s", filename),
		}, nil
	}

	logger := log.With().Str("filename", filename).Str("kind", string(kind)).Logger()
	logger.Info().Int("bytes", len(content)).Msg("parsing catalog file")

	reader, err := readers.ForKind(kind)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := reader.Read(content)
	if err != nil {
		recordFileParsed(string(kind), "read_error")
		return &types.ParseResult{
			Success:  false,
			Error:    fmt.Sprintf("failed to read file: %v", err),
			FileKind: kind,
		}, nil
	}

	result := p.parseTable(table, kind)
	result.Manufacturer = p.detector.Detect(filename, result.Records)
	result.Duration = time.Since(start)

	status := "success"
	if !result.Success {
		status = "no_data"
	}
	recordFileParsed(string(kind), status)
	recordParseDuration(string(kind), result.Duration)
	recordRowsParsed(result.ValidRows)

	logger.Info().
		Bool("success", result.Success).
		Int("totalRows", result.TotalRows).
		Int("validRows", result.ValidRows).
		Int("mappedColumns", len(result.Mapping)).
		Dur("duration", result.Duration).
		Msg("parse complete")

	return result, nil
}

// MapFile detects the column mapping for a file without transforming
// its rows.
func (p *Pipeline) MapFile(ctx context.Context, filename string, content []byte) (mapping.Result, error) {
	kind, ok := readers.DetectKind(filename, content)
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", filename)
	}
	reader, err := readers.ForKind(kind)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, err := reader.Read(content)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if table.Empty() {
		return mapping.Result{}, nil
	}

	samples := table.Rows
	if len(samples) > sampleRowCount {
		samples = samples[:sampleRowCount]
	}
	return p.mapper.MapColumns(table.Headers, samples), nil
}

func (p *Pipeline) parseTable(table *readers.Table, kind types.FileKind) *types.ParseResult {
	result := &types.ParseResult{
		FileKind: kind,
	}

	if table.Empty() {
		result.Error = "no data rows found"
		return result
	}

	samples := table.Rows
	if len(samples) > sampleRowCount {
		samples = samples[:sampleRowCount]
	}

	mapped := p.mapper.MapColumns(table.Headers, samples)
	result.Mapping = mapped.Headers()

	if len(mapped) == 0 {
		result.Error = "no columns could be mapped to target fields"
		result.TotalRows = len(table.Rows)
		return result
	}

	for _, field := range mapped.UnmappedRequired() {
		result.Warnings = append(result.Warnings, types.Warning{
			Field:   string(field),
			Message: "required field not found in source columns",
		})
	}
	for field, candidate := range mapped {
		recordMappingPass(string(field), candidate.Pass)
	}

	records, rowErrors := transform.New(table.Headers).Transform(table.Rows, mapped)

	result.Records = records
	result.RowErrors = rowErrors
	result.TotalRows = len(table.Rows)
	result.ValidRows = len(records)
	result.Success = true

	return result
}
