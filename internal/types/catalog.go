// Package types holds the shared data shapes exchanged between the format
// readers, the column mapper, the row transformer and the delivery layers.
package types

import (
	"time"

	"github.com/catalogiq/catalog-service/internal/schema"
)

// FileKind is the closed set of supported source formats, resolved once by
// the file detector and dispatched through the reader interface.
type FileKind string

const (
	KindSpreadsheet     FileKind = "spreadsheet"
	KindDelimited       FileKind = "delimited"
	KindFreeText        FileKind = "freetext"
	KindArchive         FileKind = "archive"
	KindTabularDocument FileKind = "tabular-document"
)

// Record is one standardized output row: target field name to a cleaned,
// typed value (string, float64, bool) or nil where normalization failed.
type Record map[schema.Field]any

// RowError describes a single row that failed transformation. Row failures
// are skipped and logged, never fatal to the file.
type RowError struct {
	RowNumber int    `json:"rowNumber"`
	Field     string `json:"field,omitempty"`
	Message   string `json:"message"`
	Value     string `json:"value,omitempty"`
}

// Warning is a non-fatal data-quality note, e.g. an unmapped required
// field.
type Warning struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ParseResult is the structured outcome of parsing one catalog file.
// Failure is reported through the Success flag and Error detail; the
// pipeline never surfaces data-quality problems as panics or errors.
type ParseResult struct {
	Success      bool                    `json:"success"`
	Error        string                  `json:"error,omitempty"`
	FileKind     FileKind                `json:"fileKind,omitempty"`
	Mapping      map[schema.Field]string `json:"mapping,omitempty"`
	Records      []Record                `json:"records,omitempty"`
	TotalRows    int                     `json:"totalRows"`
	ValidRows    int                     `json:"validRows"`
	RowErrors    []RowError              `json:"rowErrors,omitempty"`
	Warnings     []Warning               `json:"warnings,omitempty"`
	Manufacturer string                  `json:"manufacturer,omitempty"`
	Duration     time.Duration           `json:"-"`
}

// BatchResult aggregates per-file outcomes of a directory run. Partial
// success is the normal case.
type BatchResult struct {
	Files     []FileResult `json:"files"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

// FileResult pairs a filename with its parse outcome for batch reporting.
type FileResult struct {
	Filename string       `json:"filename"`
	Result   *ParseResult `json:"result"`
}
