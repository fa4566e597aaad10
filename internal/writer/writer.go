// Package writer serializes standardized records to the delivery
// formats downstream systems ingest.
package writer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/catalogiq/catalog-service/internal/schema"
	"github.com/catalogiq/catalog-service/internal/types"
)

// utf8BOM keeps Excel from misreading accented characters in exported
// catalogs.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes records as CSV with a UTF-8 BOM. Columns follow the
// standard field order; absent values serialize as empty cells.
func WriteCSV(w io.Writer, records []types.Record) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)

	header := make([]string, len(schema.TargetFields))
	for i, field := range schema.TargetFields {
		header[i] = string(field)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(schema.TargetFields))
	for _, record := range records {
		for i, field := range schema.TargetFields {
			row[i] = formatCell(record[field])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the full parse result as indented JSON.
func WriteJSON(w io.Writer, result *types.ParseResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
