// Package transform applies a resolved field mapping to raw data rows,
// producing standardized records: defaults injected, values cleaned and
// coerced, prices mined out of description text, and the generic MSRP
// bucket reconciled into a currency-specific field or dropped.
package transform

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/catalogiq/catalog-service/internal/mapping"
	"github.com/catalogiq/catalog-service/internal/price"
	"github.com/catalogiq/catalog-service/internal/schema"
	"github.com/catalogiq/catalog-service/internal/types"
)

// discontinuedTokens is the fixed set of values treated as "true" for
// discontinued-style boolean fields, compared case-insensitively.
var discontinuedTokens = map[string]bool{
	"yes": true, "y": true, "true": true, "t": true, "1": true,
	"discontinued": true, "obsolete": true,
}

// Transformer converts raw rows into standardized records using a mapping
// produced by the column mapper.
type Transformer struct {
	headers []string
	index   map[string]int
}

// New creates a Transformer for a file's header row. Header positions are
// resolved once; every data row is expected to be parallel to headers.
func New(headers []string) *Transformer {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, ok := index[h]; !ok {
			index[h] = i
		}
	}
	return &Transformer{headers: headers, index: index}
}

// Transform maps every raw row through the field mapping. Rows that fail
// are skipped and recorded as row errors; they never abort the batch.
func (t *Transformer) Transform(rows [][]string, result mapping.Result) ([]types.Record, []types.RowError) {
	records := make([]types.Record, 0, len(rows))
	var rowErrors []types.RowError

	for i, row := range rows {
		record, err := t.transformRow(row, result)
		if err != nil {
			log.Warn().Int("row", i+1).Err(err).Msg("Skipping row")
			rowErrors = append(rowErrors, types.RowError{
				RowNumber: i + 1,
				Message:   err.Error(),
			})
			continue
		}
		records = append(records, record)
	}
	return records, rowErrors
}

func (t *Transformer) transformRow(row []string, result mapping.Result) (types.Record, error) {
	if len(row) == 0 {
		return nil, fmt.Errorf("empty row")
	}

	record := make(types.Record, len(schema.TargetFields))
	for field, def := range schema.Defaults {
		record[field] = def
	}

	// The generic bucket value is held aside for reconciliation.
	var genericMSRP *float64

	for field, cand := range result {
		idx, ok := t.index[cand.Header]
		if !ok || idx >= len(row) {
			continue
		}
		raw := strings.TrimSpace(row[idx])
		if raw == "" {
			continue
		}
		if field == schema.FieldMSRP {
			if v, ok := price.Normalize(raw); ok {
				genericMSRP = &v
			}
			continue
		}
		record[field] = coerce(field, raw)
	}

	t.minePrices(record)
	t.reconcileMSRP(record, genericMSRP, row)

	return record, nil
}

// coerce cleans a raw cell value into the type its target field expects.
// Unparseable prices become nil, matching the value-normalization error
// contract.
func coerce(field schema.Field, raw string) any {
	if schema.IsPrice(field) {
		if v, ok := price.Normalize(raw); ok {
			return v
		}
		return nil
	}
	if field == schema.FieldDiscontinued {
		return discontinuedTokens[strings.ToLower(strings.TrimSpace(raw))]
	}
	return strings.TrimSpace(raw)
}

// minePrices scans description-like fields for row-style price labels and
// backfills price fields the mapping could not resolve.
func (t *Transformer) minePrices(record types.Record) {
	for _, descField := range []schema.Field{schema.FieldLongDescription, schema.FieldShortDescription} {
		text, _ := record[descField].(string)
		if text == "" {
			continue
		}
		for field, value := range price.ExtractFromText(text) {
			if field == schema.FieldMSRP {
				// Currency-unresolved finds stay out of the record; the
				// bucket is only honored when the mapper produced it.
				continue
			}
			if current, ok := record[field]; !ok || current == nil {
				record[field] = value
			}
		}
	}
}

// reconcileMSRP resolves a generic MSRP bucket value using any currency
// hint found in the row's serialized values. Unresolvable buckets are
// dropped: emitting a price under a guessed currency is worse than
// emitting none.
func (t *Transformer) reconcileMSRP(record types.Record, genericMSRP *float64, row []string) {
	if genericMSRP == nil {
		return
	}
	serialized := strings.Join(row, " ")
	code, ok := price.DetectCurrency(serialized)
	if !ok {
		log.Debug().Msg("Dropping generic MSRP value with no currency hint")
		return
	}
	field, _ := schema.MSRPFor(code)
	if current, exists := record[field]; !exists || current == nil {
		record[field] = *genericMSRP
	}
}
