package mapping

import (
	"strings"

	"github.com/catalogiq/catalog-service/internal/price"
	"github.com/catalogiq/catalog-service/internal/schema"
)

// matchFraction is the share of non-empty sample cells that must satisfy a
// value format (or parse as a price) before the content pass accepts a
// column.
const matchFraction = 0.7

// contentPass inspects sample data instead of header text. Sample rows are
// transposed into columns aligned with headers; a column whose values
// consistently match a known value format claims the corresponding field,
// and price-shaped columns are routed into the MSRP family.
func (m *Mapper) contentPass(s *run) {
	columns := transpose(s.samples, len(s.infos))

	for _, vf := range valueFormats {
		if s.settled(vf.Field) {
			continue
		}
		for i, info := range s.infos {
			if s.claimed(info.Original) {
				continue
			}
			if formatFraction(columns[i], vf.Pattern.MatchString) > matchFraction {
				s.result[vf.Field] = Candidate{Header: info.Original, Confidence: 0.8, Pass: PassContent}
				break
			}
		}
	}

	for i, info := range s.infos {
		if s.claimed(info.Original) {
			continue
		}
		if formatFraction(columns[i], currencyShaped) <= matchFraction {
			continue
		}

		// Count currency indicators across the column's cells; a specific
		// currency needs at least 3 supporting cells.
		counts := make(map[string]int)
		for _, cell := range columns[i] {
			if code, ok := price.DetectCurrency(cell); ok {
				counts[code]++
			}
		}
		assigned := false
		for _, cur := range price.CurrencyIndicators {
			if counts[cur.Code] >= 3 {
				field, _ := schema.MSRPFor(cur.Code)
				if !s.settled(field) {
					s.result[field] = Candidate{Header: info.Original, Confidence: 0.85, Pass: PassContent}
					assigned = true
				}
				break
			}
		}
		if !assigned && !s.settled(schema.FieldMSRP) {
			s.result[schema.FieldMSRP] = Candidate{Header: info.Original, Confidence: 0.75, Pass: PassContent}
		}
	}
}

// transpose converts row-major sample data into per-header columns. Short
// rows simply contribute fewer cells.
func transpose(rows [][]string, width int) [][]string {
	columns := make([][]string, width)
	for _, row := range rows {
		for i := 0; i < width && i < len(row); i++ {
			columns[i] = append(columns[i], row[i])
		}
	}
	return columns
}

// formatFraction returns the share of non-empty cells satisfying match,
// or 0 for a column without usable values.
func formatFraction(column []string, match func(string) bool) float64 {
	nonEmpty, hits := 0, 0
	for _, cell := range column {
		v := strings.TrimSpace(cell)
		if v == "" {
			continue
		}
		nonEmpty++
		if match(v) {
			hits++
		}
	}
	if nonEmpty == 0 {
		return 0
	}
	return float64(hits) / float64(nonEmpty)
}

// currencyShaped reports whether a cell reads like a monetary amount: it
// parses as a price and carries either a currency indicator or a decimal
// separator. Bare integer columns (quantities, internal codes) do not
// qualify.
func currencyShaped(cell string) bool {
	if _, ok := price.Normalize(cell); !ok {
		return false
	}
	if _, ok := price.DetectCurrency(cell); ok {
		return true
	}
	return strings.ContainsAny(cell, ".,")
}
