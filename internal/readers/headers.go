package readers

import (
	"fmt"
	"strconv"
	"strings"
)

// maxHeaderRows bounds the search for the header row. Supplier files
// often carry title banners or blank padding above the real header.
const maxHeaderRows = 10

var headerKeywords = []string{
	"id", "name", "price", "cost", "sku", "description", "category",
	"brand", "product", "model", "manufacturer", "image", "url",
}

// findHeaderRow scores the leading rows and returns the index of the
// most header-like one, or -1 when every candidate is empty.
func findHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > maxHeaderRows {
		limit = maxHeaderRows
	}

	bestScore := -1.0
	bestIndex := -1

	for i := 0; i < limit; i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		score := 0.0

		// Headers are text, not numbers.
		nonNumeric := 0
		for _, cell := range row {
			if !isNumericCell(cell) {
				nonNumeric++
			}
		}
		score += float64(nonNumeric) / float64(max(1, len(row))) * 3

		rowText := strings.ToLower(strings.Join(row, " "))
		for _, kw := range headerKeywords {
			if strings.Contains(rowText, kw) {
				score += 2
			}
		}

		// Headers run shorter than data cells.
		totalLen := 0
		for _, cell := range row {
			totalLen += len(cell)
		}
		avgLen := float64(totalLen) / float64(max(1, len(row)))
		if avgLen < 30 {
			score += (30 - avgLen) / 10
		}

		empty := 0
		for _, cell := range row {
			if strings.TrimSpace(cell) == "" {
				empty++
			}
		}
		score -= float64(empty) / float64(max(1, len(row))) * 3

		if score > bestScore {
			bestScore = score
			bestIndex = i
		}
	}

	return bestIndex
}

// splitAtHeader locates the header row in raw rows and returns cleaned
// headers plus the data rows below them. The first row is assumed when
// no candidate scores.
func splitAtHeader(rows [][]string) ([]string, [][]string) {
	if len(rows) == 0 {
		return nil, nil
	}
	idx := findHeaderRow(rows)
	if idx < 0 {
		idx = 0
	}
	headers := cleanHeaders(rows[idx])
	data := make([][]string, 0, len(rows)-idx-1)
	for _, row := range rows[idx+1:] {
		if isEmptyRow(row) {
			continue
		}
		data = append(data, padRow(row, len(headers)))
	}
	return headers, data
}

// cleanHeaders trims cells and fills blanks with positional names so
// the mapping stage always has something to address a column by.
func cleanHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, cell := range row {
		h := strings.TrimSpace(cell)
		if h == "" {
			h = fmt.Sprintf("Column%d", i+1)
		}
		headers[i] = h
	}
	return headers
}

func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row[:width]
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func isNumericCell(cell string) bool {
	s := strings.TrimSpace(cell)
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return err == nil
}
