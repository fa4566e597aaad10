package readers

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/catalogiq/catalog-service/internal/readers/charset"
)

// textFormat classifies the internal shape of a plain text file.
type textFormat string

const (
	formatDelimited    textFormat = "delimited"
	formatFixedWidth   textFormat = "fixed-width"
	formatKeyValue     textFormat = "key-value"
	formatUnstructured textFormat = "unstructured"
)

// FreeText reads plain text files by first classifying their shape and
// then applying the matching extraction strategy.
type FreeText struct{}

func NewFreeText() *FreeText {
	return &FreeText{}
}

var kvLineRe = regexp.MustCompile(`^\s*[\w\s]+[:=]`)

func (t *FreeText) Read(content []byte) (*Table, error) {
	decoded, err := charset.Decode(content, charset.DetectEncoding(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	format, delim, sep := detectTextFormat(decoded)
	log.Debug().Str("format", string(format)).Msg("classified text file")

	switch format {
	case formatDelimited:
		return NewDelimited(DelimitedOptions{Delimiter: delim}).Read([]byte(decoded))
	case formatFixedWidth:
		return parseFixedWidth(decoded), nil
	case formatKeyValue:
		return parseKeyValue(decoded, sep), nil
	default:
		return parseUnstructured(decoded), nil
	}
}

// detectTextFormat samples the leading lines and classifies the file.
// It returns the delimiter for delimited files and the separator rune
// for key-value files.
func detectTextFormat(content string) (textFormat, Delimiter, string) {
	lines := strings.Split(content, "\n")
	if len(lines) > 50 {
		lines = lines[:50]
	}
	nonEmpty := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}
	if len(nonEmpty) == 0 {
		return formatUnstructured, "", ""
	}

	bestDelim := Delimiter("")
	bestCount := 0
	for _, delim := range []Delimiter{DelimiterComma, DelimiterSemicolon, DelimiterTab, DelimiterPipe} {
		count := 0
		for _, line := range nonEmpty {
			if strings.Contains(line, string(delim)) {
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			bestDelim = delim
		}
	}
	if float64(bestCount) >= float64(len(nonEmpty))*0.7 {
		return formatDelimited, bestDelim, ""
	}

	// Consistent long line lengths suggest fixed-width columns.
	minLen, maxLen := -1, 0
	for _, line := range nonEmpty {
		n := len(line)
		if minLen < 0 || n < minLen {
			minLen = n
		}
		if n > maxLen {
			maxLen = n
		}
	}
	if maxLen-minLen < 5 && minLen > 20 {
		return formatFixedWidth, "", ""
	}

	kvCount := 0
	colonCount := 0
	for _, line := range nonEmpty {
		if kvLineRe.MatchString(line) {
			kvCount++
		}
		if strings.Contains(line, ":") {
			colonCount++
		}
	}
	if float64(kvCount) >= float64(len(nonEmpty))*0.7 {
		sep := "="
		if colonCount > len(nonEmpty)-colonCount {
			sep = ":"
		}
		return formatKeyValue, "", sep
	}

	return formatUnstructured, "", ""
}

// parseFixedWidth slices lines at column boundaries inferred from
// positions that are whitespace in every sampled line.
func parseFixedWidth(content string) *Table {
	lines := strings.Split(content, "\n")

	sample := make([]string, 0, 10)
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			sample = append(sample, line)
			if len(sample) >= 10 {
				break
			}
		}
	}
	if len(sample) == 0 {
		return &Table{}
	}

	boundaries := detectColumnBoundaries(sample)

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row := make([]string, 0, len(boundaries))
		for i, start := range boundaries {
			end := len(line)
			if i < len(boundaries)-1 && boundaries[i+1] < end {
				end = boundaries[i+1]
			}
			if start < len(line) {
				row = append(row, strings.TrimSpace(line[start:end]))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}

	headers, data := splitAtHeader(rows)
	return &Table{Headers: headers, Rows: data}
}

func detectColumnBoundaries(sample []string) []int {
	lineLen := len(sample[0])
	for _, line := range sample[1:] {
		if len(line) < lineLen {
			lineLen = len(line)
		}
	}

	spaceCounts := make([]int, lineLen)
	for _, line := range sample {
		for i := 0; i < lineLen; i++ {
			if line[i] == ' ' || line[i] == '\t' {
				spaceCounts[i]++
			}
		}
	}

	boundaries := []int{0}
	for i := 1; i < lineLen-1; i++ {
		if spaceCounts[i] == len(sample) && spaceCounts[i-1] == len(sample) && spaceCounts[i+1] < len(sample) {
			boundaries = append(boundaries, i+1)
		}
	}
	return boundaries
}

// parseKeyValue groups key-value lines into records separated by blank
// lines and pivots them into a uniform table.
func parseKeyValue(content string, sep string) *Table {
	lines := strings.Split(content, "\n")

	records := make([]map[string]string, 0)
	current := make(map[string]string)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(current) > 0 {
				records = append(records, current)
				current = make(map[string]string)
			}
			continue
		}
		if key, value, found := strings.Cut(line, sep); found {
			key = strings.TrimSpace(key)
			if key != "" {
				current[key] = strings.TrimSpace(value)
			}
		}
	}
	if len(current) > 0 {
		records = append(records, current)
	}

	return pivotRecords(records)
}

// pivotRecords turns a slice of heterogeneous key-value records into a
// table with the union of keys as headers.
func pivotRecords(records []map[string]string) *Table {
	if len(records) == 0 {
		return &Table{}
	}

	keySet := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			keySet[k] = struct{}{}
		}
	}
	headers := make([]string, 0, len(keySet))
	for k := range keySet {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(headers))
		for i, k := range headers {
			row[i] = rec[k]
		}
		rows = append(rows, row)
	}
	return &Table{Headers: headers, Rows: rows}
}
