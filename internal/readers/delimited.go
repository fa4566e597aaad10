package readers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/catalogiq/catalog-service/internal/readers/charset"
)

// Delimiter is a single-character field separator.
type Delimiter string

const (
	DelimiterComma     Delimiter = ","
	DelimiterSemicolon Delimiter = ";"
	DelimiterTab       Delimiter = "\t"
	DelimiterPipe      Delimiter = "|"
)

// DelimitedOptions configures the delimited reader. Zero values mean
// autodetect.
type DelimitedOptions struct {
	Delimiter Delimiter
	Encoding  charset.Encoding
	QuoteChar rune
}

// Delimited reads CSV-shaped files with encoding and delimiter detection.
type Delimited struct {
	options DelimitedOptions
}

func NewDelimited(options DelimitedOptions) *Delimited {
	if options.QuoteChar == 0 {
		options.QuoteChar = '"'
	}
	return &Delimited{options: options}
}

func (d *Delimited) Read(content []byte) (*Table, error) {
	opts := d.options

	if opts.Encoding == "" {
		opts.Encoding = charset.DetectEncoding(content)
	}
	decoded, err := charset.Decode(content, opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	if opts.Delimiter == "" {
		opts.Delimiter = DetectDelimiter(decoded)
		log.Debug().
			Str("delimiter", fmt.Sprintf("%q", string(opts.Delimiter))).
			Msg("detected delimiter")
	}

	rows := parseLines(decoded, opts)
	if len(rows) == 0 {
		return &Table{}, nil
	}

	headers, data := splitAtHeader(rows)
	return &Table{Headers: headers, Rows: data}, nil
}

func parseLines(content string, opts DelimitedOptions) [][]string {
	delimRune, _ := utf8.DecodeRuneInString(string(opts.Delimiter))
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, SplitLine(line, delimRune, opts.QuoteChar))
	}
	return rows
}

// DetectDelimiter analyzes the first few lines and picks the delimiter
// whose per-line count is highest and most consistent.
func DetectDelimiter(content string) Delimiter {
	lines := strings.Split(content, "\n")

	sample := make([]string, 0, 5)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			sample = append(sample, trimmed)
			if len(sample) >= 5 {
				break
			}
		}
	}
	if len(sample) == 0 {
		return DelimiterComma
	}

	candidates := []Delimiter{DelimiterComma, DelimiterSemicolon, DelimiterTab, DelimiterPipe}
	best := DelimiterComma
	maxConsistency := 0.0

	for _, delim := range candidates {
		counts := make([]int, 0, len(sample))
		for _, line := range sample {
			counts = append(counts, strings.Count(line, string(delim)))
		}

		sum := 0
		for _, c := range counts {
			sum += c
		}
		avg := float64(sum) / float64(len(counts))
		if avg == 0 {
			continue
		}

		variance := 0.0
		for _, c := range counts {
			diff := float64(c) - avg
			variance += diff * diff
		}
		variance /= float64(len(counts))

		consistency := avg / (1.0 + variance)
		if consistency > maxConsistency {
			maxConsistency = consistency
			best = delim
		}
	}

	return best
}

// SplitLine splits a delimited line handling quoted fields and doubled
// quote escapes.
func SplitLine(line string, delimiter rune, quoteChar rune) []string {
	fields := make([]string, 0, 10)
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); {
		r, width := utf8.DecodeRuneInString(line[i:])

		if inQuotes {
			if r == quoteChar {
				if i+width < len(line) {
					next, nextWidth := utf8.DecodeRuneInString(line[i+width:])
					if next == quoteChar {
						current.WriteRune(quoteChar)
						i += width + nextWidth
						continue
					}
				}
				inQuotes = false
				i += width
				continue
			}
			current.WriteRune(r)
			i += width
			continue
		}

		switch r {
		case quoteChar:
			inQuotes = true
		case delimiter:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
		i += width
	}

	fields = append(fields, current.String())
	return fields
}
