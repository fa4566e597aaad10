// Package manufacturer infers the brand behind a catalog file from its
// filename and, failing that, from the parsed records.
package manufacturer

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/catalogiq/catalog-service/internal/schema"
	"github.com/catalogiq/catalog-service/internal/types"
)

var commonManufacturers = []string{
	"apple", "samsung", "sony", "lg", "dell", "hp", "lenovo", "asus",
	"acer", "toshiba", "microsoft", "philips", "panasonic", "bosch",
	"siemens", "canon", "nikon", "intel", "amd", "nvidia",
}

var separatorRe = regexp.MustCompile(`[_\-\.\(\)]`)

var titleCaser = cases.Title(language.English)

// Detector matches known manufacturer names. Additional names extend
// the built-in list, for suppliers whose house brands we track.
type Detector struct {
	manufacturers []string
}

func NewDetector(additional ...string) *Detector {
	names := make([]string, 0, len(commonManufacturers)+len(additional))
	names = append(names, commonManufacturers...)
	for _, m := range additional {
		names = append(names, strings.ToLower(m))
	}
	return &Detector{manufacturers: names}
}

// FromFilename looks for a known manufacturer as a whole word in the
// filename. Returns the title-cased name, or "" when nothing matches.
func (d *Detector) FromFilename(filename string) string {
	if filename == "" {
		return ""
	}

	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	normalized := separatorRe.ReplaceAllString(strings.ToLower(base), " ")
	words := strings.Fields(normalized)

	for _, m := range d.manufacturers {
		mfrWords := strings.Fields(m)
		for i := 0; i+len(mfrWords) <= len(words); i++ {
			if equalWords(words[i:i+len(mfrWords)], mfrWords) {
				log.Debug().Str("manufacturer", m).Str("filename", filename).
					Msg("detected manufacturer from filename")
				return titleCaser.String(m)
			}
		}
	}
	return ""
}

// FromRecords counts manufacturer name occurrences across the brand
// and description fields and returns candidates ordered by frequency.
func (d *Detector) FromRecords(records []types.Record) []string {
	counts := make(map[string]int)

	fields := []schema.Field{schema.FieldManufacturer, schema.FieldShortDescription, schema.FieldLongDescription}
	for _, record := range records {
		for _, field := range fields {
			value, ok := record[field].(string)
			if !ok || value == "" {
				continue
			}
			lower := strings.ToLower(value)
			for _, m := range d.manufacturers {
				if strings.Contains(lower, m) {
					counts[m]++
				}
			}
		}
	}

	names := make([]string, 0, len(counts))
	for m := range counts {
		names = append(names, m)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// Detect returns the most likely manufacturer for a file. The filename
// wins over content frequency since suppliers name exports after the
// brand line they carry.
func (d *Detector) Detect(filename string, records []types.Record) string {
	if m := d.FromFilename(filename); m != "" {
		return m
	}
	if candidates := d.FromRecords(records); len(candidates) > 0 {
		return titleCaser.String(candidates[0])
	}
	return ""
}

func equalWords(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
