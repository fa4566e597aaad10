package manufacturer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/catalogiq/catalog-service/internal/schema"
	"github.com/catalogiq/catalog-service/internal/types"
)

// TestFromFilename tests whole-word manufacturer matching in filenames
func TestFromFilename(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{
			name:     "simple match",
			filename: "samsung_pricelist_2026.xlsx",
			expected: "Samsung",
		},
		{
			name:     "match inside a path",
			filename: "/uploads/2026/Sony-Q3-Catalog.csv",
			expected: "Sony",
		},
		{
			name:     "parenthesized",
			filename: "export(bosch).csv",
			expected: "Bosch",
		},
		{
			name:     "substring is not a whole word",
			filename: "lgx900_feed.csv",
			expected: "",
		},
		{
			name:     "no manufacturer",
			filename: "price_list_final_v2.csv",
			expected: "",
		},
		{
			name:     "empty filename",
			filename: "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, d.FromFilename(tt.filename))
		})
	}
}

// TestFromFilenameAdditional tests house brands added at construction
func TestFromFilenameAdditional(t *testing.T) {
	d := NewDetector("Acme Tools")

	assert.Equal(t, "Acme Tools", d.FromFilename("acme_tools_march.csv"))
	assert.Equal(t, "", NewDetector().FromFilename("acme_tools_march.csv"))
}

// TestFromRecords tests frequency-ordered candidates from record content
func TestFromRecords(t *testing.T) {
	d := NewDetector()

	records := []types.Record{
		{schema.FieldManufacturer: "Canon", schema.FieldShortDescription: "Canon EOS body"},
		{schema.FieldManufacturer: "Canon", schema.FieldShortDescription: "Lens cap"},
		{schema.FieldManufacturer: "Nikon", schema.FieldShortDescription: "Nikon strap"},
	}

	candidates := d.FromRecords(records)
	assert.Equal(t, []string{"canon", "nikon"}, candidates)
}

// TestDetectPrecedence tests that the filename wins over record content
func TestDetectPrecedence(t *testing.T) {
	d := NewDetector()

	records := []types.Record{
		{schema.FieldManufacturer: "Nikon"},
		{schema.FieldManufacturer: "Nikon"},
	}

	assert.Equal(t, "Canon", d.Detect("canon_lenses.csv", records))
	assert.Equal(t, "Nikon", d.Detect("spring_catalog.csv", records))
	assert.Equal(t, "", d.Detect("spring_catalog.csv", nil))
}
