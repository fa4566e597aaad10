package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogiq/catalog-service/internal/schema"
)

// TestMapColumnsPatternPass tests exact and partial header pattern matching
func TestMapColumnsPatternPass(t *testing.T) {
	m := New(Options{})

	headers := []string{"SKU", "Product Name", "Manufacturer", "Buy Cost"}
	result := m.MapColumns(headers, nil)

	tests := []struct {
		field      schema.Field
		header     string
		confidence float64
	}{
		{schema.FieldSKU, "SKU", 1.0},
		{schema.FieldShortDescription, "Product Name", 1.0},
		{schema.FieldManufacturer, "Manufacturer", 1.0},
		{schema.FieldBuyCost, "Buy Cost", 1.0},
	}
	for _, tt := range tests {
		cand, ok := result[tt.field]
		require.True(t, ok, "expected %s to be mapped", tt.field)
		assert.Equal(t, tt.header, cand.Header)
		assert.Equal(t, tt.confidence, cand.Confidence)
		assert.Equal(t, PassPattern, cand.Pass)
	}
	assert.Empty(t, result.UnmappedRequired())
}

// TestMapColumnsDeterministic tests that repeated runs over the same input
// produce the same mapping
func TestMapColumnsDeterministic(t *testing.T) {
	m := New(Options{})

	headers := []string{"Item Code", "Description", "Dealer Cost", "RRP (GBP)", "Weight"}
	samples := [][]string{
		{"AB-100", "Cordless drill", "54.20", "99.99", "1.2"},
		{"AB-101", "Impact driver", "61.00", "119.99", "1.4"},
	}

	first := m.MapColumns(headers, samples)
	second := m.MapColumns(headers, samples)
	assert.Equal(t, first, second)
}

// TestMapColumnsHeaderCleaning tests that punctuation and casing in headers
// do not defeat the pattern catalog
func TestMapColumnsHeaderCleaning(t *testing.T) {
	m := New(Options{})

	result := m.MapColumns([]string{"ITEM_CODE", "Long-Description", "Unit.Of.Measure"}, nil)

	require.Contains(t, result, schema.FieldSKU)
	assert.Equal(t, "ITEM_CODE", result[schema.FieldSKU].Header)
	require.Contains(t, result, schema.FieldLongDescription)
	assert.Equal(t, "Long-Description", result[schema.FieldLongDescription].Header)
	require.Contains(t, result, schema.FieldUnitOfMeasure)
	assert.Equal(t, "Unit.Of.Measure", result[schema.FieldUnitOfMeasure].Header)
}

// TestMapColumnsCurrencySuffixedPrices tests routing of currency-suffixed
// retail price headers into the MSRP family
func TestMapColumnsCurrencySuffixedPrices(t *testing.T) {
	m := New(Options{})

	headers := []string{"SKU", "RRP (GBP)", "Retail Price $", "Price EUR"}
	result := m.MapColumns(headers, nil)

	require.Contains(t, result, schema.FieldMSRPGBP)
	assert.Equal(t, "RRP (GBP)", result[schema.FieldMSRPGBP].Header)
	require.Contains(t, result, schema.FieldMSRPUSD)
	assert.Equal(t, "Retail Price $", result[schema.FieldMSRPUSD].Header)
	require.Contains(t, result, schema.FieldMSRPEUR)
	assert.Equal(t, "Price EUR", result[schema.FieldMSRPEUR].Header)
}

// TestMapColumnsGenericMSRP tests that a currency-agnostic retail price
// header lands in the generic MSRP bucket
func TestMapColumnsGenericMSRP(t *testing.T) {
	m := New(Options{})

	result := m.MapColumns([]string{"SKU", "MSRP"}, nil)

	require.Contains(t, result, schema.FieldMSRP)
	cand := result[schema.FieldMSRP]
	assert.Equal(t, "MSRP", cand.Header)
	assert.Equal(t, 0.8, cand.Confidence)
	assert.Equal(t, PassCurrency, cand.Pass)
	assert.NotContains(t, result, schema.FieldMSRPGBP)
	assert.NotContains(t, result, schema.FieldMSRPUSD)
	assert.NotContains(t, result, schema.FieldMSRPEUR)
}

// TestMapColumnsContentPass tests value-shape detection for columns with
// uninformative headers
func TestMapColumnsContentPass(t *testing.T) {
	m := New(Options{})

	headers := []string{"Column1", "Column2", "Column3"}
	samples := [][]string{
		{"AB-12345", "£10.99", "8.99"},
		{"CD-67890", "£5.49", "4.25"},
		{"EF-11223", "£3.25", "2.10"},
		{"GH-44556", "£7.00", "6.50"},
	}
	result := m.MapColumns(headers, samples)

	require.Contains(t, result, schema.FieldSKU)
	assert.Equal(t, "Column1", result[schema.FieldSKU].Header)
	assert.Equal(t, PassContent, result[schema.FieldSKU].Pass)

	require.Contains(t, result, schema.FieldMSRPGBP)
	assert.Equal(t, "Column2", result[schema.FieldMSRPGBP].Header)
	assert.Equal(t, 0.85, result[schema.FieldMSRPGBP].Confidence)

	require.Contains(t, result, schema.FieldMSRP)
	assert.Equal(t, "Column3", result[schema.FieldMSRP].Header)
	assert.Equal(t, 0.75, result[schema.FieldMSRP].Confidence)
}

// TestMapColumnsContextPass tests positional affinity resolution of a cost
// column adjacent to a resolved retail price
func TestMapColumnsContextPass(t *testing.T) {
	m := New(Options{})

	headers := []string{"SKU", "Description", "Retail Price £", "Dealer Cost"}
	result := m.MapColumns(headers, nil)

	require.Contains(t, result, schema.FieldBuyCost)
	cand := result[schema.FieldBuyCost]
	assert.Equal(t, "Dealer Cost", cand.Header)
	assert.Equal(t, PassContext, cand.Pass)
	assert.InDelta(t, 0.7, cand.Confidence, 0.001)
}

// TestMapColumnsFuzzyPass tests that misspelled headers still resolve via
// string similarity
func TestMapColumnsFuzzyPass(t *testing.T) {
	m := New(Options{})

	result := m.MapColumns([]string{"Manufactrer"}, nil)

	require.Contains(t, result, schema.FieldManufacturer)
	cand := result[schema.FieldManufacturer]
	assert.Equal(t, "Manufactrer", cand.Header)
	assert.Equal(t, PassFuzzy, cand.Pass)
	assert.GreaterOrEqual(t, cand.Confidence, ConfidenceThreshold)
}

// TestMapColumnsClassifierPass tests the statistical fallback on vocabulary
// the pattern catalog does not cover
func TestMapColumnsClassifierPass(t *testing.T) {
	m := New(Options{})

	result := m.MapColumns([]string{"Cost to Dealer"}, nil)

	require.Contains(t, result, schema.FieldBuyCost)
	cand := result[schema.FieldBuyCost]
	assert.Equal(t, "Cost to Dealer", cand.Header)
	assert.Equal(t, PassClassifier, cand.Pass)
	assert.GreaterOrEqual(t, cand.Confidence, ConfidenceThreshold)
}

// TestMapColumnsOneToOne tests that a source header is consumed by at most
// one target field
func TestMapColumnsOneToOne(t *testing.T) {
	m := New(Options{})

	result := m.MapColumns([]string{"Item Code", "Product Code"}, nil)

	require.Contains(t, result, schema.FieldSKU)
	assert.Equal(t, "Item Code", result[schema.FieldSKU].Header)

	seen := make(map[string]schema.Field)
	for field, cand := range result {
		prev, dup := seen[cand.Header]
		assert.False(t, dup, "header %q claimed by both %s and %s", cand.Header, prev, field)
		seen[cand.Header] = field
	}
}

// TestMapColumnsEmptyHeaders tests the degenerate inputs
func TestMapColumnsEmptyHeaders(t *testing.T) {
	m := New(Options{})

	assert.Empty(t, m.MapColumns(nil, nil))
	assert.Empty(t, m.MapColumns([]string{}, nil))
}

// TestMapColumnsThreshold tests that a raised threshold rejects
// mid-confidence candidates
func TestMapColumnsThreshold(t *testing.T) {
	m := New(Options{ConfidenceThreshold: 0.95, Classifier: noopClassifier{}})

	headers := []string{"SKU", "Description", "Retail Price £", "Dealer Cost"}
	result := m.MapColumns(headers, nil)

	// Full pattern matches survive at 1.0; the 0.7 contextual candidate
	// does not clear 0.95.
	assert.Contains(t, result, schema.FieldSKU)
	assert.NotContains(t, result, schema.FieldBuyCost)
}

// TestResultHeaders tests the flattened field-to-header view
func TestResultHeaders(t *testing.T) {
	r := Result{
		schema.FieldSKU:        {Header: "Item No", Confidence: 1.0, Pass: PassPattern},
		schema.FieldTradePrice: {Header: "Trade", Confidence: 0.8, Pass: PassFuzzy},
	}
	headers := r.Headers()
	assert.Equal(t, "Item No", headers[schema.FieldSKU])
	assert.Equal(t, "Trade", headers[schema.FieldTradePrice])
	assert.Len(t, headers, 2)
}

// TestUnmappedRequired tests required-field gap reporting
func TestUnmappedRequired(t *testing.T) {
	r := Result{
		schema.FieldSKU: {Header: "SKU", Confidence: 1.0, Pass: PassPattern},
	}
	missing := r.UnmappedRequired()
	assert.Contains(t, missing, schema.FieldShortDescription)
	assert.Contains(t, missing, schema.FieldManufacturer)
	assert.NotContains(t, missing, schema.FieldSKU)
}

type noopClassifier struct{}

func (noopClassifier) Classify(string) (string, float64) { return "", 0 }
