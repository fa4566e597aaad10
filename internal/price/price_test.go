package price

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogiq/catalog-service/internal/schema"
)

// TestNormalizeSeparatorConventions tests mixed decimal and thousand
// separator handling
func TestNormalizeSeparatorConventions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{
			name:     "European format",
			input:    "1.234,56",
			expected: 1234.56,
			ok:       true,
		},
		{
			name:     "US format",
			input:    "1,234.56",
			expected: 1234.56,
			ok:       true,
		},
		{
			name:     "Comma as decimal",
			input:    "12,50",
			expected: 12.5,
			ok:       true,
		},
		{
			name:     "Comma as thousands only",
			input:    "1,2345",
			expected: 12345,
			ok:       true,
		},
		{
			name:     "Plain decimal",
			input:    "99.99",
			expected: 99.99,
			ok:       true,
		},
		{
			name:     "Integer",
			input:    "250",
			expected: 250,
			ok:       true,
		},
		{
			name:     "Currency symbol stripped",
			input:    "£1,000.00",
			expected: 1000,
			ok:       true,
		},
		{
			name:     "Comma grouped thousands",
			input:    "$1,000",
			expected: 1000,
			ok:       true,
		},
		{
			name:     "Repeated comma groups",
			input:    "12,345,678",
			expected: 12345678,
			ok:       true,
		},
		{
			name:     "Dollar with spaces",
			input:    " $ 49.95 ",
			expected: 49.95,
			ok:       true,
		},
		{
			name:  "Empty string",
			input: "",
			ok:    false,
		},
		{
			name:  "Non-numeric",
			input: "call for price",
			ok:    false,
		},
		{
			name:     "Multiple thousand groups",
			input:    "1.234.567,89",
			expected: 1234567.89,
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := Normalize(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, value, 0.001)
			}
		})
	}
}

// TestDetectCurrency tests indicator-based currency detection and its
// ordering tie-break
func TestDetectCurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "Pound symbol", input: "RRP £12.99", expected: "GBP", ok: true},
		{name: "Dollar symbol", input: "$5.00", expected: "USD", ok: true},
		{name: "Euro symbol", input: "€7,50", expected: "EUR", ok: true},
		{name: "Currency code", input: "price in USD", expected: "USD", ok: true},
		{name: "Word indicator", input: "retail price euros", expected: "EUR", ok: true},
		{name: "GBP wins tie", input: "£10 or $12", expected: "GBP", ok: true},
		{name: "USD before EUR", input: "$10 or €9", expected: "USD", ok: true},
		{name: "No indicator", input: "price 12.99", ok: false},
		{name: "Empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := DetectCurrency(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, code)
			}
		})
	}
}

// TestFormat tests symbol-prefixed price rendering
func TestFormat(t *testing.T) {
	assert.Equal(t, "£100.50", Format(100.5, "GBP"))
	assert.Equal(t, "$0.99", Format(0.99, "USD"))
	assert.Equal(t, "€1234.00", Format(1234, "EUR"))
	assert.Equal(t, "12.00", Format(12, "JPY"))
}

// TestExtractFromText tests mining labelled prices out of description text
func TestExtractFromText(t *testing.T) {
	t.Run("labelled buy cost and trade price", func(t *testing.T) {
		text := "Widget deluxe. Buy cost: 10.50. Trade price: 14.99."
		prices := ExtractFromText(text)

		require.Contains(t, prices, schema.FieldBuyCost)
		require.Contains(t, prices, schema.FieldTradePrice)
		assert.InDelta(t, 10.50, prices[schema.FieldBuyCost], 0.001)
		assert.InDelta(t, 14.99, prices[schema.FieldTradePrice], 0.001)
	})

	t.Run("msrp with currency hint goes to specific field", func(t *testing.T) {
		text := "Premium gadget. Retail price £24.99 while stocks last."
		prices := ExtractFromText(text)

		require.Contains(t, prices, schema.FieldMSRPGBP)
		assert.InDelta(t, 24.99, prices[schema.FieldMSRPGBP], 0.001)
		assert.NotContains(t, prices, schema.FieldMSRP)
	})

	t.Run("msrp without currency lands in generic bucket", func(t *testing.T) {
		text := "Gadget. Retail price 19.99."
		prices := ExtractFromText(text)

		require.Contains(t, prices, schema.FieldMSRP)
		assert.InDelta(t, 19.99, prices[schema.FieldMSRP], 0.001)
	})

	t.Run("no labels yields nothing", func(t *testing.T) {
		assert.Empty(t, ExtractFromText("A plain description with numbers 123."))
		assert.Empty(t, ExtractFromText(""))
	})

	t.Run("label without trailing number is skipped", func(t *testing.T) {
		prices := ExtractFromText("Trade price on request, contact sales.")
		assert.NotContains(t, prices, schema.FieldTradePrice)
	})
}
