package readers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDetectTextFormat tests shape classification of plain text files
func TestDetectTextFormat(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected textFormat
	}{
		{
			name:     "delimited lines",
			content:  "SKU|Name\nAB-1|Widget\nAB-2|Gadget\n",
			expected: formatDelimited,
		},
		{
			name: "key-value records",
			content: "SKU: AB-1\nName: Widget\nPrice: 9.99\n\n" +
				"SKU: AB-2\nName: Gadget\nPrice: 4.50\n",
			expected: formatKeyValue,
		},
		{
			name: "fixed width columns",
			content: "SKU      NAME         PRICE   \n" +
				"AB-1     Widget Pro   9.99    \n" +
				"AB-2     Gadget       4.50    \n",
			expected: formatFixedWidth,
		},
		{
			name:     "prose",
			content:  "Our spring range is here.\nNew tools for every workshop.\nCall us for details.\n",
			expected: formatUnstructured,
		},
		{
			name:     "empty",
			content:  "",
			expected: formatUnstructured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, _, _ := detectTextFormat(tt.content)
			assert.Equal(t, tt.expected, format)
		})
	}
}

// TestFreeTextKeyValue tests pivoting key-value records into a table
func TestFreeTextKeyValue(t *testing.T) {
	content := []byte("SKU: AB-1\nName: Widget\nPrice: 9.99\n\n" +
		"SKU: AB-2\nName: Gadget\nPrice: 4.50\n")

	table, err := NewFreeText().Read(content)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Price", "SKU"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Widget", "9.99", "AB-1"}, table.Rows[0])
	assert.Equal(t, []string{"Gadget", "4.50", "AB-2"}, table.Rows[1])
}

// TestFreeTextKeyValueSparseKeys tests records with differing key sets
func TestFreeTextKeyValueSparseKeys(t *testing.T) {
	content := []byte("SKU: AB-1\nName: Widget\n\nSKU: AB-2\nPrice: 4.50\n")

	table, err := NewFreeText().Read(content)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Price", "SKU"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Widget", "", "AB-1"}, table.Rows[0])
	assert.Equal(t, []string{"", "4.50", "AB-2"}, table.Rows[1])
}

// TestFreeTextFixedWidth tests boundary inference and slicing
func TestFreeTextFixedWidth(t *testing.T) {
	content := []byte("SKU      NAME         PRICE   \n" +
		"AB-1     Widget Pro   9.99    \n" +
		"AB-2     Gadget       4.50    \n")

	table, err := NewFreeText().Read(content)
	require.NoError(t, err)

	assert.Equal(t, []string{"SKU", "NAME", "PRICE"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"AB-1", "Widget Pro", "9.99"}, table.Rows[0])
	assert.Equal(t, []string{"AB-2", "Gadget", "4.50"}, table.Rows[1])
}

// TestFreeTextDelimitedRouting tests that delimiter-shaped text goes
// through the delimited reader
func TestFreeTextDelimitedRouting(t *testing.T) {
	content := []byte("SKU|Name|Price\nAB-1|Widget|9.99\n")

	table, err := NewFreeText().Read(content)
	require.NoError(t, err)

	assert.Equal(t, []string{"SKU", "Name", "Price"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"AB-1", "Widget", "9.99"}, table.Rows[0])
}

// TestParseUnstructuredBlocks tests product block extraction from mixed
// prose and labelled lines
func TestParseUnstructuredBlocks(t *testing.T) {
	content := strings.Join([]string{
		"ACME SPRING CATALOG",
		"",
		"The new lineup for workshops everywhere.",
		"All items ship from our UK warehouse.",
		"Contact your account manager to order.",
		"",
		"SKU: AB-100",
		"Brand: Acme",
		"",
		"SKU: AB-200",
		"Brand: Bolt",
		"",
	}, "\n")

	table := parseUnstructured(content)

	assert.Equal(t, []string{"Manufacturer", "SKU"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Acme", "AB-100"}, table.Rows[0])
	assert.Equal(t, []string{"Bolt", "AB-200"}, table.Rows[1])
}

// TestParseUnstructuredSingleProduct tests the whole-document fallback
func TestParseUnstructuredSingleProduct(t *testing.T) {
	table := parseUnstructured("Premium cordless drill DRL500X with fast charger")

	assert.Equal(t, []string{"SKU", "Short Description"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "DRL500X", table.Rows[0][0])
	assert.Equal(t, "Premium cordless drill DRL500X with fast charger", table.Rows[0][1])
}

// TestParseUnstructuredEmpty tests blank input
func TestParseUnstructuredEmpty(t *testing.T) {
	table := parseUnstructured("   \n  \n")
	assert.True(t, table.Empty())
}
