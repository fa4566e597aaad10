package readers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDetectDelimiter tests delimiter selection by count and consistency
func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected Delimiter
	}{
		{
			name:     "comma",
			content:  "a,b,c\n1,2,3\n4,5,6",
			expected: DelimiterComma,
		},
		{
			name:     "semicolon",
			content:  "a;b;c\n1;2;3\n4;5;6",
			expected: DelimiterSemicolon,
		},
		{
			name:     "tab",
			content:  "a\tb\tc\n1\t2\t3",
			expected: DelimiterTab,
		},
		{
			name:     "pipe",
			content:  "a|b|c\n1|2|3",
			expected: DelimiterPipe,
		},
		{
			name:     "consistency beats raw count",
			content:  "a;b;c\n1,000;2,50;3\n4;5;6,7,8,9",
			expected: DelimiterSemicolon,
		},
		{
			name:     "empty defaults to comma",
			content:  "",
			expected: DelimiterComma,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectDelimiter(tt.content))
		})
	}
}

// TestSplitLine tests quote-aware field splitting
func TestSplitLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{
			name:     "plain fields",
			line:     "a,b,c",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "quoted field with delimiter",
			line:     `AB-1,"Widget, deluxe",9.99`,
			expected: []string{"AB-1", "Widget, deluxe", "9.99"},
		},
		{
			name:     "doubled quote escape",
			line:     `AB-1,"10"" tablet",199`,
			expected: []string{"AB-1", `10" tablet`, "199"},
		},
		{
			name:     "empty fields",
			line:     "a,,c,",
			expected: []string{"a", "", "c", ""},
		},
		{
			name:     "multibyte content",
			line:     "AB-1,Café,£9.99",
			expected: []string{"AB-1", "Café", "£9.99"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitLine(tt.line, ',', '"'))
		})
	}
}

// TestDelimitedRead tests end to end parsing with header detection
func TestDelimitedRead(t *testing.T) {
	t.Run("plain csv", func(t *testing.T) {
		content := []byte("SKU,Name,Price\nAB-1,Widget,9.99\nAB-2,Gadget,4.50\n")
		table, err := NewDelimited(DelimitedOptions{}).Read(content)
		require.NoError(t, err)

		assert.Equal(t, []string{"SKU", "Name", "Price"}, table.Headers)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, []string{"AB-1", "Widget", "9.99"}, table.Rows[0])
	})

	t.Run("banner rows above the header are skipped", func(t *testing.T) {
		content := []byte("Supplier Export 2026\n\nSKU,Name,Price\nAB-1,Widget,9.99\n")
		table, err := NewDelimited(DelimitedOptions{}).Read(content)
		require.NoError(t, err)

		assert.Equal(t, []string{"SKU", "Name", "Price"}, table.Headers)
		require.Len(t, table.Rows, 1)
	})

	t.Run("windows-1252 content is decoded", func(t *testing.T) {
		content := []byte("SKU,Name,Price\nAB-1,Caf\xe9,\xa39.99\n")
		table, err := NewDelimited(DelimitedOptions{}).Read(content)
		require.NoError(t, err)

		require.Len(t, table.Rows, 1)
		assert.Equal(t, "Café", table.Rows[0][1])
		assert.Equal(t, "£9.99", table.Rows[0][2])
	})

	t.Run("semicolon without explicit option", func(t *testing.T) {
		content := []byte("SKU;Name;Price\nAB-1;Widget;9,99\n")
		table, err := NewDelimited(DelimitedOptions{}).Read(content)
		require.NoError(t, err)

		assert.Equal(t, []string{"SKU", "Name", "Price"}, table.Headers)
		assert.Equal(t, "9,99", table.Rows[0][2])
	})

	t.Run("short rows are padded to header width", func(t *testing.T) {
		content := []byte("SKU,Name,Price\nAB-1,Widget\n")
		table, err := NewDelimited(DelimitedOptions{}).Read(content)
		require.NoError(t, err)

		require.Len(t, table.Rows, 1)
		assert.Equal(t, []string{"AB-1", "Widget", ""}, table.Rows[0])
	})

	t.Run("empty content yields empty table", func(t *testing.T) {
		table, err := NewDelimited(DelimitedOptions{}).Read(nil)
		require.NoError(t, err)
		assert.True(t, table.Empty())
	})
}
