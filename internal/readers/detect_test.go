package readers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/catalogiq/catalog-service/internal/types"
)

// TestDetectKind tests extension resolution and content sniffing
func TestDetectKind(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		expected types.FileKind
		ok       bool
	}{
		{
			name:     "csv extension",
			filename: "products.csv",
			content:  []byte("a,b\n1,2\n"),
			expected: types.KindDelimited,
			ok:       true,
		},
		{
			name:     "xlsx extension",
			filename: "report.xlsx",
			content:  []byte{'P', 'K', 0x03, 0x04, 0x00},
			expected: types.KindSpreadsheet,
			ok:       true,
		},
		{
			name:     "numbers extension",
			filename: "catalog.numbers",
			content:  []byte{'P', 'K', 0x03, 0x04, 0x00},
			expected: types.KindArchive,
			ok:       true,
		},
		{
			name:     "pdf extension",
			filename: "pricelist.pdf",
			content:  []byte("%PDF-1.7 ..."),
			expected: types.KindTabularDocument,
			ok:       true,
		},
		{
			name:     "txt extension",
			filename: "notes.txt",
			content:  []byte("some plain notes\nabout nothing much\n"),
			expected: types.KindFreeText,
			ok:       true,
		},
		{
			name:     "pdf disguised as csv",
			filename: "export.csv",
			content:  []byte("%PDF-1.4 binary payload"),
			expected: types.KindTabularDocument,
			ok:       true,
		},
		{
			name:     "workbook without extension",
			filename: "workbook",
			content:  append([]byte{'P', 'K', 0x03, 0x04}, []byte("xl/worksheets/sheet1.xml")...),
			expected: types.KindSpreadsheet,
			ok:       true,
		},
		{
			name:     "csv shape without extension",
			filename: "export",
			content:  []byte("a,b,c\n1,2,3\n4,5,6\n"),
			expected: types.KindDelimited,
			ok:       true,
		},
		{
			name:     "prose without extension",
			filename: "readme",
			content:  []byte("hello there\nthis is just prose\n"),
			expected: types.KindFreeText,
			ok:       true,
		},
		{
			name:     "empty content and unknown extension",
			filename: "mystery.bin",
			content:  nil,
			ok:       false,
		},
		{
			name:     "binary junk without extension",
			filename: "blob",
			content:  []byte{0x00, 0x01, 0x02, 0x03},
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := DetectKind(tt.filename, tt.content)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, kind)
			}
		})
	}
}

// TestForKind tests reader dispatch
func TestForKind(t *testing.T) {
	for _, kind := range []types.FileKind{
		types.KindDelimited,
		types.KindSpreadsheet,
		types.KindFreeText,
		types.KindArchive,
		types.KindTabularDocument,
	} {
		r, err := ForKind(kind)
		assert.NoError(t, err)
		assert.NotNil(t, r)
	}

	_, err := ForKind(types.FileKind("hologram"))
	assert.Error(t, err)
}
