package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDetectEncoding tests encoding detection across the supported set
func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Encoding
	}{
		{
			name:     "plain ascii",
			data:     []byte("SKU,Name,Price"),
			expected: EncodingUTF8,
		},
		{
			name:     "utf-8 with bom",
			data:     []byte{0xEF, 0xBB, 0xBF, 'S', 'K', 'U'},
			expected: EncodingUTF8,
		},
		{
			name:     "utf-8 multibyte",
			data:     []byte("Café £9.99"),
			expected: EncodingUTF8,
		},
		{
			name:     "windows-1252 bytes",
			data:     []byte{'C', 'a', 'f', 0xE9},
			expected: EncodingWindows1252,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectEncoding(tt.data))
		})
	}
}

// TestDecode tests conversion into UTF-8 strings
func TestDecode(t *testing.T) {
	t.Run("windows-1252 accents", func(t *testing.T) {
		decoded, err := Decode([]byte{'C', 'a', 'f', 0xE9}, EncodingWindows1252)
		require.NoError(t, err)
		assert.Equal(t, "Café", decoded)
	})

	t.Run("windows-1252 pound sign", func(t *testing.T) {
		decoded, err := Decode([]byte{0xA3, '9', '.', '9', '9'}, EncodingWindows1252)
		require.NoError(t, err)
		assert.Equal(t, "£9.99", decoded)
	})

	t.Run("bom stripped", func(t *testing.T) {
		decoded, err := Decode([]byte{0xEF, 0xBB, 0xBF, 'S', 'K', 'U'}, EncodingUTF8)
		require.NoError(t, err)
		assert.Equal(t, "SKU", decoded)
	})

	t.Run("valid utf-8 passes through under a wrong label", func(t *testing.T) {
		decoded, err := Decode([]byte("Café"), EncodingWindows1252)
		require.NoError(t, err)
		assert.Equal(t, "Café", decoded)
	})

	t.Run("iso-8859-1", func(t *testing.T) {
		decoded, err := Decode([]byte{0xFC, 'b', 'e', 'r'}, EncodingISO88591)
		require.NoError(t, err)
		assert.Equal(t, "über", decoded)
	})
}
