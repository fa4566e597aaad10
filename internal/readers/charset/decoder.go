// Package charset detects and decodes the text encodings seen in vendor
// catalog exports: UTF-8 (with or without BOM), Windows-1252, and
// ISO-8859-1.
package charset

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding represents a text encoding.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingISO88591    Encoding = "iso-8859-1"
)

// DetectEncoding detects the encoding of a byte buffer. Valid UTF-8 is
// always preferred; everything else falls back to Windows-1252, which is a
// superset of ISO-8859-1 for the printable range.
func DetectEncoding(data []byte) Encoding {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return EncodingUTF8
	}
	if utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingWindows1252
}

// Decode converts a byte buffer from the given encoding to a UTF-8 string.
// Data that is already valid UTF-8 is passed through regardless of the
// requested encoding, which prevents double decoding when a caller's
// configured encoding disagrees with the file.
func Decode(data []byte, enc Encoding) (string, error) {
	// Strip UTF-8 BOM if present.
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}

	if enc == EncodingUTF8 || enc == "" {
		if utf8.Valid(data) {
			return string(data), nil
		}
		enc = EncodingWindows1252
	}
	if utf8.Valid(data) {
		return string(data), nil
	}

	var cm *charmap.Charmap
	switch enc {
	case EncodingISO88591:
		cm = charmap.ISO8859_1
	default:
		cm = charmap.Windows1252
	}

	reader := transform.NewReader(strings.NewReader(string(data)), cm.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// ToUTF8Reader wraps a reader with a decoder for the given encoding.
func ToUTF8Reader(r io.Reader, enc Encoding) io.Reader {
	switch enc {
	case EncodingWindows1252:
		return transform.NewReader(r, charmap.Windows1252.NewDecoder())
	case EncodingISO88591:
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return r
	}
}
