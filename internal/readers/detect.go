package readers

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/catalogiq/catalog-service/internal/types"
)

var extensionKinds = map[string]types.FileKind{
	".xlsx":    types.KindSpreadsheet,
	".xls":     types.KindSpreadsheet,
	".xlsm":    types.KindSpreadsheet,
	".csv":     types.KindDelimited,
	".tsv":     types.KindDelimited,
	".txt":     types.KindFreeText,
	".text":    types.KindFreeText,
	".numbers": types.KindArchive,
	".pdf":     types.KindTabularDocument,
}

var (
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	pdfMagic = []byte("%PDF")
)

// DetectKind resolves the file kind from the filename extension, falling
// back to content sniffing when the extension is missing or unknown. The
// content wins over the extension only when the two flatly disagree on a
// binary signature, since mislabelled exports are common in supplier feeds.
func DetectKind(filename string, content []byte) (types.FileKind, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	kind, known := extensionKinds[ext]

	sniffed, sniffOK := sniffKind(content, ext)

	if known {
		// A text extension on binary content means the extension lies.
		if sniffOK && isBinaryKind(sniffed) && !isBinaryKind(kind) {
			return sniffed, true
		}
		return kind, true
	}
	return sniffed, sniffOK
}

func isBinaryKind(k types.FileKind) bool {
	switch k {
	case types.KindSpreadsheet, types.KindArchive, types.KindTabularDocument:
		return true
	}
	return false
}

func sniffKind(content []byte, ext string) (types.FileKind, bool) {
	if len(content) == 0 {
		return "", false
	}
	if bytes.HasPrefix(content, pdfMagic) {
		return types.KindTabularDocument, true
	}
	if bytes.HasPrefix(content, zipMagic) {
		// Both .numbers bundles and OOXML workbooks are zip containers.
		if ext == ".numbers" || bytes.Contains(content, []byte("Index.zip")) || bytes.Contains(content, []byte(".iwa")) {
			return types.KindArchive, true
		}
		if bytes.Contains(content, []byte("[Content_Types].xml")) || bytes.Contains(content, []byte("xl/")) {
			return types.KindSpreadsheet, true
		}
		return types.KindArchive, true
	}
	if !looksTextual(content) {
		return "", false
	}
	if delimitedShaped(content) {
		return types.KindDelimited, true
	}
	return types.KindFreeText, true
}

// looksTextual checks a leading window for NUL bytes, the cheapest
// reliable binary tell for the formats handled here.
func looksTextual(content []byte) bool {
	window := content
	if len(window) > 2048 {
		window = window[:2048]
	}
	return !bytes.ContainsRune(window, 0)
}

// delimitedShaped reports whether most sampled lines carry the same
// delimiter, the shape a headerless CSV export has.
func delimitedShaped(content []byte) bool {
	window := content
	if len(window) > 4096 {
		window = window[:4096]
	}
	lines := strings.Split(string(window), "\n")
	sample := make([]string, 0, 10)
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			sample = append(sample, line)
			if len(sample) >= 10 {
				break
			}
		}
	}
	if len(sample) < 2 {
		return false
	}
	for _, delim := range []string{",", ";", "\t", "|"} {
		hits := 0
		for _, line := range sample {
			if strings.Count(line, delim) >= 1 {
				hits++
			}
		}
		if float64(hits) >= float64(len(sample))*0.7 {
			return true
		}
	}
	return false
}
