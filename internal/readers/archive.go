package readers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Archive reads zip-bundled workbook formats whose table data has no
// public schema. It walks a chain of extraction strategies from most to
// least structured and returns an empty table when every strategy comes
// up dry. Files that yield nothing are a data-quality outcome, not an
// error.
type Archive struct{}

func NewArchive() *Archive {
	return &Archive{}
}

type extractStrategy struct {
	name string
	fn   func(members map[string][]byte) *Table
}

func (a *Archive) Read(content []byte) (*Table, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	members, err := readMembers(zr)
	if err != nil {
		return nil, err
	}

	strategies := []extractStrategy{
		{"index-json", extractFromIndexJSON},
		{"delimited-members", extractFromDelimitedMembers},
		{"binary-text", extractFromBinaryMembers},
	}

	for _, strategy := range strategies {
		table := strategy.fn(members)
		if !table.Empty() {
			log.Info().
				Str("strategy", strategy.name).
				Int("rows", len(table.Rows)).
				Msg("extracted archive table")
			return table, nil
		}
	}

	log.Warn().Msg("no table data recovered from archive")
	return &Table{}, nil
}

func readMembers(zr *zip.Reader) (map[string][]byte, error) {
	members := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open archive member %q: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read archive member %q: %w", f.Name, err)
		}
		members[f.Name] = data
	}
	return members, nil
}

// documentIndex mirrors the fragment of Index/Document.json needed to
// locate table data members.
type documentIndex struct {
	DocInfo struct {
		SheetInfos []struct {
			SheetName  string `json:"sheetName"`
			TableInfos []struct {
				TableName string `json:"tableName"`
				TableID   string `json:"tableID"`
			} `json:"tableInfos"`
		} `json:"sheetInfos"`
	} `json:"docInfo"`
}

// extractFromIndexJSON follows the document index to the data member
// backing the first table, then reconstructs rows from its text runs.
func extractFromIndexJSON(members map[string][]byte) *Table {
	raw, ok := members["Index/Document.json"]
	if !ok {
		return &Table{}
	}

	var index documentIndex
	if err := json.Unmarshal(raw, &index); err != nil {
		log.Debug().Err(err).Msg("document index is not valid JSON")
		return &Table{}
	}

	for _, sheet := range index.DocInfo.SheetInfos {
		for _, tableInfo := range sheet.TableInfos {
			for name, data := range members {
				if !strings.HasPrefix(name, "Data/") {
					continue
				}
				base := path.Base(name)
				if tableInfo.TableID != "" && strings.Contains(base, tableInfo.TableID) ||
					strings.Contains(base, "data") || strings.Contains(base, "table") {
					if table := reconstructTable(asciiChunks(data)); !table.Empty() {
						return table
					}
				}
			}
		}
	}
	return &Table{}
}

// extractFromDelimitedMembers parses any CSV-shaped member embedded in
// the archive.
func extractFromDelimitedMembers(members map[string][]byte) *Table {
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ext := strings.ToLower(path.Ext(name))
		if ext != ".csv" && ext != ".tsv" && ext != ".txt" {
			continue
		}
		table, err := NewDelimited(DelimitedOptions{}).Read(members[name])
		if err != nil {
			continue
		}
		if !table.Empty() {
			return table
		}
	}
	return &Table{}
}

// extractFromBinaryMembers mines text runs out of proprietary binary
// members and tries to reassemble rows from them. Last in the chain
// because the result quality depends entirely on how the cells were
// serialized.
func extractFromBinaryMembers(members map[string][]byte) *Table {
	names := make([]string, 0, len(members))
	for name := range members {
		ext := strings.ToLower(path.Ext(name))
		if ext == ".iwa" || strings.HasPrefix(name, "Data/") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	chunks := make([]string, 0)
	for _, name := range names {
		chunks = append(chunks, asciiChunks(members[name])...)
	}
	return reconstructTable(chunks)
}

var chunkSplitRe = regexp.MustCompile(`\x00{2,}|\s{5,}`)
var whitespaceRe = regexp.MustCompile(`\s+`)

// asciiChunks pulls printable text runs out of binary data.
func asciiChunks(data []byte) []string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		switch {
		case c >= 0x20 && c < 0x7f, c == '\n', c == '\t':
			b.WriteByte(c)
		default:
			b.WriteByte(' ')
		}
	}

	chunks := make([]string, 0)
	for _, chunk := range chunkSplitRe.Split(b.String(), -1) {
		chunk = strings.TrimSpace(whitespaceRe.ReplaceAllString(chunk, " "))
		if len(chunk) < 3 {
			continue
		}
		if !strings.ContainsFunc(chunk, func(r rune) bool {
			return r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
		}) {
			continue
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

var reconstructSeparators = []string{"\t", ",", ";", "|", " - ", "  "}

// reconstructTable looks for a separator that splits enough chunks into
// rows with a consistent column count. Rows that do not fit the
// dominant width are discarded.
func reconstructTable(chunks []string) *Table {
	for _, sep := range reconstructSeparators {
		candidates := make([][]string, 0)
		for _, chunk := range chunks {
			if !strings.Contains(chunk, sep) {
				continue
			}
			cells := strings.Split(chunk, sep)
			for i := range cells {
				cells[i] = strings.TrimSpace(cells[i])
			}
			if len(cells) >= 2 && !isEmptyRow(cells) {
				candidates = append(candidates, cells)
			}
		}
		if len(candidates) < 3 {
			continue
		}

		widthCounts := make(map[int]int)
		for _, row := range candidates {
			widthCounts[len(row)]++
		}
		bestWidth, bestCount := 0, 0
		for width, count := range widthCounts {
			if count > bestCount {
				bestWidth, bestCount = width, count
			}
		}

		consistent := make([][]string, 0, bestCount)
		for _, row := range candidates {
			if len(row) == bestWidth {
				consistent = append(consistent, row)
			}
		}
		if len(consistent) >= 3 {
			headers, data := splitAtHeader(consistent)
			return &Table{Headers: headers, Rows: data}
		}
	}
	return &Table{}
}
