package readers

import (
	"fmt"

	"github.com/catalogiq/catalog-service/internal/types"
)

// Table is the format-independent output of every reader: a header row
// plus raw string cells. Downstream stages never see format details.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Empty reports whether the table carries no data rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Reader extracts a Table from raw file content.
type Reader interface {
	Read(content []byte) (*Table, error)
}

// ForKind returns the reader responsible for the given file kind.
func ForKind(kind types.FileKind) (Reader, error) {
	switch kind {
	case types.KindDelimited:
		return NewDelimited(DelimitedOptions{}), nil
	case types.KindSpreadsheet:
		return NewSpreadsheet(SpreadsheetOptions{}), nil
	case types.KindFreeText:
		return NewFreeText(), nil
	case types.KindArchive:
		return NewArchive(), nil
	case types.KindTabularDocument:
		return NewTabularDocument(TabularDocumentOptions{}), nil
	default:
		return nil, fmt.Errorf("no reader for file kind %q", kind)
	}
}
