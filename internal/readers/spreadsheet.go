package readers

import (
	"bytes"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// SpreadsheetOptions selects a worksheet. Zero value means the first
// sheet carrying data.
type SpreadsheetOptions struct {
	SheetName  string
	SheetIndex int
}

// Spreadsheet reads XLSX workbooks via excelize.
type Spreadsheet struct {
	options SpreadsheetOptions
}

func NewSpreadsheet(options SpreadsheetOptions) *Spreadsheet {
	return &Spreadsheet{options: options}
}

func (s *Spreadsheet) Read(content []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName, err := s.selectSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		log.Warn().Str("sheet", sheetName).Msg("worksheet is empty")
		return &Table{}, nil
	}

	headers, data := splitAtHeader(rows)
	return &Table{Headers: headers, Rows: data}, nil
}

func (s *Spreadsheet) selectSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook contains no sheets")
	}

	if s.options.SheetName != "" {
		for _, name := range sheets {
			if name == s.options.SheetName {
				return name, nil
			}
		}
		return "", fmt.Errorf("sheet %q not found", s.options.SheetName)
	}

	if s.options.SheetIndex > 0 {
		if s.options.SheetIndex >= len(sheets) {
			return "", fmt.Errorf("sheet index %d out of range (%d sheets)", s.options.SheetIndex, len(sheets))
		}
		return sheets[s.options.SheetIndex], nil
	}

	// Prefer the first sheet that actually has rows.
	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err == nil && len(rows) > 0 {
			return name, nil
		}
	}
	return sheets[0], nil
}
