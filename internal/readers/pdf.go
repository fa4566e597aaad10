package readers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"
)

// TabularDocumentOptions restricts extraction to a page range, given in
// the form "1-5" or "2,3,6". Empty means all pages.
type TabularDocumentOptions struct {
	PageRange string
}

// TabularDocument reads PDF price lists. Page text is extracted with
// go-fitz and then pushed through the same shape classification the
// free text reader uses, since vendors export both from the same
// spreadsheets.
type TabularDocument struct {
	options TabularDocumentOptions
}

func NewTabularDocument(options TabularDocumentOptions) *TabularDocument {
	return &TabularDocument{options: options}
}

func (d *TabularDocument) Read(content []byte) (*Table, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return &Table{}, nil
	}

	pages, err := parsePageRange(d.options.PageRange, pageCount)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, page := range pages {
		pageText, err := doc.Text(page - 1)
		if err != nil {
			log.Warn().Int("page", page).Err(err).Msg("failed to extract page text")
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	extracted := text.String()
	if strings.TrimSpace(extracted) == "" {
		log.Warn().Msg("document yielded no text")
		return &Table{}, nil
	}

	return NewFreeText().Read([]byte(extracted))
}

// parsePageRange expands a range expression into 1-based page numbers
// clamped to the document.
func parsePageRange(expr string, pageCount int) ([]int, error) {
	if strings.TrimSpace(expr) == "" {
		pages := make([]int, pageCount)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	}

	pages := make([]int, 0)
	seen := make(map[int]bool)

	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if lo, hi, found := strings.Cut(part, "-"); found {
			start, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
			end, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
			for p := start; p <= end; p++ {
				if p >= 1 && p <= pageCount && !seen[p] {
					pages = append(pages, p)
					seen[p] = true
				}
			}
			continue
		}

		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid page number %q", part)
		}
		if p >= 1 && p <= pageCount && !seen[p] {
			pages = append(pages, p)
			seen[p] = true
		}
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("page range %q selects no pages (document has %d)", expr, pageCount)
	}
	return pages, nil
}
