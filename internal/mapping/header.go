package mapping

import (
	"regexp"
	"strings"

	"github.com/catalogiq/catalog-service/internal/price"
)

var (
	bracketRe    = regexp.MustCompile(`[\(\[\{]([^\)\]\}]*)[\)\]\}]`)
	punctRe      = regexp.MustCompile(`[_\-\.\[\]\(\)\{\}\*\+\?\^\|/\\:;,"']`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// headerInfo is the per-header metadata computed once per mapping run and
// consumed by the later passes.
type headerInfo struct {
	Original string
	Cleaned  string
	Bracket  string // content of the first (...) or [...] group, cleaned
	Currency string // currency hint from the original text, "" if none
	Index    int
}

// cleanHeader lowercases a header and collapses punctuation into spaces.
// Currency symbols survive cleaning; they are matching signal.
func cleanHeader(header string) string {
	h := strings.TrimSpace(header)
	h = punctRe.ReplaceAllString(h, " ")
	h = whitespaceRe.ReplaceAllString(h, " ")
	return strings.ToLower(strings.TrimSpace(h))
}

func buildHeaderInfo(headers []string) []headerInfo {
	infos := make([]headerInfo, len(headers))
	for i, h := range headers {
		info := headerInfo{
			Original: h,
			Cleaned:  cleanHeader(h),
			Index:    i,
		}
		if m := bracketRe.FindStringSubmatch(h); m != nil {
			info.Bracket = cleanHeader(m[1])
		}
		if code, ok := price.DetectCurrency(h); ok {
			info.Currency = code
		}
		infos[i] = info
	}
	return infos
}
