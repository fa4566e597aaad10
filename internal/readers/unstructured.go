package readers

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// attributePattern binds an output header to a labelled-line regex.
// Order matters: the first matching pattern claims the line.
type attributePattern struct {
	header  string
	pattern *regexp.Regexp
}

var productStartPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*product\s*:\s*`),
	regexp.MustCompile(`(?i)^\s*item\s*:\s*`),
	regexp.MustCompile(`(?i)^\s*sku\s*:\s*`),
	regexp.MustCompile(`^\s*#\d+\s*`),
	regexp.MustCompile(`^\s*\d+\.\s+`),
	regexp.MustCompile(`^\s*-{3,}\s*`),
}

var attributePatterns = []attributePattern{
	{"SKU", regexp.MustCompile(`(?i)(?:sku|item\s*(?:code|number|#)|product\s*(?:code|number|#)|part\s*(?:number|#))\s*:\s*(.*)`)},
	{"Short Description", regexp.MustCompile(`(?i)(?:name|title|short\s*desc|product\s*name)\s*:\s*(.*)`)},
	{"Long Description", regexp.MustCompile(`(?i)(?:description|details|features|specs|specification)\s*:\s*(.*)`)},
	{"Manufacturer", regexp.MustCompile(`(?i)(?:manufacturer|brand|maker|vendor)\s*:\s*(.*)`)},
	{"Buy Cost", regexp.MustCompile(`(?i)(?:cost|buy\s*(?:cost|price)|wholesale\s*price)\s*:\s*(.*)`)},
	{"MSRP GBP", regexp.MustCompile(`(?i)(?:msrp|rrp|retail\s*price|list\s*price)(?:\s*gbp|\s*£|\s*pounds)\s*:\s*(.*)`)},
	{"MSRP USD", regexp.MustCompile(`(?i)(?:msrp|rrp|retail\s*price|list\s*price)(?:\s*usd|\s*\$|\s*dollars)\s*:\s*(.*)`)},
	{"MSRP EUR", regexp.MustCompile(`(?i)(?:msrp|rrp|retail\s*price|list\s*price)(?:\s*eur|\s*€|\s*euros)\s*:\s*(.*)`)},
	{"MSRP", regexp.MustCompile(`(?i)(?:msrp|rrp|retail\s*price|list\s*price)\s*:\s*(.*)`)},
	{"Trade Price", regexp.MustCompile(`(?i)(?:trade\s*price|dealer\s*price|distributor\s*price)\s*:\s*(.*)`)},
}

var skuLikeRe = regexp.MustCompile(`\b([A-Z0-9]{5,20})\b`)

// parseUnstructured extracts product blocks from free-form text. When
// no blocks are found the whole content becomes a single record, so a
// messy file still yields a table rather than an error.
func parseUnstructured(content string) *Table {
	lines := strings.Split(content, "\n")

	products := extractProductBlocks(lines)
	if len(products) > 0 {
		return pivotRecords(products)
	}

	log.Warn().Msg("no structured product data found, treating as a single record")

	product := extractProductAttributes(content)
	if len(product) > 0 {
		return pivotRecords([]map[string]string{product})
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return &Table{}
	}
	return &Table{
		Headers: []string{"Long Description"},
		Rows:    [][]string{{trimmed}},
	}
}

// extractProductBlocks walks lines and accumulates attributes into
// per-product records. Blank lines and recognizable block starters
// close the current record; records without a SKU or a name are noise
// and dropped.
func extractProductBlocks(lines []string) []map[string]string {
	products := make([]map[string]string, 0)
	current := make(map[string]string)

	flush := func() {
		if _, ok := current["SKU"]; ok {
			products = append(products, current)
		} else if _, ok := current["Short Description"]; ok {
			products = append(products, current)
		}
		current = make(map[string]string)
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(current) > 0 {
				flush()
			}
			continue
		}

		for _, re := range productStartPatterns {
			if re.MatchString(line) {
				if len(current) > 0 {
					flush()
				}
				break
			}
		}

		// A starter line can itself carry an attribute ("SKU: AB-1" both
		// opens a block and names its SKU), so extraction still runs.
		for _, attr := range attributePatterns {
			if m := attr.pattern.FindStringSubmatch(line); m != nil {
				current[attr.header] = strings.TrimSpace(m[1])
				break
			}
		}
	}
	if len(current) > 0 {
		flush()
	}

	return products
}

// extractProductAttributes scans a whole document for labelled
// attributes, then falls back to guessing a SKU and using the first
// line as the name.
func extractProductAttributes(content string) map[string]string {
	product := make(map[string]string)

	for _, attr := range attributePatterns {
		if m := attr.pattern.FindStringSubmatch(content); m != nil {
			value := strings.TrimSpace(strings.SplitN(m[1], "\n", 2)[0])
			if value != "" {
				product[attr.header] = value
			}
		}
	}
	if len(product) > 0 {
		return product
	}

	if m := skuLikeRe.FindStringSubmatch(content); m != nil {
		product["SKU"] = m[1]
	}
	parts := strings.SplitN(strings.TrimSpace(content), "\n", 2)
	if len(parts[0]) > 0 && len(parts[0]) < 200 {
		product["Short Description"] = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		product["Long Description"] = strings.TrimSpace(parts[1])
	}
	return product
}
