// Package price normalizes raw price strings from heterogeneous catalog
// files into canonical float values and detects the currency they are
// denominated in.
package price

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/catalogiq/catalog-service/internal/schema"
)

var nonPriceRe = regexp.MustCompile(`[^\d.,]`)

// Normalize parses a raw price string into a float value. It accepts mixed
// decimal/thousand separator conventions ("1.234,56", "1,234.56", "$1,000")
// and returns ok=false for empty or unparseable input. It never panics.
func Normalize(raw string) (float64, bool) {
	cleaned := nonPriceRe.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return 0, false
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		// Both separators present: the later one is the decimal point.
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		// Comma only: "1,000"-style grouping (exactly 3 digits after the
		// last comma, 1-3 digit leading group) reads as thousands.
		// Otherwise a short trailing group is the decimal part and a
		// longer one means stray grouping commas.
		digitsAfter := len(cleaned) - lastComma - 1
		leading := strings.Index(cleaned, ",")
		if digitsAfter == 3 && leading >= 1 && leading <= 3 {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else if digitsAfter <= 3 {
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	// A trailing thousands-style comma can leave multiple dots behind.
	if strings.Count(cleaned, ".") > 1 {
		last := strings.LastIndex(cleaned, ".")
		cleaned = strings.ReplaceAll(cleaned[:last], ".", "") + cleaned[last:]
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		log.Debug().Str("value", raw).Msg("Unparseable price value")
		return 0, false
	}
	return value, true
}

// Format renders an amount with its currency symbol, e.g. Format(100.5,
// "GBP") == "£100.50". Unknown currencies fall back to a bare number.
func Format(amount float64, currency string) string {
	for _, ind := range CurrencyIndicators {
		if ind.Code == currency {
			return ind.Symbol + strconv.FormatFloat(amount, 'f', 2, 64)
		}
	}
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// numberRe matches the first numeric token after a row-style price label.
// The token must end on a digit so sentence punctuation stays out of it.
var numberRe = regexp.MustCompile(`[-+]?\d(?:[\d\s,.]*\d)?`)

// ExtractFromText scans free text for row-style price labels ("wholesale
// price", "msrp", ...) followed by a numeric token within a short trailing
// window, and returns the prices it finds keyed by target field. MSRP-style
// labels get a surrounding-window currency detection; without a currency
// the value lands in the generic MSRP bucket.
func ExtractFromText(text string) map[schema.Field]float64 {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	prices := make(map[schema.Field]float64)
	for _, group := range rowPricePatterns {
		if _, ok := prices[group.Field]; ok {
			continue
		}
		for _, re := range group.Patterns {
			loc := findPriceAfter(text, re)
			if loc == nil {
				continue
			}
			value, matchEnd := loc.value, loc.end

			if group.Field == schema.FieldMSRP {
				windowStart := matchEnd - 20
				if windowStart < 0 {
					windowStart = 0
				}
				windowEnd := matchEnd + 50
				if windowEnd > len(text) {
					windowEnd = len(text)
				}
				if code, ok := DetectCurrency(text[windowStart:windowEnd]); ok {
					field, _ := schema.MSRPFor(code)
					prices[field] = value
				} else {
					prices[schema.FieldMSRP] = value
				}
			} else {
				prices[group.Field] = value
			}
			break
		}
	}
	return prices
}

type priceMatch struct {
	value float64
	end   int
}

// findPriceAfter locates the first label match whose trailing 50-character
// window contains a parseable number.
func findPriceAfter(text string, label *regexp.Regexp) *priceMatch {
	for _, loc := range label.FindAllStringIndex(text, -1) {
		start := loc[1]
		end := start + 50
		if end > len(text) {
			end = len(text)
		}
		numLoc := numberRe.FindStringIndex(text[start:end])
		if numLoc == nil {
			continue
		}
		token := strings.TrimSpace(text[start+numLoc[0] : start+numLoc[1]])
		// Spaces inside the token are thousands separators.
		token = strings.ReplaceAll(token, " ", "")
		if value, ok := Normalize(token); ok {
			return &priceMatch{value: value, end: start}
		}
	}
	return nil
}
