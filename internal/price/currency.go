package price

import (
	"regexp"
	"strings"

	"github.com/catalogiq/catalog-service/internal/schema"
)

// CurrencyIndicator lists the textual markers for one currency. Indicators
// are matched case-insensitively as substrings; the slice order below is
// the documented tie-break when a text mentions several currencies.
type CurrencyIndicator struct {
	Code       string
	Symbol     string
	Indicators []string
}

// CurrencyIndicators is the ordered currency lookup table. GBP is checked
// first, then USD, then EUR.
var CurrencyIndicators = []CurrencyIndicator{
	{Code: "GBP", Symbol: "£", Indicators: []string{"£", "gbp", "pounds", "pound", "uk", "british"}},
	{Code: "USD", Symbol: "$", Indicators: []string{"$", "usd", "dollars", "dollar", "us", "american"}},
	{Code: "EUR", Symbol: "€", Indicators: []string{"€", "eur", "euros", "euro", "eu", "european"}},
}

// DetectCurrency finds the first currency whose indicator occurs in text.
// The search is case-insensitive; iteration order of CurrencyIndicators is
// the tie-break.
func DetectCurrency(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, cur := range CurrencyIndicators {
		for _, ind := range cur.Indicators {
			if strings.Contains(lower, ind) {
				return cur.Code, true
			}
		}
	}
	return "", false
}

// rowPriceGroup pairs a target field with the label patterns used when
// prices appear inside free text rather than dedicated columns.
type rowPriceGroup struct {
	Field    schema.Field
	Patterns []*regexp.Regexp
}

var rowPricePatterns = []rowPriceGroup{
	{
		Field: schema.FieldBuyCost,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(buy|cost|wholesale|net|dealer|base)[\s-](cost|price)`),
			regexp.MustCompile(`(?i)(cost|price)[\s-](to|for)[\s-](buy|dealer|distributor|reseller)`),
			regexp.MustCompile(`(?i)\b(landed\s*cost|purchase\s*price)\b`),
		},
	},
	{
		Field: schema.FieldTradePrice,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(trade|dealer|distributor|reseller)[\s-](cost|price)`),
			regexp.MustCompile(`(?i)(price)[\s-](to|for)[\s-](trade|dealer|distributor|reseller)`),
			regexp.MustCompile(`(?i)\b(wholesale\s*price|b2b\s*price)\b`),
		},
	},
	{
		Field: schema.FieldMSRP,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(msrp|srp|rrp|list|retail|resale|recommended|suggested)[\s-](price|cost)`),
			regexp.MustCompile(`(?i)\b(public\s*price|consumer\s*price|retail)\b`),
		},
	},
}
