// Package mapping decides which target field each source column header
// represents. It layers six passes, from high-precision regex matching down
// to a statistical fallback classifier, each attaching a confidence score
// in [0,1] to the headers it claims.
package mapping

import (
	"regexp"

	"github.com/catalogiq/catalog-service/internal/schema"
)

// fieldPattern is one entry of a field's ordered pattern list. The full
// variant anchors the expression to the whole cleaned header (score 1.0);
// the partial variant matches anywhere in it (score 0.8).
type fieldPattern struct {
	full    *regexp.Regexp
	partial *regexp.Regexp
}

func compilePatterns(exprs ...string) []fieldPattern {
	out := make([]fieldPattern, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, fieldPattern{
			full:    regexp.MustCompile(`^(?:` + expr + `)$`),
			partial: regexp.MustCompile(expr),
		})
	}
	return out
}

// fieldPatterns pairs a target field with its ordered pattern list.
// Slice order is meaningful twice over: fields are resolved in this order,
// and within a field the first pattern that matches any header wins.
type fieldPatterns struct {
	Field    schema.Field
	Patterns []fieldPattern
}

// fieldCatalog is the merged, de-duplicated pattern catalog. Patterns are
// matched against cleaned headers (lowercased, punctuation collapsed to
// spaces, currency symbols preserved).
var fieldCatalog = []fieldPatterns{
	{schema.FieldSKU, compilePatterns(
		`sku|item\s*(?:code|number|#|no)|product\s*(?:code|number|#|no)|part\s*(?:code|number|#|no)|stock\s*(?:code|number)`,
		`article\s*(?:number|code|#|no)|catalog\s*(?:number|code|#|no)|reference\s*(?:number|code)`,
		`inventory\s*(?:number|code|id)`,
	)},
	{schema.FieldShortDescription, compilePatterns(
		`short\s*desc(?:ription)?|brief\s*desc(?:ription)?|title|product\s*name|item\s*name|name`,
		`product\s*title|item\s*title|short\s*title|short\s*text|headline`,
	)},
	{schema.FieldLongDescription, compilePatterns(
		`long\s*desc(?:ription)?|detailed\s*desc(?:ription)?|full\s*desc(?:ription)?|product\s*desc(?:ription)?|item\s*desc(?:ription)?|description|desc|details`,
		`features|specifications|product\s*details|extended\s*description|product\s*information`,
		`tech\s*specs|technical\s*description|full\s*text|product\s*specs`,
	)},
	{schema.FieldModel, compilePatterns(
		`model|model\s*(?:code|number|#|no)`,
		`product\s*model|device\s*model`,
	)},
	{schema.FieldCategoryGroup, compilePatterns(
		`category\s*group|main\s*category|top\s*category|product\s*group|dept|department|division`,
		`product\s*line|major\s*category|product\s*class|primary\s*category`,
	)},
	{schema.FieldCategory, compilePatterns(
		`category|sub\s*category|product\s*category|product\s*type|group|family`,
		`class|classification|segment|product\s*segment|section`,
	)},
	{schema.FieldManufacturer, compilePatterns(
		`manufacturer|brand|maker|vendor|supplier|producer`,
		`oem|original\s*manufacturer|provider`,
	)},
	{schema.FieldManufacturerSKU, compilePatterns(
		`mfr\s*(?:part|#|number|code|sku)|manufacturer\s*(?:part|#|number|code|sku)|vendor\s*(?:part|#|number|code|sku)|oem\s*(?:part|#|number|code)`,
		`brand\s*(?:sku|number|code)|maker\s*(?:part|#|number|code)|external\s*(?:sku|id)`,
	)},
	{schema.FieldImageURL, compilePatterns(
		`image\s*(?:url|link|path)|photo\s*(?:url|link|path)|picture\s*(?:url|link|path)|img\s*(?:url|link|path)|product\s*(?:image|photo|picture)`,
		`image|photo|picture|img|thumbnail|main\s*image`,
	)},
	{schema.FieldDocumentName, compilePatterns(
		`document\s*name|doc\s*name|file\s*name|manual\s*name|spec\s*sheet\s*name`,
		`pdf\s*name|attachment\s*name|documentation\s*name`,
	)},
	{schema.FieldDocumentURL, compilePatterns(
		`document\s*(?:url|link|path)|doc\s*(?:url|link|path)|manual\s*(?:url|link|path)|spec\s*(?:url|link|path)|pdf\s*(?:url|link|path)`,
		`documentation\s*(?:url|link)|attachment\s*(?:url|link)|data\s*sheet\s*(?:url|link)`,
	)},
	{schema.FieldUnitOfMeasure, compilePatterns(
		`uom|unit\s*(?:of\s*measure|measure|type)|sell\s*unit|packaging|pack\s*size|quantity\s*unit`,
		`measurement\s*unit|sales\s*unit|unit\s*size|package\s*type|qty\s*unit`,
	)},
	{schema.FieldBuyCost, compilePatterns(
		`(?:buy|wholesale|net|base)\s*(?:cost|price)|cost|unit\s*cost`,
		`landed\s*cost|purchase\s*price|acquisition\s*cost|inventory\s*cost|stock\s*cost`,
		`direct\s*cost|factory\s*price|ex\s*works\s*price|supply\s*price`,
	)},
	{schema.FieldTradePrice, compilePatterns(
		`(?:trade|distributor|reseller)\s*(?:cost|price)`,
		`b2b\s*price|commercial\s*price|partner\s*price|channel\s*price`,
		`net\s*price|contractor\s*price`,
	)},
	{schema.FieldMSRPGBP, compilePatterns(
		`(?:msrp|srp|rrp|list|retail|resale|recommended|suggested)\s*(?:price|cost)?\s*(?:\(?gbp\)?|£|pounds?)`,
		`(?:price|cost)\s*(?:\(?gbp\)?|£|pounds?)`,
		`uk\s*(?:price|retail|msrp|rrp)`,
		`gbp|£|pounds?`,
	)},
	{schema.FieldMSRPUSD, compilePatterns(
		`(?:msrp|srp|rrp|list|retail|resale|recommended|suggested)\s*(?:price|cost)?\s*(?:\(?usd\)?|\$|dollars?)`,
		`(?:price|cost)\s*(?:\(?usd\)?|\$|dollars?)`,
		`us\s*(?:price|retail|msrp|rrp)`,
		`usd|\$|dollars?`,
	)},
	{schema.FieldMSRPEUR, compilePatterns(
		`(?:msrp|srp|rrp|list|retail|resale|recommended|suggested)\s*(?:price|cost)?\s*(?:\(?eur\)?|€|euros?)`,
		`(?:price|cost)\s*(?:\(?eur\)?|€|euros?)`,
		`eu\s*(?:price|retail|msrp|rrp)`,
		`eur|€|euros?`,
	)},
	{schema.FieldDiscontinued, compilePatterns(
		`discontinued|obsolete|eol|end\s*of\s*life|inactive|status`,
		`discontinued\s*(?:flag|indicator)|active`,
	)},
}

// genericMSRPPatterns match currency-agnostic retail/list price headers,
// resolved in the currency pass.
var genericMSRPPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:msrp|srp|rrp|list\s*price|retail\s*price|resale\s*price|recommended\s*price|suggested\s*price)$`),
	regexp.MustCompile(`^(?:public\s*price|consumer\s*price|end\s*user\s*price|advertised\s*price|catalog\s*price)$`),
}

// synonyms expand a field-name token into equivalent header vocabulary for
// the fuzzy pass keyword bonus.
var synonyms = map[string][]string{
	"price":        {"cost", "rate", "amount"},
	"cost":         {"price", "rate", "amount"},
	"description":  {"desc", "text", "details"},
	"sku":          {"code", "number", "id"},
	"manufacturer": {"brand", "maker", "vendor", "supplier"},
	"image":        {"photo", "picture", "img"},
	"document":     {"doc", "manual", "pdf"},
	"url":          {"link", "path"},
	"unit":         {"uom", "packaging"},
	"category":     {"group", "class", "type"},
	"discontinued": {"obsolete", "eol", "inactive"},
}

// fieldRelation describes a positional affinity: once Anchor is mapped,
// unclaimed headers within Window columns of it are inspected for Keywords
// of Related. Exclude vetoes a header when any of its terms appear.
type fieldRelation struct {
	Anchor   []schema.Field
	Related  schema.Field
	Keywords []string
	Exclude  []string
	Window   int
}

var fieldRelations = []fieldRelation{
	// Buy cost commonly sits next to the retail price column.
	{
		Anchor:   []schema.Field{schema.FieldMSRPGBP, schema.FieldMSRPUSD, schema.FieldMSRPEUR, schema.FieldMSRP},
		Related:  schema.FieldBuyCost,
		Keywords: []string{"cost", "buy", "net", "dealer", "wholesale"},
		Exclude:  []string{"retail", "list", "rrp", "msrp", "srp", "suggested", "recommended"},
		Window:   3,
	},
	// Manufacturer part numbers cluster around the internal SKU column.
	{
		Anchor:   []schema.Field{schema.FieldSKU},
		Related:  schema.FieldManufacturerSKU,
		Keywords: []string{"mfr", "manufacturer", "vendor", "oem", "part"},
		Exclude:  []string{"price", "cost"},
		Window:   3,
	},
	// Trade price rides alongside a resolved MSRP as well.
	{
		Anchor:   []schema.Field{schema.FieldMSRPGBP, schema.FieldMSRPUSD, schema.FieldMSRPEUR, schema.FieldMSRP},
		Related:  schema.FieldTradePrice,
		Keywords: []string{"trade", "distributor", "reseller", "b2b"},
		Exclude:  []string{"retail", "list", "rrp", "msrp", "srp"},
		Window:   3,
	},
}

// valueFormat describes the expected shape of sample cell values for a
// field, used by the content pass when headers alone are inconclusive.
type valueFormat struct {
	Field   schema.Field
	Pattern *regexp.Regexp
}

var valueFormats = []valueFormat{
	{schema.FieldImageURL, regexp.MustCompile(`(?i)^https?://\S+\.(?:jpe?g|png|gif|webp)(?:\?\S*)?$`)},
	{schema.FieldDocumentURL, regexp.MustCompile(`(?i)^https?://\S+\.pdf(?:\?\S*)?$`)},
	{schema.FieldSKU, regexp.MustCompile(`^[A-Z]{2,5}[-_/]?\d{3,10}$`)},
	{schema.FieldUnitOfMeasure, regexp.MustCompile(`(?i)^\d+(?:\.\d+)?\s*(?:kg|g|lb|oz|ml|l|mm|cm|m|pk|pcs|each|ea)$`)},
	{schema.FieldDiscontinued, regexp.MustCompile(`(?i)^(?:yes|no|y|n|true|false|t|f|0|1|discontinued|obsolete|active)$`)},
}
