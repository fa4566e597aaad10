// Package schema defines the standardized output schema every source
// catalog is mapped onto. The field catalog is ordered; iteration order
// matters because the column mapper resolves fields in this order.
package schema

// Field is one column of the standardized output schema.
type Field string

const (
	FieldSKU              Field = "SKU"
	FieldShortDescription Field = "Short Description"
	FieldLongDescription  Field = "Long Description"
	FieldModel            Field = "Model"
	FieldCategoryGroup    Field = "Category Group"
	FieldCategory         Field = "Category"
	FieldManufacturer     Field = "Manufacturer"
	FieldManufacturerSKU  Field = "Manufacturer SKU"
	FieldImageURL         Field = "Image URL"
	FieldDocumentName     Field = "Document Name"
	FieldDocumentURL      Field = "Document URL"
	FieldUnitOfMeasure    Field = "Unit Of Measure"
	FieldBuyCost          Field = "Buy Cost"
	FieldTradePrice       Field = "Trade Price"
	FieldMSRPGBP          Field = "MSRP GBP"
	FieldMSRPUSD          Field = "MSRP USD"
	FieldMSRPEUR          Field = "MSRP EUR"
	FieldDiscontinued     Field = "Discontinued"

	// FieldMSRP is the transient currency-unresolved retail price bucket.
	// It never appears in emitted records; the row transformer either
	// resolves it into a currency-specific MSRP field or drops it.
	FieldMSRP Field = "MSRP"
)

// TargetFields is the ordered catalog of output fields.
var TargetFields = []Field{
	FieldSKU,
	FieldShortDescription,
	FieldLongDescription,
	FieldModel,
	FieldCategoryGroup,
	FieldCategory,
	FieldManufacturer,
	FieldManufacturerSKU,
	FieldImageURL,
	FieldDocumentName,
	FieldDocumentURL,
	FieldUnitOfMeasure,
	FieldBuyCost,
	FieldTradePrice,
	FieldMSRPGBP,
	FieldMSRPUSD,
	FieldMSRPEUR,
	FieldDiscontinued,
}

// PriceFields are coerced to float values by the row transformer.
var PriceFields = []Field{
	FieldBuyCost,
	FieldTradePrice,
	FieldMSRPGBP,
	FieldMSRPUSD,
	FieldMSRPEUR,
}

// MSRPFields are the currency-specific members of the MSRP family,
// in currency-indicator iteration order (GBP, USD, EUR).
var MSRPFields = []Field{
	FieldMSRPGBP,
	FieldMSRPUSD,
	FieldMSRPEUR,
}

// RequiredFields should be present in every source catalog. A missing
// mapping for one of these is reported as a warning, never as an error.
var RequiredFields = []Field{
	FieldSKU,
	FieldShortDescription,
	FieldManufacturer,
}

// Defaults are injected into every record before mapped values are applied.
var Defaults = map[Field]any{
	FieldDiscontinued:    false,
	FieldLongDescription: "",
}

// IsPrice reports whether f carries a monetary value.
func IsPrice(f Field) bool {
	for _, p := range PriceFields {
		if p == f {
			return true
		}
	}
	return false
}

// IsRequired reports whether f belongs to the required-field group.
func IsRequired(f Field) bool {
	for _, r := range RequiredFields {
		if r == f {
			return true
		}
	}
	return false
}

// Currency returns the currency code for currency-bearing MSRP fields.
func Currency(f Field) (string, bool) {
	switch f {
	case FieldMSRPGBP:
		return "GBP", true
	case FieldMSRPUSD:
		return "USD", true
	case FieldMSRPEUR:
		return "EUR", true
	}
	return "", false
}

// MSRPFor returns the currency-specific MSRP field for a currency code.
func MSRPFor(currency string) (Field, bool) {
	switch currency {
	case "GBP":
		return FieldMSRPGBP, true
	case "USD":
		return FieldMSRPUSD, true
	case "EUR":
		return FieldMSRPEUR, true
	}
	return "", false
}
