package services

// UnitOptions lists the units a catalog entry or material row may use.
var UnitOptions = []string{
	"Pcs",
	"Set",
	"Unit",
	"Lot",
	"Mtr",
	"Roll",
	"Box",
	"Pack",
	"Kg",
	"Ls",
}

// CurrencyOptions lists the purchase currencies the calculator understands.
var CurrencyOptions = []Currency{CurrencyIDR, CurrencyUSD}

// ValidCurrency reports whether c is one of CurrencyOptions.
func ValidCurrency(c Currency) bool {
	for _, opt := range CurrencyOptions {
		if c == opt {
			return true
		}
	}
	return false
}
