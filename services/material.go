package services

// Attribute names one of the six identifying attributes of a catalog component.
type Attribute string

const (
	AttrItem   Attribute = "item"
	AttrBrand  Attribute = "brand"
	AttrSeries Attribute = "series"
	AttrPole   Attribute = "pole"
	AttrKA     Attribute = "ka"
	AttrAmpere Attribute = "ampere"
)

// CascadeOrder is the order in which attributes narrow the catalog.
// Editing an attribute invalidates every attribute after it.
var CascadeOrder = []Attribute{AttrItem, AttrBrand, AttrSeries, AttrPole, AttrKA, AttrAmpere}

// NotApplicable is the placeholder value for attributes that do not apply
// to a component (e.g. "ka" on a cable lug). It is a real value, not an empty one.
const NotApplicable = "-"

// ParseAttribute returns the Attribute for name and whether it is one of the six.
func ParseAttribute(name string) (Attribute, bool) {
	for _, a := range CascadeOrder {
		if string(a) == name {
			return a, true
		}
	}
	return "", false
}

// cascadeIndex returns the position of a in CascadeOrder, or -1.
func cascadeIndex(a Attribute) int {
	for i, c := range CascadeOrder {
		if c == a {
			return i
		}
	}
	return -1
}

// ComponentKey is the composite key of a catalog component. Any field may be
// empty on a material row that is still being narrowed.
type ComponentKey struct {
	Item   string `json:"item"`
	Brand  string `json:"brand"`
	Series string `json:"series"`
	Pole   string `json:"pole"`
	KA     string `json:"ka"`
	Ampere string `json:"ampere"`
}

// Get returns the value of attribute a.
func (k ComponentKey) Get(a Attribute) string {
	switch a {
	case AttrItem:
		return k.Item
	case AttrBrand:
		return k.Brand
	case AttrSeries:
		return k.Series
	case AttrPole:
		return k.Pole
	case AttrKA:
		return k.KA
	case AttrAmpere:
		return k.Ampere
	}
	return ""
}

// With returns a copy of k with attribute a set to value.
func (k ComponentKey) With(a Attribute, value string) ComponentKey {
	switch a {
	case AttrItem:
		k.Item = value
	case AttrBrand:
		k.Brand = value
	case AttrSeries:
		k.Series = value
	case AttrPole:
		k.Pole = value
	case AttrKA:
		k.KA = value
	case AttrAmpere:
		k.Ampere = value
	}
	return k
}

// IsComplete reports whether all six attributes are set.
func (k ComponentKey) IsComplete() bool {
	for _, a := range CascadeOrder {
		if k.Get(a) == "" {
			return false
		}
	}
	return true
}

// Currency is the purchase currency of a component.
type Currency string

const (
	CurrencyIDR Currency = "IDR"
	CurrencyUSD Currency = "USD"
)

// ComponentInfo holds the descriptive and pricing fields of a component.
// InternationalPrice is in USD; LocalPrice and ManHour are in IDR.
type ComponentInfo struct {
	Detail             string   `json:"detail"`
	Unit               string   `json:"unit"`
	Currency           Currency `json:"currency"`
	InternationalPrice float64  `json:"internationalPrice"`
	LocalPrice         float64  `json:"localPrice"`
	ManHour            float64  `json:"manHour"`
	Vendor             string   `json:"vendor"`
}

// CatalogEntry is one purchasable component. Entries are read-only to the engine.
type CatalogEntry struct {
	ID string `json:"id,omitempty"`
	ComponentKey
	ComponentInfo
}

// MaterialRow is one line of a panel. Its key and info may be partially
// populated and need not match any catalog entry.
type MaterialRow struct {
	ID string `json:"id,omitempty"`
	ComponentKey
	ComponentInfo
	Qty             float64 `json:"qty"`
	Factor          float64 `json:"factor"`
	DiscountPercent float64 `json:"discountPercent"`
}

// Ready reports whether the row carries enough data to be saved.
func (r MaterialRow) Ready() bool {
	return r.Detail != ""
}

// RowFromEntry returns a row copied from a catalog entry with neutral
// quantity, factor and discount.
func RowFromEntry(e CatalogEntry) MaterialRow {
	return MaterialRow{
		ComponentKey:  e.ComponentKey,
		ComponentInfo: e.ComponentInfo,
		Qty:           1,
		Factor:        1,
	}
}

// Panel is a switchgear panel: ordered material rows replicated Qty times.
// UnitPriceOverride only applies when the panel has no rows.
type Panel struct {
	ID                string        `json:"id,omitempty"`
	Name              string        `json:"name"`
	Qty               float64       `json:"qty"`
	UnitPriceOverride float64       `json:"unitPriceOverride"`
	Materials         []MaterialRow `json:"materials"`
}

// Additional cost categories of a project.
const (
	CostPacking       = "packing"
	CostShipping      = "shipping"
	CostInstallation  = "installation"
	CostTesting       = "testing"
	CostDocumentation = "documentation"
	CostOther         = "other"
)

// AdditionalCostCategories lists the known cost keys in display order.
var AdditionalCostCategories = []string{
	CostPacking,
	CostShipping,
	CostInstallation,
	CostTesting,
	CostDocumentation,
	CostOther,
}

// Project is an ordered list of panels plus additional costs. Cost values are
// kept loosely typed since they arrive from stored JSON; see CalcProjectPrice.
type Project struct {
	ID              string         `json:"id,omitempty"`
	Name            string         `json:"name"`
	Panels          []Panel        `json:"panels"`
	AdditionalCosts map[string]any `json:"additionalCosts"`
}
