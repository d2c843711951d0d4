package services

// ResolutionState is the finite state of a material row against the catalog.
type ResolutionState string

const (
	// StateUnmatched: no catalog entry agrees with the row's attributes.
	StateUnmatched ResolutionState = "unmatched"
	// StatePartial: several entries match and the set attributes form a
	// prefix of the cascade, so narrowing can continue at Depth.
	StatePartial ResolutionState = "partial"
	// StateAmbiguous: several entries match but the set attributes skip a
	// cascade position.
	StateAmbiguous ResolutionState = "ambiguous"
	// StateResolved: exactly one entry matches.
	StateResolved ResolutionState = "resolved"
)

// Resolution describes where a row stands in the cascade.
type Resolution struct {
	State   ResolutionState `json:"state"`
	Depth   int             `json:"depth"`   // number of leading cascade attributes set
	Matches int             `json:"matches"` // catalog entries agreeing with the row
}

// Resolve classifies row against the catalog.
func Resolve(idx *CatalogIndex, row MaterialRow) Resolution {
	depth := cascadeDepth(row.ComponentKey)
	n := len(idx.Match(row.ComponentKey))

	res := Resolution{Depth: depth, Matches: n}
	switch {
	case n == 0:
		res.State = StateUnmatched
	case n == 1:
		res.State = StateResolved
	case hasGap(row.ComponentKey, depth):
		res.State = StateAmbiguous
	default:
		res.State = StatePartial
	}
	return res
}

// NextAttribute returns the first unset attribute in cascade order and false
// when every attribute is set.
func NextAttribute(row MaterialRow) (Attribute, bool) {
	for _, a := range CascadeOrder {
		if row.Get(a) == "" {
			return a, true
		}
	}
	return "", false
}

// ApplyAttributeChange sets attr to value, clears every later cascade
// attribute together with all descriptive and pricing fields, then fills
// those fields from the catalog when exactly one entry matches. Qty, factor
// and discount are preserved. An unknown attribute leaves the row untouched.
func ApplyAttributeChange(idx *CatalogIndex, row MaterialRow, attr Attribute, value string) MaterialRow {
	pos := cascadeIndex(attr)
	if pos < 0 {
		return row
	}

	row.ComponentKey = row.ComponentKey.With(attr, value)
	for _, later := range CascadeOrder[pos+1:] {
		row.ComponentKey = row.ComponentKey.With(later, "")
	}
	row.ComponentInfo = ComponentInfo{}

	if found := idx.Match(row.ComponentKey); len(found) == 1 {
		row.ComponentInfo = found[0].ComponentInfo
	}
	return row
}

// NumericField names a directly editable numeric column of a material row.
type NumericField string

const (
	FieldQty             NumericField = "qty"
	FieldFactor          NumericField = "factor"
	FieldDiscountPercent NumericField = "discount_percent"
	FieldManHour         NumericField = "man_hour"
)

// NumericFields lists the editable numeric columns.
var NumericFields = []NumericField{FieldQty, FieldFactor, FieldDiscountPercent, FieldManHour}

// ApplyNumericChange sets a numeric column directly. It never touches the
// cascade attributes and never re-resolves the row.
func ApplyNumericChange(row MaterialRow, field NumericField, value float64) MaterialRow {
	switch field {
	case FieldQty:
		row.Qty = value
	case FieldFactor:
		row.Factor = value
	case FieldDiscountPercent:
		row.DiscountPercent = value
	case FieldManHour:
		row.ManHour = value
	}
	return row
}

func cascadeDepth(k ComponentKey) int {
	depth := 0
	for _, a := range CascadeOrder {
		if k.Get(a) == "" {
			break
		}
		depth++
	}
	return depth
}

// hasGap reports whether any attribute after the leading prefix is set.
func hasGap(k ComponentKey, depth int) bool {
	for _, a := range CascadeOrder[depth:] {
		if k.Get(a) != "" {
			return true
		}
	}
	return false
}
