// Package services implements material resolution and pricing for
// switchgear panel estimates.
package services

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var hundred = decimal.NewFromInt(100)

// PricingConfig carries the values the calculator needs from deployment
// configuration. ExchangeRate is IDR per USD.
type PricingConfig struct {
	ExchangeRate float64
}

// RowPrice is the monetary breakdown of one material row. All amounts except
// USDAfterDiscount are in IDR.
type RowPrice struct {
	USDAfterDiscount   float64 `json:"usdAfterDiscount"`
	IDRFromUSD         float64 `json:"idrFromUsd"`
	IDRAfterDiscount   float64 `json:"idrAfterDiscount"`
	UnitPriceWithLabor float64 `json:"unitPriceWithLabor"`
	RowTotal           float64 `json:"rowTotal"`
}

// CalcRowPrice computes the price breakdown of a row. The international
// price, converted at the exchange rate, takes priority over the local price
// whenever it is positive; the two are never added together.
//
// Inputs are coerced rather than rejected: non-finite or negative values
// become their defaults (qty 0, factor 1, discount 0, prices 0, man-hour 0),
// a zero factor counts as missing, and a discount above 100 is capped.
func CalcRowPrice(row MaterialRow, cfg PricingConfig) RowPrice {
	qty := dec(row.Qty, 0)
	factor := dec(row.Factor, 1)
	if factor.IsZero() {
		factor = decimal.NewFromInt(1)
	}
	discount := dec(row.DiscountPercent, 0)
	if discount.GreaterThan(hundred) {
		discount = hundred
	}
	intl := dec(row.InternationalPrice, 0)
	local := dec(row.LocalPrice, 0)
	manHour := dec(row.ManHour, 0)
	rate := dec(cfg.ExchangeRate, 0)

	multiplier := hundred.Sub(discount).Div(hundred)

	usdAfter := decimal.Zero
	idrFromUSD := decimal.Zero
	if intl.IsPositive() {
		usdAfter = intl.Mul(factor).Mul(multiplier)
		idrFromUSD = usdAfter.Mul(rate)
	}

	idrAfter := local.Mul(factor).Mul(multiplier)

	base := idrAfter
	if idrFromUSD.IsPositive() {
		base = idrFromUSD
	}

	unit := base.Add(manHour)
	total := unit.Mul(qty)

	return RowPrice{
		USDAfterDiscount:   usdAfter.InexactFloat64(),
		IDRFromUSD:         idrFromUSD.InexactFloat64(),
		IDRAfterDiscount:   idrAfter.InexactFloat64(),
		UnitPriceWithLabor: unit.InexactFloat64(),
		RowTotal:           total.InexactFloat64(),
	}
}

// PanelPrice is the priced view of a panel.
type PanelPrice struct {
	PanelID   string     `json:"panelId,omitempty"`
	Rows      []RowPrice `json:"rows"`
	Subtotal  float64    `json:"subtotal"` // rows summed, or the override when there are none
	Qty       float64    `json:"qty"`
	Total     float64    `json:"total"`
	UnitPrice float64    `json:"unitPrice"` // Total / Qty, for display only
}

// CalcPanelPrice sums row totals and scales by panel quantity. A panel with
// no rows falls back to UnitPriceOverride * Qty.
func CalcPanelPrice(p Panel, cfg PricingConfig) PanelPrice {
	qty := dec(p.Qty, 0)

	subtotal := decimal.Zero
	rows := make([]RowPrice, 0, len(p.Materials))
	for _, m := range p.Materials {
		rp := CalcRowPrice(m, cfg)
		rows = append(rows, rp)
		subtotal = subtotal.Add(decimal.NewFromFloat(rp.RowTotal))
	}
	if len(p.Materials) == 0 {
		subtotal = dec(p.UnitPriceOverride, 0)
	}

	total := subtotal.Mul(qty)
	unit := decimal.Zero
	if qty.IsPositive() {
		unit = total.Div(qty)
	}

	return PanelPrice{
		PanelID:   p.ID,
		Rows:      rows,
		Subtotal:  subtotal.InexactFloat64(),
		Qty:       qty.InexactFloat64(),
		Total:     total.InexactFloat64(),
		UnitPrice: unit.InexactFloat64(),
	}
}

// PanelTotal returns CalcPanelPrice(p, cfg).Total.
func PanelTotal(p Panel, cfg PricingConfig) float64 {
	return CalcPanelPrice(p, cfg).Total
}

// ProjectPrice is the priced view of a project.
type ProjectPrice struct {
	ProjectID          string             `json:"projectId,omitempty"`
	Panels             []PanelPrice       `json:"panels"`
	PanelsSubtotal     float64            `json:"panelsSubtotal"`
	AdditionalCosts    map[string]float64 `json:"additionalCosts"`
	AdditionalSubtotal float64            `json:"additionalSubtotal"`
	Total              float64            `json:"total"`
}

// CalcProjectPrice sums panel totals and every additional cost value. Keys
// outside AdditionalCostCategories are summed too. Values that are not
// numeric, not finite or negative count as zero.
func CalcProjectPrice(p Project, cfg PricingConfig) ProjectPrice {
	panelsSum := decimal.Zero
	panels := make([]PanelPrice, 0, len(p.Panels))
	for _, panel := range p.Panels {
		pp := CalcPanelPrice(panel, cfg)
		panels = append(panels, pp)
		panelsSum = panelsSum.Add(decimal.NewFromFloat(pp.Total))
	}

	costs := make(map[string]float64, len(p.AdditionalCosts))
	costsSum := decimal.Zero
	for key, raw := range p.AdditionalCosts {
		v := CoerceAmount(raw)
		costs[key] = v
		costsSum = costsSum.Add(decimal.NewFromFloat(v))
	}

	return ProjectPrice{
		ProjectID:          p.ID,
		Panels:             panels,
		PanelsSubtotal:     panelsSum.InexactFloat64(),
		AdditionalCosts:    costs,
		AdditionalSubtotal: costsSum.InexactFloat64(),
		Total:              panelsSum.Add(costsSum).InexactFloat64(),
	}
}

// ProjectTotal returns CalcProjectPrice(p, cfg).Total.
func ProjectTotal(p Project, cfg PricingConfig) float64 {
	return CalcProjectPrice(p, cfg).Total
}

// CoerceAmount converts a loosely typed amount to a non-negative float.
// Numeric strings are parsed; booleans, garbage, NaN, infinities and negative
// values yield 0.
func CoerceAmount(raw any) float64 {
	if _, isBool := raw.(bool); isBool {
		return 0
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// dec converts v to a decimal, substituting def for non-finite or negative input.
func dec(v, def float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return decimal.NewFromFloat(def)
	}
	return decimal.NewFromFloat(v)
}
