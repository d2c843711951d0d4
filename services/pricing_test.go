package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPricing = PricingConfig{ExchangeRate: 16000}

func mccbRow() MaterialRow {
	return MaterialRow{
		ComponentKey: ComponentKey{Item: "MCCB", Brand: "Schneider", Series: "NSX", Pole: "1P", KA: "10", Ampere: "50-70"},
		ComponentInfo: ComponentInfo{
			Detail:     "MCCB NSX 1P 10kA 50-70A",
			Unit:       "Pcs",
			Currency:   CurrencyIDR,
			LocalPrice: 500000,
			ManHour:    18000,
		},
		Qty:             1,
		Factor:          1,
		DiscountPercent: 10,
	}
}

func TestCalcRowPrice_LocalPrice(t *testing.T) {
	got := CalcRowPrice(mccbRow(), testPricing)

	assert.Equal(t, 0.0, got.USDAfterDiscount)
	assert.Equal(t, 0.0, got.IDRFromUSD)
	assert.Equal(t, 450000.0, got.IDRAfterDiscount)
	assert.Equal(t, 468000.0, got.UnitPriceWithLabor)
	assert.Equal(t, 468000.0, got.RowTotal)
}

func TestCalcRowPrice_InternationalPrice(t *testing.T) {
	row := mccbRow()
	row.Currency = CurrencyUSD
	row.InternationalPrice = 35
	row.LocalPrice = 0

	got := CalcRowPrice(row, testPricing)

	assert.Equal(t, 31.5, got.USDAfterDiscount)
	assert.Equal(t, 504000.0, got.IDRFromUSD)
	assert.Equal(t, 0.0, got.IDRAfterDiscount)
	assert.Equal(t, 522000.0, got.UnitPriceWithLabor)
	assert.Equal(t, 522000.0, got.RowTotal)
}

func TestCalcRowPrice_InternationalPriority(t *testing.T) {
	row := mccbRow()
	row.InternationalPrice = 35
	row.LocalPrice = 500000

	got := CalcRowPrice(row, testPricing)

	assert.Equal(t, 450000.0, got.IDRAfterDiscount, "local price is still reported")
	assert.Equal(t, 504000.0, got.IDRFromUSD)
	assert.Equal(t, 522000.0, got.RowTotal, "USD-derived price is used exclusively")
}

func TestCalcRowPrice_ZeroExchangeRateFallsBackToLocal(t *testing.T) {
	row := mccbRow()
	row.InternationalPrice = 35

	got := CalcRowPrice(row, PricingConfig{})

	assert.Equal(t, 31.5, got.USDAfterDiscount)
	assert.Equal(t, 0.0, got.IDRFromUSD)
	assert.Equal(t, 468000.0, got.RowTotal)
}

func TestCalcRowPrice_ExchangeRateIsInjected(t *testing.T) {
	row := mccbRow()
	row.InternationalPrice = 10
	row.LocalPrice = 0
	row.DiscountPercent = 0

	got := CalcRowPrice(row, PricingConfig{ExchangeRate: 15000})

	assert.Equal(t, 150000.0, got.IDRFromUSD)
	assert.Equal(t, 168000.0, got.RowTotal)
}

func TestCalcRowPrice_FullDiscountLeavesLabor(t *testing.T) {
	tests := []struct {
		name string
		intl float64
		qty  float64
	}{
		{"local", 0, 1},
		{"international", 35, 3},
		{"fractional qty", 12.5, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := mccbRow()
			row.InternationalPrice = tt.intl
			row.Qty = tt.qty
			row.DiscountPercent = 100

			got := CalcRowPrice(row, testPricing)
			assert.Equal(t, row.ManHour*tt.qty, got.RowTotal)
		})
	}
}

func TestCalcRowPrice_LinearInQty(t *testing.T) {
	for _, k := range []float64{1, 2, 3, 7, 0.5, 13.25} {
		row := mccbRow()
		row.InternationalPrice = 35.17
		row.Factor = 1.15
		row.DiscountPercent = 12.5

		row.Qty = k
		single := CalcRowPrice(row, testPricing).RowTotal
		row.Qty = 2 * k
		double := CalcRowPrice(row, testPricing).RowTotal

		assert.Equal(t, 2*single, double, "qty=%v", k)
	}
}

func TestCalcRowPrice_Factor(t *testing.T) {
	row := mccbRow()
	row.Factor = 1.2
	row.DiscountPercent = 0

	got := CalcRowPrice(row, testPricing)

	assert.Equal(t, 600000.0, got.IDRAfterDiscount)
	assert.Equal(t, 618000.0, got.RowTotal)
}

func TestCalcRowPrice_CoercesMalformedInput(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	tests := []struct {
		name   string
		mutate func(*MaterialRow)
		want   float64
	}{
		{"nan qty", func(r *MaterialRow) { r.Qty = nan }, 0},
		{"negative qty", func(r *MaterialRow) { r.Qty = -3 }, 0},
		{"nan factor", func(r *MaterialRow) { r.Factor = nan }, 468000},
		{"zero factor", func(r *MaterialRow) { r.Factor = 0 }, 468000},
		{"negative factor", func(r *MaterialRow) { r.Factor = -2 }, 468000},
		{"nan discount", func(r *MaterialRow) { r.DiscountPercent = nan }, 518000},
		{"negative discount", func(r *MaterialRow) { r.DiscountPercent = -20 }, 518000},
		{"discount above 100", func(r *MaterialRow) { r.DiscountPercent = 150 }, 18000},
		{"infinite local price", func(r *MaterialRow) { r.LocalPrice = inf }, 18000},
		{"negative man-hour", func(r *MaterialRow) { r.ManHour = -500 }, 450000},
		{"nan international price", func(r *MaterialRow) { r.InternationalPrice = nan }, 468000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := mccbRow()
			tt.mutate(&row)

			var got RowPrice
			require.NotPanics(t, func() { got = CalcRowPrice(row, testPricing) })
			assert.Equal(t, tt.want, got.RowTotal)
		})
	}
}

func TestCalcRowPrice_EmptyRow(t *testing.T) {
	got := CalcRowPrice(MaterialRow{}, testPricing)
	assert.Equal(t, RowPrice{}, got)
}

func TestCalcPanelPrice_SumsRowsTimesQty(t *testing.T) {
	usd := mccbRow()
	usd.InternationalPrice = 35
	usd.LocalPrice = 0

	panel := Panel{ID: "p1", Qty: 3, Materials: []MaterialRow{mccbRow(), usd}}
	got := CalcPanelPrice(panel, testPricing)

	require.Len(t, got.Rows, 2)
	assert.Equal(t, "p1", got.PanelID)
	assert.Equal(t, 990000.0, got.Subtotal)
	assert.Equal(t, 2970000.0, got.Total)
	assert.Equal(t, 990000.0, got.UnitPrice)
	assert.Equal(t, got.Total, PanelTotal(panel, testPricing))
}

func TestCalcPanelPrice_EmptyPanelUsesOverride(t *testing.T) {
	panel := Panel{Qty: 2, UnitPriceOverride: 100000000}
	got := CalcPanelPrice(panel, testPricing)

	assert.Empty(t, got.Rows)
	assert.Equal(t, 200000000.0, got.Total)
	assert.Equal(t, 100000000.0, got.UnitPrice)
}

func TestCalcPanelPrice_OverrideIgnoredWithRows(t *testing.T) {
	panel := Panel{Qty: 1, UnitPriceOverride: 100000000, Materials: []MaterialRow{mccbRow()}}
	assert.Equal(t, 468000.0, PanelTotal(panel, testPricing))
}

func TestCalcPanelPrice_ZeroQty(t *testing.T) {
	panel := Panel{Qty: 0, Materials: []MaterialRow{mccbRow()}}
	got := CalcPanelPrice(panel, testPricing)

	assert.Equal(t, 468000.0, got.Subtotal)
	assert.Equal(t, 0.0, got.Total)
	assert.Equal(t, 0.0, got.UnitPrice)
}

func TestCalcProjectPrice(t *testing.T) {
	panelA := Panel{ID: "a", Qty: 2, Materials: []MaterialRow{mccbRow()}}
	panelB := Panel{ID: "b", Qty: 1, UnitPriceOverride: 1000000}

	tests := []struct {
		name   string
		panels []Panel
		costs  map[string]any
		want   float64
	}{
		{"panels and costs", []Panel{panelA, panelB}, map[string]any{CostPacking: 50000.0, CostShipping: 150000.0}, 936000 + 1000000 + 200000},
		{"no panels", nil, map[string]any{CostTesting: 75000.0, CostOther: 25000.0}, 100000},
		{"no costs", []Panel{panelA, panelB}, nil, 1936000},
		{"empty", nil, nil, 0},
		{"unknown key summed", []Panel{panelB}, map[string]any{"crane_rental": 300000.0}, 1300000},
		{"numeric string", nil, map[string]any{CostPacking: "1500"}, 1500},
		{"garbage coerced", []Panel{panelB}, map[string]any{CostPacking: "n/a", CostShipping: true, CostOther: nil}, 1000000},
		{"non-finite coerced", nil, map[string]any{CostPacking: math.NaN(), CostShipping: math.Inf(1)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := Project{ID: "proj", Panels: tt.panels, AdditionalCosts: tt.costs}
			got := CalcProjectPrice(project, testPricing)

			var panelSum float64
			for _, p := range tt.panels {
				panelSum += PanelTotal(p, testPricing)
			}
			var costSum float64
			for _, v := range tt.costs {
				costSum += CoerceAmount(v)
			}

			assert.Equal(t, tt.want, got.Total)
			assert.Equal(t, panelSum, got.PanelsSubtotal)
			assert.Equal(t, costSum, got.AdditionalSubtotal)
			assert.Equal(t, got.Total, ProjectTotal(project, testPricing))
			assert.Len(t, got.Panels, len(tt.panels))
		})
	}
}

func TestCoerceAmount(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 1250.5, 1250.5},
		{"int", 42, 42},
		{"string", "99.5", 99.5},
		{"garbage string", "abc", 0},
		{"bool", true, 0},
		{"nil", nil, 0},
		{"negative", -10.0, 0},
		{"nan", math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceAmount(tt.in))
		})
	}
}
