package collections

import (
	"github.com/pocketbase/pocketbase/core"

	"panelestimator/services"
)

// SetComponentKey writes the six identifying attributes onto a record.
func SetComponentKey(r *core.Record, k services.ComponentKey) {
	for _, a := range services.CascadeOrder {
		r.Set(string(a), k.Get(a))
	}
}

// SetComponentInfo writes the descriptive and pricing fields onto a record.
// An empty currency is stored as empty so the select field accepts it.
func SetComponentInfo(r *core.Record, info services.ComponentInfo) {
	r.Set("detail", info.Detail)
	r.Set("unit", info.Unit)
	r.Set("currency", string(info.Currency))
	r.Set("international_price", info.InternationalPrice)
	r.Set("local_price", info.LocalPrice)
	r.Set("man_hour", info.ManHour)
	r.Set("vendor", info.Vendor)
}

func componentKeyFromRecord(r *core.Record) services.ComponentKey {
	var k services.ComponentKey
	for _, a := range services.CascadeOrder {
		k = k.With(a, r.GetString(string(a)))
	}
	return k
}

func componentInfoFromRecord(r *core.Record) services.ComponentInfo {
	return services.ComponentInfo{
		Detail:             r.GetString("detail"),
		Unit:               r.GetString("unit"),
		Currency:           services.Currency(r.GetString("currency")),
		InternationalPrice: r.GetFloat("international_price"),
		LocalPrice:         r.GetFloat("local_price"),
		ManHour:            r.GetFloat("man_hour"),
		Vendor:             r.GetString("vendor"),
	}
}

// CatalogEntryFromRecord maps a catalog_entries record.
func CatalogEntryFromRecord(r *core.Record) services.CatalogEntry {
	return services.CatalogEntry{
		ID:            r.Id,
		ComponentKey:  componentKeyFromRecord(r),
		ComponentInfo: componentInfoFromRecord(r),
	}
}

// MaterialRowFromRecord maps a material_rows record.
func MaterialRowFromRecord(r *core.Record) services.MaterialRow {
	return services.MaterialRow{
		ID:              r.Id,
		ComponentKey:    componentKeyFromRecord(r),
		ComponentInfo:   componentInfoFromRecord(r),
		Qty:             r.GetFloat("qty"),
		Factor:          r.GetFloat("factor"),
		DiscountPercent: r.GetFloat("discount_percent"),
	}
}

// SetMaterialRow writes every persisted field of row onto r. The panel
// relation and sort order are left to the caller.
func SetMaterialRow(r *core.Record, row services.MaterialRow) {
	SetComponentKey(r, row.ComponentKey)
	SetComponentInfo(r, row.ComponentInfo)
	r.Set("qty", row.Qty)
	r.Set("factor", row.Factor)
	r.Set("discount_percent", row.DiscountPercent)
}

// PanelFromRecord maps a panels record together with its material rows.
func PanelFromRecord(r *core.Record, rows []*core.Record) services.Panel {
	p := services.Panel{
		ID:                r.Id,
		Name:              r.GetString("name"),
		Qty:               r.GetFloat("qty"),
		UnitPriceOverride: r.GetFloat("unit_price_override"),
		Materials:         make([]services.MaterialRow, 0, len(rows)),
	}
	for _, row := range rows {
		p.Materials = append(p.Materials, MaterialRowFromRecord(row))
	}
	return p
}

// ProjectFromRecord maps a projects record. Panels are attached by the caller.
// A malformed additional_costs value yields an empty cost map.
func ProjectFromRecord(r *core.Record) services.Project {
	costs := map[string]any{}
	if err := r.UnmarshalJSONField("additional_costs", &costs); err != nil || costs == nil {
		costs = map[string]any{}
	}
	return services.Project{
		ID:              r.Id,
		Name:            r.GetString("name"),
		AdditionalCosts: costs,
	}
}
