package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panelestimator/services"
)

type seedEntry struct {
	key  services.ComponentKey
	info services.ComponentInfo
}

type seedRow struct {
	key      services.ComponentKey
	qty      float64
	discount float64
}

type seedPanel struct {
	name     string
	qty      float64
	override float64
	rows     []seedRow
}

func mccb(brand, series, pole, ka, ampere string) services.ComponentKey {
	return services.ComponentKey{Item: "MCCB", Brand: brand, Series: series, Pole: pole, KA: ka, Ampere: ampere}
}

func mcb(brand, series, pole, ka, ampere string) services.ComponentKey {
	return services.ComponentKey{Item: "MCB", Brand: brand, Series: series, Pole: pole, KA: ka, Ampere: ampere}
}

func accessory(item, brand, size string) services.ComponentKey {
	na := services.NotApplicable
	return services.ComponentKey{Item: item, Brand: brand, Series: na, Pole: na, KA: na, Ampere: size}
}

func idr(detail, unit string, local, manHour float64, vendor string) services.ComponentInfo {
	return services.ComponentInfo{
		Detail: detail, Unit: unit, Currency: services.CurrencyIDR,
		LocalPrice: local, ManHour: manHour, Vendor: vendor,
	}
}

func usd(detail, unit string, intl, manHour float64, vendor string) services.ComponentInfo {
	return services.ComponentInfo{
		Detail: detail, Unit: unit, Currency: services.CurrencyUSD,
		InternationalPrice: intl, ManHour: manHour, Vendor: vendor,
	}
}

var seedCatalog = []seedEntry{
	{mccb("Schneider", "NSX", "1P", "10", "50-70"), idr("MCCB NSX 1P 10kA 50-70A", "Pcs", 500000, 18000, "PT Schneider Indonesia")},
	{mccb("Schneider", "NSX", "3P", "36", "100"), idr("MCCB NSX100F 3P 36kA 100A", "Pcs", 2750000, 25000, "PT Schneider Indonesia")},
	{mccb("Schneider", "NSX", "3P", "36", "160"), idr("MCCB NSX160F 3P 36kA 160A", "Pcs", 3450000, 25000, "PT Schneider Indonesia")},
	{mccb("Schneider", "NSX", "3P", "50", "250"), idr("MCCB NSX250N 3P 50kA 250A", "Pcs", 6200000, 35000, "PT Schneider Indonesia")},
	{mccb("ABB", "Tmax XT", "3P", "36", "160"), usd("MCCB XT1B 3P 36kA 160A", "Pcs", 195, 25000, "PT ABB Sakti Industri")},
	{mccb("ABB", "Tmax XT", "4P", "36", "160"), usd("MCCB XT1B 4P 36kA 160A", "Pcs", 248, 30000, "PT ABB Sakti Industri")},
	{mcb("Schneider", "Acti9", "1P", "6", "16"), idr("MCB iC60N 1P 6kA 16A", "Pcs", 85000, 7500, "PT Schneider Indonesia")},
	{mcb("Schneider", "Acti9", "3P", "6", "32"), idr("MCB iC60N 3P 6kA 32A", "Pcs", 310000, 9000, "PT Schneider Indonesia")},
	{mcb("ABB", "S200", "1P", "6", "16"), usd("MCB S201 1P 6kA 16A", "Pcs", 4.8, 7500, "PT ABB Sakti Industri")},
	{accessory("Busbar", "Tembaga Murni", "20x5mm"), idr("Copper busbar 20x5mm", "Kg", 185000, 12000, "CV Logam Jaya")},
	{accessory("Cable Lug", "Tyco", "35mm"), idr("Cable lug 35mm2", "Pcs", 4500, 1500, "CV Sinar Teknik")},
	{accessory("Enclosure", "Rittal", "800x600x250"), idr("Wall mounted enclosure 800x600x250", "Unit", 4750000, 150000, "PT Rittal Indonesia")},
}

var seedPanels = []seedPanel{
	{
		name: "LVMDP",
		qty:  1,
		rows: []seedRow{
			{key: mccb("Schneider", "NSX", "3P", "50", "250"), qty: 1, discount: 15},
			{key: mccb("Schneider", "NSX", "3P", "36", "160"), qty: 4, discount: 15},
			{key: mccb("ABB", "Tmax XT", "3P", "36", "160"), qty: 2, discount: 10},
			{key: accessory("Busbar", "Tembaga Murni", "20x5mm"), qty: 24},
			{key: accessory("Enclosure", "Rittal", "800x600x250"), qty: 1},
		},
	},
	{
		name: "SDP Lantai 1",
		qty:  3,
		rows: []seedRow{
			{key: mccb("Schneider", "NSX", "3P", "36", "100"), qty: 1, discount: 15},
			{key: mcb("Schneider", "Acti9", "1P", "6", "16"), qty: 12, discount: 20},
			{key: accessory("Cable Lug", "Tyco", "35mm"), qty: 30},
		},
	},
	{
		name:     "Panel Kapasitor (lump sum)",
		qty:      1,
		override: 85000000,
	},
}

// Seed populates the catalog and one sample project. Each part is skipped
// when its collection already holds records, so it is safe on every startup.
func Seed(app *pocketbase.PocketBase) error {
	if err := seedCatalogEntries(app); err != nil {
		return err
	}
	return seedProject(app)
}

func seedCatalogEntries(app *pocketbase.PocketBase) error {
	col, err := app.FindCollectionByNameOrId("catalog_entries")
	if err != nil {
		return fmt.Errorf("seed: could not find catalog_entries collection: %w", err)
	}
	existing, err := app.FindAllRecords(col)
	if err != nil {
		return fmt.Errorf("seed: could not query catalog_entries: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	zap.L().Info("seed: catalog is empty, inserting catalog entries", zap.Int("count", len(seedCatalog)))
	for _, e := range seedCatalog {
		r := core.NewRecord(col)
		SetComponentKey(r, e.key)
		SetComponentInfo(r, e.info)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save catalog entry %q: %w", e.info.Detail, err)
		}
	}
	return nil
}

func seedProject(app *pocketbase.PocketBase) error {
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	panelsCol, err := app.FindCollectionByNameOrId("panels")
	if err != nil {
		return fmt.Errorf("seed: could not find panels collection: %w", err)
	}
	rowsCol, err := app.FindCollectionByNameOrId("material_rows")
	if err != nil {
		return fmt.Errorf("seed: could not find material_rows collection: %w", err)
	}

	catalog := make([]services.CatalogEntry, len(seedCatalog))
	for i, e := range seedCatalog {
		catalog[i] = services.CatalogEntry{ComponentKey: e.key, ComponentInfo: e.info}
	}
	idx := services.NewCatalogIndex(catalog)

	zap.L().Info("seed: projects collection is empty, inserting sample project")

	project := core.NewRecord(projectsCol)
	project.Set("name", "Gedung Perkantoran Sudirman")
	project.Set("customer", "PT Graha Sentosa")
	project.Set("additional_costs", map[string]float64{
		services.CostPacking:  1500000,
		services.CostShipping: 4000000,
		services.CostTesting:  2500000,
	})
	if err := app.Save(project); err != nil {
		return fmt.Errorf("seed: save project: %w", err)
	}

	for pi, sp := range seedPanels {
		panel := core.NewRecord(panelsCol)
		panel.Set("project", project.Id)
		panel.Set("sort_order", pi+1)
		panel.Set("name", sp.name)
		panel.Set("qty", sp.qty)
		panel.Set("unit_price_override", sp.override)
		if err := app.Save(panel); err != nil {
			return fmt.Errorf("seed: save panel %q: %w", sp.name, err)
		}

		for ri, sr := range sp.rows {
			e, ok := idx.Lookup(sr.key)
			if !ok {
				return fmt.Errorf("seed: panel %q references unknown catalog key %+v", sp.name, sr.key)
			}
			row := services.RowFromEntry(e)
			row.Qty = sr.qty
			row.DiscountPercent = sr.discount

			r := core.NewRecord(rowsCol)
			r.Set("panel", panel.Id)
			r.Set("sort_order", ri+1)
			SetMaterialRow(r, row)
			if err := app.Save(r); err != nil {
				return fmt.Errorf("seed: save material row %q: %w", e.Detail, err)
			}
		}
	}

	zap.L().Info("seed: sample project created", zap.String("project", project.Id), zap.Int("panels", len(seedPanels)))
	return nil
}
