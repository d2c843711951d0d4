package collections

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panelestimator/services"
)

// Setup programmatically creates/ensures the catalog_entries, projects,
// panels and material_rows collections exist.
func Setup(app *pocketbase.PocketBase) {
	currencies := make([]string, len(services.CurrencyOptions))
	for i, c := range services.CurrencyOptions {
		currencies[i] = string(c)
	}

	ensureCollection(app, "catalog_entries", func(c *core.Collection) {
		for _, a := range services.CascadeOrder {
			c.Fields.Add(&core.TextField{Name: string(a), Required: true})
		}
		addComponentInfoFields(c, currencies)
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		// The six identifying attributes form the composite key.
		c.AddIndex("idx_catalog_entries_key", true, "`item`, `brand`, `series`, `pole`, `ka`, `ampere`", "")
	})

	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "customer", Required: false})
		c.Fields.Add(&core.NumberField{Name: "exchange_rate", Required: false})
		c.Fields.Add(&core.JSONField{Name: "additional_costs", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	panels := ensureCollection(app, "panels", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "qty", Required: true})
		c.Fields.Add(&core.NumberField{Name: "unit_price_override", Required: false})
	})

	ensureCollection(app, "material_rows", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "panel",
			Required:      true,
			CollectionId:  panels.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
		// Rows are edited one attribute at a time, so nothing here is required.
		for _, a := range services.CascadeOrder {
			c.Fields.Add(&core.TextField{Name: string(a), Required: false})
		}
		addComponentInfoFields(c, currencies)
		c.Fields.Add(&core.NumberField{Name: "qty", Required: false})
		c.Fields.Add(&core.NumberField{Name: "factor", Required: false})
		c.Fields.Add(&core.NumberField{Name: "discount_percent", Required: false})
	})
}

// addComponentInfoFields adds the descriptive and pricing columns shared by
// catalog entries and material rows.
func addComponentInfoFields(c *core.Collection, currencies []string) {
	c.Fields.Add(&core.TextField{Name: "detail", Required: false})
	c.Fields.Add(&core.TextField{Name: "unit", Required: false})
	c.Fields.Add(&core.SelectField{
		Name:      "currency",
		Required:  false,
		Values:    currencies,
		MaxSelect: 1,
	})
	c.Fields.Add(&core.NumberField{Name: "international_price", Required: false})
	c.Fields.Add(&core.NumberField{Name: "local_price", Required: false})
	c.Fields.Add(&core.NumberField{Name: "man_hour", Required: false})
	c.Fields.Add(&core.TextField{Name: "vendor", Required: false})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		zap.L().Debug("setup: collection already exists", zap.String("collection", name))
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		zap.L().Fatal("setup: failed to create collection", zap.String("collection", name), zap.Error(err))
	}

	zap.L().Info("setup: created collection", zap.String("collection", name), zap.String("id", collection.Id))
	return collection
}
