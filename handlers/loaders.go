package handlers

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"panelestimator/collections"
	"panelestimator/services"
)

// isNotFound reports whether err comes from a lookup that matched no record.
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// loadCatalogIndex reads the whole catalog in insertion order.
func loadCatalogIndex(app *pocketbase.PocketBase) (*services.CatalogIndex, error) {
	var records []*core.Record
	err := app.RecordQuery("catalog_entries").OrderBy("rowid ASC").All(&records)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	entries := make([]services.CatalogEntry, len(records))
	for i, r := range records {
		entries[i] = collections.CatalogEntryFromRecord(r)
	}
	return services.NewCatalogIndex(entries), nil
}

// findMaterialRecords returns a panel's rows in display order.
func findMaterialRecords(app *pocketbase.PocketBase, panelID string) ([]*core.Record, error) {
	return app.FindRecordsByFilter(
		"material_rows",
		"panel = {:panelId}",
		"sort_order,id",
		0, 0,
		dbx.Params{"panelId": panelID},
	)
}

// loadPanel reads a panel and its rows. The record is returned alongside so
// callers can check its project.
func loadPanel(app *pocketbase.PocketBase, panelID string) (*core.Record, services.Panel, error) {
	record, err := app.FindRecordById("panels", panelID)
	if err != nil {
		return nil, services.Panel{}, err
	}
	rows, err := findMaterialRecords(app, panelID)
	if err != nil {
		return nil, services.Panel{}, fmt.Errorf("load rows of panel %s: %w", panelID, err)
	}
	return record, collections.PanelFromRecord(record, rows), nil
}

// loadProject reads a project with all of its panels and their rows.
func loadProject(app *pocketbase.PocketBase, projectID string) (*core.Record, services.Project, error) {
	record, err := app.FindRecordById("projects", projectID)
	if err != nil {
		return nil, services.Project{}, err
	}
	project := collections.ProjectFromRecord(record)

	panelRecords, err := app.FindRecordsByFilter(
		"panels",
		"project = {:projectId}",
		"sort_order,id",
		0, 0,
		dbx.Params{"projectId": projectID},
	)
	if err != nil {
		return nil, services.Project{}, fmt.Errorf("load panels of project %s: %w", projectID, err)
	}

	project.Panels = make([]services.Panel, 0, len(panelRecords))
	for _, pr := range panelRecords {
		rows, err := findMaterialRecords(app, pr.Id)
		if err != nil {
			return nil, services.Project{}, fmt.Errorf("load rows of panel %s: %w", pr.Id, err)
		}
		project.Panels = append(project.Panels, collections.PanelFromRecord(pr, rows))
	}
	return record, project, nil
}

// projectPricing applies a project's own exchange rate when it has one.
func projectPricing(project *core.Record, base services.PricingConfig) services.PricingConfig {
	if rate := project.GetFloat("exchange_rate"); rate > 0 {
		base.ExchangeRate = rate
	}
	return base
}

// pricingForPanel resolves the exchange rate for a panel via its project.
// A dangling project reference falls back to the base pricing.
func pricingForPanel(app *pocketbase.PocketBase, panel *core.Record, base services.PricingConfig) services.PricingConfig {
	project, err := app.FindRecordById("projects", panel.GetString("project"))
	if err != nil {
		return base
	}
	return projectPricing(project, base)
}

// nextSortOrder returns one past the highest sort_order among a panel's rows.
func nextSortOrder(rows []*core.Record) int {
	highest := 0
	for _, r := range rows {
		if v := r.GetInt("sort_order"); v > highest {
			highest = v
		}
	}
	return highest + 1
}
