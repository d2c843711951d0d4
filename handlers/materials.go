package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panelestimator/collections"
	"panelestimator/services"
)

// rowResponse is the JSON shape returned for a single material row.
type rowResponse struct {
	Row        services.MaterialRow `json:"row"`
	Resolution services.Resolution  `json:"resolution"`
	Next       services.Attribute   `json:"next,omitempty"`
	Price      services.RowPrice    `json:"price"`
	Ready      bool                 `json:"ready"`
}

func newRowResponse(idx *services.CatalogIndex, row services.MaterialRow, pricing services.PricingConfig) rowResponse {
	resp := rowResponse{
		Row:        row,
		Resolution: services.Resolve(idx, row),
		Price:      services.CalcRowPrice(row, pricing),
		Ready:      row.Ready(),
	}
	if next, ok := services.NextAttribute(row); ok {
		resp.Next = next
	}
	return resp
}

// findPanelRow loads a material row and checks that it belongs to the panel.
func findPanelRow(app *pocketbase.PocketBase, panelID, rowID string) (*core.Record, bool, error) {
	record, err := app.FindRecordById("material_rows", rowID)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if record.GetString("panel") != panelID {
		return nil, false, nil
	}
	return record, true, nil
}

// HandleMaterialAdd appends a row to a panel. With an "entry" form value the
// row is copied from that catalog entry; otherwise it starts empty.
// Route: POST /panels/{panelId}/materials
func HandleMaterialAdd(app *pocketbase.PocketBase, pricing services.PricingConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		panelID := e.Request.PathValue("panelId")

		panel, err := app.FindRecordById("panels", panelID)
		if err != nil {
			if isNotFound(err) {
				return ErrorJSON(e, http.StatusNotFound, "Panel not found")
			}
			return InternalErrorJSON(e, "material_add", err, zap.String("panel", panelID))
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid form data")
		}

		row := services.MaterialRow{Qty: 1, Factor: 1}
		if entryID := e.Request.FormValue("entry"); entryID != "" {
			entryRecord, err := app.FindRecordById("catalog_entries", entryID)
			if err != nil {
				if isNotFound(err) {
					return ErrorJSON(e, http.StatusNotFound, "Catalog entry not found")
				}
				return InternalErrorJSON(e, "material_add", err, zap.String("entry", entryID))
			}
			row = services.RowFromEntry(collections.CatalogEntryFromRecord(entryRecord))
		}

		existing, err := findMaterialRecords(app, panelID)
		if err != nil {
			return InternalErrorJSON(e, "material_add", err, zap.String("panel", panelID))
		}

		col, err := app.FindCollectionByNameOrId("material_rows")
		if err != nil {
			return InternalErrorJSON(e, "material_add", err)
		}
		record := core.NewRecord(col)
		record.Set("panel", panelID)
		record.Set("sort_order", nextSortOrder(existing))
		collections.SetMaterialRow(record, row)
		if err := app.Save(record); err != nil {
			return InternalErrorJSON(e, "material_add", err, zap.String("panel", panelID))
		}
		row.ID = record.Id

		idx, err := loadCatalogIndex(app)
		if err != nil {
			return InternalErrorJSON(e, "material_add", err)
		}

		zap.L().Debug("material_add: row created", zap.String("panel", panelID), zap.String("row", record.Id))
		return e.JSON(http.StatusCreated, newRowResponse(idx, row, pricingForPanel(app, panel, pricing)))
	}
}

// HandleMaterialUpdate edits one row. An "attribute" form value (with
// "value") runs the cascade change; any of qty, factor, discount_percent and
// man_hour set those fields directly without re-resolving the row. When both
// are present the cascade change is applied first.
// Route: PATCH /panels/{panelId}/materials/{rowId}
func HandleMaterialUpdate(app *pocketbase.PocketBase, pricing services.PricingConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		panelID := e.Request.PathValue("panelId")
		rowID := e.Request.PathValue("rowId")

		panel, err := app.FindRecordById("panels", panelID)
		if err != nil {
			if isNotFound(err) {
				return ErrorJSON(e, http.StatusNotFound, "Panel not found")
			}
			return InternalErrorJSON(e, "material_update", err, zap.String("panel", panelID))
		}

		record, found, err := findPanelRow(app, panelID, rowID)
		if err != nil {
			return InternalErrorJSON(e, "material_update", err, zap.String("row", rowID))
		}
		if !found {
			return ErrorJSON(e, http.StatusNotFound, "Material row not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid form data")
		}
		form := e.Request.Form
		has := func(name string) bool { _, ok := form[name]; return ok }

		var attr services.Attribute
		if has("attribute") {
			a, ok := services.ParseAttribute(form.Get("attribute"))
			if !ok {
				return ErrorJSON(e, http.StatusBadRequest, "attribute must be one of item, brand, series, pole, ka, ampere")
			}
			attr = a
		}

		numbers, err := numericForm(form.Get, has)
		if err != nil {
			return ValidationErrorJSON(e, err)
		}
		if attr == "" && len(numbers) == 0 {
			return ErrorJSON(e, http.StatusBadRequest, "Nothing to update")
		}

		idx, err := loadCatalogIndex(app)
		if err != nil {
			return InternalErrorJSON(e, "material_update", err)
		}

		row := collections.MaterialRowFromRecord(record)
		if attr != "" {
			row = services.ApplyAttributeChange(idx, row, attr, form.Get("value"))
		}
		for _, f := range services.NumericFields {
			if v, ok := numbers[f]; ok {
				row = services.ApplyNumericChange(row, f, v)
			}
		}

		collections.SetMaterialRow(record, row)
		if err := app.Save(record); err != nil {
			return InternalErrorJSON(e, "material_update", err, zap.String("row", rowID))
		}

		return e.JSON(http.StatusOK, newRowResponse(idx, row, pricingForPanel(app, panel, pricing)))
	}
}

// HandleMaterialDelete removes a row and returns the panel's new totals.
// Route: DELETE /panels/{panelId}/materials/{rowId}
func HandleMaterialDelete(app *pocketbase.PocketBase, pricing services.PricingConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		panelID := e.Request.PathValue("panelId")
		rowID := e.Request.PathValue("rowId")

		record, found, err := findPanelRow(app, panelID, rowID)
		if err != nil {
			return InternalErrorJSON(e, "material_delete", err, zap.String("row", rowID))
		}
		if !found {
			return ErrorJSON(e, http.StatusNotFound, "Material row not found")
		}

		if err := app.Delete(record); err != nil {
			return InternalErrorJSON(e, "material_delete", err, zap.String("row", rowID))
		}

		panelRecord, panel, err := loadPanel(app, panelID)
		if err != nil {
			return InternalErrorJSON(e, "material_delete", err, zap.String("panel", panelID))
		}

		zap.L().Debug("material_delete: row deleted", zap.String("panel", panelID), zap.String("row", rowID))
		return e.JSON(http.StatusOK, map[string]any{
			"deleted": rowID,
			"panel":   services.CalcPanelPrice(panel, pricingForPanel(app, panelRecord, pricing)),
		})
	}
}
