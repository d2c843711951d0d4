package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panelestimator/services"
)

// HandlePanelTotals prices a panel and its rows.
// Route: GET /panels/{panelId}/totals
func HandlePanelTotals(app *pocketbase.PocketBase, pricing services.PricingConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		panelID := e.Request.PathValue("panelId")

		record, panel, err := loadPanel(app, panelID)
		if err != nil {
			if isNotFound(err) {
				return ErrorJSON(e, http.StatusNotFound, "Panel not found")
			}
			return InternalErrorJSON(e, "panel_totals", err, zap.String("panel", panelID))
		}

		price := services.CalcPanelPrice(panel, pricingForPanel(app, record, pricing))

		return e.JSON(http.StatusOK, map[string]any{
			"name":      panel.Name,
			"price":     price,
			"total":     services.FormatIDR(price.Total),
			"unitPrice": services.FormatIDR(price.UnitPrice),
		})
	}
}
