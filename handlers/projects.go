package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panelestimator/services"
)

// projectTotalsBody builds the JSON body shared by the totals and cost endpoints.
func projectTotalsBody(project services.Project, pricing services.PricingConfig) map[string]any {
	price := services.CalcProjectPrice(project, pricing)
	return map[string]any{
		"name":         project.Name,
		"exchangeRate": pricing.ExchangeRate,
		"price":        price,
		"total":        services.FormatIDR(price.Total),
		"totalInWords": services.AmountToWords(price.Total),
	}
}

// HandleProjectTotals prices every panel of a project plus its additional costs.
// Route: GET /projects/{projectId}/totals
func HandleProjectTotals(app *pocketbase.PocketBase, pricing services.PricingConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")

		record, project, err := loadProject(app, projectID)
		if err != nil {
			if isNotFound(err) {
				return ErrorJSON(e, http.StatusNotFound, "Project not found")
			}
			return InternalErrorJSON(e, "project_totals", err, zap.String("project", projectID))
		}

		return e.JSON(http.StatusOK, projectTotalsBody(project, projectPricing(record, pricing)))
	}
}

// HandleAdditionalCostsSave replaces a project's additional costs with the
// submitted form and returns the updated totals.
// Route: POST /projects/{projectId}/additional-costs
func HandleAdditionalCostsSave(app *pocketbase.PocketBase, pricing services.PricingConfig) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")

		record, err := app.FindRecordById("projects", projectID)
		if err != nil {
			if isNotFound(err) {
				return ErrorJSON(e, http.StatusNotFound, "Project not found")
			}
			return InternalErrorJSON(e, "additional_costs", err, zap.String("project", projectID))
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid form data")
		}

		costs, err := costForm(e.Request.PostForm)
		if err != nil {
			return ValidationErrorJSON(e, err)
		}

		record.Set("additional_costs", costs)
		if err := app.Save(record); err != nil {
			return InternalErrorJSON(e, "additional_costs", err, zap.String("project", projectID))
		}
		zap.L().Info("additional_costs: saved",
			zap.String("project", projectID),
			zap.Int("categories", len(costs)),
		)

		record, project, err := loadProject(app, projectID)
		if err != nil {
			return InternalErrorJSON(e, "additional_costs", err, zap.String("project", projectID))
		}

		return e.JSON(http.StatusOK, projectTotalsBody(project, projectPricing(record, pricing)))
	}
}
