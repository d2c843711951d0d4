package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panelestimator/collections"
	"panelestimator/config"
	"panelestimator/handlers"
	"panelestimator/observability"
)

func main() {
	_ = godotenv.Load() // Load .env file if it exists

	cfg := config.LoadEnv()

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	pricing := cfg.Pricing
	zap.L().Info("main: starting",
		zap.String("env", cfg.Server.AppEnv),
		zap.Float64("exchange_rate", pricing.ExchangeRate),
	)

	pbConfig := pocketbase.Config{}
	if cfg.Server.DataDir != "" {
		pbConfig.DefaultDataDir = cfg.Server.DataDir
	}
	app := pocketbase.NewWithConfig(pbConfig)

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			zap.L().Warn("main: seed data failed", zap.Error(err))
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Catalog ──────────────────────────────────────────────
		se.Router.GET("/catalog/options", handlers.HandleCatalogOptions(app))
		se.Router.GET("/catalog/template", handlers.HandleCatalogTemplate())
		se.Router.POST("/catalog/import", handlers.HandleCatalogImport(app))

		// ── Panel materials ──────────────────────────────────────
		se.Router.POST("/panels/{panelId}/materials", handlers.HandleMaterialAdd(app, pricing))
		se.Router.PATCH("/panels/{panelId}/materials/{rowId}", handlers.HandleMaterialUpdate(app, pricing))
		se.Router.DELETE("/panels/{panelId}/materials/{rowId}", handlers.HandleMaterialDelete(app, pricing))
		se.Router.GET("/panels/{panelId}/totals", handlers.HandlePanelTotals(app, pricing))

		// ── Projects ─────────────────────────────────────────────
		se.Router.GET("/projects/{projectId}/totals", handlers.HandleProjectTotals(app, pricing))
		se.Router.POST("/projects/{projectId}/additional-costs", handlers.HandleAdditionalCostsSave(app, pricing))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		zap.L().Fatal("main: app stopped", zap.Error(err))
	}
}
