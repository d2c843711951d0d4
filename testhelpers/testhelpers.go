// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"panelestimator/collections"
	"panelestimator/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The global logger writes to the test log for the duration of the test.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	restore := zap.ReplaceGlobals(zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)))
	t.Cleanup(restore)

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestCatalogEntry creates a catalog entry priced in IDR and returns it.
func CreateTestCatalogEntry(t *testing.T, app *pocketbase.PocketBase, item, brand, series, pole, ka, ampere string, localPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("catalog_entries")
	if err != nil {
		t.Fatalf("failed to find catalog_entries collection: %v", err)
	}

	record := core.NewRecord(col)
	collections.SetComponentKey(record, services.ComponentKey{
		Item: item, Brand: brand, Series: series, Pole: pole, KA: ka, Ampere: ampere,
	})
	collections.SetComponentInfo(record, services.ComponentInfo{
		Detail:     strings.Join([]string{item, series, pole, ka + "kA", ampere + "A"}, " "),
		Unit:       "Pcs",
		Currency:   services.CurrencyIDR,
		LocalPrice: localPrice,
		ManHour:    18000,
		Vendor:     "PT Test Vendor",
	})

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test catalog entry: %v", err)
	}

	return record
}

// CreateTestProject creates a project record with the given name and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("customer", "PT Test Customer")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestPanel creates a panel record linked to a project and returns it.
func CreateTestPanel(t *testing.T, app *pocketbase.PocketBase, projectID, name string, qty, unitPriceOverride float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("panels")
	if err != nil {
		t.Fatalf("failed to find panels collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("name", name)
	record.Set("qty", qty)
	record.Set("unit_price_override", unitPriceOverride)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test panel: %v", err)
	}

	return record
}

// CreateTestMaterialRow creates a material row under a panel.
func CreateTestMaterialRow(t *testing.T, app *pocketbase.PocketBase, panelID string, row services.MaterialRow) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("material_rows")
	if err != nil {
		t.Fatalf("failed to find material_rows collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("panel", panelID)
	collections.SetMaterialRow(record, row)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test material row: %v", err)
	}

	return record
}

// SampleMaterialRow returns a resolved MCCB row that prices at 468,000 IDR
// (500,000 less 10% plus 18,000 man-hour, qty 1).
func SampleMaterialRow() services.MaterialRow {
	return services.MaterialRow{
		ComponentKey: services.ComponentKey{
			Item: "MCCB", Brand: "Schneider", Series: "NSX", Pole: "1P", KA: "10", Ampere: "50-70",
		},
		ComponentInfo: services.ComponentInfo{
			Detail:     "MCCB NSX 1P 10kA 50-70A",
			Unit:       "Pcs",
			Currency:   services.CurrencyIDR,
			LocalPrice: 500000,
			ManHour:    18000,
		},
		Qty:             1,
		Factor:          1,
		DiscountPercent: 10,
	}
}

// DecodeJSON unmarshals a response body, failing the test on malformed JSON.
func DecodeJSON(t *testing.T, body string) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("response is not a JSON object: %v\nbody (first 500 chars): %s", err, truncate(body, 500))
	}
	return out
}

// AssertBodyContains checks that body contains all specified fragments.
func AssertBodyContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected body to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
