package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"panelestimator/collections"
	"panelestimator/services"
)

// maxUploadSize bounds multipart catalog uploads.
const maxUploadSize = 10 << 20

// HandleCatalogOptions lists the distinct values of one attribute among the
// catalog entries consistent with the attributes already chosen.
// Route: GET /catalog/options?target=brand&item=MCCB
func HandleCatalogOptions(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		query := e.Request.URL.Query()

		target, ok := services.ParseAttribute(query.Get("target"))
		if !ok {
			return ErrorJSON(e, http.StatusBadRequest, "target must be one of item, brand, series, pole, ka, ampere")
		}

		var partial services.ComponentKey
		for _, a := range services.CascadeOrder {
			partial = partial.With(a, query.Get(string(a)))
		}

		idx, err := loadCatalogIndex(app)
		if err != nil {
			return InternalErrorJSON(e, "catalog_options", err)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"target":  target,
			"options": idx.OptionsFor(partial, target),
		})
	}
}

// skippedEntry describes an uploaded entry whose key already exists.
type skippedEntry struct {
	services.ComponentKey
	Detail string `json:"detail"`
	Reason string `json:"reason"`
}

// HandleCatalogImport parses an uploaded .csv or .xlsx catalog sheet and adds
// the valid entries. Entries whose six-attribute key is already in the
// catalog are skipped and reported; existing entries are never modified.
// Route: POST /catalog/import
func HandleCatalogImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(maxUploadSize); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ParseCatalogFile(file, header.Filename)
		if err != nil {
			if !errors.Is(err, services.ErrUnsupportedFileType) && !errors.Is(err, services.ErrEmptyCatalogFile) {
				zap.L().Warn("catalog_import: could not parse file", zap.String("file", header.Filename), zap.Error(err))
			}
			return ErrorJSON(e, http.StatusBadRequest, err.Error())
		}

		idx, err := loadCatalogIndex(app)
		if err != nil {
			return InternalErrorJSON(e, "catalog_import", err)
		}

		var skipped []skippedEntry
		imported := 0
		err = app.RunInTransaction(func(txApp core.App) error {
			col, err := txApp.FindCollectionByNameOrId("catalog_entries")
			if err != nil {
				return err
			}
			for _, entry := range result.Entries {
				if _, exists := idx.Lookup(entry.ComponentKey); exists {
					skipped = append(skipped, skippedEntry{
						ComponentKey: entry.ComponentKey,
						Detail:       entry.Detail,
						Reason:       "already in catalog",
					})
					continue
				}
				r := core.NewRecord(col)
				collections.SetComponentKey(r, entry.ComponentKey)
				collections.SetComponentInfo(r, entry.ComponentInfo)
				if err := txApp.Save(r); err != nil {
					return err
				}
				imported++
			}
			return nil
		})
		if err != nil {
			return InternalErrorJSON(e, "catalog_import", err, zap.String("file", header.Filename))
		}

		zap.L().Info("catalog_import: imported catalog entries",
			zap.String("file", header.Filename),
			zap.Int("imported", imported),
			zap.Int("skipped", len(skipped)),
			zap.Int("error_rows", result.ErrorRows),
		)

		if skipped == nil {
			skipped = []skippedEntry{}
		}
		errs := result.Errors
		if errs == nil {
			errs = []services.ValidationError{}
		}
		return e.JSON(http.StatusOK, map[string]any{
			"fileName":  header.Filename,
			"totalRows": result.TotalRows,
			"validRows": result.ValidRows,
			"errorRows": result.ErrorRows,
			"errors":    errs,
			"imported":  imported,
			"skipped":   skipped,
		})
	}
}

// HandleCatalogTemplate serves an empty catalog sheet for HandleCatalogImport.
// Route: GET /catalog/template
func HandleCatalogTemplate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateCatalogTemplate()
		if err != nil {
			return InternalErrorJSON(e, "catalog_template", err)
		}

		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="Catalog_Template.xlsx"`)
		_, err = e.Response.Write(xlsxBytes)
		return err
	}
}
