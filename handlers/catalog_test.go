package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"panelestimator/testhelpers"
)

func TestHandleCatalogOptions_Narrowing(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestCatalogEntry(t, app, "MCCB", "Schneider", "NSX", "3P", "36", "100", 2750000)
	testhelpers.CreateTestCatalogEntry(t, app, "MCCB", "Schneider", "NSX", "3P", "36", "160", 3450000)
	testhelpers.CreateTestCatalogEntry(t, app, "MCCB", "ABB", "Tmax XT", "3P", "36", "160", 3100000)
	testhelpers.CreateTestCatalogEntry(t, app, "MCB", "ABB", "S200", "1P", "6", "16", 79000)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"items", "target=item", []string{"MCCB", "MCB"}},
		{"brands of MCCB", "target=brand&item=MCCB", []string{"Schneider", "ABB"}},
		{"amperes of NSX", "target=ampere&item=MCCB&brand=Schneider&series=NSX&pole=3P&ka=36", []string{"100", "160"}},
		{"nothing matches", "target=brand&item=RCCB", []string{}},
	}
	handler := HandleCatalogOptions(app)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/catalog/options?"+tt.query, nil)
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, req, rec)
			if err := handler(e); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}

			body := testhelpers.DecodeJSON(t, rec.Body.String())
			got, ok := body["options"].([]any)
			if !ok {
				t.Fatalf("options is not a list: %v", body["options"])
			}
			if len(got) != len(tt.want) {
				t.Fatalf("options = %v, want %v", got, tt.want)
			}
			for i, w := range tt.want {
				if got[i] != w {
					t.Errorf("options[%d] = %v, want %q", i, got[i], w)
				}
			}
		})
	}
}

func TestHandleCatalogOptions_InvalidTarget(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleCatalogOptions(app)

	for _, q := range []string{"", "target=voltage"} {
		req := httptest.NewRequest(http.MethodGet, "/catalog/options?"+q, nil)
		rec := httptest.NewRecorder()
		e := newTestRequestEvent(app, req, rec)
		if err := handler(e); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("query %q: expected 400, got %d", q, rec.Code)
		}
	}
}

// multipartUpload builds a request carrying content as the "file" field.
func multipartUpload(t *testing.T, fileName string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/catalog/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHandleCatalogImport_CSV(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestCatalogEntry(t, app, "MCCB", "Schneider", "NSX", "3P", "36", "100", 2750000)

	csv := "Item,Brand,Series,Pole,kA,Ampere,Detail,Unit,Currency,International Price,Local Price,Man Hour,Vendor\n" +
		"MCCB,Schneider,NSX,3P,36,100,MCCB NSX100F,Pcs,IDR,,2750000,25000,PT Schneider\n" +
		"MCCB,Schneider,NSX,3P,36,160,MCCB NSX160F,Pcs,IDR,,3450000,25000,PT Schneider\n" +
		"MCB,ABB,S200,1P,6,16,MCB S201,Pcs,USD,4.8,,7500,PT ABB\n" +
		"MCB,ABB,S200,1P,6,,MCB S201 missing ampere,Pcs,USD,4.8,,7500,PT ABB\n"

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, multipartUpload(t, "catalog.csv", []byte(csv)), rec)
	if err := HandleCatalogImport(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := testhelpers.DecodeJSON(t, rec.Body.String())
	if body["imported"] != float64(2) {
		t.Errorf("imported = %v, want 2", body["imported"])
	}
	if skipped, _ := body["skipped"].([]any); len(skipped) != 1 {
		t.Errorf("expected 1 skipped entry, got %v", body["skipped"])
	}
	if body["errorRows"] != float64(1) {
		t.Errorf("errorRows = %v, want 1", body["errorRows"])
	}

	entries, _ := app.FindAllRecords("catalog_entries")
	if len(entries) != 3 {
		t.Errorf("expected 3 catalog entries after import, got %d", len(entries))
	}

	existing, _ := app.FindRecordsByFilter("catalog_entries", "ampere = '100'", "", 1, 0)
	if len(existing) != 1 || existing[0].GetString("detail") != "MCCB NSX 3P 36kA 100A" {
		t.Error("existing entry must not be modified by import")
	}
}

func TestHandleCatalogImport_NonFinitePriceKeepsValidRows(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	csv := "Item,Brand,Series,Pole,kA,Ampere,Detail,Unit,Currency,International Price,Local Price,Man Hour,Vendor\n" +
		"MCB,ABB,S200,1P,6,16,MCB S201,Pcs,IDR,,79000,7500,PT ABB\n" +
		"MCB,ABB,S200,1P,6,20,MCB S201,Pcs,IDR,,NaN,7500,PT ABB\n"

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, multipartUpload(t, "catalog.csv", []byte(csv)), rec)
	if err := HandleCatalogImport(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := testhelpers.DecodeJSON(t, rec.Body.String())
	if body["imported"] != float64(1) {
		t.Errorf("imported = %v, want 1", body["imported"])
	}
	if body["errorRows"] != float64(1) {
		t.Errorf("errorRows = %v, want 1", body["errorRows"])
	}
	testhelpers.AssertBodyContains(t, rec.Body.String(), "must be a number")

	entries, _ := app.FindAllRecords("catalog_entries")
	if len(entries) != 1 || entries[0].GetString("ampere") != "16" {
		t.Errorf("expected only the 16A entry to be imported, got %d entries", len(entries))
	}
}

func TestHandleCatalogImport_UnsupportedFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, multipartUpload(t, "catalog.txt", []byte("hello")), rec)
	if err := HandleCatalogImport(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	testhelpers.AssertBodyContains(t, rec.Body.String(), "unsupported file format")
}

func TestHandleCatalogImport_MissingColumns(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	csv := "Item,Brand,Detail\nMCCB,Schneider,Something\n"
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, multipartUpload(t, "catalog.csv", []byte(csv)), rec)
	if err := HandleCatalogImport(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	testhelpers.AssertBodyContains(t, rec.Body.String(), "missing required columns")
}

func TestHandleCatalogImport_NoFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("note", "no file here")
	_ = w.Close()
	req := httptest.NewRequest(http.MethodPost, "/catalog/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := HandleCatalogImport(app)(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCatalogTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/catalog/template", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := HandleCatalogTemplate()(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("unexpected content type %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected a non-empty workbook")
	}
}
