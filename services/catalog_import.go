package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFileType is returned for uploads that are neither .csv nor .xlsx.
	ErrUnsupportedFileType = errors.New("unsupported file format: must be .csv or .xlsx")
	// ErrEmptyCatalogFile is returned when a file has no data rows below its header.
	ErrEmptyCatalogFile = errors.New("file must contain a header row and at least one data row")
)

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CatalogImportResult is returned after parsing and validating a catalog sheet.
// Entries holds only the rows that passed validation, in file order.
type CatalogImportResult struct {
	TotalRows int               `json:"totalRows"`
	ValidRows int               `json:"validRows"`
	ErrorRows int               `json:"errorRows"`
	Errors    []ValidationError `json:"errors"`
	Entries   []CatalogEntry    `json:"-"`
	FileName  string            `json:"-"`
}

// CatalogColumn describes one column of the catalog sheet.
type CatalogColumn struct {
	Key         string
	Label       string
	Aliases     []string
	Required    bool
	Description string
	Example     string
}

// CatalogColumns lists the recognised catalog sheet columns.
var CatalogColumns = []CatalogColumn{
	{Key: "item", Label: "Item", Required: true, Description: "Component type", Example: "MCCB"},
	{Key: "brand", Label: "Brand", Required: true, Description: "Manufacturer", Example: "Schneider"},
	{Key: "series", Label: "Series", Required: true, Description: "Product series, or - when not applicable", Example: "NSX"},
	{Key: "pole", Label: "Pole", Required: true, Description: "Pole count, or - when not applicable", Example: "3P"},
	{Key: "ka", Label: "kA", Aliases: []string{"breaking capacity"}, Required: true, Description: "Breaking capacity in kA, or -", Example: "36"},
	{Key: "ampere", Label: "Ampere", Aliases: []string{"amp", "rating"}, Required: true, Description: "Rated current or size", Example: "160"},
	{Key: "detail", Label: "Detail", Aliases: []string{"description"}, Description: "Description shown on the quotation", Example: "MCCB NSX160F 3P 36kA"},
	{Key: "unit", Label: "Unit", Aliases: []string{"uom"}, Description: "Unit of measure", Example: "Pcs"},
	{Key: "currency", Label: "Currency", Description: "IDR or USD; defaults to USD when only the international price is set", Example: "IDR"},
	{Key: "international_price", Label: "International Price", Aliases: []string{"price usd", "usd price"}, Description: "Purchase price in USD", Example: "195"},
	{Key: "local_price", Label: "Local Price", Aliases: []string{"price idr", "idr price"}, Description: "Purchase price in IDR", Example: "3450000"},
	{Key: "man_hour", Label: "Man Hour", Aliases: []string{"manhour", "labor"}, Description: "Labour cost per unit in IDR", Example: "25000"},
	{Key: "vendor", Label: "Vendor", Aliases: []string{"supplier"}, Description: "Supplier name", Example: "PT Schneider Indonesia"},
}

// ParseCatalogFile reads a .csv or .xlsx catalog sheet and validates each row.
// File-level problems return an error; row-level problems are collected in
// the result and the offending rows are left out of Entries.
func ParseCatalogFile(file io.Reader, fileName string) (*CatalogImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, ErrUnsupportedFileType
	}
	if err != nil {
		return nil, err
	}

	columnKeys, unrecognized := mapCatalogHeaders(headers)
	present := make(map[string]bool, len(columnKeys))
	for _, k := range columnKeys {
		present[k] = true
	}
	var missing []string
	for _, a := range CascadeOrder {
		if !present[string(a)] {
			missing = append(missing, string(a))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns %s (unrecognized: %s)",
			strings.Join(missing, ", "), strings.Join(unrecognized, ", "))
	}

	result := &CatalogImportResult{FileName: fileName}
	seen := make(map[ComponentKey]int)

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row

		data := make(map[string]string, len(columnKeys))
		blank := true
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[colIdx])
			data[key] = v
			if v != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		result.TotalRows++

		entry, rowErrors := parseCatalogRow(rowNum, data)
		if len(rowErrors) == 0 {
			if first, dup := seen[entry.ComponentKey]; dup {
				rowErrors = append(rowErrors, ValidationError{
					Row:     rowNum,
					Field:   "Item",
					Message: fmt.Sprintf("duplicate of row %d: item, brand, series, pole, kA and ampere must be unique", first),
				})
			} else {
				seen[entry.ComponentKey] = rowNum
			}
		}

		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorRows++
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	result.ValidRows = len(result.Entries)
	return result, nil
}

func parseCatalogRow(rowNum int, data map[string]string) (CatalogEntry, []ValidationError) {
	var errs []ValidationError
	fail := func(field, msg string) {
		errs = append(errs, ValidationError{Row: rowNum, Field: field, Message: msg})
	}

	var e CatalogEntry
	for _, a := range CascadeOrder {
		v := data[string(a)]
		if v == "" {
			label := columnLabel(string(a))
			fail(label, fmt.Sprintf("%s is required (use %q when not applicable)", label, NotApplicable))
			continue
		}
		e.ComponentKey = e.ComponentKey.With(a, v)
	}

	e.Detail = data["detail"]
	e.Unit = data["unit"]
	e.Vendor = data["vendor"]

	amount := func(key string) float64 {
		raw := strings.ReplaceAll(data[key], ",", "")
		if raw == "" {
			return 0
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			fail(columnLabel(key), fmt.Sprintf("%s must be a number", columnLabel(key)))
			return 0
		}
		if v < 0 {
			fail(columnLabel(key), fmt.Sprintf("%s cannot be negative", columnLabel(key)))
			return 0
		}
		return v
	}
	e.InternationalPrice = amount("international_price")
	e.LocalPrice = amount("local_price")
	e.ManHour = amount("man_hour")

	switch c := Currency(strings.ToUpper(data["currency"])); {
	case c == "":
		e.Currency = CurrencyIDR
		if e.InternationalPrice > 0 && e.LocalPrice == 0 {
			e.Currency = CurrencyUSD
		}
	case ValidCurrency(c):
		e.Currency = c
	default:
		fail("Currency", fmt.Sprintf("Currency must be one of IDR, USD (got %q)", data["currency"]))
	}

	return e, errs
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, ErrEmptyCatalogFile
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, ErrEmptyCatalogFile
	}
	return rows[0], rows[1:], nil
}

// mapCatalogHeaders maps sheet headers to column keys. Returns one key per
// header ("" for unrecognized ones) and the unrecognized header texts.
func mapCatalogHeaders(headers []string) ([]string, []string) {
	lookup := make(map[string]string)
	for _, c := range CatalogColumns {
		lookup[normalizeHeader(c.Key)] = c.Key
		lookup[normalizeHeader(c.Label)] = c.Key
		for _, alias := range c.Aliases {
			lookup[normalizeHeader(alias)] = c.Key
		}
	}

	mapped := make([]string, len(headers))
	var unrecognized []string
	for i, h := range headers {
		if key, ok := lookup[normalizeHeader(h)]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// normalizeHeader lowercases and strips the " *" required marker, spaces,
// underscores and hyphens so "International Price *" matches "international_price".
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimSuffix(h, "*")
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func columnLabel(key string) string {
	for _, c := range CatalogColumns {
		if c.Key == key {
			return c.Label
		}
	}
	return key
}
