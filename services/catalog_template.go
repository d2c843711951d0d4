package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const catalogSheetName = "Catalog"

// GenerateCatalogTemplate creates a downloadable .xlsx sheet whose headers
// ParseCatalogFile accepts, with dropdowns for Unit and Currency and a hidden
// Instructions sheet.
func GenerateCatalogTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), catalogSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	columns := columnLetters(len(CatalogColumns))
	for i, c := range CatalogColumns {
		cell := columns[i] + "1"
		header := c.Label
		style := optionalHeaderStyle
		if c.Required {
			header += " *"
			style = requiredHeaderStyle
		}
		f.SetCellValue(catalogSheetName, cell, header)
		f.SetCellStyle(catalogSheetName, cell, cell, style)

		width := float64(len(c.Label)) * 1.3
		if width < 12 {
			width = 12
		}
		f.SetColWidth(catalogSheetName, columns[i], columns[i], width)
	}

	currencies := make([]string, len(CurrencyOptions))
	for i, c := range CurrencyOptions {
		currencies[i] = string(c)
	}
	dropdowns := map[string][]string{
		"unit":     UnitOptions,
		"currency": currencies,
	}
	for i, c := range CatalogColumns {
		values, ok := dropdowns[c.Key]
		if !ok {
			continue
		}
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s1048576", columns[i], columns[i])
		if err := dv.SetDropList(values); err != nil {
			return nil, fmt.Errorf("dropdown for %s: %w", c.Key, err)
		}
		f.AddDataValidation(catalogSheetName, dv)
	}

	f.SetPanes(catalogSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addCatalogInstructions(f)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

func addCatalogInstructions(f *excelize.File) {
	sheet := "Instructions"
	f.NewSheet(sheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(sheet, "A1", "Catalog Import - Instructions")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	f.SetCellValue(sheet, "A2", fmt.Sprintf(
		"Item, Brand, Series, Pole, kA and Ampere together must be unique. Use %q for attributes that do not apply.",
		NotApplicable))

	cols := columnLetters(4)
	for i, h := range []string{"Column", "Required?", "Description", "Example"} {
		cell := fmt.Sprintf("%s4", cols[i])
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, c := range CatalogColumns {
		row := fmt.Sprintf("%d", i+5)
		req := "Optional"
		if c.Required {
			req = "Required"
		}
		f.SetCellValue(sheet, cols[0]+row, c.Label)
		f.SetCellValue(sheet, cols[1]+row, req)
		f.SetCellValue(sheet, cols[2]+row, c.Description)
		f.SetCellValue(sheet, cols[3]+row, c.Example)
	}

	for i, w := range []float64{22, 12, 55, 28} {
		f.SetColWidth(sheet, cols[i], cols[i], w)
	}

	f.SetSheetVisible(sheet, false)
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
