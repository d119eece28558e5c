package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// sheetNameLimit is the hard cap the xlsx format places on sheet names.
const sheetNameLimit = 31

var sheetNameStripper = strings.NewReplacer(
	"[", "", "]", "", ":", "", "*", "", "?", "", "/", "", "\\", "",
)

// sanitizeSheetName strips forbidden characters, truncates to the format's
// limit and disambiguates collisions with a deterministic ~n suffix.
func sanitizeSheetName(title string, taken map[string]bool) string {
	name := sheetNameStripper.Replace(title)
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Sheet"
	}
	name = truncateRunes(name, sheetNameLimit)

	if !taken[strings.ToLower(name)] {
		taken[strings.ToLower(name)] = true
		return name
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf("~%d", n)
		base := name
		if utf8.RuneCountInString(base)+len(suffix) > sheetNameLimit {
			base = truncateRunes(base, sheetNameLimit-len(suffix))
		}
		candidate := base + suffix
		if !taken[strings.ToLower(candidate)] {
			taken[strings.ToLower(candidate)] = true
			return candidate
		}
	}
}

// truncateRunes cuts on rune boundaries; slicing bytes could split a
// multi-byte title and leave an invalid sheet name.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// RenderXLSX emits each section of the document as its own worksheet. Any
// failure from the spreadsheet engine is wrapped as UnsupportedFormatError so
// the assembler drops only this format, not the run.
func RenderXLSX(doc *Document, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2A5885"}},
	})
	if err != nil {
		return &UnsupportedFormatError{Format: FormatXLSX, Err: err}
	}

	cellStyles, err := newCellStyles(f)
	if err != nil {
		return &UnsupportedFormatError{Format: FormatXLSX, Err: err}
	}

	taken := make(map[string]bool)
	for _, section := range doc.Sections {
		sheet := sanitizeSheetName(section.Title, taken)
		if _, err := f.NewSheet(sheet); err != nil {
			return &UnsupportedFormatError{Format: FormatXLSX, Err: err}
		}

		rowIdx := 1
		if section.Kind == Tabular {
			if err := writeSheetRow(f, sheet, rowIdx, section.Columns); err != nil {
				return &UnsupportedFormatError{Format: FormatXLSX, Err: err}
			}
			endCol, _ := excelize.ColumnNumberToName(max(len(section.Columns), 1))
			_ = f.SetCellStyle(sheet, "A1", endCol+"1", headerStyle)
			rowIdx++
		}

		for _, row := range section.Rows {
			if err := writeSheetRow(f, sheet, rowIdx, row); err != nil {
				return &UnsupportedFormatError{Format: FormatXLSX, Err: err}
			}
			for i, style := range section.CellStyles(row) {
				if style == StyleNone {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx)
				_ = f.SetCellStyle(sheet, cell, cell, cellStyles[style])
			}
			rowIdx++
		}
	}

	// the workbook starts with a default sheet the report never uses
	_ = f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return &UnsupportedFormatError{Format: FormatXLSX, Err: err}
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func newCellStyles(f *excelize.File) (map[Style]int, error) {
	fills := map[Style]string{
		StyleBad:  "F8D0D0",
		StyleWarn: "FBEEC2",
		StyleNote: "D4E4F4",
	}
	styles := make(map[Style]int, len(fills))
	for style, color := range fills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return nil, err
		}
		styles[style] = id
	}
	return styles, nil
}
