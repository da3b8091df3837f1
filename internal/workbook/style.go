package workbook

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const maxColumnWidth = 255

func (w *Workbook) style(key string, build func() *excelize.Style) (int, error) {
	if id, ok := w.styles[key]; ok {
		return id, nil
	}
	id, err := w.file.NewStyle(build())
	if err != nil {
		return 0, err
	}
	w.styles[key] = id
	return id, nil
}

// BoldRow sets a bold font on the first cols cells of row (1-based).
func (w *Workbook) BoldRow(sheet string, row, cols int) error {
	if cols == 0 {
		return nil
	}
	id, err := w.style("bold", func() *excelize.Style {
		return &excelize.Style{Font: &excelize.Font{Bold: true}}
	})
	if err != nil {
		return err
	}
	return w.styleRange(sheet, row, cols, id)
}

// FillRow applies a solid fill of the given RRGGBB color to the first cols
// cells of row.
func (w *Workbook) FillRow(sheet string, row, cols int, hex string) error {
	if cols == 0 {
		return nil
	}
	id, err := w.style("fill:"+hex, func() *excelize.Style {
		return &excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex}},
		}
	})
	if err != nil {
		return err
	}
	return w.styleRange(sheet, row, cols, id)
}

func (w *Workbook) styleRange(sheet string, row, cols, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return w.file.SetCellStyle(sheet, first, last, style)
}

func (w *Workbook) SetTabColor(sheet, hex string) error {
	return w.file.SetSheetProps(sheet, &excelize.SheetPropsOptions{TabColorRGB: &hex})
}

// FitColumns sizes each column to its longest value plus two, capped at
// maxWidth. Empty cells do not count.
func (w *Workbook) FitColumns(sheet string, maxWidth float64) error {
	rows, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	var longest []int
	for _, row := range rows {
		for col, v := range row {
			for len(longest) <= col {
				longest = append(longest, 0)
			}
			if n := utf8.RuneCountInString(v); n > longest[col] {
				longest[col] = n
			}
		}
	}
	for col, n := range longest {
		width := ColumnWidth(n, maxWidth)
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := w.file.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}
	return nil
}

// ColumnWidth is min(longest+2, maxWidth).
func ColumnWidth(longest int, maxWidth float64) float64 {
	width := float64(longest + 2)
	if maxWidth > 0 && width > maxWidth {
		width = maxWidth
	}
	if width > maxColumnWidth {
		width = maxColumnWidth
	}
	return width
}
