// Package workbook wraps excelize with the few spreadsheet operations the
// pipeline needs: typed table reads, table writes and sheet cosmetics.
package workbook

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"positive-area/internal/models"
)

var ErrSheetNotFound = errors.New("sheet not found")

// MaxSheetNameLength is the container limit on sheet names, in characters.
const MaxSheetNameLength = 31

// Table is a sheet read as a header row followed by data rows. Rows are
// padded to the header width and fully blank rows are dropped; Lines keeps
// the 1-based sheet row of every remaining data row.
type Table struct {
	Header []string
	Rows   [][]models.Cell
	Lines  []int
}

// Column returns the index of the named header or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

type Workbook struct {
	file   *excelize.File
	styles map[string]int
}

func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &Workbook{file: f, styles: make(map[string]int)}, nil
}

// New creates an empty workbook whose only sheet is named first.
func New(first string) (*Workbook, error) {
	f := excelize.NewFile()
	if first != "" {
		if err := f.SetSheetName(f.GetSheetName(0), first); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("name first sheet: %w", err)
		}
	}
	return &Workbook{file: f, styles: make(map[string]int)}, nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// FindSheet resolves name case-insensitively and returns the stored name.
func (w *Workbook) FindSheet(name string) (string, bool) {
	for _, s := range w.file.GetSheetList() {
		if strings.EqualFold(s, name) {
			return s, true
		}
	}
	return "", false
}

func (w *Workbook) ReadTable(sheet string) (*Table, error) {
	name, ok := w.FindSheet(sheet)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	rows, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	table := &Table{}
	if len(rows) == 0 {
		return table, nil
	}
	table.Header = append([]string(nil), rows[0]...)
	width := len(table.Header)
	for _, r := range rows[1:] {
		if len(r) > width {
			width = len(r)
		}
	}
	for len(table.Header) < width {
		table.Header = append(table.Header, "")
	}

	for i, raw := range rows[1:] {
		rowNum := i + 2
		cells := make([]models.Cell, width)
		blank := true
		for col := 0; col < width; col++ {
			if col >= len(raw) || raw[col] == "" {
				continue
			}
			blank = false
			cell, err := w.cell(name, col+1, rowNum, raw[col])
			if err != nil {
				return nil, err
			}
			cells[col] = cell
		}
		if !blank {
			table.Rows = append(table.Rows, cells)
			table.Lines = append(table.Lines, rowNum)
		}
	}
	return table, nil
}

func (w *Workbook) cell(sheet string, col, row int, raw string) (models.Cell, error) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return models.Cell{}, err
	}
	typ, err := w.file.GetCellType(sheet, ref)
	if err != nil {
		return models.Cell{}, fmt.Errorf("cell %s!%s: %w", sheet, ref, err)
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if _, err := strconv.ParseFloat(raw, 64); err == nil {
			return models.Cell{Value: raw, Numeric: true}, nil
		}
	}
	return models.TextCell(raw), nil
}

// WriteTable writes header and rows starting at A1. Numeric cells are
// stored as numbers; NaN becomes the text "NaN".
func (w *Workbook) WriteTable(sheet string, header []string, rows [][]models.Cell) error {
	for col, h := range header {
		ref, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := w.file.SetCellStr(sheet, ref, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for col, c := range row {
			if c.IsEmpty() {
				continue
			}
			ref, _ := excelize.CoordinatesToCellName(col+1, r+2)
			if err := w.setCell(sheet, ref, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Workbook) setCell(sheet, ref string, c models.Cell) error {
	if v, ok := c.Float(); ok && c.Numeric {
		if math.IsNaN(v) {
			return w.file.SetCellStr(sheet, ref, "NaN")
		}
		return w.file.SetCellFloat(sheet, ref, v, -1, 64)
	}
	return w.file.SetCellStr(sheet, ref, c.Value)
}

// ReplaceSheet drops sheet and recreates it empty at the end of the list.
func (w *Workbook) ReplaceSheet(sheet string) error {
	if _, ok := w.FindSheet(sheet); ok {
		if err := w.file.DeleteSheet(sheet); err != nil {
			return fmt.Errorf("delete sheet %s: %w", sheet, err)
		}
	}
	return w.AddSheet(sheet)
}

func (w *Workbook) AddSheet(sheet string) error {
	if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	return nil
}

// MoveAfter positions sheet immediately after anchor.
func (w *Workbook) MoveAfter(sheet, anchor string) error {
	var rest []string
	for _, s := range w.file.GetSheetList() {
		if !strings.EqualFold(s, sheet) {
			rest = append(rest, s)
		}
	}
	pos := -1
	for i, s := range rest {
		if strings.EqualFold(s, anchor) {
			pos = i
		}
	}
	if pos < 0 {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, anchor)
	}
	if pos+1 < len(rest) {
		return w.file.MoveSheet(sheet, rest[pos+1])
	}
	// anchor is last: put sheet before it, then swap the two
	if err := w.file.MoveSheet(sheet, anchor); err != nil {
		return err
	}
	return w.file.MoveSheet(anchor, sheet)
}

// Activate makes sheet the one shown when the file is opened.
func (w *Workbook) Activate(sheet string) error {
	idx, err := w.file.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	w.file.SetActiveSheet(idx)
	return nil
}

func (w *Workbook) SaveAs(path string) error {
	return w.file.SaveAs(path)
}
