// Package report groups processed slides by channel signature and builds
// the summary workbook.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"positive-area/internal/logger"
	"positive-area/internal/models"
	"positive-area/internal/workbook"
)

const SummarySheet = "Summary"

var ErrNoGroups = errors.New("no valid processed files found")

var summaryHeader = []string{models.SlideNameColumn, models.FilePathColumn, "Group"}

// Summary describes a written summary workbook.
type Summary struct {
	Path   string
	Files  int
	Groups int
	// Sheets lists every sheet in order, the summary sheet first.
	Sheets []string
}

type Builder struct {
	SummaryMaxWidth float64
	SheetMaxWidth   float64
	logger          logger.Logger
}

func NewBuilder(summaryMaxWidth, sheetMaxWidth float64, log logger.Logger) *Builder {
	return &Builder{
		SummaryMaxWidth: summaryMaxWidth,
		SheetMaxWidth:   sheetMaxWidth,
		logger:          log,
	}
}

// Build writes the summary sheet followed by one tab-colored sheet per
// slide, in group rank order.
func (b *Builder) Build(grouping *Grouping, outPath string) (*Summary, error) {
	if grouping == nil || len(grouping.Groups) == 0 {
		return nil, ErrNoGroups
	}

	wb, err := workbook.New(SummarySheet)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	if err := b.writeIndex(wb, grouping); err != nil {
		return nil, err
	}

	names := NewSheetNamer(SummarySheet)
	sheets := []string{SummarySheet}
	for _, g := range grouping.Groups {
		for _, res := range g.Results {
			name := names.Next(res.Slide.SlideName)
			if err := b.writeSlide(wb, name, g, res); err != nil {
				return nil, fmt.Errorf("slide %s: %w", res.Slide.SlideName, err)
			}
			sheets = append(sheets, name)
			b.logger.Debug("SummaryBuilder", "slide sheet written", map[string]interface{}{
				"slide": res.Slide.SlideName,
				"sheet": name,
				"group": g.Rank,
			})
		}
	}

	if err := wb.Activate(SummarySheet); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := wb.SaveAs(outPath); err != nil {
		return nil, fmt.Errorf("save %s: %w", outPath, err)
	}

	summary := &Summary{
		Path:   outPath,
		Files:  grouping.Files(),
		Groups: len(grouping.Groups),
		Sheets: sheets,
	}
	b.logger.Info("SummaryBuilder", "summary report saved", map[string]interface{}{
		"output": outPath,
		"files":  summary.Files,
		"groups": summary.Groups,
		"sheets": len(sheets),
	})
	return summary, nil
}

func (b *Builder) writeIndex(wb *workbook.Workbook, grouping *Grouping) error {
	var rows [][]models.Cell
	var colors []string
	for _, g := range grouping.Groups {
		for _, res := range g.Results {
			rows = append(rows, []models.Cell{
				models.TextCell(res.Slide.SlideName),
				models.TextCell(res.Source),
				models.TextCell(g.Label()),
			})
			colors = append(colors, g.Color.Hex())
		}
	}
	if err := wb.WriteTable(SummarySheet, summaryHeader, rows); err != nil {
		return fmt.Errorf("write summary sheet: %w", err)
	}
	if err := wb.BoldRow(SummarySheet, 1, len(summaryHeader)); err != nil {
		return err
	}
	for i, hex := range colors {
		if err := wb.FillRow(SummarySheet, i+2, len(summaryHeader), hex); err != nil {
			return err
		}
	}
	return wb.FitColumns(SummarySheet, b.SummaryMaxWidth)
}

func (b *Builder) writeSlide(wb *workbook.Workbook, sheet string, g *Group, res *models.ProcessedResult) error {
	if err := wb.AddSheet(sheet); err != nil {
		return err
	}
	if err := wb.SetTabColor(sheet, g.Color.Hex()); err != nil {
		return err
	}
	if err := wb.WriteTable(sheet, res.Header, res.Rows); err != nil {
		return err
	}
	if err := wb.BoldRow(sheet, 1, len(res.Header)); err != nil {
		return err
	}
	return wb.FitColumns(sheet, b.SheetMaxWidth)
}

// SheetNamer hands out unique sheet names. Names are compared
// case-insensitively, the way spreadsheet applications do.
type SheetNamer struct {
	used map[string]bool
}

func NewSheetNamer(reserved ...string) *SheetNamer {
	n := &SheetNamer{used: make(map[string]bool)}
	for _, r := range reserved {
		n.used[strings.ToLower(r)] = true
	}
	return n
}

// Next returns SanitizeSheetName(name) truncated to the sheet name limit,
// or, when taken, the first free base_1, base_2, ... with the base cut
// short so the suffix still fits.
func (n *SheetNamer) Next(name string) string {
	base := SanitizeSheetName(name)
	candidate := truncateRunes(base, workbook.MaxSheetNameLength)
	for i := 1; n.used[strings.ToLower(candidate)]; i++ {
		suffix := "_" + strconv.Itoa(i)
		candidate = truncateRunes(base, workbook.MaxSheetNameLength-len(suffix)) + suffix
	}
	n.used[strings.ToLower(candidate)] = true
	return candidate
}

// SanitizeSheetName replaces characters that are not allowed in sheet names
// with underscores. Leading and trailing apostrophes are replaced too, and
// an empty name becomes "Slide".
func SanitizeSheetName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Slide"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	if strings.HasPrefix(name, "'") {
		name = "_" + name[1:]
	}
	if strings.HasSuffix(name, "'") {
		name = name[:len(name)-1] + "_"
	}
	return name
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	out := string(r[:n])
	if strings.HasSuffix(out, "'") {
		out = out[:len(out)-1] + "_"
	}
	return out
}
