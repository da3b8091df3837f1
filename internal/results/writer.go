// Package results persists computed metrics next to the specification they
// came from and reads processed workbooks back.
package results

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"positive-area/internal/logger"
	"positive-area/internal/metrics"
	"positive-area/internal/models"
	"positive-area/internal/validation"
	"positive-area/internal/workbook"
)

var ErrOutputNotWritable = errors.New("cannot write to output directory")

// Writer stores results as <stem><Suffix>.xlsx in an output directory.
type Writer struct {
	Suffix string
	logger logger.Logger
}

func NewWriter(suffix string, log logger.Logger) *Writer {
	return &Writer{Suffix: suffix, logger: log}
}

func (w *Writer) OutputPath(specPath, outDir string) string {
	stem := strings.TrimSuffix(filepath.Base(specPath), filepath.Ext(specPath))
	return filepath.Join(outDir, stem+w.Suffix+".xlsx")
}

// Write copies the specification workbook, replaces its thresholds sheet
// with the enriched table placed right after the files sheet, and saves it
// to outDir. An existing output is overwritten.
func (w *Writer) Write(spec *validation.Spec, outDir string, res *metrics.Result) (string, error) {
	if err := EnsureWritable(outDir); err != nil {
		return "", err
	}

	wb, err := workbook.Open(spec.Path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", spec.Path, err)
	}
	defer wb.Close()

	header, rows, err := EnrichedTable(spec.Thresholds, res.Metrics)
	if err != nil {
		return "", err
	}

	sheet := spec.ThresholdsSheet
	if err := wb.ReplaceSheet(sheet); err != nil {
		return "", err
	}
	if err := wb.WriteTable(sheet, header, rows); err != nil {
		return "", fmt.Errorf("write %s sheet: %w", sheet, err)
	}
	if err := wb.BoldRow(sheet, 1, len(header)); err != nil {
		return "", err
	}
	if err := wb.MoveAfter(sheet, spec.FilesSheet); err != nil {
		return "", err
	}
	if err := wb.Activate(spec.FilesSheet); err != nil {
		return "", err
	}

	out := w.OutputPath(spec.Path, outDir)
	if err := wb.SaveAs(out); err != nil {
		return "", fmt.Errorf("save %s: %w", out, err)
	}

	w.logger.Info("ResultWriter", "results saved", map[string]interface{}{
		"input":    filepath.Base(spec.Path),
		"output":   out,
		"channels": spec.Thresholds.Len(),
	})
	return out, nil
}

// EnrichedTable lays out Channel # first, the remaining raw columns in
// their original order, then the rounded metric columns. Raw columns that
// already carry a metric name are replaced rather than duplicated.
func EnrichedTable(table *models.ThresholdTable, computed map[int]models.ChannelMetrics) ([]string, [][]models.Cell, error) {
	var rawCols []int
	header := []string{models.ChannelColumn}
	for i, name := range table.Columns {
		if name == models.ChannelColumn || slices.Contains(models.MetricColumns, name) {
			continue
		}
		rawCols = append(rawCols, i)
		header = append(header, name)
	}
	header = append(header, models.MetricColumns...)

	rows := make([][]models.Cell, 0, table.Len())
	for _, entry := range table.Entries {
		m, ok := computed[entry.Channel]
		if !ok {
			return nil, nil, fmt.Errorf("no metrics for channel %d", entry.Channel)
		}
		row := make([]models.Cell, 0, len(header))
		row = append(row, models.IntCell(entry.Channel))
		for _, i := range rawCols {
			if i < len(entry.Raw) {
				row = append(row, entry.Raw[i])
			} else {
				row = append(row, models.Cell{})
			}
		}
		for _, v := range m.Rounded().Values() {
			row = append(row, models.NumberCell(v))
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// EnsureWritable creates dir if needed and proves a file can be created in
// it.
func EnsureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputNotWritable, dir, err)
	}
	probe, err := os.CreateTemp(dir, ".write-probe-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputNotWritable, dir, err)
	}
	name := probe.Name()
	probe.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputNotWritable, dir, err)
	}
	return nil
}
