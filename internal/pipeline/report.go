package pipeline

import (
	"fmt"
	"path/filepath"

	"positive-area/internal/report"
)

const timestampLayout = "20060102_150405"

type ReportResult struct {
	Summary  *report.Summary
	Grouping *report.Grouping
}

// DefaultReportPath is <dir>/<prefix>-YYYYMMDD_HHMMSS.xlsx for the current
// time.
func (r *Runner) DefaultReportPath(dir string) string {
	prefix := r.ReportPrefix
	if prefix == "" {
		prefix = report.SummarySheet
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.xlsx", prefix, r.now().Format(timestampLayout)))
}

// GenerateReport groups every processed workbook in dir and writes the
// summary to output, or to DefaultReportPath when output is empty.
// Unreadable files are skipped and listed in the result's grouping.
func (r *Runner) GenerateReport(dir, output string) (*ReportResult, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	paths, err := FindProcessed(dir, r.Writer.Suffix)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w (*%s.xlsx) in %s", ErrNoProcessed, r.Writer.Suffix, dir)
	}
	if output == "" {
		output = r.DefaultReportPath(dir)
	}

	grouping := report.AssignGroups(paths, nil)
	for _, f := range grouping.Failures {
		r.logger.Warning("PipelineRunner", "skipping unreadable processed file", map[string]interface{}{
			"path":  f.Path,
			"error": f.Err.Error(),
		})
	}

	summary, err := r.Builder.Build(grouping, output)
	if err != nil {
		return &ReportResult{Grouping: grouping}, err
	}
	return &ReportResult{Summary: summary, Grouping: grouping}, nil
}
