// Package validation checks slide specification workbooks and parses them
// into the data model.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"positive-area/internal/models"
	"positive-area/internal/workbook"
)

// Spec is a parsed specification workbook.
type Spec struct {
	Path            string
	FilesSheet      string
	ThresholdsSheet string
	Slide           models.SlideSpec
	Thresholds      *models.ThresholdTable
}

// LoadSpec parses path without touching the image. Any structural problem
// is returned as a single error.
func LoadSpec(path string) (*Spec, error) {
	wb, err := workbook.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer wb.Close()

	doc, problems := readSheets(wb)
	if len(problems) > 0 {
		return nil, problemError(path, problems)
	}
	slide, problems := parseSlide(doc.files, path)
	if len(problems) > 0 {
		return nil, problemError(path, problems)
	}
	parsed := parseThresholds(doc.thresholds)
	problems = parsed.problems
	for _, c := range parsed.channels {
		if c < 1 {
			problems = append(problems, fmt.Sprintf("Channel # %d is invalid", c))
		}
	}
	if len(problems) == 0 && !parsed.table.Has(models.TissueChannel) {
		problems = append(problems, missingTissueChannel)
	}
	if len(problems) > 0 {
		return nil, problemError(path, problems)
	}
	return &Spec{
		Path:            path,
		FilesSheet:      doc.filesSheet,
		ThresholdsSheet: doc.thresholdsSheet,
		Slide:           slide,
		Thresholds:      parsed.table,
	}, nil
}

func problemError(path string, problems []string) error {
	return fmt.Errorf("%s: %s", filepath.Base(path), strings.Join(problems, "; "))
}

// ResolveImagePath interprets a relative image path against the directory
// holding the specification.
func ResolveImagePath(specPath, imagePath string) string {
	if imagePath == "" || filepath.IsAbs(imagePath) {
		return imagePath
	}
	return filepath.Join(filepath.Dir(specPath), imagePath)
}

type document struct {
	filesSheet      string
	thresholdsSheet string
	files           *workbook.Table
	thresholds      *workbook.Table
}

func readSheets(wb *workbook.Workbook) (*document, []string) {
	var problems []string
	filesSheet, hasFiles := wb.FindSheet(models.FilesSheet)
	if !hasFiles {
		problems = append(problems, "Missing 'Files' sheet")
	}
	thresholdsSheet, hasThresholds := wb.FindSheet(models.ThresholdsSheet)
	if !hasThresholds {
		problems = append(problems, "Missing 'Thresholds' sheet")
	}
	if len(problems) > 0 {
		return nil, problems
	}

	files, err := wb.ReadTable(filesSheet)
	if err != nil {
		return nil, []string{fmt.Sprintf("Cannot read Excel file: %v", err)}
	}
	thresholds, err := wb.ReadTable(thresholdsSheet)
	if err != nil {
		return nil, []string{fmt.Sprintf("Cannot read Excel file: %v", err)}
	}
	return &document{
		filesSheet:      filesSheet,
		thresholdsSheet: thresholdsSheet,
		files:           files,
		thresholds:      thresholds,
	}, nil
}

// parseSlide checks the Files sheet shape and returns its single record.
// The image path is resolved but not checked for existence.
func parseSlide(files *workbook.Table, specPath string) (models.SlideSpec, []string) {
	switch n := len(files.Rows); {
	case n == 0:
		return models.SlideSpec{}, []string{"'Files' sheet is empty"}
	case n > 1:
		return models.SlideSpec{}, []string{fmt.Sprintf("'Files' sheet has %d rows, expected 1", n)}
	}

	var problems []string
	nameCol := files.Column(models.SlideNameColumn)
	if nameCol < 0 {
		problems = append(problems, "'Files' sheet missing 'Slide Name' column")
	}
	pathCol := files.Column(models.FilePathColumn)
	if pathCol < 0 {
		problems = append(problems, "'Files' sheet missing 'File Path' column")
	}
	if len(problems) > 0 {
		return models.SlideSpec{}, problems
	}

	row := files.Rows[0]
	slide := models.SlideSpec{
		SlideName: strings.TrimSpace(row[nameCol].Value),
		ImagePath: strings.TrimSpace(row[pathCol].Value),
	}
	if slide.SlideName == "" {
		problems = append(problems, "Slide name is empty")
	}
	if slide.ImagePath == "" {
		problems = append(problems, "Image file path is empty")
	}
	slide.ImagePath = ResolveImagePath(specPath, slide.ImagePath)
	return slide, problems
}

// parsedThresholds holds the valid part of a Thresholds sheet. Channels
// lists every distinct integer channel in row order, including ones the
// table rejects as non-positive, so they can be range-checked.
type parsedThresholds struct {
	table    *models.ThresholdTable
	channels []int
	problems []string
}

// parseThresholds checks every row of the Thresholds sheet and builds the
// table from the rows that are valid.
func parseThresholds(t *workbook.Table) parsedThresholds {
	channelCol := t.Column(models.ChannelColumn)
	if channelCol < 0 {
		return parsedThresholds{problems: []string{"'Thresholds' sheet missing 'Channel #' column"}}
	}
	thresholdCol := t.Column(models.ThresholdColumn)
	if thresholdCol < 0 {
		return parsedThresholds{problems: []string{"'Thresholds' sheet missing 'Threshold' column"}}
	}

	out := parsedThresholds{table: models.NewThresholdTable(t.Header)}
	seen := make(map[int]bool)
	for i, row := range t.Rows {
		line := i + 2
		if i < len(t.Lines) {
			line = t.Lines[i]
		}

		channelCell := row[channelCol]
		channel, channelOK := channelCell.Int()
		switch {
		case channelCell.IsEmpty():
			out.problems = append(out.problems, fmt.Sprintf("Row %d in 'Thresholds' sheet has empty Channel #", line))
		case !channelOK || !channelCell.Numeric:
			channelOK = false
			out.problems = append(out.problems, fmt.Sprintf("Row %d in 'Thresholds' sheet has non-integer Channel # (%s)", line, channelCell.Value))
		}

		thresholdCell := row[thresholdCol]
		threshold, thresholdOK := thresholdCell.Float()
		switch {
		case thresholdCell.IsEmpty():
			thresholdOK = false
			out.problems = append(out.problems, fmt.Sprintf("Row %d in 'Thresholds' sheet has empty Threshold", line))
		case !thresholdOK || !thresholdCell.Numeric:
			thresholdOK = false
			out.problems = append(out.problems, fmt.Sprintf("Row %d in 'Thresholds' sheet has non-numeric Threshold (%s)", line, thresholdCell.Value))
		}

		if !channelOK {
			continue
		}
		if seen[channel] {
			out.problems = append(out.problems, fmt.Sprintf("Channel # %d is listed more than once", channel))
			continue
		}
		seen[channel] = true
		out.channels = append(out.channels, channel)
		if !thresholdOK || channel < 1 {
			continue
		}
		entry := models.ThresholdEntry{Channel: channel, Threshold: threshold, Raw: row}
		if err := out.table.Add(entry); err != nil {
			out.problems = append(out.problems, err.Error())
		}
	}
	return out
}
