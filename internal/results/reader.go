package results

import (
	"fmt"
	"strings"

	"positive-area/internal/models"
	"positive-area/internal/workbook"
)

// Read loads a processed workbook. The channel list is taken from the
// Channel # column; blank cells are ignored and anything else that is not
// a whole number makes the file unreadable.
func Read(path string) (*models.ProcessedResult, error) {
	wb, err := workbook.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer wb.Close()

	files, err := wb.ReadTable(models.FilesSheet)
	if err != nil {
		return nil, err
	}
	thresholds, err := wb.ReadTable(models.ThresholdsSheet)
	if err != nil {
		return nil, err
	}

	nameCol := files.Column(models.SlideNameColumn)
	if nameCol < 0 {
		return nil, fmt.Errorf("files sheet has no %q column", models.SlideNameColumn)
	}
	if len(files.Rows) == 0 {
		return nil, fmt.Errorf("files sheet is empty")
	}
	result := &models.ProcessedResult{
		Source: path,
		Slide: models.SlideSpec{
			SlideName: strings.TrimSpace(files.Rows[0][nameCol].Value),
		},
		Header: thresholds.Header,
		Rows:   thresholds.Rows,
	}
	if pathCol := files.Column(models.FilePathColumn); pathCol >= 0 {
		result.Slide.ImagePath = files.Rows[0][pathCol].Value
	}

	channelCol := thresholds.Column(models.ChannelColumn)
	if channelCol < 0 {
		return nil, fmt.Errorf("thresholds sheet has no %q column", models.ChannelColumn)
	}
	for i, row := range thresholds.Rows {
		cell := row[channelCol]
		if cell.IsEmpty() {
			continue
		}
		c, ok := cell.Int()
		if !ok {
			return nil, fmt.Errorf("thresholds row %d has non-integer channel %q", thresholds.Lines[i], cell.Value)
		}
		result.Channels = append(result.Channels, c)
	}
	return result, nil
}
