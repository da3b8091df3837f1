package models

import "fmt"

// Sheet and column names of the input specification workbook. Sheet names
// are matched case-insensitively.
const (
	FilesSheet      = "Files"
	ThresholdsSheet = "Thresholds"

	SlideNameColumn = "Slide Name"
	FilePathColumn  = "File Path"
	ChannelColumn   = "Channel #"
	ThresholdColumn = "Threshold"
)

// TissueChannel is the 1-based channel whose smoothed signal defines tissue.
const TissueChannel = 2

// SlideSpec is the single record of the Files sheet.
type SlideSpec struct {
	SlideName string
	ImagePath string
}

// ThresholdEntry is one row of the Thresholds sheet. Raw holds every cell
// of the row aligned with ThresholdTable.Columns.
type ThresholdEntry struct {
	Channel   int
	Threshold float64
	Raw       []Cell
}

// ThresholdTable is an ordered mapping from channel number to its entry.
// Iteration order is the sheet's row order.
type ThresholdTable struct {
	Columns []string
	Entries []ThresholdEntry
	index   map[int]int
}

func NewThresholdTable(columns []string) *ThresholdTable {
	return &ThresholdTable{
		Columns: append([]string(nil), columns...),
		index:   make(map[int]int),
	}
}

// Add appends an entry; channels must be unique.
func (t *ThresholdTable) Add(entry ThresholdEntry) error {
	if entry.Channel < 1 {
		return fmt.Errorf("channel %d is not a positive integer", entry.Channel)
	}
	if _, exists := t.index[entry.Channel]; exists {
		return fmt.Errorf("channel %d is listed more than once", entry.Channel)
	}
	t.index[entry.Channel] = len(t.Entries)
	t.Entries = append(t.Entries, entry)
	return nil
}

func (t *ThresholdTable) Entry(channel int) (ThresholdEntry, bool) {
	i, ok := t.index[channel]
	if !ok {
		return ThresholdEntry{}, false
	}
	return t.Entries[i], true
}

func (t *ThresholdTable) Has(channel int) bool {
	_, ok := t.index[channel]
	return ok
}

// Channels lists channel numbers in table order.
func (t *ThresholdTable) Channels() []int {
	out := make([]int, len(t.Entries))
	for i, e := range t.Entries {
		out[i] = e.Channel
	}
	return out
}

func (t *ThresholdTable) Len() int {
	return len(t.Entries)
}
