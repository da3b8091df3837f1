package components

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusLog is the read-only message log with a progress bar under it.
// All methods must run on the UI goroutine.
type StatusLog struct {
	container *fyne.Container
	log       *widget.Entry
	progress  *widget.ProgressBar
	busy      *widget.ProgressBarInfinite
	lines     []string
}

func NewStatusLog() *StatusLog {
	s := &StatusLog{
		log:      widget.NewMultiLineEntry(),
		progress: widget.NewProgressBar(),
		busy:     widget.NewProgressBarInfinite(),
	}
	s.log.Wrapping = fyne.TextWrapWord
	s.log.SetMinRowsVisible(10)
	s.log.Disable()
	s.busy.Stop()
	s.busy.Hide()

	clearButton := widget.NewButton("Clear Log", s.Clear)
	bars := container.NewStack(s.progress, s.busy)
	bottom := container.NewBorder(nil, nil, clearButton, nil, bars)

	s.container = container.NewBorder(
		widget.NewLabel("Status Log:"),
		bottom,
		nil, nil,
		s.log,
	)
	return s
}

func (s *StatusLog) GetContainer() *fyne.Container {
	return s.container
}

func (s *StatusLog) Append(line string) {
	s.lines = append(s.lines, line)
	s.log.SetText(strings.Join(s.lines, "\n"))
	s.log.CursorRow = len(s.lines)
}

func (s *StatusLog) Clear() {
	s.lines = nil
	s.log.SetText("")
}

// SetBusy switches to the indeterminate bar while a job runs.
func (s *StatusLog) SetBusy(busy bool) {
	if busy {
		s.progress.SetValue(0)
		s.busy.Show()
		s.busy.Start()
		return
	}
	s.busy.Stop()
	s.busy.Hide()
	s.progress.SetValue(0)
}

// SetProgress shows current/total on the determinate bar.
func (s *StatusLog) SetProgress(current, total int) {
	if total <= 0 {
		return
	}
	s.busy.Stop()
	s.busy.Hide()
	s.progress.Max = float64(total)
	s.progress.SetValue(float64(current))
}
