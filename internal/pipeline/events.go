package pipeline

import (
	"fmt"
	"path/filepath"
)

type EventKind int

const (
	EventValidated EventKind = iota
	EventInvalid
	EventStarted
	EventCompleted
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventValidated:
		return "validated"
	case EventInvalid:
		return "invalid"
	case EventStarted:
		return "started"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event reports batch progress to a front-end. Index is 1-based.
type Event struct {
	Kind     EventKind
	Path     string
	Index    int
	Total    int
	Output   string
	Problems []string
	Err      error
}

// ProgressFunc receives events on the goroutine running the batch.
type ProgressFunc func(Event)

func (e Event) String() string {
	name := filepath.Base(e.Path)
	switch e.Kind {
	case EventValidated:
		return fmt.Sprintf("%s: OK", name)
	case EventInvalid:
		return fmt.Sprintf("%s: %d problem(s)", name, len(e.Problems))
	case EventStarted:
		return fmt.Sprintf("[%d/%d] Processing %s...", e.Index, e.Total, name)
	case EventCompleted:
		return fmt.Sprintf("[%d/%d] Created: %s", e.Index, e.Total, filepath.Base(e.Output))
	case EventFailed:
		return fmt.Sprintf("[%d/%d] Failed: %s: %v", e.Index, e.Total, name, e.Err)
	default:
		return name
	}
}

func emit(progress ProgressFunc, e Event) {
	if progress != nil {
		progress(e)
	}
}
