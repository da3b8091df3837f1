// Package timing records how long each pipeline stage takes across a run.
package timing

import (
	"sort"
	"sync"
	"time"

	"positive-area/internal/logger"
)

// Span is one running measurement.
type Span struct {
	tracker   *Tracker
	operation string
	start     time.Time
}

// Stop records the elapsed time under the span's operation.
func (s Span) Stop() time.Duration {
	d := time.Since(s.start)
	if s.tracker != nil {
		s.tracker.record(s.operation, d)
	}
	return d
}

type Tracker struct {
	timings map[string][]time.Duration
	mu      sync.RWMutex
}

func NewTracker() *Tracker {
	return &Tracker{timings: make(map[string][]time.Duration)}
}

func (tt *Tracker) Start(operation string) Span {
	return Span{tracker: tt, operation: operation, start: time.Now()}
}

func (tt *Tracker) record(operation string, d time.Duration) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.timings[operation] = append(tt.timings[operation], d)
}

func (tt *Tracker) GetTimings(operation string) []time.Duration {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	timings := tt.timings[operation]
	if timings == nil {
		return nil
	}
	result := make([]time.Duration, len(timings))
	copy(result, timings)
	return result
}

func (tt *Tracker) GetAverageTime(operation string) time.Duration {
	timings := tt.GetTimings(operation)
	if len(timings) == 0 {
		return 0
	}

	var total time.Duration
	for _, duration := range timings {
		total += duration
	}
	return total / time.Duration(len(timings))
}

// Operations lists every recorded operation name, sorted.
func (tt *Tracker) Operations() []string {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	ops := make([]string, 0, len(tt.timings))
	for op := range tt.timings {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Reset drops one operation, or everything when operation is empty.
func (tt *Tracker) Reset(operation string) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	if operation == "" {
		tt.timings = make(map[string][]time.Duration)
	} else {
		delete(tt.timings, operation)
	}
}

// Log writes one debug line per operation with its count and mean.
func (tt *Tracker) Log(log logger.Logger, component string) {
	for _, op := range tt.Operations() {
		log.Debug(component, "stage timing", map[string]interface{}{
			"stage":   op,
			"count":   len(tt.GetTimings(op)),
			"mean_ms": tt.GetAverageTime(op).Milliseconds(),
		})
	}
}
