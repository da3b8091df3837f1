// Package pyramid is the boundary between the metrics engine and whatever
// decodes slide images. A reader exposes single-channel planes per
// resolution level; level 0 is full resolution and each further level halves
// both dimensions.
package pyramid

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrLevelUnavailable   = errors.New("pyramid level unavailable")
	ErrChannelUnavailable = errors.New("channel unavailable")
	ErrUnknownReader      = errors.New("unknown image reader")
)

// Reader provides pixel planes. Channels are 0-based here; callers holding
// 1-based channel numbers subtract one.
type Reader interface {
	Levels() int
	ChannelCount(level int) (int, error)
	Plane(level, channel int) (*Plane, error)
	Close() error
}

type Opener func(path string) (Reader, error)

// Registry maps reader backend names to openers.
type Registry struct {
	mu      sync.RWMutex
	openers map[string]Opener
}

func NewRegistry() *Registry {
	return &Registry{openers: make(map[string]Opener)}
}

func (r *Registry) Register(name string, open Opener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openers[name] = open
}

func (r *Registry) Opener(name string) (Opener, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	open, ok := r.openers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownReader, name, r.namesLocked())
	}
	return open, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.openers))
	for n := range r.openers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func checkLevel(level, levels int) error {
	if level < 0 || level >= levels {
		return fmt.Errorf("%w: level %d (image has %d)", ErrLevelUnavailable, level, levels)
	}
	return nil
}

func checkChannel(channel, channels int) error {
	if channel < 0 || channel >= channels {
		return fmt.Errorf("%w: channel index %d (image has %d)", ErrChannelUnavailable, channel, channels)
	}
	return nil
}
