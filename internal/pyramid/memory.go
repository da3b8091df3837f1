package pyramid

import "fmt"

// Memory is an in-memory Reader. levels[l][c] is the plane of channel c at
// level l.
type Memory struct {
	levels [][]*Plane
	closed bool
}

func NewMemory(levels ...[]*Plane) *Memory {
	return &Memory{levels: levels}
}

// MemoryFromBase builds n levels from full-resolution channel planes by
// repeated 2×2 averaging.
func MemoryFromBase(n int, channels ...*Plane) *Memory {
	levels := make([][]*Plane, 0, n)
	cur := channels
	for l := 0; l < n; l++ {
		levels = append(levels, cur)
		next := make([]*Plane, len(cur))
		for i, p := range cur {
			next[i] = Downsample(p, 2)
		}
		cur = next
	}
	return NewMemory(levels...)
}

func (m *Memory) Levels() int {
	return len(m.levels)
}

func (m *Memory) ChannelCount(level int) (int, error) {
	if err := checkLevel(level, len(m.levels)); err != nil {
		return 0, err
	}
	return len(m.levels[level]), nil
}

func (m *Memory) Plane(level, channel int) (*Plane, error) {
	if m.closed {
		return nil, fmt.Errorf("reader closed")
	}
	n, err := m.ChannelCount(level)
	if err != nil {
		return nil, err
	}
	if err := checkChannel(channel, n); err != nil {
		return nil, err
	}
	return m.levels[level][channel], nil
}

func (m *Memory) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *Memory) Closed() bool {
	return m.closed
}

// Reopen returns an open reader over the same planes.
func (m *Memory) Reopen() *Memory {
	return &Memory{levels: m.levels}
}
