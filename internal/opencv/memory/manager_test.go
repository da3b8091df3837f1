package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"positive-area/internal/logger"
)

func TestManagerTracksLiveBytes(t *testing.T) {
	m := NewManager(logger.NewNop())

	m.TrackAllocation(1, 100, "level0")
	m.TrackAllocation(2, 50, "level1")
	m.TrackDeallocation(1, "level0")
	m.TrackDeallocation(9, "unknown")

	stats := m.GetStats()
	assert.Equal(t, int64(150), stats.TotalAllocated)
	assert.Equal(t, int64(100), stats.TotalReleased)
	assert.Equal(t, int64(1), stats.ActiveMats)
	assert.Equal(t, int64(150), stats.PeakBytes)

	m.Report()
}
