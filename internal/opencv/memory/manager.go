package memory

import (
	"sync"
	"time"

	"positive-area/internal/logger"
)

// Manager tracks OpenCV allocations made on behalf of the pipeline so that
// leaks show up in the logs at the end of a run.
type Manager struct {
	allocations map[uint64]*AllocationRecord
	mu          sync.Mutex
	stats       Stats
	logger      logger.Logger
}

type AllocationRecord struct {
	Tag       string
	CreatedAt time.Time
	Size      int64
}

type Stats struct {
	TotalAllocated int64
	TotalReleased  int64
	ActiveMats     int64
	PeakBytes      int64
}

func NewManager(log logger.Logger) *Manager {
	return &Manager{
		allocations: make(map[uint64]*AllocationRecord),
		logger:      log,
	}
}

func (m *Manager) TrackAllocation(id uint64, size int64, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.allocations[id] = &AllocationRecord{Tag: tag, CreatedAt: time.Now(), Size: size}
	m.stats.TotalAllocated += size
	m.stats.ActiveMats++
	if live := m.stats.TotalAllocated - m.stats.TotalReleased; live > m.stats.PeakBytes {
		m.stats.PeakBytes = live
	}
}

func (m *Manager) TrackDeallocation(id uint64, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, exists := m.allocations[id]
	if !exists {
		m.logger.Warning("MemoryManager", "release of untracked Mat", map[string]interface{}{
			"tag": tag,
		})
		return
	}
	delete(m.allocations, id)
	m.stats.TotalReleased += record.Size
	m.stats.ActiveMats--
}

func (m *Manager) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Report logs current totals and any Mats still alive.
func (m *Manager) Report() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Debug("MemoryManager", "opencv memory summary", map[string]interface{}{
		"allocated_bytes": m.stats.TotalAllocated,
		"released_bytes":  m.stats.TotalReleased,
		"peak_bytes":      m.stats.PeakBytes,
		"active_mats":     m.stats.ActiveMats,
	})
	for _, record := range m.allocations {
		m.logger.Warning("MemoryManager", "Mat not released", map[string]interface{}{
			"tag":   record.Tag,
			"bytes": record.Size,
			"age":   time.Since(record.CreatedAt).String(),
		})
	}
}

// Shutdown reports outstanding allocations at the end of a run.
func (m *Manager) Shutdown() {
	m.Report()
}
