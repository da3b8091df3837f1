package app

import "positive-area/internal/opencv/memory"

// ListenForInterrupts makes SIGINT/SIGTERM cancel Context. A running batch
// finishes its current slide and stops.
func (a *Application) ListenForInterrupts() {
	a.lifecycle.Listen()
}

// Cancel stops a running batch after its current slide.
func (a *Application) Cancel() {
	a.lifecycle.Cancel()
}

func (a *Application) MemoryStats() memory.Stats {
	return a.memoryManager.GetStats()
}

// Shutdown releases registered components. It is safe to call more than
// once.
func (a *Application) Shutdown() {
	a.Logger.Debug("Lifecycle", "shutdown requested", nil)
	a.lifecycle.Shutdown()

	stats := a.MemoryStats()
	a.Logger.Debug("Lifecycle", "shutdown complete", map[string]interface{}{
		"opencv_peak_bytes":  stats.PeakBytes,
		"opencv_active_mats": stats.ActiveMats,
	})
}
