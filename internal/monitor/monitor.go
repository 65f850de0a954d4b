package monitor

import (
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Recorder receives runtime snapshots for publication.
type Recorder interface {
	SetRuntimeStats(goroutines int, heapAllocBytes uint64)
}

// Monitor periodically samples process runtime statistics
type Monitor struct {
	interval time.Duration
	metrics  Recorder
	logger   *zap.Logger

	startedAt time.Time

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
}

// Snapshot represents one runtime sample
type Snapshot struct {
	Goroutines     int
	HeapAllocBytes uint64
	Uptime         time.Duration
	Timestamp      time.Time
}

// New creates a new runtime monitor
func New(interval time.Duration, metrics Recorder, logger *zap.Logger) *Monitor {
	return &Monitor{
		interval: interval,
		metrics:  metrics,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start starts the monitor
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.startedAt = time.Now()
	m.mu.Unlock()

	go m.run()
}

// Stop stops the monitor
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	close(m.stopCh)
}

// IsRunning returns true while the sampling loop is active
func (m *Monitor) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// run is the main sampling loop
func (m *Monitor) run() {
	// First sample immediately, then on every tick.
	m.collect()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.collect()
		}
	}
}

// collect takes one snapshot, logs it and records metrics
func (m *Monitor) collect() {
	snapshot := m.GetSnapshot()

	m.logger.Info("runtime stats",
		zap.Int("goroutines", snapshot.Goroutines),
		zap.Uint64("heap_alloc_bytes", snapshot.HeapAllocBytes),
		zap.Duration("uptime", snapshot.Uptime))

	if m.metrics != nil {
		m.metrics.SetRuntimeStats(snapshot.Goroutines, snapshot.HeapAllocBytes)
	}
}

// GetSnapshot returns the current runtime statistics
func (m *Monitor) GetSnapshot() *Snapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	m.mu.RLock()
	startedAt := m.startedAt
	m.mu.RUnlock()

	var uptime time.Duration
	if !startedAt.IsZero() {
		uptime = time.Since(startedAt)
	}

	return &Snapshot{
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocBytes: ms.HeapAlloc,
		Uptime:         uptime,
		Timestamp:      time.Now(),
	}
}
