// Package monitor provides a go-echarts operational dashboard: counters
// fed by the World Builder, the Hit Engine, and the streaming layer,
// rendered as live charts over HTTP. Adapted from the teacher's
// internal/lidar/monitor package (stats.go + echarts_handlers.go +
// webserver.go), trimmed to the handful of operational signals this
// core actually has: world dependency-resolution passes, per-detector
// hit rate, per-streamer buffer occupancy.
package monitor

import "sync"

// Stats accumulates the counters the dashboard renders. Safe for
// concurrent use by every worker goroutine; a single Stats is shared
// process-wide.
type Stats struct {
	mu sync.Mutex

	worldPasses  int
	worldVolumes int

	hitsByDetector map[string]int

	bufferOccupancy map[string]int
	bufferLimit     map[string]int

	eventsProcessed int
}

// NewStats returns an empty Stats.
func NewStats() *Stats {
	return &Stats{
		hitsByDetector:  make(map[string]int),
		bufferOccupancy: make(map[string]int),
		bufferLimit:     make(map[string]int),
	}
}

// RecordWorldBuild records how many fixed-point passes the World
// Builder needed and how many volumes it resolved.
func (s *Stats) RecordWorldBuild(passes, volumes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.worldPasses = passes
	s.worldVolumes = volumes
}

// RecordHit increments the hit count for a sensitive detector.
func (s *Stats) RecordHit(detector string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hitsByDetector[detector]++
}

// RecordBufferOccupancy records a streamer's current buffer length
// against its configured flush limit, keyed by output filename.
func (s *Stats) RecordBufferOccupancy(streamer string, occupancy, limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bufferOccupancy[streamer] = occupancy
	s.bufferLimit[streamer] = limit
}

// RecordEventProcessed increments the total processed-event counter.
func (s *Stats) RecordEventProcessed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventsProcessed++
}

// Snapshot is an immutable copy of Stats safe to read without the lock.
type Snapshot struct {
	WorldPasses     int
	WorldVolumes    int
	EventsProcessed int
	HitsByDetector  map[string]int
	BufferOccupancy map[string]int
	BufferLimit     map[string]int
}

// Snapshot copies the current counters out from under the lock.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		WorldPasses:     s.worldPasses,
		WorldVolumes:    s.worldVolumes,
		EventsProcessed: s.eventsProcessed,
		HitsByDetector:  make(map[string]int, len(s.hitsByDetector)),
		BufferOccupancy: make(map[string]int, len(s.bufferOccupancy)),
		BufferLimit:     make(map[string]int, len(s.bufferLimit)),
	}
	for k, v := range s.hitsByDetector {
		snap.HitsByDetector[k] = v
	}
	for k, v := range s.bufferOccupancy {
		snap.BufferOccupancy[k] = v
	}
	for k, v := range s.bufferLimit {
		snap.BufferLimit[k] = v
	}
	return snap
}
