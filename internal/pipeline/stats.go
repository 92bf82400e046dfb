package pipeline

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationMs float64
	nodes      int
}

// StatsSnapshot is a point-in-time aggregate of build samples.
type StatsSnapshot struct {
	Count    int     `json:"count" yaml:"count"`
	MinMs    float64 `json:"min_ms" yaml:"min_ms"`
	MaxMs    float64 `json:"max_ms" yaml:"max_ms"`
	AvgMs    float64 `json:"avg_ms" yaml:"avg_ms"`
	P50Ms    float64 `json:"p50_ms" yaml:"p50_ms"`
	P95Ms    float64 `json:"p95_ms" yaml:"p95_ms"`
	P99Ms    float64 `json:"p99_ms" yaml:"p99_ms"`
	AvgNodes float64 `json:"avg_nodes" yaml:"avg_nodes"`
	MaxNodes int     `json:"max_nodes" yaml:"max_nodes"`
}

// BuildStats tracks recent build latencies and tree sizes within a
// rolling window.
type BuildStats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewBuildStats(maxAge time.Duration) *BuildStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &BuildStats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

func (s *BuildStats) Record(elapsed time.Duration, nodes int) {
	if elapsed < 0 {
		elapsed = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		timestamp:  now,
		durationMs: float64(elapsed) / float64(time.Millisecond),
		nodes:      nodes,
	})
}

func (s *BuildStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	values := make([]float64, 0, len(s.samples))
	var sum float64
	var nodes, maxNodes int
	for _, sm := range s.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		nodes += sm.nodes
		maxNodes = max(maxNodes, sm.nodes)
	}
	sort.Float64s(values)

	return StatsSnapshot{
		Count:    len(values),
		MinMs:    values[0],
		MaxMs:    values[len(values)-1],
		AvgMs:    sum / float64(len(values)),
		P50Ms:    percentile(values, 50),
		P95Ms:    percentile(values, 95),
		P99Ms:    percentile(values, 99),
		AvgNodes: float64(nodes) / float64(len(values)),
		MaxNodes: maxNodes,
	}
}

func (s *BuildStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*weight
}
