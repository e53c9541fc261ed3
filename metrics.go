package authcore

import "sync/atomic"

// MetricID indexes one engine counter.
type MetricID uint16

const (
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts rejected logins (credentials or
	// account state).
	MetricLoginFailure
	// MetricLoginRateLimited counts logins blocked by the limiter.
	MetricLoginRateLimited
	// MetricTokenIssued counts token pairs minted, on any path.
	MetricTokenIssued
	// MetricTokenRefreshed counts successful refresh rotations.
	MetricTokenRefreshed
	// MetricRefreshRejected counts refresh attempts with an invalid
	// token.
	MetricRefreshRejected
	// MetricLogout counts logout calls that found a live token.
	MetricLogout
	// MetricLimiterFailOpen counts limiter operations that failed open
	// because Redis was unreachable.
	MetricLimiterFailOpen
	// MetricRegistered counts accounts created through Register.
	MetricRegistered
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free engine counters. Counters are cache-line
// padded and incremented atomically; reads allocate only in Snapshot.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics returns a counter set honoring cfg.Enabled.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether counting is active.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments one counter. A nil or disabled receiver is a no-op.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter into a fresh map.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}

	s := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, int(metricIDCount)),
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	return s
}
