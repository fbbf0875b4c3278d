package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	requestsTotal   atomic.Uint64
	apiErrors       atomic.Uint64
	transportErrors atomic.Uint64
	quotesComputed  atomic.Uint64
	liquidityMisses atomic.Uint64

	// Latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	inFlight atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordRequest records a completed HTTP exchange with latency.
func (m *Metrics) RecordRequest(latencyNs int64) {
	m.requestsTotal.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordAPIError records a non-2xx response.
func (m *Metrics) RecordAPIError() {
	m.apiErrors.Add(1)
}

// RecordTransportError records a failed or corrupt exchange.
func (m *Metrics) RecordTransportError() {
	m.transportErrors.Add(1)
}

// RecordQuote records a computed market price.
func (m *Metrics) RecordQuote() {
	m.quotesComputed.Add(1)
}

// RecordLiquidityMiss records a book too thin for the requested amount.
func (m *Metrics) RecordLiquidityMiss() {
	m.liquidityMisses.Add(1)
}

// RequestStarted increments in-flight requests by 1.
func (m *Metrics) RequestStarted() {
	m.inFlight.Add(1)
}

// RequestFinished decrements in-flight requests by 1.
func (m *Metrics) RequestFinished() {
	m.inFlight.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	RequestsTotal   uint64
	APIErrors       uint64
	TransportErrors uint64
	QuotesComputed  uint64
	LiquidityMisses uint64
	AvgLatencyNs    int64
	InFlight        int32
	Timestamp       time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		RequestsTotal:   m.requestsTotal.Load(),
		APIErrors:       m.apiErrors.Load(),
		TransportErrors: m.transportErrors.Load(),
		QuotesComputed:  m.quotesComputed.Load(),
		LiquidityMisses: m.liquidityMisses.Load(),
		AvgLatencyNs:    avgLatency,
		InFlight:        m.inFlight.Load(),
		Timestamp:       time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.requestsTotal.Store(0)
	m.apiErrors.Store(0)
	m.transportErrors.Store(0)
	m.quotesComputed.Store(0)
	m.liquidityMisses.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.inFlight.Store(0)
}
