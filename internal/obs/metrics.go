package obs

// metrics.go mirrors the teacher's pkg/metrics.go: a thin abstraction over
// Prometheus so the interner works with or without metrics wired in. When
// the caller passes a *prometheus.Registry via intern.WithMetrics, labeled
// per-shard metrics are registered; otherwise a no-op sink is used and the
// hot path pays nothing for metric updates.
//
// © 2025 interner authors. MIT License.

import (
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsSink is the internal interface abstracting the concrete backend
// (Prometheus vs noop). Mirrors the teacher's metricsSink shape, renamed
// from cache hit/miss/eviction/rotation counters to intern hit/miss/insert/
// resize counters.
type metricsSink interface {
	incHit(shard int)
	incMiss(shard int)
	incInsert(shard int)
	incResize(shard int)
	setArenaBytes(value int64)
}

type noopMetrics struct{}

func (noopMetrics) incHit(int)          {}
func (noopMetrics) incMiss(int)         {}
func (noopMetrics) incInsert(int)       {}
func (noopMetrics) incResize(int)       {}
func (noopMetrics) setArenaBytes(int64) {}

type promMetrics struct {
	hits      *prometheus.CounterVec
	misses    *prometheus.CounterVec
	inserts   *prometheus.CounterVec
	resizes   *prometheus.CounterVec
	arenaGage prometheus.Gauge

	arenaMirror atomic.Int64
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	label := []string{"shard"}

	pm := &promMetrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interner",
			Name:      "hits_total",
			Help:      "Number of Intern/TryGet calls resolved against an already-interned entry.",
		}, label),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interner",
			Name:      "misses_total",
			Help:      "Number of TryGet calls for a byte-string not yet interned.",
		}, label),
		inserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interner",
			Name:      "inserts_total",
			Help:      "Number of distinct byte-strings newly interned.",
		}, label),
		resizes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interner",
			Name:      "shard_resizes_total",
			Help:      "Number of times a shard's open-addressed table grew.",
		}, label),
		arenaGage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "interner",
			Name:      "arena_bytes",
			Help:      "Approximate live bytes held by the storage arena.",
		}),
	}

	reg.MustRegister(pm.hits, pm.misses, pm.inserts, pm.resizes, pm.arenaGage)
	return pm
}

func (m *promMetrics) incHit(shard int) {
	m.hits.WithLabelValues(strconv.Itoa(shard)).Inc()
}
func (m *promMetrics) incMiss(shard int) {
	m.misses.WithLabelValues(strconv.Itoa(shard)).Inc()
}
func (m *promMetrics) incInsert(shard int) {
	m.inserts.WithLabelValues(strconv.Itoa(shard)).Inc()
}
func (m *promMetrics) incResize(shard int) {
	m.resizes.WithLabelValues(strconv.Itoa(shard)).Inc()
}
func (m *promMetrics) setArenaBytes(value int64) {
	m.arenaMirror.Store(value)
	m.arenaGage.Set(float64(value))
}

// newMetricsSink decides which implementation to use. reg may be nil, in
// which case metrics are disabled.
func newMetricsSink(reg *prometheus.Registry) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(reg)
}
