// Package obs bundles the interner's observability surface: structured
// logging via zap and metrics via Prometheus, following the same
// with-or-without-a-backend duality the teacher uses in pkg/config.go /
// pkg/metrics.go (WithLogger / WithMetrics). Intern and TryGet update the
// hit/miss/insert counters on every call; Resolve never touches the Sink.
// Logging happens only for rare events (shard resize, poisoning, slot-id
// exhaustion).
//
// © 2025 interner authors. MIT License.
package obs

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/prometheus/client_golang/prometheus"
)

// Sink is the observability facade the Interner holds one of.
type Sink struct {
	logger  *zap.Logger
	metrics metricsSink
}

// New constructs a Sink. A nil logger defaults to zap.NewNop(); a nil
// registry disables metrics (noop sink).
func New(logger *zap.Logger, registry *prometheus.Registry) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{logger: logger, metrics: newMetricsSink(registry)}
}

// OnHit records a cache-hit-equivalent: Intern or TryGet resolved against an
// already-interned entry.
func (s *Sink) OnHit(shard int) { s.metrics.incHit(shard) }

// OnMiss records TryGet finding nothing.
func (s *Sink) OnMiss(shard int) { s.metrics.incMiss(shard) }

// OnInsert records a genuinely new byte-string being interned, and updates
// the arena_bytes gauge.
func (s *Sink) OnInsert(shard int, totalArenaBytes int64) {
	s.metrics.incInsert(shard)
	s.metrics.setArenaBytes(totalArenaBytes)
}

// OnShardResize logs and meters a shard's table growing.
func (s *Sink) OnShardResize(shard, newCapacity int) {
	s.metrics.incResize(shard)
	if ce := s.logger.Check(zapcore.DebugLevel, "shard resized"); ce != nil {
		ce.Write(zap.Int("shard", shard), zap.Int("new_capacity", newCapacity))
	}
}

// OnPoisoned logs a component (shard or arena) tripping into the poisoned
// state after a panic or allocation failure.
func (s *Sink) OnPoisoned(component string, err error) {
	s.logger.Error("interner component poisoned", zap.String("component", component), zap.Error(err))
}

// OnOutOfSpace logs the fatal, non-recoverable exhaustion of the slot id
// space for this instance.
func (s *Sink) OnOutOfSpace() {
	s.logger.Error("interner slot id space exhausted")
}
