package intern

// options.go defines the functional options accepted by New, adapted from
// the teacher's pkg/config.go: defaults are computed once in defaultConfig,
// every Option mutates a private config struct, and applyOptions both
// applies and validates the final result. Unlike the teacher's config
// (capacity bytes, TTL, eviction callback — all concerned with a bounded
// cache), this config only needs the three knobs spec §6 names plus the
// observability hooks spec-external but ambient to every production Go
// service this teacher's lineage builds.

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Voskan/interner/internal/bitutil"
	"github.com/Voskan/interner/internal/fingerprint"
)

// Hasher replaces the default fingerprint hash (spec §6's "hasher" option).
// Must be deterministic within one Interner instance.
type Hasher = fingerprint.Hasher

// config bundles every knob that influences Interner construction. All
// fields are immutable once New returns; there is no live reconfiguration.
type config struct {
	shardCount      int
	initialShardCap int
	hasher          Hasher

	logger   *zap.Logger
	registry *prometheus.Registry
}

// Option is the functional option type passed to New.
type Option func(*config)

// WithHasher overrides the default fingerprint hash (spec §6). The provided
// function must be cheap, deterministic, and safe for concurrent use.
func WithHasher(h Hasher) Option {
	return func(c *config) {
		if h != nil {
			c.hasher = h
		}
	}
}

// WithShardCount overrides the default shard count. Must be a power of two;
// New returns an error if it is not.
func WithShardCount(n int) Option {
	return func(c *config) { c.shardCount = n }
}

// WithInitialShardCapacity pre-sizes each shard's open-addressed table to
// reduce early resizes.
func WithInitialShardCapacity(n int) Option {
	return func(c *config) { c.initialShardCap = n }
}

// WithLogger plugs an external zap.Logger. The Interner never logs on the
// TryGet/Resolve hot path; only slow events (shard resize, poisoning,
// out-of-space) are emitted.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics collection. Passing nil disables
// metrics (the default).
func WithMetrics(reg *prometheus.Registry) Option {
	return func(c *config) { c.registry = reg }
}

// defaultShardCount picks a power of two proportional to available
// parallelism: next power of two >= 4*NumCPU, clamped to [4, 256].
func defaultShardCount() int {
	n := bitutil.NextPowerOfTwo(uint64(runtime.NumCPU() * 4))
	if n < 4 {
		n = 4
	}
	if n > 256 {
		n = 256
	}
	return int(n)
}

func defaultConfig() *config {
	return &config{
		shardCount:      defaultShardCount(),
		initialShardCap: 16,
		logger:          zap.NewNop(),
	}
}

func applyOptions(cfg *config, opts []Option) error {
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.shardCount <= 0 || !bitutil.IsPowerOfTwo(uint64(cfg.shardCount)) {
		return errInvalidShardCount
	}
	if cfg.initialShardCap < 0 {
		return errInvalidInitialCap
	}
	return nil
}
