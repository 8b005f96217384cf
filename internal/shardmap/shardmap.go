// Package shardmap implements the Sharded Index: a concurrent hash set
// whose elements are references into the Storage Arena, compared and hashed
// by the bytes they point at (spec §4.2).
//
// Sharding keeps contention local: a thread interning string S only
// contends with other threads whose fingerprint hashes to the same shard.
// Within a shard, entries are stored open-addressed with linear probing; the
// shard's own reader/writer lock protects the table (shared for lookups,
// exclusive for insert/resize), following the same hot-path-on-a-shared-lock
// shape as the teacher's shard[K,V] (pkg/cache.go), generalised from a plain
// Go map keyed by hash to an explicit (fingerprint, slot id) open-addressed
// table so equality can be resolved against arena-resident bytes per spec.
//
// © 2025 interner authors. MIT License.
package shardmap

import (
	"bytes"
	"errors"

	"github.com/Voskan/interner/internal/bitutil"
	"github.com/Voskan/interner/internal/xerrors"
)

// ArenaReader is the subset of the Storage Arena that the index needs: the
// ability to fetch already-committed bytes by slot id for equality checks.
type ArenaReader interface {
	Bytes(id uint32) ([]byte, bool)
}

// maxLoadFactorNum/Den expresses the 0.875 load factor threshold (spec
// §4.2's "Growth") without floating point.
const (
	maxLoadFactorNum = 7
	maxLoadFactorDen = 8
)

type slotEntry struct {
	fp   uint64
	slot uint32
	used bool
}

type shard struct {
	mu      xerrors.PoisonableRWMutex
	entries []slotEntry
	count   int
}

// Map is the sharded index. Construct with New.
type Map struct {
	shards    []*shard
	shardBits uint
	arena     ArenaReader

	// onResize, if set, is invoked (outside any shard lock re-entrancy
	// concerns — it runs while the shard's write lock is held, so it must
	// not call back into Map) whenever a shard's table grows. Used by the
	// Interner facade to log/meter resize events.
	onResize func(shardIndex int, newCapacity int)
}

// ErrInvalidShardCount is returned by New when shardCount is not a positive
// power of two.
var ErrInvalidShardCount = errors.New("shardmap: shard count must be a positive power of two")

// New constructs a Map with the given number of shards (must be a power of
// two) and initial per-shard table capacity (rounded up to a power of two;
// 0 defers allocation to the first insert).
func New(arena ArenaReader, shardCount int, initialShardCapacity int) (*Map, error) {
	if shardCount <= 0 || !bitutil.IsPowerOfTwo(uint64(shardCount)) {
		return nil, ErrInvalidShardCount
	}

	m := &Map{
		shards:    make([]*shard, shardCount),
		shardBits: bitutil.TrailingZeros64(uint64(shardCount)),
		arena:     arena,
	}
	var initCap int
	if initialShardCapacity > 0 {
		initCap = int(bitutil.NextPowerOfTwo(uint64(initialShardCapacity)))
	}
	for i := range m.shards {
		sh := &shard{}
		if initCap > 0 {
			sh.entries = make([]slotEntry, initCap)
		}
		m.shards[i] = sh
	}
	return m, nil
}

// SetResizeObserver installs a callback invoked whenever a shard's table
// grows. Must be called before concurrent use begins.
func (m *Map) SetResizeObserver(fn func(shardIndex int, newCapacity int)) {
	m.onResize = fn
}

// shardIndex selects a shard using the fingerprint's high bits, per spec
// §3/§4.2: shard_index = (fingerprint >> (64-k)) & (N-1). Using the high
// bits for shard selection and the low bits for intra-shard probing keeps
// the two uses decorrelated even for hash functions with weak high bits.
func (m *Map) shardIndex(fp uint64) int {
	shift := 64 - m.shardBits
	return int((fp >> shift) & uint64(len(m.shards)-1))
}

// ShardIndex exposes the shard selection function for callers (the Interner
// facade) that need to label metrics/log events by shard without
// duplicating the bit arithmetic.
func (m *Map) ShardIndex(fp uint64) int { return m.shardIndex(fp) }

// Find looks up bytes without mutating state. Returns (slot, true, nil) if
// present, (0, false, nil) if absent, or a non-nil error if the shard's lock
// is poisoned.
func (m *Map) Find(fp uint64, b []byte) (uint32, bool, error) {
	sh := m.shards[m.shardIndex(fp)]
	var slot uint32
	var found bool
	err := sh.mu.RDo(func() error {
		slot, found = sh.find(fp, b, m.arena)
		return nil
	})
	return slot, found, err
}

// InsertOrFind is the atomic compound operation described in spec §4.2: if
// bytes are already present, the existing slot id is returned and commit is
// never called. Otherwise commit is invoked to allocate a fresh slot (e.g.
// an arena append), and the result is published into this shard.
//
// The read-then-upgrade protocol: an optimistic read-locked probe first: a
// string count already interned pays only the shared-lock cost. On miss, we
// acquire the shard's exclusive lock and re-probe before calling commit —
// this eliminates the "race-loser arena append" spec §9 describes as
// optional mitigation, since commit is never called by a thread that will
// end up discarding its result.
//
// inserted reports whether commit was actually invoked by this call (true)
// versus an existing slot being returned (false) — used by the facade to
// distinguish a cache hit from a genuinely new interning for metrics.
func (m *Map) InsertOrFind(fp uint64, b []byte, commit func() (uint32, error)) (slot uint32, inserted bool, err error) {
	sh := m.shards[m.shardIndex(fp)]

	if err := sh.mu.RDo(func() error {
		slot, inserted = sh.find(fp, b, m.arena)
		return nil
	}); err != nil {
		return 0, false, err
	}
	if inserted {
		return slot, false, nil
	}

	err = sh.mu.Do(func() error {
		if s, ok := sh.find(fp, b, m.arena); ok {
			slot = s
			inserted = false
			return nil
		}

		grewTo := sh.maybeGrow()
		if grewTo > 0 && m.onResize != nil {
			m.onResize(m.shardIndex(fp), grewTo)
		}

		newSlot, cErr := commit()
		if cErr != nil {
			return cErr
		}
		sh.insert(fp, newSlot)
		slot = newSlot
		inserted = true
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return slot, inserted, nil
}

// ShardCount returns the number of shards the Map was constructed with.
func (m *Map) ShardCount() int { return len(m.shards) }

// ShardCounts returns the current entry count of each shard, in shard-index
// order. Exposed so a caller can diagnose hash-distribution skew (a shard
// with far more entries than its peers means the fingerprint's high bits,
// which select the shard, aren't spreading load evenly) without having to
// reach into Map's internals. Len is implemented in terms of this so the
// two diagnostics can never disagree.
func (m *Map) ShardCounts() []int {
	counts := make([]int, len(m.shards))
	for i, sh := range m.shards {
		_ = sh.mu.RDo(func() error {
			counts[i] = sh.count
			return nil
		})
	}
	return counts
}

// Len returns the total number of entries across all shards. Approximate
// under concurrent mutation (spec permits this for diagnostic purposes; the
// authoritative count lives in the arena, which the facade uses for Len()).
func (m *Map) Len() int {
	total := 0
	for _, c := range m.ShardCounts() {
		total += c
	}
	return total
}

/* -------------------- shard internals -------------------- */

func (sh *shard) find(fp uint64, b []byte, arena ArenaReader) (uint32, bool) {
	if len(sh.entries) == 0 {
		return 0, false
	}
	mask := uint64(len(sh.entries) - 1)
	idx := fp & mask
	start := idx
	for {
		e := &sh.entries[idx]
		if !e.used {
			return 0, false
		}
		if e.fp == fp {
			if data, ok := arena.Bytes(e.slot); ok && bytes.Equal(data, b) {
				return e.slot, true
			}
		}
		idx = (idx + 1) & mask
		if idx == start {
			return 0, false
		}
	}
}

// maybeGrow grows the table if inserting one more entry would cross the
// load factor threshold. Returns the new capacity if it grew, else 0.
// Caller must hold the shard's write lock.
func (sh *shard) maybeGrow() int {
	if len(sh.entries) == 0 {
		sh.entries = make([]slotEntry, 16)
		return 16
	}
	if (sh.count+1)*maxLoadFactorDen <= len(sh.entries)*maxLoadFactorNum {
		return 0
	}
	old := sh.entries
	newSize := len(old) * 2
	sh.entries = make([]slotEntry, newSize)
	sh.count = 0
	for _, e := range old {
		if e.used {
			sh.rawInsert(e.fp, e.slot)
		}
	}
	return newSize
}

// insert places (fp, slot) into the table. Caller must hold the write lock
// and must have already confirmed (via find) that fp/slot's bytes are not
// already present.
func (sh *shard) insert(fp uint64, slot uint32) {
	sh.rawInsert(fp, slot)
}

func (sh *shard) rawInsert(fp uint64, slot uint32) {
	mask := uint64(len(sh.entries) - 1)
	idx := fp & mask
	for sh.entries[idx].used {
		idx = (idx + 1) & mask
	}
	sh.entries[idx] = slotEntry{fp: fp, slot: slot, used: true}
	sh.count++
}
