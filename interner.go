package intern

// interner.go composes internal/arena and internal/shardmap into the public
// contract described in spec §4.3: Intern, TryGet, Resolve, Len, IsEmpty,
// and All (iteration). The constructor shape (functional options, validated
// once in applyOptions) mirrors the teacher's pkg/cache.go New[K,V].

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"iter"
	insecurerand "math/rand"
	"os"

	"github.com/Voskan/interner/internal/arena"
	"github.com/Voskan/interner/internal/fingerprint"
	"github.com/Voskan/interner/internal/obs"
	"github.com/Voskan/interner/internal/shardmap"
	"github.com/Voskan/interner/internal/xerrors"
)

// Interner is the concurrent string-interning engine. The zero value is not
// usable; construct with New. All methods are safe for concurrent use by
// multiple goroutines.
type Interner struct {
	arena  *arena.Arena
	index  *shardmap.Map
	hasher Hasher
	obs    *obs.Sink
}

// New constructs an empty Interner. Options may override the default
// hasher, shard count, initial per-shard capacity, and observability hooks
// (logger, Prometheus registry).
func New(opts ...Option) (*Interner, error) {
	cfg := defaultConfig()
	if err := applyOptions(cfg, opts); err != nil {
		return nil, err
	}

	hasher := cfg.hasher
	if hasher == nil {
		hasher = fingerprint.New(randomSeed())
	}

	ar := arena.New()
	idx, err := shardmap.New(ar, cfg.shardCount, cfg.initialShardCap)
	if err != nil {
		return nil, err
	}

	sink := obs.New(cfg.logger, cfg.registry)
	idx.SetResizeObserver(func(shardIndex, newCapacity int) {
		sink.OnShardResize(shardIndex, newCapacity)
	})

	return &Interner{arena: ar, index: idx, hasher: hasher, obs: sink}, nil
}

// randomSeed draws a 64-bit seed from the OS CSPRNG, falling back to an
// insecure PRNG if the system source is unavailable — the same defensive
// fallback pattern used for shard-hash seeding in the go-cache lineage this
// repository's index sharding descends from.
func randomSeed() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err == nil {
		return binary.LittleEndian.Uint64(buf[:])
	}
	fmt.Fprintln(os.Stderr, "interner: falling back to an insecure PRNG seed; system CSPRNG unavailable")
	return insecurerand.Uint64()
}

// Intern returns the existing Handle for b if it has already been interned;
// otherwise it atomically assigns a fresh slot and returns its Handle. The
// only failure mode is ErrOutOfSpace (the 32-bit slot space is exhausted)
// or ErrPoisoned/ErrAllocationFailure propagated from a prior failure on
// the same shard or arena.
func (in *Interner) Intern(b []byte) (Handle, error) {
	fp := in.hasher(b)
	shardIdx := in.index.ShardIndex(fp)

	commit := func() (uint32, error) {
		id, err := in.arena.Push(b)
		if err != nil {
			if err == xerrors.ErrOutOfSpace {
				in.obs.OnOutOfSpace()
			}
			return 0, err
		}
		return id, nil
	}

	slot, inserted, err := in.index.InsertOrFind(fp, b, commit)
	if err != nil {
		if errorIsPoisoned(err) {
			in.obs.OnPoisoned("shard", err)
		}
		return 0, err
	}

	if inserted {
		in.obs.OnInsert(shardIdx, in.arena.LiveBytes())
	} else {
		in.obs.OnHit(shardIdx)
	}
	return encodeHandle(slot), nil
}

// TryGet never mutates state. It returns (h, true, nil) if b is already
// interned, (0, false, nil) if not, and a non-nil error only if the
// relevant shard is poisoned.
func (in *Interner) TryGet(b []byte) (Handle, bool, error) {
	fp := in.hasher(b)
	shardIdx := in.index.ShardIndex(fp)

	slot, found, err := in.index.Find(fp, b)
	if err != nil {
		if errorIsPoisoned(err) {
			in.obs.OnPoisoned("shard", err)
		}
		return 0, false, err
	}
	if !found {
		in.obs.OnMiss(shardIdx)
		return 0, false, nil
	}
	in.obs.OnHit(shardIdx)
	return encodeHandle(slot), true, nil
}

// Resolve returns the stable bytes for h. It is a contract violation (spec
// §7) to call Resolve with a handle that did not originate from this
// instance; in-range misuse against a foreign handle that happens to decode
// to a committed slot of a *different* Interner is not detected — only the
// zero handle and out-of-range slot ids are.
func (in *Interner) Resolve(h Handle) ([]byte, error) {
	if h.IsZero() {
		return nil, xerrors.ErrContractViolation
	}
	b, ok := in.arena.Bytes(h.decode())
	if !ok {
		return nil, xerrors.ErrContractViolation
	}
	return b, nil
}

// Len returns the number of distinct byte-strings interned so far.
func (in *Interner) Len() uint32 { return in.arena.Len() }

// IsEmpty reports whether Len() == 0.
func (in *Interner) IsEmpty() bool { return in.Len() == 0 }

// ShardCount returns the number of index shards this Interner was
// constructed with. Diagnostic only; not part of the interning contract.
func (in *Interner) ShardCount() int { return in.index.ShardCount() }

// ShardCounts returns the current entry count of each index shard, in
// shard-index order. A caller can use this to detect fingerprint-hash skew
// (one shard carrying far more entries than its peers means the high bits
// used for shard selection aren't spreading load evenly). Diagnostic only.
func (in *Interner) ShardCounts() []int { return in.index.ShardCounts() }

// ArenaBytes returns the total number of live payload bytes committed to
// the storage arena so far (sum of interned byte-string lengths, excluding
// segment bookkeeping overhead). Diagnostic only.
func (in *Interner) ArenaBytes() int64 { return in.arena.LiveBytes() }

// All returns an iterator over every entry committed before All was called,
// in slot-id order, paired as (Handle, bytes). This resolves spec §9's open
// question in favor of a snapshot-at-start view: entries committed after
// All begins are never observed, which is the simpler of the two documented
// options and matches what a single captured length bound naturally gives.
func (in *Interner) All() iter.Seq2[Handle, []byte] {
	return func(yield func(Handle, []byte) bool) {
		n := in.arena.Len()
		for id := uint32(0); id < n; id++ {
			b, ok := in.arena.Bytes(id)
			if !ok {
				return
			}
			if !yield(encodeHandle(id), b) {
				return
			}
		}
	}
}

func errorIsPoisoned(err error) bool {
	return err == xerrors.ErrPoisoned
}
