// Package arena implements the Storage Arena: an append-only, pointer-stable
// container of byte-strings indexed by a dense uint32 slot id.
//
// Unlike the teacher's arena wrapper (built on Go's goexperiment.arenas
// package to bypass the GC entirely), this arena targets a portable library
// that must build without experimental flags. Pointer stability is achieved
// the ordinary way instead: every Push copies its bytes into a freshly
// allocated, never-resliced buffer. Go's garbage collector does not move
// heap objects, so once that buffer exists its address is stable for as
// long as something references it — exactly the guarantee spec invariant
// I3 requires. What the arena adds on top of a plain "slice of slices" is
// the segmented index described below, which is what makes Bytes lock-free
// for already-committed slots while Push is still extending the arena.
//
// Concurrency
// -----------
// Push is serialised by a single PoisonableMutex: reserving a slot id and
// publishing its bytes is the one mutating critical section described in
// spec §4.1/§5. Bytes and Len never take a lock; they rely on the atomic
// length counter as a publication fence, the same pattern used by
// lock-free ring buffers and documented as the "standard technique" for
// this component.
//
// © 2025 interner authors. MIT License.
package arena

import (
	"math"
	"sync/atomic"

	"github.com/Voskan/interner/internal/xerrors"
)

// segmentSize entries per segment. Kept as a power of two so slot-id to
// (segment, offset) decomposition is pure bit arithmetic.
const (
	segmentShift = 12
	segmentSize  = 1 << segmentShift
	segmentMask  = segmentSize - 1
)

type segment = [segmentSize][]byte

// Arena is the append-only, pointer-stable byte-string store. The zero value
// is not usable; construct with New.
type Arena struct {
	appendLock xerrors.PoisonableMutex

	// segments is an append-only snapshot slice of *segment pointers,
	// published via an atomic pointer so that Bytes/Len can read it without
	// taking appendLock. Growing the slice allocates a new outer slice and
	// copies existing segment pointers into it. Push fills a segment's
	// unused slots in place, but a slot is written only before length
	// publishes it, and a committed slot and its byte slice are never
	// overwritten.
	segments atomic.Pointer[[]*segment]

	// length is the committed slot count, incremented as the very last step
	// of Push. It is the publication fence: any reader that observes
	// length > id may safely read slot id's bytes.
	length atomic.Uint32

	// liveBytes is an approximate, monotonically increasing accounting
	// counter (sum of pushed byte lengths), exposed for metrics gauges.
	liveBytes atomic.Int64
}

// New constructs an empty arena ready for concurrent Push/Bytes calls.
func New() *Arena {
	a := &Arena{}
	segs := make([]*segment, 0, 4)
	a.segments.Store(&segs)
	return a
}

// Push copies b into stable storage and returns its newly assigned dense
// slot id. Concurrent pushes observe strictly increasing, unique ids; there
// is no guarantee that ids are ordered by call order across goroutines, only
// by the order in which each Push's critical section actually ran (spec §5).
//
// Push is the only operation that can fail: ErrOutOfSpace when the 32-bit
// slot space is exhausted (spec invariant I5 reserves the top id so that
// slot_id+1 always fits in a non-zero uint32), or ErrAllocationFailure /
// ErrPoisoned propagated from a prior failure in this same arena.
func (a *Arena) Push(b []byte) (uint32, error) {
	var id uint32
	err := a.appendLock.Do(func() error {
		cur := a.length.Load()
		if cur == math.MaxUint32 {
			return xerrors.ErrOutOfSpace
		}

		segIdx := int(cur >> segmentShift)
		slotIdx := int(cur & segmentMask)

		segs := *a.segments.Load()
		if segIdx >= len(segs) {
			grown := make([]*segment, len(segs), len(segs)+1)
			copy(grown, segs)
			grown = append(grown, &segment{})
			segs = grown
			a.segments.Store(&segs)
		}

		dup := make([]byte, len(b))
		copy(dup, b)
		segs[segIdx][slotIdx] = dup

		a.liveBytes.Add(int64(len(dup)))
		id = cur
		a.length.Add(1)
		return nil
	})
	return id, err
}

// Bytes returns the stable byte slice committed at slot id, or false if id
// has not yet been committed (or never will be, for foreign/out-of-range
// ids). It never blocks on appendLock.
func (a *Arena) Bytes(id uint32) ([]byte, bool) {
	if id >= a.length.Load() {
		return nil, false
	}
	segIdx := int(id >> segmentShift)
	slotIdx := int(id & segmentMask)

	segs := *a.segments.Load()
	if segIdx >= len(segs) {
		// Can only happen for an id that raced ahead of this goroutine's
		// view of the segments pointer; the length check above already
		// guards against truly uncommitted ids under the documented
		// happens-before relationship, so this is defensive only.
		return nil, false
	}
	return segs[segIdx][slotIdx], true
}

// Len returns the number of committed slots. Monotonically non-decreasing.
func (a *Arena) Len() uint32 { return a.length.Load() }

// LiveBytes returns the approximate total size, in bytes, of all committed
// entries. Exposed for the arena_bytes metrics gauge.
func (a *Arena) LiveBytes() int64 { return a.liveBytes.Load() }
