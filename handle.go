package intern

import "math"

// Handle is the public, opaque identifier returned by Intern/TryGet. It
// carries the underlying slot id encoded as slot_id+1, reserving zero as a
// sentinel so that an "optional Handle" can be stored as a plain Handle, with
// the zero value meaning "no handle", in exactly the space of one uint32 and
// with no extra tag byte — the same null-pointer-optimization-equivalent
// trick the spec calls for.
//
// Handle is trivially copyable, comparable, and orderable: its underlying
// uint32 ordering mirrors slot-id ordering directly, since both handles and
// slot ids are offset by the same constant. A Handle carries no reference
// back to the Interner that produced it; resolving it against a different
// instance, or one that has since been discarded, is undefined behavior the
// type itself cannot prevent (spec §3, "Lifecycles").
type Handle uint32

// maxSlotID is the largest slot id the encoding can represent: slot ids
// reach at most math.MaxUint32-1, so slot_id+1 never overflows uint32
// (spec invariant I5).
const maxSlotID = math.MaxUint32 - 1

// encodeHandle converts a committed slot id into its Handle encoding.
// Callers must only pass slot ids that the arena actually returned from
// Push; the arena itself refuses to issue math.MaxUint32 (ErrOutOfSpace),
// so this never overflows.
func encodeHandle(slotID uint32) Handle {
	return Handle(slotID + 1)
}

// decode returns the slot id this Handle encodes. The zero Handle decodes
// to an out-of-range id by construction (it underflows to math.MaxUint32,
// which Resolve rejects as ErrContractViolation since no arena ever reaches
// that length).
func (h Handle) decode() uint32 {
	return uint32(h) - 1
}

// IsZero reports whether h is the sentinel zero value, i.e. not a handle
// ever returned by Intern/TryGet.
func (h Handle) IsZero() bool { return h == 0 }

// Uint32 returns the handle's stable, non-zero wire encoding (slot_id+1),
// suitable for storing in generic containers or passing to the wire
// package's codecs. The encoding is only meaningful within the same
// process and the same Interner instance that produced it (spec §6).
func (h Handle) Uint32() uint32 { return uint32(h) }

// HandleFromUint32 reconstructs a Handle from its wire encoding. It does not
// validate that the encoded slot id actually exists in any particular
// Interner; Resolve performs that check.
func HandleFromUint32(v uint32) Handle { return Handle(v) }
