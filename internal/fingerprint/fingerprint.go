// Package fingerprint provides the default 64-bit hash used for shard
// selection and intra-shard probing (spec §3's "Fingerprint"). The choice of
// hash is a tuning knob, not a correctness knob: collisions are always
// resolved by byte comparison against arena-resident storage, never trusted
// on their own.
//
// © 2025 interner authors. MIT License.
package fingerprint

import "github.com/cespare/xxhash/v2"

// Hasher computes the fingerprint of a byte-string. Implementations must be
// deterministic within one interner instance (spec §6).
type Hasher func(b []byte) uint64

// New returns the default hasher, seeded per-instance. xxhash is a fast,
// high-quality, non-cryptographic hash already present in the ambient stack
// (pulled in transitively by badger/ristretto in the teacher repo); we
// promote it to a direct dependency since spec §3 calls for exactly this
// shape of hash.
//
// Seeding is done by folding a per-instance seed into the digest rather than
// via xxhash's own seed support, since xxhash/v2's exported API is
// seed-less; XORing the seed into the final digest is sufficient because the
// seed only needs to vary shard/probe placement across instances, not
// strengthen the hash's collision resistance (byte comparisons do that).
func New(seed uint64) Hasher {
	return func(b []byte) uint64 {
		return xxhash.Sum64(b) ^ seed
	}
}
