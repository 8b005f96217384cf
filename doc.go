// Package intern implements a concurrent, process-local string-interning
// engine: a data structure that assigns a compact, dense, non-zero uint32
// handle to each distinct byte-string ever presented to it, and returns the
// original bytes given the handle.
//
// An Interner is composed of two cooperating components: a Storage Arena
// (internal/arena) that holds every interned byte-string at a stable memory
// address for the instance's entire lifetime, and a Sharded Index
// (internal/shardmap) that maps bytes back to the arena slot that holds
// them with minimal cross-goroutine contention. This package is the facade
// over both: it issues Handles, enforces the "exactly one slot per distinct
// byte-string" invariant, and exposes Intern, TryGet, Resolve, Len,
// IsEmpty, and All (iteration).
//
// An Interner is created empty via New and grows monotonically: entries are
// never removed individually, and all memory is released together when the
// Interner becomes unreachable. A Handle borrowed from one Interner must
// never be resolved against another; Handle is an inert value type and does
// not carry a reference back to the instance that issued it.
//
// © 2025 interner authors. MIT License.
package intern
