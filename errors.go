package intern

import (
	"errors"

	"github.com/Voskan/interner/internal/xerrors"
)

// The four error kinds spec §7 requires, re-exported so callers can use
// errors.Is(err, intern.ErrOutOfSpace) etc. without importing an internal
// package.
var (
	// ErrOutOfSpace is returned by Intern when the slot id space is
	// exhausted. Never recovered internally; the Interner remains usable
	// for reads but can no longer grow.
	ErrOutOfSpace = xerrors.ErrOutOfSpace

	// ErrContractViolation is returned by Resolve when the handle's
	// decoded slot id falls outside [0, Len()).
	ErrContractViolation = xerrors.ErrContractViolation

	// ErrAllocationFailure wraps a failure from the underlying allocator.
	ErrAllocationFailure = xerrors.ErrAllocationFailure

	// ErrPoisoned is returned when a prior panic or allocation failure
	// left a shard or the arena in a poisoned state.
	ErrPoisoned = xerrors.ErrPoisoned
)

var (
	errInvalidShardCount = errors.New("intern: shard count must be a positive power of two")
	errInvalidInitialCap = errors.New("intern: initial shard capacity must be >= 0")
)
