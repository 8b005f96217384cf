// Package global provides the process-wide default Interner collaborator
// spec §6 calls out as out of the core's scope: "a separate module MAY
// provide a process-wide singleton wrapping one interner with static
// lifetime." Because the singleton's lifetime is the whole process, the
// "handle must not outlive the interner" caller obligation (spec §3,
// "Lifecycles") is satisfied trivially for every Handle obtained through
// this package.
//
// InternFunc additionally dedupes concurrent *generation* of a not-yet-
// interned byte-string via golang.org/x/sync/singleflight, the same
// thundering-herd mitigation the teacher applies to cache misses in
// pkg/loader.go's GetOrLoad — here applied to the (possibly expensive)
// caller-supplied generator rather than to a cache load.
//
// © 2025 interner authors. MIT License.
package global

import (
	"sync"

	"golang.org/x/sync/singleflight"

	intern "github.com/Voskan/interner"
)

var (
	once    sync.Once
	initErr error
	inst    *intern.Interner
)

// Default returns the process-wide Interner, constructing it on first use
// with intern.New()'s defaults. Construction failure (invalid options) is
// not possible through this path since no options are supplied; Default
// never returns nil.
func Default() *intern.Interner {
	once.Do(func() {
		inst, initErr = intern.New()
		if initErr != nil {
			// intern.New() with zero options cannot fail in practice
			// (defaultConfig always validates); panicking here surfaces a
			// programming error immediately rather than returning a nil
			// Interner that every caller would have to nil-check forever.
			panic("global: default interner failed to construct: " + initErr.Error())
		}
	})
	return inst
}

// Intern interns b against the default Interner.
func Intern(b []byte) (intern.Handle, error) { return Default().Intern(b) }

// TryGet looks up b against the default Interner without mutating it.
func TryGet(b []byte) (intern.Handle, bool, error) { return Default().TryGet(b) }

// Resolve returns the bytes for h, which must have been produced by the
// default Interner.
func Resolve(h intern.Handle) ([]byte, error) { return Default().Resolve(h) }

// Len returns the number of distinct byte-strings interned so far in the
// default Interner.
func Len() uint32 { return Default().Len() }

var loadGroup singleflight.Group

// InternFunc interns the bytes produced by gen under key, ensuring gen runs
// at most once across concurrently racing callers for the same key — even
// though the default Interner's own InsertOrFind protocol already
// deduplicates the interning step itself, gen may be expensive (e.g.
// rendering a symbol name, fetching a definition) and would otherwise run
// once per racing goroutine before any of them reach the interner.
//
// gen must be deterministic for a given key: if two different callers pass
// different gen functions for the same key, only one of them actually runs.
func InternFunc(key string, gen func() ([]byte, error)) (intern.Handle, error) {
	v, err, _ := loadGroup.Do(key, func() (any, error) {
		b, err := gen()
		if err != nil {
			return nil, err
		}
		return Default().Intern(b)
	})
	if err != nil {
		return 0, err
	}
	return v.(intern.Handle), nil
}
