// Package bench provides reproducible micro-benchmarks for the interner.
// Run via:  go test ./bench -bench=. -benchmem -cpu 1,4,16
//
// We measure:
//   1. Intern         – write-only workload, all-distinct keys (no dedup hits)
//   2. InternDedup    – write-only workload, small vocabulary (dedup-dominated)
//   3. TryGet         – read-only workload (after warm-up)
//   4. TryGetParallel – highly concurrent reads (b.RunParallel)
//   5. InternMixed    – 90% already-interned, 10% first-seen
//
// Results are printed in ns/op + alloc/op so CI can diff via benchstat.
//
// NOTE: Unit tests live alongside their packages; this file is only for
// performance.
//
// © 2025 interner authors. MIT License.

package bench

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync/atomic"
	"testing"

	intern "github.com/Voskan/interner"
)

const keys = 1 << 20 // 1M keys for dataset

func newTestInterner() *intern.Interner {
	in, err := intern.New()
	if err != nil {
		panic(err)
	}
	return in
}

// global dataset reused across benches to avoid reallocating large slices.
var ds = func() [][]byte {
	arr := make([][]byte, keys)
	for i := range arr {
		arr[i] = []byte(fmt.Sprintf("bench-key-%d-%x", i, rand.Uint32()))
	}
	return arr
}()

// smallVocab is a much smaller dataset used for dedup-dominated benchmarks.
var smallVocab = ds[:1<<12]

func BenchmarkIntern(b *testing.B) {
	in := newTestInterner()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = in.Intern(ds[i&(keys-1)])
	}
}

func BenchmarkInternDedup(b *testing.B) {
	in := newTestInterner()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = in.Intern(smallVocab[i&(len(smallVocab)-1)])
	}
}

func BenchmarkTryGet(b *testing.B) {
	in := newTestInterner()
	for _, k := range ds {
		if _, err := in.Intern(k); err != nil {
			b.Fatalf("warm-up Intern: %v", err)
		}
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = in.TryGet(ds[i&(keys-1)])
	}
}

func BenchmarkTryGetParallel(b *testing.B) {
	in := newTestInterner()
	for _, k := range ds {
		if _, err := in.Intern(k); err != nil {
			b.Fatalf("warm-up Intern: %v", err)
		}
	}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		idx := rand.Intn(keys)
		for pb.Next() {
			idx = (idx + 1) & (keys - 1)
			_, _, _ = in.TryGet(ds[idx])
		}
	})
}

func BenchmarkInternMixed(b *testing.B) {
	in := newTestInterner()
	// Preload 90% of keys to simulate mixed hit/miss.
	for i, k := range ds {
		if i%10 != 0 {
			if _, err := in.Intern(k); err != nil {
				b.Fatalf("warm-up Intern: %v", err)
			}
		}
	}
	var firstSeen atomic.Uint64
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx := i & (keys - 1)
		before := in.Len()
		if _, err := in.Intern(ds[idx]); err != nil {
			b.Fatalf("Intern: %v", err)
		}
		if in.Len() != before {
			firstSeen.Add(1)
		}
	}
	b.ReportMetric(float64(firstSeen.Load())/float64(b.N)*100, "first-seen-%")
}

func init() {
	rand.Seed(42)
	runtime.GOMAXPROCS(runtime.NumCPU())
}
