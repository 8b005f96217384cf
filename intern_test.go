package intern

import (
	"errors"
	"sync"
	"testing"
)

func TestEmptyThenSingle(t *testing.T) {
	in, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if in.Len() != 0 || !in.IsEmpty() {
		t.Fatal("fresh interner should be empty")
	}

	h0, err := in.Intern([]byte(""))
	if err != nil {
		t.Fatalf("Intern(\"\"): %v", err)
	}
	if in.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", in.Len())
	}

	got, err := in.Resolve(h0)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("resolved %q, want empty", got)
	}

	h0again, err := in.Intern([]byte(""))
	if err != nil {
		t.Fatalf("Intern(\"\") again: %v", err)
	}
	if h0again != h0 {
		t.Fatalf("interning the same empty string twice gave different handles")
	}
}

func TestDenseAssignmentSingleThread(t *testing.T) {
	in, _ := New()
	ha, _ := in.Intern([]byte("a"))
	hb, _ := in.Intern([]byte("b"))
	hc, _ := in.Intern([]byte("c"))

	if ha.Uint32() != 1 || hb.Uint32() != 2 || hc.Uint32() != 3 {
		t.Fatalf("handles = %d,%d,%d; want 1,2,3", ha.Uint32(), hb.Uint32(), hc.Uint32())
	}
}

func TestResolveStabilityUnderLoad(t *testing.T) {
	in, _ := New()
	h, err := in.Intern([]byte("hello"))
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	first, _ := in.Resolve(h)
	addr := &first[0]

	for i := 0; i < 200_000; i++ {
		if _, err := in.Intern([]byte{byte(i), byte(i >> 8), byte(i >> 16)}); err != nil {
			t.Fatalf("Intern #%d: %v", i, err)
		}
	}

	again, err := in.Resolve(h)
	if err != nil {
		t.Fatalf("Resolve after load: %v", err)
	}
	if string(again) != "hello" {
		t.Fatalf("bytes changed: %q", again)
	}
	if &again[0] != addr {
		t.Fatal("resolved address moved")
	}
}

func TestRaceDeduplication(t *testing.T) {
	in, _ := New()
	const goroutines = 200
	handles := make(chan Handle, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			h, err := in.Intern([]byte("x"))
			if err != nil {
				t.Error(err)
				return
			}
			handles <- h
		}()
	}
	wg.Wait()
	close(handles)

	var first Handle
	first = 0
	for h := range handles {
		if first == 0 {
			first = h
		} else if h != first {
			t.Fatalf("divergent handles %v and %v for the same string", first, h)
		}
	}
	if in.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", in.Len())
	}
}

func TestTryGetNegativeThenPositive(t *testing.T) {
	in, _ := New()
	if _, found, err := in.TryGet([]byte("y")); err != nil || found {
		t.Fatalf("TryGet on fresh interner: found=%v err=%v", found, err)
	}

	h, err := in.Intern([]byte("y"))
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	got, found, err := in.TryGet([]byte("y"))
	if err != nil || !found || got != h {
		t.Fatalf("TryGet after Intern: got=%v found=%v err=%v want=%v", got, found, err, h)
	}

	if _, found, err := in.TryGet([]byte("z")); err != nil || found {
		t.Fatalf("TryGet for never-interned string: found=%v err=%v", found, err)
	}
}

func TestIterationCompleteness(t *testing.T) {
	in, _ := New()
	want := map[string]bool{"a": true, "b": true, "c": true}
	handles := make(map[string]Handle)
	for s := range want {
		h, err := in.Intern([]byte(s))
		if err != nil {
			t.Fatalf("Intern(%q): %v", s, err)
		}
		handles[s] = h
	}

	seen := map[string]bool{}
	for h, b := range in.All() {
		s := string(b)
		if !want[s] {
			t.Fatalf("unexpected entry %q in iteration", s)
		}
		if h != handles[s] {
			t.Fatalf("iteration handle for %q = %v, want %v", s, h, handles[s])
		}
		seen[s] = true
	}
	if len(seen) != len(want) {
		t.Fatalf("saw %d entries, want %d", len(seen), len(want))
	}
}

func TestDistinctStringsGetDistinctHandles(t *testing.T) {
	in, _ := New()
	h1, _ := in.Intern([]byte("foo"))
	h2, _ := in.Intern([]byte("bar"))
	if h1 == h2 {
		t.Fatal("distinct strings produced equal handles")
	}
}

func TestTrailingNulAndInteriorBytesAreDistinct(t *testing.T) {
	in, _ := New()
	h1, _ := in.Intern([]byte("ab"))
	h2, _ := in.Intern([]byte("ab\x00"))
	h3, _ := in.Intern([]byte("a\x00b"))
	if h1 == h2 || h1 == h3 || h2 == h3 {
		t.Fatal("byte-strings differing only by embedded NUL placement collapsed to the same handle")
	}
}

func TestResolveContractViolation(t *testing.T) {
	in, _ := New()
	if _, err := in.Resolve(Handle(0)); !errors.Is(err, ErrContractViolation) {
		t.Fatalf("Resolve(0) = %v, want ErrContractViolation", err)
	}
	if _, err := in.Resolve(HandleFromUint32(99999)); !errors.Is(err, ErrContractViolation) {
		t.Fatalf("Resolve(out-of-range) = %v, want ErrContractViolation", err)
	}
}

func TestInvalidShardCountRejected(t *testing.T) {
	if _, err := New(WithShardCount(3)); err == nil {
		t.Fatal("expected error for non-power-of-two shard count")
	}
}

func TestConcurrentInternManyKeysYieldsExactCount(t *testing.T) {
	in, _ := New()
	const workers = 100
	const opsPerWorker = 1000
	const distinctKeys = 1000

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < opsPerWorker; i++ {
				key := (w*opsPerWorker + i) % distinctKeys
				if _, err := in.Intern([]byte{byte(key), byte(key >> 8)}); err != nil {
					t.Error(err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	if in.Len() != distinctKeys {
		t.Fatalf("Len() = %d, want %d", in.Len(), distinctKeys)
	}
}

func TestShardCountsSumToLen(t *testing.T) {
	in, _ := New(WithShardCount(8))
	for i := 0; i < 500; i++ {
		key := []byte{byte(i), byte(i >> 8), byte(i >> 16)}
		if _, err := in.Intern(key); err != nil {
			t.Fatalf("Intern #%d: %v", i, err)
		}
	}

	counts := in.ShardCounts()
	if len(counts) != in.ShardCount() {
		t.Fatalf("ShardCounts() returned %d entries, want %d", len(counts), in.ShardCount())
	}
	sum := 0
	for _, c := range counts {
		sum += c
	}
	if uint32(sum) != in.Len() {
		t.Fatalf("sum of ShardCounts() = %d, want Len() = %d", sum, in.Len())
	}
}

func TestHandleIsIdempotentAndAllocationFreeSecondCall(t *testing.T) {
	in, _ := New()
	h1, err := in.Intern([]byte("stable-key"))
	if err != nil {
		t.Fatalf("Intern: %v", err)
	}
	lenAfterFirst := in.Len()

	for i := 0; i < 10; i++ {
		h2, err := in.Intern([]byte("stable-key"))
		if err != nil {
			t.Fatalf("Intern (repeat): %v", err)
		}
		if h2 != h1 {
			t.Fatalf("Intern not idempotent: %v != %v", h1, h2)
		}
	}
	if in.Len() != lenAfterFirst {
		t.Fatalf("Len() grew on repeat Intern: %d != %d", in.Len(), lenAfterFirst)
	}
}
