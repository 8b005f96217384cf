// keygen is a tiny helper utility to generate deterministic byte-string
// workloads for standalone benchmarking of the interner (outside `go test`).
// It emits newline-separated strings drawn from a fixed-size vocabulary with
// either a uniform or Zipfian access pattern, the interning-workload
// counterpart of the teacher's tools/dataset_gen (which emitted raw uint64
// cache keys).
//
// Usage:
//
//	go run ./tools/keygen --n 1000000 --vocab 5000 --dist zipf --seed 42 --out keys.txt
//
// The duplicate rate this produces is what exercises an interner's
// deduplication path: a small --vocab relative to --n means most Intern
// calls hit an already-assigned handle.
//
// © 2025 interner authors. MIT License.
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/pflag"
)

func main() {
	var (
		n       = pflag.IntP("n", "n", 1_000_000, "number of keys to generate")
		vocab   = pflag.Int("vocab", 10_000, "size of the distinct-string vocabulary to draw from")
		dist    = pflag.String("dist", "uniform", "distribution over the vocabulary: uniform or zipf")
		zipfS   = pflag.Float64("zipfs", 1.2, "zipf s parameter (>1)")
		zipfV   = pflag.Float64("zipfv", 1.0, "zipf v parameter (>=1)")
		seedVal = pflag.Int64("seed", time.Now().UnixNano(), "PRNG seed")
		outPath = pflag.String("out", "", "output file (default stdout)")
	)
	pflag.Parse()

	if *vocab <= 0 {
		fmt.Fprintln(os.Stderr, "vocab must be > 0")
		os.Exit(1)
	}

	rnd := rand.New(rand.NewSource(*seedVal))
	vocabulary := make([]string, *vocab)
	for i := range vocabulary {
		vocabulary[i] = fmt.Sprintf("key-%d-%x", i, rnd.Uint32())
	}

	var pick func() string
	switch *dist {
	case "uniform":
		pick = func() string { return vocabulary[rnd.Intn(len(vocabulary))] }
	case "zipf":
		if *zipfS <= 1.0 || *zipfV < 1.0 {
			fmt.Fprintln(os.Stderr, "zipfs must be >1 and zipfv >=1")
			os.Exit(1)
		}
		z := rand.NewZipf(rnd, *zipfS, *zipfV, uint64(len(vocabulary)-1))
		pick = func() string { return vocabulary[z.Uint64()] }
	default:
		fmt.Fprintln(os.Stderr, "unknown dist:", *dist)
		os.Exit(1)
	}

	var out *os.File
	var err error
	if *outPath == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(*outPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create file:", err)
			os.Exit(1)
		}
		defer out.Close()
	}

	w := bufio.NewWriterSize(out, 1<<20)
	defer w.Flush()

	for i := 0; i < *n; i++ {
		fmt.Fprintln(w, pick())
	}
}
