// internstat inspects a running process that embeds an Interner and exposes
// its debug snapshot over HTTP at /debug/interner/snapshot. This repository
// ships no handler for that endpoint; the embedding process provides it.
//
// Beyond the raw counters, internstat computes a shard-skew figure from the
// snapshot's per-shard entry counts: how unevenly Intern/TryGet load is
// spread across the index's shards. A healthy fingerprint hash keeps every
// shard close to the mean; a busiest-shard-to-mean ratio well above 1 is a
// sign the hasher's high bits (which select the shard, per the index's
// shard_index = fingerprint >> (64-k) scheme) aren't spreading load evenly
// across the installed vocabulary, and is the kind of thing an operator
// would want surfaced before it shows up as one goroutine bottlenecked on a
// hot shard lock.
//
// © 2025 interner authors. MIT License.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var version = "dev"

// snapshot is the JSON object this CLI expects from the
// /debug/interner/snapshot endpoint.
type snapshot struct {
	Len         uint32 `json:"len"`
	ShardCount  int    `json:"shard_count"`
	ArenaBytes  int64  `json:"arena_bytes"`
	ShardCounts []int  `json:"shard_counts"`
}

// shardSkew summarizes how evenly ShardCounts is distributed.
type shardSkew struct {
	Mean      float64
	StdDev    float64
	BusiestOf float64 // busiest shard's count divided by the mean; 1.0 is perfectly even
}

func computeShardSkew(counts []int) shardSkew {
	if len(counts) == 0 {
		return shardSkew{}
	}
	var sum, max int
	for _, c := range counts {
		sum += c
		if c > max {
			max = c
		}
	}
	mean := float64(sum) / float64(len(counts))

	var sqDiff float64
	for _, c := range counts {
		d := float64(c) - mean
		sqDiff += d * d
	}
	stddev := math.Sqrt(sqDiff / float64(len(counts)))

	busiestOf := 0.0
	if mean > 0 {
		busiestOf = float64(max) / mean
	}
	return shardSkew{Mean: mean, StdDev: stddev, BusiestOf: busiestOf}
}

func main() {
	opts := parseFlags()

	if opts.version {
		fmt.Println(version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	if opts.watch {
		ticker := time.NewTicker(opts.interval)
		defer ticker.Stop()
		for {
			if err := report(ctx, opts); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
			}
			select {
			case <-ticker.C:
				continue
			case <-ctx.Done():
				return
			}
		}
	}

	if err := report(ctx, opts); err != nil {
		fatal(err)
	}
}

// report fetches one snapshot and renders it per opts.json.
func report(ctx context.Context, opts *options) error {
	raw, err := fetchSnapshot(ctx, opts.target)
	if err != nil {
		return err
	}
	if opts.json {
		return renderJSON(raw)
	}
	return renderText(raw)
}

// fetchSnapshot returns the raw JSON body so renderJSON can re-indent it
// without lossy round-tripping through a typed struct, while renderText
// still gets a fully typed view for the skew computation.
func fetchSnapshot(ctx context.Context, base string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/debug/interner/snapshot", nil)
	if err != nil {
		return nil, err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", res.Status)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(res.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderJSON(raw []byte) error {
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return err
	}
	_, err := os.Stdout.Write(append(out.Bytes(), '\n'))
	return err
}

func renderText(raw []byte) error {
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return err
	}
	skew := computeShardSkew(snap.ShardCounts)

	fmt.Printf("Entries:      %d\n", snap.Len)
	fmt.Printf("Shards:       %d\n", snap.ShardCount)
	fmt.Printf("Arena MB:     %.2f\n", float64(snap.ArenaBytes)/1_048_576)
	fmt.Printf("Shard mean:   %.1f entries\n", skew.Mean)
	fmt.Printf("Shard stddev: %.1f entries\n", skew.StdDev)
	fmt.Printf("Busiest/mean: %.2fx", skew.BusiestOf)
	if skew.BusiestOf >= 2.0 {
		fmt.Printf("  (uneven — check the hasher)")
	}
	fmt.Println()
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "internstat:", err)
	os.Exit(1)
}
