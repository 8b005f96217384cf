package main

import (
	"time"

	"github.com/spf13/pflag"
)

type options struct {
	target   string
	watch    bool
	json     bool
	interval time.Duration
	version  bool
}

func parseFlags() *options {
	opts := &options{}

	pflag.StringVarP(&opts.target, "target", "t", "http://127.0.0.1:8080", "base URL of the service exposing the interner debug snapshot")
	pflag.BoolVarP(&opts.watch, "watch", "w", false, "poll the snapshot endpoint repeatedly instead of once")
	pflag.DurationVar(&opts.interval, "interval", 2*time.Second, "polling interval when --watch is set")
	pflag.BoolVar(&opts.json, "json", false, "print the raw JSON snapshot instead of a formatted summary")
	pflag.BoolVar(&opts.version, "version", false, "print internstat's version and exit")
	pflag.Parse()

	return opts
}
