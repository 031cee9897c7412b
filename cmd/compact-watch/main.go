// Command compact-watch watches a directory for growing *.jsonl rollout
// logs and compacts each one as it crosses a size threshold, invoking the
// same core pipeline compact itself uses. It is the one reactive piece of
// the repo (spec.md §1/§5 explicitly keep the core synchronous and
// batch-oriented) — a convenience wrapper, not a server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/agentlog/supercompact/internal/config"
	"github.com/agentlog/supercompact/internal/emitter"
	"github.com/agentlog/supercompact/internal/pipeline"
	"github.com/agentlog/supercompact/internal/rollout"
	"github.com/agentlog/supercompact/internal/watch"
)

const version = "0.1.0"

func main() {
	args := os.Args[1:]
	dir := flagValue(args, "--dir")
	if dir == "" {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}
	if v := flagValue(args, "--method"); v != "" {
		cfg.Method = v
	}
	if v := flagValue(args, "--budget"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Budget = n
		}
	}

	minBytes := int64(1024)
	if v := flagValue(args, "--min-bytes"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			minBytes = n
		}
	}

	debounce := 500 * time.Millisecond
	if v := flagValue(args, "--debounce"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			debounce = d
		}
	}

	w, err := watch.New(watch.Options{
		Dir:           dir,
		MinBytes:      minBytes,
		DebounceDelay: debounce,
		OnChange: func(path string) {
			if err := compactOnChange(path, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "compact-watch: %s: %v\n", path, err)
			}
		},
	})
	if err != nil {
		fatal("%v", err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "compact-watch v%s watching %s (min-bytes=%d, method=%s, budget=%d)\n",
		version, dir, minBytes, cfg.Method, cfg.Budget)

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		fatal("%v", err)
	}
}

// compactOnChange runs one compaction pass over path and writes the
// result to path + ".compacted", leaving the original rollout log
// untouched. A failure here is logged and the watcher keeps running —
// one bad file must never take down the watch loop.
func compactOnChange(path string, cfg config.Config) error {
	tr, err := rollout.ParseFile(path)
	if err != nil {
		return err
	}

	res, scores, _, ok := pipeline.Run(tr.Turns, cfg.Method, cfg.Budget, cfg.ShortThreshold, cfg.MinRepeatLen)
	if !ok {
		return fmt.Errorf("unknown scoring method: %s", cfg.Method)
	}
	_ = scores

	out, err := emitter.Rollout(tr, res.Kept, emitter.PassInfo{
		Method:    cfg.Method,
		Budget:    cfg.Budget,
		Kept:      len(res.Kept),
		Dropped:   len(res.DroppedScored),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		PassID:    uuid.New().String(),
	})
	if err != nil {
		return err
	}

	destPath := path + ".compacted"
	if err := os.WriteFile(destPath, out, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "compact-watch: compacted %s -> %s (kept=%d, dropped=%d)\n",
		path, destPath, len(res.Kept), len(res.DroppedScored))
	return nil
}

func flagValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func usage() {
	fmt.Fprintf(os.Stderr, `compact-watch v%s — watch a directory and compact rollout logs on change

Usage:
  compact-watch --dir DIR [--min-bytes N] [--method NAME] [--budget N] [--debounce DURATION]

Flags:
  --dir DIR             Directory to watch for *.jsonl rollout logs (required)
  --min-bytes N          Minimum file size before a change triggers compaction (default: 1024)
  --method NAME          Scoring method (default: config file, else eitf)
  --budget N             Token budget (default: config file, else 80000)
  --debounce DURATION    Debounce window, e.g. "500ms" (default: 500ms)
`, version)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "compact-watch: "+format+"\n", args...)
	os.Exit(1)
}
