package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentlog/supercompact/internal/compacterr"
	"github.com/agentlog/supercompact/internal/config"
	"github.com/agentlog/supercompact/internal/emitter"
	"github.com/agentlog/supercompact/internal/fmtutil"
	"github.com/agentlog/supercompact/internal/help"
	"github.com/agentlog/supercompact/internal/pipeline"
	"github.com/agentlog/supercompact/internal/rollout"
)

func newRootCmd() *cobra.Command {
	var method string
	var budget int
	var output string
	var format string
	var shortThreshold int
	var minRepeatLen int
	var scoresFile string
	var verbose bool

	cmd := &cobra.Command{
		Use:   help.CmdRun.TableUsage,
		Short: help.CmdRun.Brief,
		Long:  help.CmdRun.Description,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fail(4, fmt.Errorf("load config: %w", err))
			}

			if v := os.Getenv("SUPERCOMPACT_METHOD"); v != "" {
				cfg.Method = v
			}
			if v := os.Getenv("SUPERCOMPACT_BUDGET"); v != "" {
				if n, err := strconv.Atoi(v); err == nil {
					cfg.Budget = n
				}
			}

			if cmd.Flags().Changed("method") {
				cfg.Method = method
			}
			if cmd.Flags().Changed("budget") {
				cfg.Budget = budget
			}
			if cmd.Flags().Changed("short-threshold") {
				cfg.ShortThreshold = shortThreshold
			}
			if cmd.Flags().Changed("min-repeat-len") {
				cfg.MinRepeatLen = minRepeatLen
			}
			if format == "" {
				format = "rollout"
			}
			if format != "rollout" && format != "summary" {
				return fail(4, &compacterr.InvalidArgument{Name: "format", Reason: "must be rollout or summary, got " + format})
			}

			return runCompact(args[0], output, scoresFile, format, verbose, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&method, "method", "", "Scoring method: eitf, setcover, dedup, or dry-run (default: eitf)")
	f.IntVar(&budget, "budget", 0, "Token budget for the compacted transcript (default: 80000)")
	f.StringVarP(&output, "output", "o", "", "Write compacted output to PATH instead of stdout")
	f.StringVar(&format, "format", "", "Emitter dialect: rollout or summary (default: rollout)")
	f.IntVar(&shortThreshold, "short-threshold", 0, "Turns at or below N tokens are never scored for entities (default: 300)")
	f.IntVar(&minRepeatLen, "min-repeat-len", 0, "Minimum run length for dedup's repeated-block detection (default: 64)")
	f.StringVar(&scoresFile, "scores-file", "", "Write per-turn scores to CSV for inspection")
	f.BoolVar(&verbose, "verbose", false, "Print a score-breakdown table to stderr")

	return cmd
}

// runCompact drives the full parse -> tokenize -> extract -> score ->
// select -> emit pipeline for one input file (spec §4, §6).
func runCompact(inputPath, outputPath, scoresFile, format string, verbose bool, cfg config.Config) error {
	start := time.Now()

	tr, err := rollout.ParseFile(inputPath)
	if err != nil {
		return err
	}

	res, scores, tokWarnings, ok := pipeline.Run(tr.Turns, cfg.Method, cfg.Budget, cfg.ShortThreshold, cfg.MinRepeatLen)
	if !ok {
		return fail(4, &compacterr.InvalidArgument{Name: "method", Reason: "unknown scoring method: " + cfg.Method})
	}

	info := emitter.PassInfo{
		Method:    cfg.Method,
		Budget:    cfg.Budget,
		Kept:      len(res.Kept),
		Dropped:   len(res.DroppedScored),
		ElapsedMs: time.Since(start).Milliseconds(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		PassID:    uuid.New().String(),
	}

	var out []byte
	switch format {
	case "summary":
		out = emitter.Summary(tr, res.Kept, scores)
	default:
		out, err = emitter.Rollout(tr, res.Kept, info)
		if err != nil {
			return fail(3, &compacterr.IoError{Path: outputPath, Reason: "render rollout output", Cause: err})
		}
	}

	if err := writeOutput(outputPath, out); err != nil {
		return err
	}

	if scoresFile != "" {
		csv := emitter.ScoresCSV(tr.Turns, scores, res.Kept)
		if err := os.WriteFile(scoresFile, csv, 0o644); err != nil {
			return fail(3, &compacterr.IoError{Path: scoresFile, Reason: "write scores file", Cause: err})
		}
	}

	if verbose {
		fmt.Fprint(os.Stderr, fmtutil.ScoreTable(tr.Turns, scores, res, fmtutil.StdoutWidth()))
	}

	for _, w := range tr.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	for _, w := range tokWarnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	if res.OverBudget {
		return fail(5, res.BudgetErr)
	}
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fail(3, &compacterr.IoError{Path: "stdout", Reason: "write", Cause: err})
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fail(3, &compacterr.IoError{Path: path, Reason: "write", Cause: err})
	}
	return nil
}
