package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentlog/supercompact/internal/archive"
	"github.com/agentlog/supercompact/internal/compacterr"
	"github.com/agentlog/supercompact/internal/config"
	"github.com/agentlog/supercompact/internal/evalharness"
	"github.com/agentlog/supercompact/internal/evalstore"
	"github.com/agentlog/supercompact/internal/fmtutil"
	"github.com/agentlog/supercompact/internal/help"
	"github.com/agentlog/supercompact/internal/pipeline"
	"github.com/agentlog/supercompact/internal/rollout"
	"github.com/agentlog/supercompact/internal/tokenizer"
)

var allScorerMethods = []string{"eitf", "setcover", "dedup", "dry-run"}

func newEvalCmd() *cobra.Command {
	var splitRatio float64
	var method string
	var budget int
	var historyDB string

	cmd := &cobra.Command{
		Use:   subUse(help.CmdEval.TableUsage),
		Short: help.CmdEval.Brief,
		Long:  help.CmdEval.Description,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fail(4, fmt.Errorf("load config: %w", err))
			}
			if !cmd.Flags().Changed("split-ratio") {
				splitRatio = cfg.SplitRatio
			}
			if !cmd.Flags().Changed("method") {
				method = cfg.Method
			}
			if !cmd.Flags().Changed("budget") {
				budget = cfg.Budget
			}

			return runEval(args[0], method, budget, splitRatio, historyDB, cfg)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&splitRatio, "split-ratio", 0, "Fraction of the transcript treated as history (default: 0.70)")
	f.StringVar(&method, "method", "", "Scoring method to evaluate, or \"all\" to compare every method (default: eitf)")
	f.IntVar(&budget, "budget", 0, "Token budget to evaluate against (default: 80000)")
	f.StringVar(&historyDB, "history-db", "", "Append this run's coverage to a sqlite history table")

	return cmd
}

func runEval(inputPath, method string, budget int, splitRatio float64, historyDB string, cfg config.Config) error {
	tr, err := rollout.ParseFile(inputPath)
	if err != nil {
		return err
	}
	pipeline.Tokenize(tr.Turns, tokenizer.New())
	sets := pipeline.ExtractEntities(tr.Turns)

	methods := []string{method}
	if method == "all" {
		methods = allScorerMethods
	}

	var db *evalstore.DB
	if historyDB != "" {
		db, err = evalstore.Open(historyDB)
		if err != nil {
			return fail(3, &compacterr.IoError{Path: historyDB, Reason: "open eval-history db", Cause: err})
		}
		defer db.Close()
	}

	sessionKey := archive.SessionKey(inputPath)
	for _, m := range methods {
		res, err := evalharness.Run(tr.Turns, sets, m, budget, cfg.ShortThreshold, cfg.MinRepeatLen, splitRatio)
		if err != nil {
			return fail(4, err)
		}
		printEvalResult(res)

		if db != nil {
			run := evalstore.Run{
				RunID:              uuid.New().String(),
				SessionKey:         sessionKey,
				Method:             res.Method,
				Budget:             res.Budget,
				SplitRatio:         splitRatio,
				Coverage:           res.Coverage,
				WeightedCoverage:   res.WeightedCoverage,
				UnrecoverableCount: res.UnrecoverableCount,
				PrefixTokens:       res.PrefixTokens,
				KeptTokens:         res.KeptTokens,
				CreatedAt:          time.Now().UTC().Format(time.RFC3339),
			}
			if err := db.Insert(run); err != nil {
				return fail(3, &compacterr.IoError{Path: historyDB, Reason: "record eval run", Cause: err})
			}
		}
	}
	return nil
}

func printEvalResult(res *evalharness.Result) {
	fmt.Printf("method=%s budget=%d split=%d\n", res.Method, res.Budget, res.SplitIndex)
	fmt.Printf("  coverage:          %.3f\n", res.Coverage)
	fmt.Printf("  weighted coverage: %.3f\n", res.WeightedCoverage)
	fmt.Printf("  compression:       %.3f\n", res.Compression)
	fmt.Printf("  prefix tokens:     %s\n", fmtutil.FormatInt(res.PrefixTokens))
	fmt.Printf("  kept tokens:       %s\n", fmtutil.FormatInt(res.KeptTokens))
	fmt.Printf("  unrecoverable:     %d\n", res.UnrecoverableCount)
	for _, ts := range res.TypeBreakdown {
		fmt.Printf("  %-12s %d/%d (%.2f)\n", ts.Type, ts.Covered, ts.Total, ts.Coverage)
	}
}
