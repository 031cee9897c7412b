// Command compact reads a Codex-CLI rollout transcript, extracts
// technical entities from every turn, scores and selects turns under a
// token budget, and emits a compacted transcript that keeps every
// surviving turn verbatim (spec §1, §4, §6).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/agentlog/supercompact/internal/compacterr"
	"github.com/agentlog/supercompact/internal/help"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	help.Version = version

	rootCmd := newRootCmd()
	rootCmd.AddCommand(newEvalCmd())
	rootCmd.AddCommand(newArchiveCmd())
	rootCmd.AddCommand(newRestoreCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.SetHelpFunc(topLevelHelpFunc)
	for _, c := range rootCmd.Commands() {
		if def, ok := helpCommandFor(c.Name()); ok {
			c.SetHelpFunc(subcommandHelpFunc(def))
		}
	}

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		fmt.Fprintln(os.Stderr, ee.err)
		return ee.code
	}
	fmt.Fprintln(os.Stderr, err)
	return exitCodeFor(err)
}

// exitCodeFor maps an error not already wrapped in an exitError to the
// spec's exit codes by recovering its typed compacterr kind.
func exitCodeFor(err error) int {
	var parseErr *compacterr.ParseError
	if errors.As(err, &parseErr) {
		return 2
	}
	var ioErr *compacterr.IoError
	if errors.As(err, &ioErr) {
		return 3
	}
	var invalidErr *compacterr.InvalidArgument
	if errors.As(err, &invalidErr) {
		return 4
	}
	var budgetErr *compacterr.BudgetTooSmallError
	if errors.As(err, &budgetErr) {
		return 5
	}
	return 1
}
