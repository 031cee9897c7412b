package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentlog/supercompact/internal/help"
)

// subUse strips the leading "compact " that internal/help's Usage strings
// carry (they're written for man pages, where the binary name is part of
// the line) so the same string works as cobra's Use, whose first word
// becomes the subcommand's name.
func subUse(usage string) string {
	return strings.TrimPrefix(usage, "compact ")
}

// helpCommandFor maps a cobra subcommand's name back to its
// internal/help.Command definition, for --help rendering.
func helpCommandFor(name string) (help.Command, bool) {
	switch name {
	case "eval":
		return help.CmdEval, true
	case "archive":
		return help.CmdArchive, true
	case "restore":
		return help.CmdRestore, true
	case "doctor":
		return help.CmdDoctor, true
	case "version":
		return help.CmdVersion, true
	}
	return help.Command{}, false
}

// topLevelHelpFunc renders `compact --help` / `compact help` via
// internal/help.FormatUsage, the same table the man page's SEE ALSO
// cross-refs point at.
func topLevelHelpFunc(cmd *cobra.Command, args []string) {
	fmt.Print(help.FormatUsage(help.TopLevel, help.Subcommands))
}

// subcommandHelpFunc renders one subcommand's --help via
// internal/help.FormatTerminal.
func subcommandHelpFunc(def help.Command) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		fmt.Print(help.FormatTerminal(def))
	}
}
