package help

import "strings"

// Version is the compact release version, set at build time via -ldflags.
// Defaults to "dev" when built without version injection (e.g. `go run`).
var Version = "dev"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "--budget N" or "--verbose"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string // e.g. "INPUT.log"
	Desc     string
	Optional bool
}

// Command describes a compact subcommand (or the top-level binary when Name is "").
type Command struct {
	Name        string   // "eval", "archive", etc; "" for top-level
	Synopsis    string   // one-line description (lowercase, for --help header)
	Brief       string   // short description for usage table (capitalized)
	Usage       string   // full usage line, e.g. "compact eval INPUT.log [--split-ratio 0.70]"
	TableUsage  string   // shortened usage for the top-level table (if different from Usage)
	Args        []Arg
	Flags       []Flag
	Description string   // multi-line prose (stored verbatim)
	Examples    []string // one per line, without leading 2-space indent
	SeeAlso     []string // man page cross-refs, e.g. "compact(1)"
}

// tableUsage returns TableUsage if set, otherwise Usage.
func (c Command) tableUsage() string {
	if c.TableUsage != "" {
		return c.TableUsage
	}
	return c.Usage
}

// ManName returns the man page name: "compact" for top-level, "compact-<name>" for subs.
// Spaces in Name are replaced with hyphens.
func (c Command) ManName() string {
	if c.Name == "" {
		return "compact"
	}
	return "compact-" + strings.ReplaceAll(c.Name, " ", "-")
}

// TopLevel is the top-level compact command (used by FormatUsage).
var TopLevel = Command{
	Name:     "",
	Synopsis: "compact AI-agent transcripts to fit a token budget",
}

var CmdRun = Command{
	Name:       "",
	Synopsis:   "compact a transcript to fit a token budget",
	Brief:      "Compact a transcript to fit a token budget (default action)",
	Usage:      "compact INPUT.log [--method eitf|setcover|dedup|dry-run] [--budget N] [--output PATH] [--format rollout|summary] [--short-threshold N] [--min-repeat-len N] [--scores-file CSV] [--verbose]",
	TableUsage: "compact INPUT.log [flags]",
	Args: []Arg{
		{Name: "INPUT.log", Desc: "Path to a rollout JSONL transcript"},
	},
	Flags: []Flag{
		{Name: "--method <name>", Desc: "Scoring method: eitf, setcover, dedup, or dry-run (default: eitf)"},
		{Name: "--budget N", Desc: "Token budget for the compacted transcript (default: 80000)"},
		{Name: "--output PATH", Desc: "Write compacted output to PATH instead of stdout"},
		{Name: "--format <name>", Desc: "Emitter dialect: rollout or summary (default: rollout)"},
		{Name: "--short-threshold N", Desc: "Turns at or below N tokens are never scored for entities (default: 300)"},
		{Name: "--min-repeat-len N", Desc: "Minimum run length for dedup's repeated-block detection (default: 64)"},
		{Name: "--scores-file CSV", Desc: "Write per-turn scores to CSV for inspection"},
		{Name: "--verbose", Desc: "Print a score-breakdown table to stderr"},
	},
	Description: `Reads a rollout JSONL transcript, extracts technical entities from
every turn, scores and selects turns under the given token budget, and
emits a compacted transcript. Every surviving turn is kept verbatim —
compaction drops whole turns, it never rewrites or summarizes one.

Reads SUPERCOMPACT_METHOD and SUPERCOMPACT_BUDGET as fallbacks when
--method/--budget are not given, then a config file, then built-in
defaults. See compact(1) CONFIGURATION.`,
	Examples: []string{
		"compact session.jsonl --budget 40000              Compact to 40k tokens",
		"compact session.jsonl --method setcover --verbose  Use SetCover, print scores",
		"compact session.jsonl --format summary -o out.md  Emit the summary dialect",
	},
	SeeAlso: []string{"compact-eval(1)", "compact-archive(1)", "compact-doctor(1)"},
}

var CmdEval = Command{
	Name:       "eval",
	Synopsis:   "measure entity coverage of a compaction run",
	Brief:      "Measure entity coverage of a compaction run",
	Usage:      "compact eval INPUT.log [--split-ratio 0.70] [--method ...] [--budget ...] [--history-db PATH]",
	TableUsage: "compact eval INPUT.log [flags]",
	Args: []Arg{
		{Name: "INPUT.log", Desc: "Path to a rollout JSONL transcript"},
	},
	Flags: []Flag{
		{Name: "--split-ratio N", Desc: "Fraction of the transcript treated as history (default: 0.70)"},
		{Name: "--method <name>", Desc: "Scoring method to evaluate (default: eitf)"},
		{Name: "--budget N", Desc: "Token budget to evaluate against (default: 80000)"},
		{Name: "--history-db PATH", Desc: "Append this run's coverage to a sqlite history table"},
	},
	Description: `Splits the transcript at --split-ratio (advanced to the next user
turn), compacts the prefix as a standalone transcript under --budget,
extracts the entities mentioned in the held-out suffix's scorable
turns, and reports what fraction of them survive in the compacted
prefix. Prints weighted and unweighted coverage, a per-type breakdown,
and a count of entities that were unrecoverably dropped.

With --history-db set, appends this run to a sqlite-backed history
table so coverage trends can be tracked across many runs.`,
	Examples: []string{
		"compact eval session.jsonl                        Evaluate with defaults",
		"compact eval session.jsonl --split-ratio 0.5       Hold out the last half",
		"compact eval session.jsonl --history-db runs.db    Track coverage over time",
	},
	SeeAlso: []string{"compact(1)", "compact-doctor(1)"},
}

var CmdArchive = Command{
	Name:     "archive",
	Synopsis: "compress a transcript into a timestamped archive",
	Brief:    "Compress a transcript into a timestamped archive",
	Usage:    "compact archive INPUT.log --archive-dir DIR [--force]",
	Flags: []Flag{
		{Name: "--archive-dir DIR", Desc: "Directory to write the compressed copy into"},
		{Name: "--force", Desc: "Write a new archive even if one already exists for this session"},
	},
	Args: []Arg{
		{Name: "INPUT.log", Desc: "Path to a rollout JSONL transcript"},
	},
	Description: `Writes a zstd-compressed copy of the pristine input to
DIR/<session-key>-<unix-timestamp>.jsonl.zst before any compaction
runs. This is CLI-level convenience, not part of the core pipeline:
it is never invoked implicitly by "compact run" or "compact eval".

If an archive already exists for this session, the command is a
no-op unless --force is given. Use "compact restore" to decompress
an archive back to a plain transcript. The original file is never
modified or deleted.`,
	Examples: []string{
		"compact archive session.jsonl --archive-dir ~/.cache/supercompact/archive",
	},
	SeeAlso: []string{"compact(1)", "compact-restore(1)", "compact-doctor(1)"},
}

var CmdRestore = Command{
	Name:     "restore",
	Synopsis: "decompress an archived transcript",
	Brief:    "Decompress an archived transcript",
	Usage:    "compact restore ARCHIVE.jsonl.zst --output PATH",
	Flags: []Flag{
		{Name: "--output PATH", Desc: "Destination for the decompressed transcript (required)"},
	},
	Args: []Arg{
		{Name: "ARCHIVE.jsonl.zst", Desc: "Path to a file written by \"compact archive\""},
	},
	Description: `Decompresses a zstd archive written by "compact archive" back into a
plain rollout JSONL file at --output. The archive itself is left
untouched, so it can be restored from again.`,
	Examples: []string{
		"compact restore ~/.cache/supercompact/archive/session-171.jsonl.zst --output session.jsonl",
	},
	SeeAlso: []string{"compact(1)", "compact-archive(1)"},
}

var CmdDoctor = Command{
	Name:     "doctor",
	Synopsis: "validate environment and configuration",
	Brief:    "Validate environment and configuration",
	Usage:    "compact doctor [--history-db PATH]",
	Flags: []Flag{
		{Name: "--history-db PATH", Desc: "Also check that this eval-history sqlite file is reachable"},
	},
	Description: `Runs diagnostic checks and prints a pass/warn/FAIL report:
  - Resolved config file path
  - SUPERCOMPACT_METHOD and SUPERCOMPACT_BUDGET environment overrides
  - Archive directory existence
  - Eval-history database reachability (when --history-db is given)

Exit code 0 if all checks pass or warn, 1 if any check fails.`,
	SeeAlso: []string{"compact(1)", "compact-eval(1)", "compact-archive(1)"},
}

var CmdVersion = Command{
	Name:     "version",
	Synopsis: "print version",
	Brief:    "Print version",
	Usage:    "compact version",
	SeeAlso:  []string{"compact(1)"},
}

// Subcommands is the ordered list of all subcommands shown in --help/--man.
var Subcommands = []Command{
	CmdEval,
	CmdArchive,
	CmdRestore,
	CmdDoctor,
	CmdVersion,
}
