// Package fmtutil holds terminal-output formatting helpers shared by the
// CLI's --verbose score breakdown and any other human-readable summaries:
// comma-grouped integers, K/M-suffixed token counts, and a width-aware
// score table.
package fmtutil

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/agentlog/supercompact/internal/rollout"
	"github.com/agentlog/supercompact/internal/selector"
)

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "0"
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// FormatTokens formats a token count for display: plain with commas below
// 10K, "X.XK" from 10K, "X.XM" from 1M.
func FormatTokens(n int) string {
	if n < 0 {
		return "0"
	}
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n >= 10_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return FormatInt(n)
}

// FormatFloat rounds f to the nearest integer and formats it with commas.
func FormatFloat(f float64) string {
	return FormatInt(int(f + 0.5))
}

// TerminalWidth returns the current width of fd, or fallback when fd is
// not a terminal (piped output, redirected files) or the ioctl fails.
func TerminalWidth(fd int, fallback int) int {
	if !term.IsTerminal(fd) {
		return fallback
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// status classifies a turn for the --verbose breakdown table.
func status(idx int, res *selector.Result) string {
	for _, p := range res.Pinned {
		if p == idx {
			return "pinned"
		}
	}
	for _, k := range res.Kept {
		if k == idx {
			return "kept"
		}
	}
	return "dropped"
}

// ScoreTable renders a --verbose breakdown of every turn: its role, token
// count, raw score (scorable turns only), and selection outcome. Lines
// longer than width are hard-wrapped; width <= 0 disables wrapping.
func ScoreTable(turns []*rollout.Turn, scores map[int]float64, res *selector.Result, width int) string {
	var b strings.Builder
	b.WriteString("idx  role    tokens   score   status\n")

	indices := make([]int, len(turns))
	for i, t := range turns {
		indices[i] = t.Index
	}
	sort.Ints(indices)

	byIndex := make(map[int]*rollout.Turn, len(turns))
	for _, t := range turns {
		byIndex[t.Index] = t
	}

	for _, idx := range indices {
		t := byIndex[idx]
		scoreStr := "-"
		if s, ok := scores[idx]; ok {
			scoreStr = fmt.Sprintf("%.3f", s)
		}
		fmt.Fprintf(&b, "%-4d %-7s %-8s %-7s %s\n", idx, t.Role, FormatTokens(t.Tokens), scoreStr, status(idx, res))
	}

	if width > 0 {
		return wrapLines(b.String(), width)
	}
	return b.String()
}

// wrapLines hard-wraps any line longer than width, breaking on the last
// space before the limit when one exists.
func wrapLines(s string, width int) string {
	lines := strings.Split(s, "\n")
	var out strings.Builder
	for _, line := range lines {
		for len(line) > width {
			cut := strings.LastIndex(line[:width], " ")
			if cut <= 0 {
				cut = width
			}
			out.WriteString(line[:cut])
			out.WriteByte('\n')
			line = strings.TrimLeft(line[cut:], " ")
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return strings.TrimRight(out.String(), "\n") + "\n"
}

// StdoutWidth is TerminalWidth applied to os.Stdout, defaulting to 80
// columns when stdout is not a terminal.
func StdoutWidth() int {
	return TerminalWidth(int(os.Stdout.Fd()), 80)
}
