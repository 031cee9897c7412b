// Package check implements `compact doctor`'s environment diagnostics:
// the resolved config path, whether the SUPERCOMPACT_METHOD/
// SUPERCOMPACT_BUDGET environment overrides are set, whether the archive
// directory exists, and whether an optional sqlite eval-history file is
// reachable.
package check

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentlog/supercompact/internal/config"
	"github.com/agentlog/supercompact/internal/evalstore"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "compact doctor\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("compact doctor\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports the resolved config path. It never fails: it passes
// when config.toml exists and warns when it does not — a malformed
// config.toml is caught by config.Load before doctor runs.
func CheckConfig() Result {
	path := filepath.Join(config.ConfigDir(), "config.toml")
	if _, err := os.Stat(path); err != nil {
		return Result{Name: "config", Status: Warn, Detail: path + " not found, using built-in defaults"}
	}
	return Result{Name: "config", Status: Pass, Detail: path}
}

// CheckEnvMethod reports whether SUPERCOMPACT_METHOD is set.
func CheckEnvMethod() Result {
	if v := os.Getenv("SUPERCOMPACT_METHOD"); v != "" {
		return Result{Name: "env:method", Status: Pass, Detail: "SUPERCOMPACT_METHOD=" + v}
	}
	return Result{Name: "env:method", Status: Pass, Detail: "SUPERCOMPACT_METHOD not set, using config/default"}
}

// CheckEnvBudget reports whether SUPERCOMPACT_BUDGET is set.
func CheckEnvBudget() Result {
	if v := os.Getenv("SUPERCOMPACT_BUDGET"); v != "" {
		return Result{Name: "env:budget", Status: Pass, Detail: "SUPERCOMPACT_BUDGET=" + v}
	}
	return Result{Name: "env:budget", Status: Pass, Detail: "SUPERCOMPACT_BUDGET not set, using config/default"}
}

// CheckArchiveDir checks whether the configured archive directory exists.
// A missing directory only warns — `compact archive` creates it on demand.
func CheckArchiveDir(dir string) Result {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return Result{Name: "archive-dir", Status: Pass, Detail: dir}
	}
	return Result{Name: "archive-dir", Status: Warn, Detail: dir + " does not exist yet"}
}

// CheckEvalHistoryDB checks whether an eval-history sqlite file is
// reachable and, if so, reports how many runs it has recorded. An empty
// path is skipped entirely (no result emitted) since the flag is optional.
func CheckEvalHistoryDB(path string) *Result {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return &Result{Name: "eval-history-db", Status: Warn, Detail: path + " not found yet"}
	}
	db, err := evalstore.Open(path)
	if err != nil {
		return &Result{Name: "eval-history-db", Status: Fail, Detail: path + ": " + err.Error()}
	}
	defer db.Close()
	n, err := db.RunCount()
	if err != nil {
		return &Result{Name: "eval-history-db", Status: Fail, Detail: path + ": " + err.Error()}
	}
	return &Result{Name: "eval-history-db", Status: Pass, Detail: fmt.Sprintf("%s (%d run(s) recorded)", path, n)}
}

// Run executes every check against the given config and optional
// eval-history database path, and returns an aggregated report.
func Run(cfg config.Config, historyDBPath string) Report {
	var results []Result

	results = append(results, CheckConfig())
	results = append(results, CheckEnvMethod())
	results = append(results, CheckEnvBudget())
	results = append(results, CheckArchiveDir(cfg.Archive.Dir))
	if r := CheckEvalHistoryDB(historyDBPath); r != nil {
		results = append(results, *r)
	}

	return Report{Results: results}
}
