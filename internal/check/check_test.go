package check

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentlog/supercompact/internal/config"
)

func TestCheckEnvMethod(t *testing.T) {
	t.Setenv("SUPERCOMPACT_METHOD", "setcover")
	r := CheckEnvMethod()
	if r.Status != Pass {
		t.Errorf("expected Pass, got %s", r.Status)
	}
	if r.Detail != "SUPERCOMPACT_METHOD=setcover" {
		t.Errorf("unexpected detail: %s", r.Detail)
	}
}

func TestCheckEnvMethod_Unset(t *testing.T) {
	t.Setenv("SUPERCOMPACT_METHOD", "")
	r := CheckEnvMethod()
	if r.Status != Pass {
		t.Errorf("expected Pass even when unset, got %s", r.Status)
	}
}

func TestCheckEnvBudget(t *testing.T) {
	t.Setenv("SUPERCOMPACT_BUDGET", "40000")
	r := CheckEnvBudget()
	if r.Detail != "SUPERCOMPACT_BUDGET=40000" {
		t.Errorf("unexpected detail: %s", r.Detail)
	}
}

func TestCheckArchiveDir_Pass(t *testing.T) {
	dir := t.TempDir()
	r := CheckArchiveDir(dir)
	if r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckArchiveDir_Warn(t *testing.T) {
	r := CheckArchiveDir("/nonexistent/archive/dir")
	if r.Status != Warn {
		t.Errorf("expected Warn, got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckEvalHistoryDB_SkippedWhenEmpty(t *testing.T) {
	if r := CheckEvalHistoryDB(""); r != nil {
		t.Errorf("expected nil result for empty path, got %+v", r)
	}
}

func TestCheckEvalHistoryDB_WarnWhenMissing(t *testing.T) {
	r := CheckEvalHistoryDB("/nonexistent/eval.db")
	if r == nil || r.Status != Warn {
		t.Fatalf("expected Warn, got %+v", r)
	}
}

func TestCheckEvalHistoryDB_PassWhenReachable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eval.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.Exec("CREATE TABLE t (x INTEGER)")
	db.Close()

	r := CheckEvalHistoryDB(path)
	if r == nil || r.Status != Pass {
		t.Fatalf("expected Pass, got %+v", r)
	}
}

func TestReport_HasFailures(t *testing.T) {
	r := Report{Results: []Result{
		{Name: "a", Status: Pass},
		{Name: "b", Status: Fail},
	}}
	if !r.HasFailures() {
		t.Error("expected HasFailures() == true")
	}
	r2 := Report{Results: []Result{{Name: "a", Status: Warn}}}
	if r2.HasFailures() {
		t.Error("expected HasFailures() == false")
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{Pass, "pass"},
		{Warn, "warn"},
		{Fail, "FAIL"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestRun_Integration(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("SUPERCOMPACT_METHOD", "")
	t.Setenv("SUPERCOMPACT_BUDGET", "")

	archiveDir := t.TempDir()
	os.MkdirAll(archiveDir, 0o755)

	cfg := config.DefaultConfig()
	cfg.Archive.Dir = archiveDir

	report := Run(cfg, "")

	names := map[string]Status{}
	for _, res := range report.Results {
		names[res.Name] = res.Status
	}
	if names["archive-dir"] != Pass {
		t.Errorf("archive-dir = %s, want Pass", names["archive-dir"])
	}
	if _, ok := names["eval-history-db"]; ok {
		t.Error("eval-history-db should be skipped when no path is given")
	}

	if report.Format() == "" {
		t.Error("Format() returned empty string")
	}
}
