// Package evalstore persists EvalHarness results across runs, backing the
// `compact eval --history-db` flag so a caller can track coverage trends
// for a session over successive compaction-method or budget tweaks. This
// is CLI-level convenience layered on top of the core pipeline, not part
// of it: the core EvalHarness returns a Result value and never touches a
// database itself.
package evalstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS eval_runs (
    run_id              TEXT PRIMARY KEY,
    session_key         TEXT NOT NULL,
    method              TEXT NOT NULL,
    budget              INTEGER NOT NULL,
    split_ratio         REAL NOT NULL,
    coverage            REAL NOT NULL,
    weighted_coverage   REAL NOT NULL,
    unrecoverable_count INTEGER NOT NULL,
    prefix_tokens       INTEGER NOT NULL,
    kept_tokens         INTEGER NOT NULL,
    created_at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS eval_runs_session_key ON eval_runs(session_key);
`

// schemaVersion is bumped whenever the eval_runs shape changes.
const schemaVersion = "1"

// DB wraps the sqlite handle backing the eval-history store.
type DB struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at dbPath and
// applies the schema.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create eval-history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open eval-history db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init eval-history schema: %w", err)
	}

	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT)"); err != nil {
		db.Close()
		return nil, fmt.Errorf("init meta table: %w", err)
	}

	d := &DB{db: db}
	if err := d.migrateSchemaVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) migrateSchemaVersion() error {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err == sql.ErrNoRows || ver != schemaVersion {
		_, err := d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
		return err
	}
	return nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Run is one recorded EvalHarness invocation.
type Run struct {
	RunID              string
	SessionKey         string
	Method             string
	Budget             int
	SplitRatio         float64
	Coverage           float64
	WeightedCoverage   float64
	UnrecoverableCount int
	PrefixTokens       int
	KeptTokens         int
	CreatedAt          string
}

// Insert records one eval run.
func (d *DB) Insert(r Run) error {
	_, err := d.db.Exec(
		`INSERT INTO eval_runs (run_id, session_key, method, budget, split_ratio,
			coverage, weighted_coverage, unrecoverable_count, prefix_tokens, kept_tokens, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.SessionKey, r.Method, r.Budget, r.SplitRatio,
		r.Coverage, r.WeightedCoverage, r.UnrecoverableCount, r.PrefixTokens, r.KeptTokens, r.CreatedAt,
	)
	return err
}

// History returns every recorded run for a session, oldest first.
func (d *DB) History(sessionKey string) ([]Run, error) {
	rows, err := d.db.Query(
		`SELECT run_id, session_key, method, budget, split_ratio,
			coverage, weighted_coverage, unrecoverable_count, prefix_tokens, kept_tokens, created_at
		 FROM eval_runs WHERE session_key = ? ORDER BY created_at ASC`,
		sessionKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.SessionKey, &r.Method, &r.Budget, &r.SplitRatio,
			&r.Coverage, &r.WeightedCoverage, &r.UnrecoverableCount, &r.PrefixTokens, &r.KeptTokens, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunCount returns the total number of recorded runs. `compact doctor`
// reports this alongside its eval-history-db reachability check.
func (d *DB) RunCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM eval_runs").Scan(&n)
	return n, err
}
