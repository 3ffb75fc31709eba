// Package migration applies numbered SQL files ("NNN_name.sql") to a
// database and records the applied version in a schema_version table.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrSchemaTooNew is returned when the database was migrated by a newer build.
var ErrSchemaTooNew = errors.New("database schema is newer than this build supports")

// Migration is one SQL file
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Dialect selects the bind placeholder style of the target database
type Dialect int

const (
	// SQLite uses "?" placeholders
	SQLite Dialect = iota
	// Postgres uses "$1" placeholders
	Postgres
)

func (d Dialect) placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Plan is the difference between the applied schema and the available files
type Plan struct {
	Current int
	Latest  int
	Pending []Migration
}

// Runner applies the migrations found in an fs.FS
type Runner struct {
	db      *sql.DB
	fs      fs.FS
	dialect Dialect
}

// NewRunner creates a runner for a SQLite database
func NewRunner(db *sql.DB, migrationFS fs.FS) *Runner {
	return &Runner{db: db, fs: migrationFS, dialect: SQLite}
}

// NewPostgresRunner creates a runner for a Postgres database
func NewPostgresRunner(db *sql.DB, migrationFS fs.FS) *Runner {
	return &Runner{db: db, fs: migrationFS, dialect: Postgres}
}

func (r *Runner) insertVersionSQL() string {
	return "INSERT INTO schema_version (version) VALUES (" + r.dialect.placeholder(1) + ")"
}

// parseName splits "007_add_goals.sql" into 7 and "add_goals".
func parseName(filename string) (int, string, error) {
	prefix, name, ok := strings.Cut(strings.TrimSuffix(filename, ".sql"), "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("invalid migration filename format: %s (expected NNN_name.sql)", filename)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version number in filename %s: %w", filename, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version number in filename %s: version must be at least 1", filename)
	}
	return version, name, nil
}

// Load reads every .sql file at the root of fsys, ordered by version.
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var out []Migration
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".sql" {
			continue
		}
		version, name, err := parseName(e.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: name, SQL: string(body)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

func (r *Runner) ensureTable() error {
	_, err := r.db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)")
	if err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	return nil
}

// CurrentVersion is the applied schema version, 0 for a fresh database.
func (r *Runner) CurrentVersion() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	var version int
	switch err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&version); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// LatestVersion is the highest version among the migration files.
func (r *Runner) LatestVersion() (int, error) {
	all, err := Load(r.fs)
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		return 0, nil
	}
	return all[len(all)-1].Version, nil
}

// ForceVersion overwrites the recorded version without running any SQL.
func (r *Runner) ForceVersion(version int) error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	if err := r.writeVersion(tx, version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *Runner) writeVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear version: %w", err)
	}
	if _, err := tx.Exec(r.insertVersionSQL(), version); err != nil {
		return fmt.Errorf("failed to set version: %w", err)
	}
	return nil
}

// Plan compares the applied version with the available files.
func (r *Runner) Plan() (Plan, error) {
	current, err := r.CurrentVersion()
	if err != nil {
		return Plan{}, err
	}
	all, err := Load(r.fs)
	if err != nil {
		return Plan{}, err
	}
	p := Plan{Current: current}
	if len(all) > 0 {
		p.Latest = all[len(all)-1].Version
	}
	if current > p.Latest {
		return p, fmt.Errorf("%w: database at version %d, latest known %d", ErrSchemaTooNew, current, p.Latest)
	}
	for _, m := range all {
		if m.Version > current {
			p.Pending = append(p.Pending, m)
		}
	}
	return p, nil
}

// Validate fails with ErrSchemaTooNew when the database is ahead of the files.
func (r *Runner) Validate() error {
	_, err := r.Plan()
	return err
}

func (r *Runner) apply(m Migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
	}
	if _, err := tx.Exec(m.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if err := r.writeVersion(tx, m.Version); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// Apply runs every pending migration, each in its own transaction, and
// returns how many were applied. logFn may be nil.
func (r *Runner) Apply(logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(string) {}
	}
	p, err := r.Plan()
	if err != nil {
		return 0, err
	}
	if len(p.Pending) == 0 {
		logFn(fmt.Sprintf("Schema up to date at version %d", p.Current))
		return 0, nil
	}

	logFn(fmt.Sprintf("Migrating schema %d -> %d", p.Current, p.Latest))
	start := time.Now()
	for i, m := range p.Pending {
		if err := r.apply(m); err != nil {
			return i, err
		}
		logFn(fmt.Sprintf("  applied %03d_%s", m.Version, m.Name))
	}
	logFn(fmt.Sprintf("Applied %d migration(s) in %v", len(p.Pending), time.Since(start)))
	return len(p.Pending), nil
}
