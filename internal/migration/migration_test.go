package migration

import (
	"database/sql"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/stampet/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func migrationFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count == 1
}

func TestCurrentVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_test.sql": "CREATE TABLE test (id INTEGER);",
	}))

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.ForceVersion(5); err != nil {
		t.Fatalf("ForceVersion failed: %v", err)
	}

	version, err = runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestLoad(t *testing.T) {
	runner := NewRunner(setupTestDB(t), migrationFS(map[string]string{
		"003_another.sql": "CREATE TABLE test2 (id INTEGER);",
		"001_init.sql":    "CREATE TABLE test1 (id INTEGER);",
		"002_update.sql":  "ALTER TABLE test1 ADD COLUMN name TEXT;",
		"README.md":       "not a migration",
	}))

	got, err := Load(runner.fs)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(got))
	}

	want := []struct {
		version int
		name    string
	}{{1, "init"}, {2, "update"}, {3, "another"}}
	for i, w := range want {
		if got[i].Version != w.version || got[i].Name != w.name {
			t.Errorf("migration %d: expected %d/%s, got %d/%s", i, w.version, w.name, got[i].Version, got[i].Name)
		}
	}
}

func TestApply(t *testing.T) {
	db := setupTestDB(t)
	files := migrationFS(map[string]string{
		"001_init.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);",
	})
	runner := NewRunner(db, files)

	var logged []string
	count, err := runner.Apply(func(msg string) { logged = append(logged, msg) })
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied, got %d", count)
	}
	if len(logged) == 0 {
		t.Error("expected progress messages")
	}
	if !tableExists(t, db, "users") {
		t.Error("users table was not created")
	}

	// Add a second migration and apply incrementally
	files["002_posts.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE posts (id INTEGER PRIMARY KEY);")}
	count, err = runner.Apply(nil)
	if err != nil {
		t.Fatalf("Apply (2nd) failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 more migration applied, got %d", count)
	}

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	// Nothing pending
	count, err = runner.Apply(nil)
	if err != nil {
		t.Fatalf("Apply (3rd) failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 migrations applied on third run, got %d", count)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_init.sql": `
			CREATE TABLE users (id INTEGER PRIMARY KEY);
			THIS IS INVALID SQL;
		`,
	}))

	if _, err := runner.Apply(nil); err == nil {
		t.Fatal("Apply should have failed with invalid SQL")
	}

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 after failed migration, got %d", version)
	}
	if tableExists(t, db, "users") {
		t.Error("table should not exist after failed migration")
	}
}

func TestValidate_NewerDatabase(t *testing.T) {
	runner := NewRunner(setupTestDB(t), migrationFS(map[string]string{
		"001_init.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY);",
	}))

	if err := runner.ForceVersion(10); err != nil {
		t.Fatalf("ForceVersion failed: %v", err)
	}
	if err := runner.Validate(); !errors.Is(err, ErrSchemaTooNew) {
		t.Fatalf("expected ErrSchemaTooNew, got %v", err)
	}
	if _, err := runner.Apply(nil); err == nil {
		t.Fatal("Apply should have failed with newer database version")
	}
}

func TestMigrationFilenameErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "missing underscore",
			files:   map[string]string{"001init.sql": "SELECT 1;"},
			wantErr: "invalid migration filename format",
		},
		{
			name:    "zero version",
			files:   map[string]string{"000_init.sql": "SELECT 1;"},
			wantErr: "version must be at least 1",
		},
		{
			name: "duplicate version",
			files: map[string]string{
				"001_init.sql":  "SELECT 1;",
				"001_other.sql": "SELECT 2;",
			},
			wantErr: "duplicate migration version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(migrationFS(tt.files))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	for _, dir := range []string{"sqlite", "postgres"} {
		sub, err := fs.Sub(migrations.FS, dir)
		if err != nil {
			t.Fatalf("fs.Sub(%s) failed: %v", dir, err)
		}
		latest, err := NewRunner(nil, sub).LatestVersion()
		if err != nil {
			t.Fatalf("%s: LatestVersion failed: %v", dir, err)
		}
		if latest < 1 {
			t.Errorf("%s: expected at least one migration, got latest %d", dir, latest)
		}
	}

	db := setupTestDB(t)
	sub, _ := fs.Sub(migrations.FS, "sqlite")
	if _, err := NewRunner(db, sub).Apply(nil); err != nil {
		t.Fatalf("applying embedded sqlite migrations failed: %v", err)
	}
	if !tableExists(t, db, "documents") {
		t.Error("documents table was not created")
	}
}

func TestInsertVersionPlaceholder(t *testing.T) {
	if got := NewRunner(nil, nil).insertVersionSQL(); !strings.Contains(got, "(?)") {
		t.Errorf("sqlite insert = %q, want ? placeholder", got)
	}
	if got := NewPostgresRunner(nil, nil).insertVersionSQL(); !strings.Contains(got, "($1)") {
		t.Errorf("postgres insert = %q, want $1 placeholder", got)
	}
}

func TestPlan(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationFS(map[string]string{
		"001_init.sql":  "CREATE TABLE a (id INTEGER);",
		"002_more.sql":  "CREATE TABLE b (id INTEGER);",
		"003_extra.sql": "CREATE TABLE c (id INTEGER);",
	}))
	if err := runner.ForceVersion(1); err != nil {
		t.Fatalf("ForceVersion failed: %v", err)
	}

	p, err := runner.Plan()
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if p.Current != 1 || p.Latest != 3 {
		t.Errorf("expected 1 -> 3, got %d -> %d", p.Current, p.Latest)
	}
	if len(p.Pending) != 2 || p.Pending[0].Name != "more" || p.Pending[1].Name != "extra" {
		t.Errorf("unexpected pending migrations: %+v", p.Pending)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		file    string
		version int
		name    string
		wantErr bool
	}{
		{file: "001_init.sql", version: 1, name: "init"},
		{file: "012_add_goal_index.sql", version: 12, name: "add_goal_index"},
		{file: "abc_init.sql", wantErr: true},
		{file: "001_.sql", wantErr: true},
		{file: "init.sql", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			version, name, err := parseName(tt.file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseName(%q) error = %v, wantErr %v", tt.file, err, tt.wantErr)
			}
			if !tt.wantErr && (version != tt.version || name != tt.name) {
				t.Errorf("parseName(%q) = %d, %q", tt.file, version, name)
			}
		})
	}
}
