package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/stampet/internal/models"
)

func providers(t *testing.T) map[string]Provider {
	t.Helper()
	dir := t.TempDir()
	return map[string]Provider{
		"json":   NewJSONStore(filepath.Join(dir, "stampet.json")),
		"sqlite": NewSQLiteStore(filepath.Join(dir, "stampet.db")),
	}
}

func setupProvider(t *testing.T, p Provider) {
	t.Helper()
	if err := p.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })
}

func TestDocumentRoundTrip(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			setupProvider(t, p)

			if _, err := p.GetDocument("missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("GetDocument(missing) error = %v, want ErrNotFound", err)
			}

			if err := p.PutDocument("a", []byte(`{"coins":5}`)); err != nil {
				t.Fatalf("PutDocument failed: %v", err)
			}
			if err := p.PutDocument("a", []byte(`{"coins":7}`)); err != nil {
				t.Fatalf("PutDocument overwrite failed: %v", err)
			}
			got, err := p.GetDocument("a")
			if err != nil {
				t.Fatalf("GetDocument failed: %v", err)
			}
			if string(got) != `{"coins":7}` {
				t.Errorf("GetDocument = %s, want overwritten value", got)
			}

			if err := p.PutDocument("b", []byte(`[]`)); err != nil {
				t.Fatalf("PutDocument failed: %v", err)
			}
			keys, err := p.Keys()
			if err != nil {
				t.Fatalf("Keys failed: %v", err)
			}
			if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
				t.Errorf("Keys = %v, want [a b]", keys)
			}

			if err := p.DeleteDocument("a"); err != nil {
				t.Fatalf("DeleteDocument failed: %v", err)
			}
			if err := p.DeleteDocument("a"); err != nil {
				t.Errorf("DeleteDocument of missing key should be a no-op, got %v", err)
			}
			if _, err := p.GetDocument("a"); !errors.Is(err, ErrNotFound) {
				t.Errorf("deleted document still readable: %v", err)
			}

			if err := p.Clear(); err != nil {
				t.Fatalf("Clear failed: %v", err)
			}
			if keys, _ := p.Keys(); len(keys) != 0 {
				t.Errorf("Keys after Clear = %v, want empty", keys)
			}
		})
	}
}

func TestDocumentsSurviveReload(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		open func() Provider
	}{
		{"json", func() Provider { return NewJSONStore(filepath.Join(dir, "s.json")) }},
		{"sqlite", func() Provider { return NewSQLiteStore(filepath.Join(dir, "s.db")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := tt.open()
			setupProvider(t, first)
			if err := first.PutDocument("k", []byte(`{"v":1}`)); err != nil {
				t.Fatalf("PutDocument failed: %v", err)
			}
			first.Close()

			second := tt.open()
			if err := second.Load(); err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			defer second.Close()
			got, err := second.GetDocument("k")
			if err != nil {
				t.Fatalf("GetDocument after reload failed: %v", err)
			}
			if string(got) != `{"v":1}` {
				t.Errorf("GetDocument after reload = %s", got)
			}
		})
	}
}

func TestLoadUninitialized(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			if err := p.Load(); err == nil {
				t.Error("Load should fail before Init")
			}
		})
	}
}

func TestJSONStoreRejectsInvalidDocument(t *testing.T) {
	p := NewJSONStore(filepath.Join(t.TempDir(), "s.json"))
	setupProvider(t, p)
	if err := p.PutDocument("k", []byte("{not json")); err == nil {
		t.Error("PutDocument should reject invalid JSON")
	}
	if _, err := os.Stat(p.GetConfigPath() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not be left behind")
	}
}

func TestJSONStoreSetsAsideCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stampet.json")
	if err := os.WriteFile(path, []byte(`{"version": 1, "documents": {"stampet:game-state": {"coi`), 0600); err != nil {
		t.Fatal(err)
	}

	p := NewJSONStore(path)
	if err := p.Load(); err != nil {
		t.Fatalf("Load should recover from a corrupt file, got %v", err)
	}
	if _, err := p.GetDocument("stampet:game-state"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected an empty store, got %v", err)
	}
	if err := p.PutDocument("k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("PutDocument after recovery failed: %v", err)
	}

	aside, err := filepath.Glob(path + ".corrupt-*")
	if err != nil || len(aside) != 1 {
		t.Fatalf("expected the corrupt file to be kept aside, got %v (%v)", aside, err)
	}
	if data, _ := os.ReadFile(aside[0]); len(data) == 0 {
		t.Error("the set-aside file should keep the original bytes")
	}

	reloaded := NewJSONStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if _, err := reloaded.GetDocument("k"); err != nil {
		t.Errorf("document written after recovery was lost: %v", err)
	}
}

func TestSQLiteSchemaVersion(t *testing.T) {
	p := NewSQLiteStore(filepath.Join(t.TempDir(), "s.db"))
	setupProvider(t, p)
	current, latest, err := p.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if current != latest || current < 1 {
		t.Errorf("SchemaVersion = %d/%d, want fully migrated", current, latest)
	}
}

func TestNewPicksProviderByExtension(t *testing.T) {
	if _, ok := New("/tmp/x.json").(*JSONStore); !ok {
		t.Error("expected JSONStore for .json path")
	}
	if _, ok := New("/tmp/x.JSON").(*JSONStore); !ok {
		t.Error("expected JSONStore for .JSON path")
	}
	if _, ok := New("/tmp/x.db").(*SQLiteStore); !ok {
		t.Error("expected SQLiteStore for .db path")
	}
}

func TestSettings(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			setupProvider(t, p)

			got, err := GetSettings(p)
			if err != nil {
				t.Fatalf("GetSettings failed: %v", err)
			}
			if got != models.DefaultSettings() {
				t.Errorf("GetSettings on empty store = %+v, want defaults", got)
			}

			if err := EnsureSettings(p); err != nil {
				t.Fatalf("EnsureSettings failed: %v", err)
			}

			want := models.Settings{Timezone: "America/New_York", ReminderTime: "08:30", NotificationsEnabled: false}
			if err := SaveSettings(p, want); err != nil {
				t.Fatalf("SaveSettings failed: %v", err)
			}
			// Must not overwrite existing settings
			if err := EnsureSettings(p); err != nil {
				t.Fatalf("EnsureSettings failed: %v", err)
			}
			got, err = GetSettings(p)
			if err != nil {
				t.Fatalf("GetSettings failed: %v", err)
			}
			if got != want {
				t.Errorf("GetSettings = %+v, want %+v", got, want)
			}
		})
	}
}
