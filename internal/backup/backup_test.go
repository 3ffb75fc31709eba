package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/storage"
)

func setupStore(t *testing.T, name string, value string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	p := storage.New(path)
	if err := p.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if err := p.PutDocument(constants.GameStateKey, []byte(value)); err != nil {
		t.Fatalf("PutDocument() failed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	return path
}

func readDoc(t *testing.T, path string) string {
	t.Helper()
	p := storage.New(path)
	if err := p.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer p.Close()
	data, err := p.GetDocument(constants.GameStateKey)
	if err != nil {
		t.Fatalf("GetDocument() failed: %v", err)
	}
	return string(data)
}

func writeDoc(t *testing.T, path, value string) {
	t.Helper()
	p := storage.New(path)
	if err := p.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer p.Close()
	if err := p.PutDocument(constants.GameStateKey, []byte(value)); err != nil {
		t.Fatalf("PutDocument() failed: %v", err)
	}
}

func fixedClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Minute)
	}
}

func TestCreateBackup(t *testing.T) {
	for _, name := range []string{"stampet.db", "stampet.json"} {
		t.Run(name, func(t *testing.T) {
			path := setupStore(t, name, `{"coins":5}`)
			mgr := NewManager(path)

			backupPath, err := mgr.CreateBackup()
			if err != nil {
				t.Fatalf("CreateBackup failed: %v", err)
			}
			if filepath.Dir(backupPath) != mgr.GetBackupDir() {
				t.Errorf("backup in %s, want %s", filepath.Dir(backupPath), mgr.GetBackupDir())
			}
			base := filepath.Base(backupPath)
			if !strings.HasPrefix(base, constants.BackupFilePrefix) || filepath.Ext(base) != filepath.Ext(name) {
				t.Errorf("unexpected backup name %s", base)
			}
			if got := readDoc(t, backupPath); got != `{"coins":5}` {
				t.Errorf("backup content = %s", got)
			}
		})
	}
}

func TestCreateBackup_MissingFile(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error for missing storage file")
	}
}

func TestCreateBackup_SameSecond(t *testing.T) {
	path := setupStore(t, "stampet.json", `{}`)
	mgr := NewManager(path)
	at := time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return at }

	first, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}
	second, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("backups in the same second should get distinct names")
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Errorf("ListBackups() returned %d, want 2", len(backups))
	}
}

func TestRotation(t *testing.T) {
	path := setupStore(t, "stampet.json", `{}`)
	mgr := NewManager(path)
	mgr.now = fixedClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local))

	var created []string
	for i := 0; i < constants.MaxBackups+3; i++ {
		p, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup %d failed: %v", i, err)
		}
		created = append(created, p)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("kept %d backups, want %d", len(backups), constants.MaxBackups)
	}
	if backups[0].Path != created[len(created)-1] {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, created[len(created)-1])
	}
	if _, err := os.Stat(created[0]); !os.IsNotExist(err) {
		t.Error("oldest backup should have been removed")
	}
}

func TestListBackups_IgnoresForeignFiles(t *testing.T) {
	path := setupStore(t, "stampet.json", `{}`)
	mgr := NewManager(path)
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", constants.BackupFilePrefix + "garbage.json", constants.BackupFilePrefix + "20240101-120000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Errorf("ListBackups() returned %d, want 1", len(backups))
	}
}

func TestRestoreBackup(t *testing.T) {
	for _, name := range []string{"stampet.db", "stampet.json"} {
		t.Run(name, func(t *testing.T) {
			path := setupStore(t, name, `{"coins":1}`)
			mgr := NewManager(path)
			mgr.now = fixedClock(time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local))

			backupPath, err := mgr.CreateBackup()
			if err != nil {
				t.Fatal(err)
			}

			writeDoc(t, path, `{"coins":99}`)

			safety, err := mgr.RestoreBackup(backupPath)
			if err != nil {
				t.Fatalf("RestoreBackup failed: %v", err)
			}
			if got := readDoc(t, path); got != `{"coins":1}` {
				t.Errorf("restored content = %s", got)
			}
			if safety == "" {
				t.Fatal("expected a safety backup of the replaced data")
			}
			if got := readDoc(t, safety); got != `{"coins":99}` {
				t.Errorf("safety backup content = %s", got)
			}
		})
	}
}

func TestRestoreBackup_Invalid(t *testing.T) {
	path := setupStore(t, "stampet.json", `{}`)
	mgr := NewManager(path)

	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing backup")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RestoreBackup(bad); err == nil {
		t.Error("expected error for corrupted backup")
	}
}
