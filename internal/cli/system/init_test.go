package system

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/game"
	"github.com/julianstephens/stampet/internal/models"
	"github.com/julianstephens/stampet/internal/storage"
)

var testNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func setupTestContext(t *testing.T, name string) *cli.Context {
	t.Helper()
	store := storage.New(filepath.Join(t.TempDir(), name))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	if err := storage.SaveSettings(store, settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
	return &cli.Context{Provider: store, Clock: func() time.Time { return testNow }}
}

func onboardAndStamp(t *testing.T, ctx *cli.Context) models.Habit {
	t.Helper()
	gs, err := ctx.Game()
	if err != nil {
		t.Fatalf("failed to load game: %v", err)
	}
	var habit models.Habit
	if _, err := gs.Apply(func(s models.GameState, now time.Time) (models.GameState, error) {
		next, h, err := game.Onboard(s, "Read", "paw", "blue", now)
		habit = h
		return next, err
	}); err != nil {
		t.Fatalf("Onboard failed: %v", err)
	}
	if _, err := gs.StampToday(habit.ID); err != nil {
		t.Fatalf("StampToday failed: %v", err)
	}
	return habit
}

func TestInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stampet.db")
	store := storage.NewSQLiteStore(path)
	t.Cleanup(func() { _ = store.Close() })
	ctx := &cli.Context{Provider: store}

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected storage file to exist: %v", err)
	}
	if _, err := store.GetDocument(constants.SettingsKey); err != nil {
		t.Errorf("expected default settings to be written: %v", err)
	}
}

func TestInitCmd_Force(t *testing.T) {
	ctx := setupTestContext(t, "stampet.db")
	onboardAndStamp(t, ctx)

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	if _, err := ctx.Provider.GetDocument(constants.GameStateKey); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected the game state to be gone, got %v", err)
	}
}

func TestInitCmd_ForceSameSource(t *testing.T) {
	ctx := setupTestContext(t, "stampet.db")
	cmd := &InitCmd{Force: true, Source: ctx.Provider.GetConfigPath()}
	if err := cmd.Run(ctx); err == nil {
		t.Fatal("expected an error when source and destination are the same")
	}
	if _, err := os.Stat(ctx.Provider.GetConfigPath()); err != nil {
		t.Errorf("storage must survive a refused --force: %v", err)
	}
}

func TestInitCmd_Source(t *testing.T) {
	src := setupTestContext(t, "old.json")
	h := onboardAndStamp(t, src)

	dstPath := filepath.Join(t.TempDir(), "stampet.db")
	dst := storage.NewSQLiteStore(dstPath)
	t.Cleanup(func() { _ = dst.Close() })
	ctx := &cli.Context{Provider: dst, Clock: func() time.Time { return testNow }}

	if err := (&InitCmd{Source: src.Provider.GetConfigPath()}).Run(ctx); err != nil {
		t.Fatalf("init --source failed: %v", err)
	}

	gs, err := ctx.Game()
	if err != nil {
		t.Fatalf("failed to load copied game: %v", err)
	}
	got, ok := gs.State().Habits[h.ID]
	if !ok {
		t.Fatal("expected the habit to be copied")
	}
	if !got.IsStamped("2024-03-15") {
		t.Error("expected the stamp to be copied")
	}
	settings, err := ctx.Settings()
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	if settings.Timezone != "UTC" {
		t.Errorf("expected copied timezone UTC, got %s", settings.Timezone)
	}
}

func TestResetCmd(t *testing.T) {
	ctx := setupTestContext(t, "stampet.json")
	onboardAndStamp(t, ctx)

	if err := (&ResetCmd{Yes: true}).Run(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	gs, _ := ctx.Game()
	if n := len(gs.State().Habits); n != 0 {
		t.Errorf("expected no habits after reset, got %d", n)
	}
	data, err := ctx.Provider.GetDocument(constants.GameStateKey)
	if err != nil {
		t.Fatalf("expected the fresh world to be stored: %v", err)
	}
	stored, _, err := game.Decode(data)
	if err != nil {
		t.Fatalf("stored game state does not decode: %v", err)
	}
	if len(stored.Habits) != 0 || stored.UpdatedAt == "" {
		t.Errorf("expected an empty, timestamped world, got %d habits at %q", len(stored.Habits), stored.UpdatedAt)
	}
}

func TestResetCmd_Cancelled(t *testing.T) {
	ctx := setupTestContext(t, "stampet.json")
	onboardAndStamp(t, ctx)

	restore := cli.SetConfirmInput(strings.NewReader("n\n"))
	defer restore()
	if err := (&ResetCmd{}).Run(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	gs, _ := ctx.Game()
	if n := len(gs.State().Habits); n != 1 {
		t.Errorf("expected the habit to survive, got %d habits", n)
	}
}
