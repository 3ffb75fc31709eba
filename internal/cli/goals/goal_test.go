package goals

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/game"
	goalengine "github.com/julianstephens/stampet/internal/goals"
	"github.com/julianstephens/stampet/internal/models"
	"github.com/julianstephens/stampet/internal/storage"
)

// Friday 2024-03-15; the week started on Sunday 2024-03-10.
var testNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func setupTestContext(t *testing.T) (*cli.Context, models.Habit) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "test.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	if err := storage.SaveSettings(store, settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
	ctx := &cli.Context{Provider: store, Clock: func() time.Time { return testNow }}

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
	return ctx, habit
}

func TestGoalAddCmd(t *testing.T) {
	ctx, h := setupTestContext(t)

	if err := (&GoalAddCmd{Period: "weekly", Days: 3}).Run(ctx); err != nil {
		t.Fatalf("goal add failed: %v", err)
	}
	gs, _ := ctx.Game()
	s := gs.State()
	if len(s.Goals) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(s.Goals))
	}
	for _, g := range s.Goals {
		if g.HabitID != h.ID || g.Period != models.PeriodWeekly || g.TargetDays != 3 || g.CoinReward != 10 {
			t.Errorf("unexpected goal: %+v", g)
		}
	}

	// Three stamps in the current week complete and pay the goal
	after, err := gs.StampRange(h.ID, "2024-03-10", "2024-03-12")
	if err != nil {
		t.Fatalf("StampRange failed: %v", err)
	}
	if len(after.CompletedGoals) != 1 || after.CompletedGoals[0].PeriodStart != "2024-03-10" {
		t.Errorf("expected one completion for the week of 2024-03-10, got %+v", after.CompletedGoals)
	}
	if after.Coins != 10 {
		t.Errorf("expected 10 coins, got %d", after.Coins)
	}

	if err := (&GoalListCmd{}).Run(ctx); err != nil {
		t.Errorf("goal list failed: %v", err)
	}
}

func TestGoalAddCmd_ImmediateClaim(t *testing.T) {
	ctx, h := setupTestContext(t)
	gs, _ := ctx.Game()
	if _, err := gs.StampRange(h.ID, "2024-03-11", "2024-03-12"); err != nil {
		t.Fatalf("StampRange failed: %v", err)
	}

	if err := (&GoalAddCmd{Period: "weekly", Days: 2}).Run(ctx); err != nil {
		t.Fatalf("goal add failed: %v", err)
	}
	s := gs.State()
	if len(s.CompletedGoals) != 1 {
		t.Errorf("expected the goal to be claimed on creation, got %+v", s.CompletedGoals)
	}
}

func TestGoalAddCmd_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cmd  GoalAddCmd
	}{
		{name: "weekly target too large", cmd: GoalAddCmd{Period: "weekly", Days: 8}},
		{name: "zero target", cmd: GoalAddCmd{Period: "monthly", Days: 0}},
		{name: "monthly target too large", cmd: GoalAddCmd{Period: "monthly", Days: 32}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestContext(t)
			if err := tt.cmd.Run(ctx); !errors.Is(err, goalengine.ErrInvalidTarget) {
				t.Errorf("expected ErrInvalidTarget, got %v", err)
			}
		})
	}

	ctx, _ := setupTestContext(t)
	if err := (&GoalAddCmd{Period: "daily", Days: 1}).Run(ctx); err == nil {
		t.Error("expected an error for an unknown period")
	}
}

func TestGoalDeleteCmd(t *testing.T) {
	ctx, _ := setupTestContext(t)
	if err := (&GoalAddCmd{Period: "monthly", Days: 10}).Run(ctx); err != nil {
		t.Fatalf("goal add failed: %v", err)
	}
	gs, _ := ctx.Game()
	var id string
	for gid := range gs.State().Goals {
		id = gid
	}

	if err := (&GoalDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("goal delete failed: %v", err)
	}
	if n := len(gs.State().Goals); n != 0 {
		t.Errorf("expected no goals, got %d", n)
	}
	if err := (&GoalDeleteCmd{ID: id}).Run(ctx); !errors.Is(err, game.ErrGoalNotFound) {
		t.Errorf("expected ErrGoalNotFound, got %v", err)
	}
}
