package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/stampet/internal/game"
	"github.com/julianstephens/stampet/internal/models"
)

var now = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

const today = "2024-03-15"

func validState(t *testing.T) (models.GameState, string) {
	t.Helper()
	s, h, err := game.Onboard(game.NewGameState(), "Read", "paw", "orange", now)
	if err != nil {
		t.Fatalf("Onboard() failed: %v", err)
	}
	s, err = game.StampRange(s, h.ID, "2024-03-10", today, now)
	if err != nil {
		t.Fatalf("StampRange() failed: %v", err)
	}
	s, _, err = game.CreateGoal(s, h.ID, models.PeriodWeekly, 3, now)
	if err != nil {
		t.Fatalf("CreateGoal() failed: %v", err)
	}
	return s, h.ID
}

func TestValidateGameState_Clean(t *testing.T) {
	s, _ := validState(t)
	result := ValidateGameState(s, today)
	if result.HasConflicts() {
		t.Errorf("expected no conflicts, got:\n%s", result.FormatReport())
	}
	if result.FormatReport() != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", result.FormatReport())
	}

	fresh := ValidateGameState(game.NewGameState(), today)
	if fresh.HasConflicts() {
		t.Errorf("fresh state has conflicts:\n%s", fresh.FormatReport())
	}
}

func TestValidateGameState_Conflicts(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(s *models.GameState, habitID string)
		want    ConflictType
	}{
		{
			name: "exp drift",
			corrupt: func(s *models.GameState, id string) {
				h := s.Habits[id]
				h.TotalExp += 10
				s.Habits[id] = h
			},
			want: ConflictDerivedDrift,
		},
		{
			name: "streak order",
			corrupt: func(s *models.GameState, id string) {
				h := s.Habits[id]
				h.LongestStreak = 1
				s.Habits[id] = h
			},
			want: ConflictStreakOrder,
		},
		{
			name: "missing active habit",
			corrupt: func(s *models.GameState, id string) {
				s.ActiveHabitID = "ghost"
			},
			want: ConflictMissingActiveHabit,
		},
		{
			name: "dangling goal",
			corrupt: func(s *models.GameState, id string) {
				s.Goals["g-orphan"] = models.Goal{ID: "g-orphan", HabitID: "ghost", Period: models.PeriodWeekly, TargetDays: 1}
			},
			want: ConflictDanglingGoal,
		},
		{
			name: "duplicate claim",
			corrupt: func(s *models.GameState, id string) {
				cg := models.CompletedGoal{GoalID: "g1", PeriodStart: "2024-03-10"}
				s.CompletedGoals = append(s.CompletedGoals, cg, cg)
			},
			want: ConflictDuplicateClaim,
		},
		{
			name: "unknown pet",
			corrupt: func(s *models.GameState, id string) {
				s.UnlockedPets = append(s.UnlockedPets, "unicorn")
			},
			want: ConflictUnknownCatalogID,
		},
		{
			name: "negative coins",
			corrupt: func(s *models.GameState, id string) {
				s.Coins = -5
			},
			want: ConflictNegativeCoins,
		},
		{
			name: "invalid log key",
			corrupt: func(s *models.GameState, id string) {
				h := s.Habits[id]
				h.Logs["2024-02-30"] = models.DayLog{Date: "2024-02-30", Stamped: false}
				s.Habits[id] = h
			},
			want: ConflictInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, id := validState(t)
			s = s.Clone()
			tt.corrupt(&s, id)

			result := ValidateGameState(s, today)
			if result.Count(tt.want) == 0 {
				t.Fatalf("expected a %s conflict, got:\n%s", tt.want, result.FormatReport())
			}
			if !strings.HasPrefix(result.FormatReport(), "Conflicts detected:") {
				t.Errorf("FormatReport() = %q", result.FormatReport())
			}
		})
	}
}

func TestValidateGameState_DriftIsTodaySensitive(t *testing.T) {
	s, _ := validState(t)

	// Two days later the stored current streak is stale
	result := ValidateGameState(s, "2024-03-17")
	if result.Count(ConflictDerivedDrift) == 0 {
		t.Error("expected streak drift when validating against a later day")
	}

	refreshed := game.Refresh(s, now.AddDate(0, 0, 2))
	result = ValidateGameState(refreshed, "2024-03-17")
	if result.HasConflicts() {
		t.Errorf("refreshed state should be clean, got:\n%s", result.FormatReport())
	}
}
