package validation

import (
	"fmt"
	"sort"

	"github.com/julianstephens/stampet/internal/catalog"
	"github.com/julianstephens/stampet/internal/game"
	"github.com/julianstephens/stampet/internal/models"
	"github.com/julianstephens/stampet/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDerivedDrift       ConflictType = "derived_drift"
	ConflictStreakOrder        ConflictType = "streak_order"
	ConflictMissingActiveHabit ConflictType = "missing_active_habit"
	ConflictDanglingGoal       ConflictType = "dangling_goal"
	ConflictDuplicateClaim     ConflictType = "duplicate_claim"
	ConflictUnknownCatalogID   ConflictType = "unknown_catalog_id"
	ConflictNegativeCoins      ConflictType = "negative_coins"
	ConflictInvalidDate        ConflictType = "invalid_date"
)

// Conflict represents an inconsistency detected in a game state
type Conflict struct {
	Type        ConflictType
	Description string
	HabitID     string // habit involved (if applicable)
	Date        string // YYYY-MM-DD format (if applicable)
	Items       []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns the number of conflicts of the given type.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// ValidateGameState checks a state for derived-field drift and broken
// references, evaluated as of today (a DateKey).
func ValidateGameState(s models.GameState, today string) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	add := func(c Conflict) { result.Conflicts = append(result.Conflicts, c) }

	if s.Coins < 0 {
		add(Conflict{
			Type:        ConflictNegativeCoins,
			Description: fmt.Sprintf("Coin balance is negative: %d", s.Coins),
		})
	}

	if len(s.Habits) > 0 {
		if _, ok := s.Habits[s.ActiveHabitID]; !ok {
			add(Conflict{
				Type:        ConflictMissingActiveHabit,
				Description: fmt.Sprintf("Active habit %q does not exist", s.ActiveHabitID),
				HabitID:     s.ActiveHabitID,
			})
		}
	}

	for _, id := range sortedKeys(s.Habits) {
		validateHabit(s.Habits[id], today, add)
	}

	for _, id := range sortedKeys(s.Goals) {
		g := s.Goals[id]
		if _, ok := s.Habits[g.HabitID]; !ok {
			add(Conflict{
				Type:        ConflictDanglingGoal,
				Description: fmt.Sprintf("Goal %s references unknown habit %q", g.ID, g.HabitID),
				HabitID:     g.HabitID,
				Items:       []string{g.ID},
			})
		}
	}

	seen := make(map[string]bool)
	for _, cg := range s.CompletedGoals {
		key := cg.GoalID + "@" + cg.PeriodStart
		if seen[key] {
			add(Conflict{
				Type:        ConflictDuplicateClaim,
				Description: fmt.Sprintf("Goal %s was rewarded twice for the period starting %s", cg.GoalID, cg.PeriodStart),
				Date:        cg.PeriodStart,
				Items:       []string{cg.GoalID},
			})
		}
		seen[key] = true
	}

	checkIDs := func(kind string, ids []string, known func(string) bool) {
		for _, id := range ids {
			if !known(id) {
				add(Conflict{
					Type:        ConflictUnknownCatalogID,
					Description: fmt.Sprintf("Unknown %s id %q", kind, id),
					Items:       []string{id},
				})
			}
		}
	}
	checkIDs("pet", s.UnlockedPets, catalog.IsPet)
	checkIDs("icon", s.UnlockedIcons, catalog.IsIcon)
	checkIDs("area", s.World.UnlockedAreas, func(id string) bool {
		_, ok := catalog.LookupArea(id)
		return ok
	})
	checkIDs("item", s.Inventory, func(id string) bool {
		_, ok := catalog.LookupItem(id)
		return ok
	})
	checkIDs("achievement", s.UnlockedAchievements, func(id string) bool {
		_, ok := game.Achievements().Lookup(id)
		return ok
	})

	return result
}

func validateHabit(h models.Habit, today string, add func(Conflict)) {
	for key, l := range h.Logs {
		if err := utils.ValidateDateKey(key); err != nil || (l.Date != "" && l.Date != key) {
			add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Habit %q has a log under invalid key %q", h.Name, key),
				HabitID:     h.ID,
				Date:        key,
			})
		}
	}

	if h.LongestStreak < h.CurrentStreak {
		add(Conflict{
			Type:        ConflictStreakOrder,
			Description: fmt.Sprintf("Habit %q has longest streak %d below current streak %d", h.Name, h.LongestStreak, h.CurrentStreak),
			HabitID:     h.ID,
		})
	}

	want := game.Recompute(h, today)
	drift := func(field string, got, exp int) {
		if got != exp {
			add(Conflict{
				Type:        ConflictDerivedDrift,
				Description: fmt.Sprintf("Habit %q has %s %d, expected %d", h.Name, field, got, exp),
				HabitID:     h.ID,
				Items:       []string{field},
			})
		}
	}
	drift("totalExp", h.TotalExp, want.TotalExp)
	drift("currentLevel", h.CurrentLevel, want.CurrentLevel)
	drift("currentStreak", h.CurrentStreak, want.CurrentStreak)
	drift("longestStreak", h.LongestStreak, want.LongestStreak)

	if h.PetID != "" && !catalog.IsPet(h.PetID) {
		add(Conflict{
			Type:        ConflictUnknownCatalogID,
			Description: fmt.Sprintf("Habit %q uses unknown pet %q", h.Name, h.PetID),
			HabitID:     h.ID,
			Items:       []string{h.PetID},
		})
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
