// Package achievements evaluates the fixed achievement registry over a game state.
package achievements

import (
	"sort"

	"github.com/julianstephens/stampet/internal/models"
)

// Achievement describes a single unlockable milestone.
type Achievement struct {
	ID          string
	Name        string
	Description string
	RewardCoins int
	// Condition reports whether the achievement is currently satisfied. It must
	// be pure and treat missing collections as "not met".
	Condition func(models.GameState) bool
}

// Engine holds the achievement registry.
type Engine struct {
	registry []Achievement
}

// NewEngine creates an engine pre-loaded with the full achievement set.
func NewEngine() *Engine {
	return &Engine{registry: buildRegistry()}
}

// Registry returns a shallow copy of all registered achievements.
func (e *Engine) Registry() []Achievement {
	out := make([]Achievement, len(e.registry))
	copy(out, e.registry)
	return out
}

// Lookup finds an achievement by id.
func (e *Engine) Lookup(id string) (Achievement, bool) {
	for _, a := range e.registry {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Evaluate returns the sorted ids of every achievement whose condition holds now.
func (e *Engine) Evaluate(state models.GameState) []string {
	var ids []string
	for _, a := range e.registry {
		if a.Condition(state) {
			ids = append(ids, a.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// UnlockNew diffs the satisfied set against alreadyUnlocked, which may be in
// any order. Ids already unlocked are never reported again, and nothing is
// ever revoked.
func (e *Engine) UnlockNew(state models.GameState, alreadyUnlocked []string) ([]string, int) {
	unlocked := make(map[string]bool, len(alreadyUnlocked))
	for _, id := range alreadyUnlocked {
		unlocked[id] = true
	}
	var newly []string
	coins := 0
	for _, a := range e.registry {
		if unlocked[a.ID] || !a.Condition(state) {
			continue
		}
		newly = append(newly, a.ID)
		coins += a.RewardCoins
	}
	sort.Strings(newly)
	return newly, coins
}

func bestCurrentStreak(s models.GameState) int {
	best := 0
	for _, h := range s.Habits {
		if h.CurrentStreak > best {
			best = h.CurrentStreak
		}
	}
	return best
}

func buildRegistry() []Achievement {
	return []Achievement{
		{
			ID: "streak_3", Name: "Warming Up",
			Description: "Keep a 3 day streak",
			RewardCoins: 10,
			Condition:   func(s models.GameState) bool { return bestCurrentStreak(s) >= 3 },
		},
		{
			ID: "streak_7", Name: "Week Warrior",
			Description: "Keep a 7 day streak",
			RewardCoins: 30,
			Condition:   func(s models.GameState) bool { return bestCurrentStreak(s) >= 7 },
		},
		{
			ID: "streak_30", Name: "Unstoppable",
			Description: "Keep a 30 day streak",
			RewardCoins: 100,
			Condition:   func(s models.GameState) bool { return bestCurrentStreak(s) >= 30 },
		},
		{
			ID: "wealth_100", Name: "Piggy Bank",
			Description: "Hold 100 coins",
			RewardCoins: 20,
			Condition:   func(s models.GameState) bool { return s.Coins >= 100 },
		},
		{
			ID: "wealth_500", Name: "Treasure Chest",
			Description: "Hold 500 coins",
			RewardCoins: 50,
			Condition:   func(s models.GameState) bool { return s.Coins >= 500 },
		},
		{
			ID: "first_purchase", Name: "Window Shopper",
			Description: "Own at least one item",
			RewardCoins: 10,
			Condition:   func(s models.GameState) bool { return len(s.Inventory) > 0 },
		},
		{
			ID: "pet_collector", Name: "Pet Collector",
			Description: "Unlock 3 pets",
			RewardCoins: 50,
			Condition:   func(s models.GameState) bool { return len(s.UnlockedPets) >= 3 },
		},
		{
			ID: "explorer", Name: "Explorer",
			Description: "Unlock 3 world areas",
			RewardCoins: 50,
			Condition:   func(s models.GameState) bool { return len(s.World.UnlockedAreas) >= 3 },
		},
		{
			ID: "hall_of_fame", Name: "Hall of Fame",
			Description: "Retire your first adult pet",
			RewardCoins: 100,
			Condition:   func(s models.GameState) bool { return len(s.RetiredPets) >= 1 },
		},
		{
			ID: "legend_keeper", Name: "Legend Keeper",
			Description: "Retire 5 adult pets",
			RewardCoins: 300,
			Condition:   func(s models.GameState) bool { return len(s.RetiredPets) >= 5 },
		},
	}
}
