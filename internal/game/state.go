// Package game owns the canonical game state. Every mutation is a pure
// function from one snapshot to the next; Store persists the result.
package game

import (
	"errors"

	"github.com/google/uuid"

	"github.com/julianstephens/stampet/internal/achievements"
	"github.com/julianstephens/stampet/internal/catalog"
	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/models"
	"github.com/julianstephens/stampet/internal/utils"
)

var (
	ErrHabitNotFound     = errors.New("habit not found")
	ErrGoalNotFound      = errors.New("goal not found")
	ErrInvalidRange      = errors.New("invalid date range")
	ErrInvalidDate       = errors.New("invalid date")
	ErrFutureDate        = errors.New("cannot stamp a future date")
	ErrInvalidName       = errors.New("name must not be empty")
	ErrAlreadyOnboarded  = errors.New("already onboarded")
	ErrInsufficientCoins = errors.New("not enough coins")
	ErrUnknownItem       = errors.New("unknown item")
	ErrUnknownArea       = errors.New("unknown area")
	ErrUnknownPet        = errors.New("unknown pet")
	ErrUnknownIcon       = errors.New("unknown stamp icon")
	ErrAlreadyUnlocked   = errors.New("already unlocked")
	ErrLocked            = errors.New("not unlocked yet")
	ErrItemNotOwned      = errors.New("item not in inventory")
	ErrNotDecoration     = errors.New("item cannot be placed as a decoration")
	ErrNotAdult          = errors.New("pet has not reached adulthood")
)

var (
	engine = achievements.NewEngine()
	newID  = uuid.NewString
)

// Achievements exposes the registry used to settle unlocks.
func Achievements() *achievements.Engine {
	return engine
}

// NewGameState returns the initial world: no habits, the free icons and pet,
// and the starter area.
func NewGameState() models.GameState {
	starter, _ := catalog.LookupArea(catalog.StarterArea)
	return models.GameState{
		Version:              constants.GameStateVersion,
		Habits:               make(map[string]models.Habit),
		Coins:                constants.StartingCoins,
		Inventory:            []string{},
		World:                models.World{UnlockedAreas: []string{starter.ID}, Areas: map[string]models.AreaConfig{starter.ID: {Background: starter.Background, Decorations: []string{}}}},
		RetiredPets:          []models.RetiredPet{},
		UnlockedAchievements: []string{},
		UnlockedPets:         []string{catalog.DefaultPet},
		UnlockedIcons:        models.NormalizeSet(catalog.FreeIcons()),
		CustomStamps:         make(map[string]models.CustomStamp),
		Goals:                make(map[string]models.Goal),
		CompletedGoals:       []models.CompletedGoal{},
	}
}

// normalize fills nil collections and restores the set invariants of a
// snapshot read from storage.
func normalize(s models.GameState) models.GameState {
	if s.Habits == nil {
		s.Habits = make(map[string]models.Habit)
	}
	for id, h := range s.Habits {
		if h.Logs == nil {
			h.Logs = make(map[string]models.DayLog)
		}
		if h.ID == "" {
			h.ID = id
		}
		for key, l := range h.Logs {
			if utils.ValidateDateKey(key) != nil {
				delete(h.Logs, key)
				continue
			}
			l.Date = key
			h.Logs[key] = l
		}
		s.Habits[id] = h
	}
	if s.Inventory == nil {
		s.Inventory = []string{}
	}
	if s.World.Areas == nil {
		s.World.Areas = make(map[string]models.AreaConfig)
	}
	s.World.UnlockedAreas = models.NormalizeSet(s.World.UnlockedAreas)
	if !models.HasID(s.World.UnlockedAreas, catalog.StarterArea) {
		s.World.UnlockedAreas = models.AddID(s.World.UnlockedAreas, catalog.StarterArea)
	}
	for _, id := range s.World.UnlockedAreas {
		cfg, ok := s.World.Areas[id]
		if !ok {
			area, _ := catalog.LookupArea(id)
			cfg.Background = area.Background
		}
		if cfg.Decorations == nil {
			cfg.Decorations = []string{}
		}
		s.World.Areas[id] = cfg
	}
	if s.RetiredPets == nil {
		s.RetiredPets = []models.RetiredPet{}
	}
	s.UnlockedAchievements = models.NormalizeSet(s.UnlockedAchievements)
	s.UnlockedPets = models.AddID(models.NormalizeSet(s.UnlockedPets), catalog.DefaultPet)
	s.UnlockedIcons = models.NormalizeSet(s.UnlockedIcons)
	for _, id := range catalog.FreeIcons() {
		s.UnlockedIcons = models.AddID(s.UnlockedIcons, id)
	}
	if s.CustomStamps == nil {
		s.CustomStamps = make(map[string]models.CustomStamp)
	}
	if s.Goals == nil {
		s.Goals = make(map[string]models.Goal)
	}
	if s.CompletedGoals == nil {
		s.CompletedGoals = []models.CompletedGoal{}
	}
	if _, ok := s.Habits[s.ActiveHabitID]; !ok {
		s.ActiveHabitID = firstHabitID(s)
	}
	s.Version = constants.GameStateVersion
	return s
}
