package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/models"
)

var (
	ErrMalformedState     = errors.New("malformed game state")
	ErrUnsupportedVersion = errors.New("unsupported game state version")
)

// legacyState is the single-habit layout written before habits were keyed by
// id. The habit fields sit at the top level of the document.
type legacyState struct {
	HabitName     string                   `json:"habitName"`
	StartDate     string                   `json:"startDate"`
	Logs          map[string]models.DayLog `json:"logs"`
	TotalExp      int                      `json:"totalExp"`
	CurrentLevel  int                      `json:"currentLevel"`
	CurrentStreak int                      `json:"currentStreak"`
	LongestStreak int                      `json:"longestStreak"`
	StampIcon     string                   `json:"stampIcon"`
	StampColor    string                   `json:"stampColor"`
	PetID         string                   `json:"petId"`
	PetColor      string                   `json:"petColor"`
	PetNickname   string                   `json:"petNickname"`

	Coins                int                           `json:"coins"`
	Inventory            []string                      `json:"inventory"`
	World                models.World                  `json:"world"`
	RetiredPets          []models.RetiredPet           `json:"retiredPets"`
	UnlockedAchievements []string                      `json:"unlockedAchievements"`
	UnlockedPets         []string                      `json:"unlockedPets"`
	UnlockedIcons        []string                      `json:"unlockedIcons"`
	CustomStamps         map[string]models.CustomStamp `json:"customStamps"`
	Goals                map[string]models.Goal        `json:"goals"`
	CompletedGoals       []models.CompletedGoal        `json:"completedGoals"`
	UpdatedAt            string                        `json:"updatedAt"`
}

type shapeProbe struct {
	Version   int             `json:"version"`
	Habits    json.RawMessage `json:"habits"`
	HabitName json.RawMessage `json:"habitName"`
	Logs      json.RawMessage `json:"logs"`
}

// Decode parses a persisted document of any known version into the current
// shape. migrated reports whether the legacy layout was converted.
func Decode(data []byte) (state models.GameState, migrated bool, err error) {
	var probe shapeProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return models.GameState{}, false, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if probe.Version > constants.GameStateVersion {
		return models.GameState{}, false, fmt.Errorf("%w: %d (newest known is %d)", ErrUnsupportedVersion, probe.Version, constants.GameStateVersion)
	}

	if !present(probe.Habits) && (probe.Version == 1 || present(probe.HabitName) || present(probe.Logs)) {
		var legacy legacyState
		if err := json.Unmarshal(data, &legacy); err != nil {
			return models.GameState{}, false, fmt.Errorf("%w: %v", ErrMalformedState, err)
		}
		return normalize(migrateLegacy(legacy)), true, nil
	}

	if err := json.Unmarshal(data, &state); err != nil {
		return models.GameState{}, false, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	return normalize(state), false, nil
}

// Encode serializes a snapshot in the current layout.
func Encode(s models.GameState) ([]byte, error) {
	s.Version = constants.GameStateVersion
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize game state: %w", err)
	}
	return data, nil
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

func migrateLegacy(l legacyState) models.GameState {
	s := NewGameState()
	id := constants.DefaultLegacyHabitID

	h := models.Habit{
		ID:            id,
		Name:          l.HabitName,
		StartDate:     l.StartDate,
		Logs:          l.Logs,
		TotalExp:      l.TotalExp,
		CurrentLevel:  l.CurrentLevel,
		CurrentStreak: l.CurrentStreak,
		LongestStreak: l.LongestStreak,
		StampIcon:     l.StampIcon,
		StampColor:    l.StampColor,
		PetID:         l.PetID,
		PetColor:      l.PetColor,
		PetNickname:   l.PetNickname,
	}
	if h.Name == "" {
		h.Name = "My Habit"
	}
	if h.Logs == nil {
		h.Logs = make(map[string]models.DayLog)
	}
	s.Habits[id] = h
	s.ActiveHabitID = id

	s.Coins = l.Coins
	if l.Inventory != nil {
		s.Inventory = l.Inventory
	}
	if l.World.UnlockedAreas != nil {
		s.World = l.World
	}
	if l.RetiredPets != nil {
		s.RetiredPets = l.RetiredPets
	}
	s.UnlockedAchievements = append(s.UnlockedAchievements, l.UnlockedAchievements...)
	s.UnlockedPets = append(s.UnlockedPets, l.UnlockedPets...)
	s.UnlockedIcons = append(s.UnlockedIcons, l.UnlockedIcons...)
	if l.CustomStamps != nil {
		s.CustomStamps = l.CustomStamps
	}
	for gid, g := range l.Goals {
		if g.ID == "" {
			g.ID = gid
		}
		g.HabitID = id
		s.Goals[g.ID] = g
	}
	if l.CompletedGoals != nil {
		s.CompletedGoals = l.CompletedGoals
	}
	s.UpdatedAt = l.UpdatedAt
	return s
}
