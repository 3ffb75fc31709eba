package models

import "sort"

// AreaConfig holds the customization of one unlocked world area
type AreaConfig struct {
	Background  string   `json:"background,omitempty"`
	Decorations []string `json:"decorations"`
}

// World tracks which areas are open and how they are decorated
type World struct {
	UnlockedAreas []string              `json:"unlockedAreas"`
	Areas         map[string]AreaConfig `json:"areas"`
}

// RetiredPet is a Hall-of-Fame entry for a pet that reached adulthood
type RetiredPet struct {
	HabitID       string `json:"habitId"`
	HabitName     string `json:"habitName"`
	PetID         string `json:"petId"`
	PetColor      string `json:"petColor,omitempty"`
	Nickname      string `json:"nickname,omitempty"`
	FinalLevel    int    `json:"finalLevel"`
	TotalStamps   int    `json:"totalStamps"`
	LongestStreak int    `json:"longestStreak"`
	RetiredAt     string `json:"retiredAt"` // YYYY-MM-DD format
}

// CustomStamp is a user-defined stamp face
type CustomStamp struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji"`
	CreatedAt int64  `json:"createdAt"`
}

// GameState is the root snapshot persisted locally and mirrored remotely.
// Id sets are stored as sorted, duplicate-free slices.
type GameState struct {
	Version              int                    `json:"version"`
	Habits               map[string]Habit       `json:"habits"`
	ActiveHabitID        string                 `json:"activeHabitId"`
	Coins                int                    `json:"coins"`
	Inventory            []string               `json:"inventory"`
	World                World                  `json:"world"`
	RetiredPets          []RetiredPet           `json:"retiredPets"`
	UnlockedAchievements []string               `json:"unlockedAchievements"`
	UnlockedPets         []string               `json:"unlockedPets"`
	UnlockedIcons        []string               `json:"unlockedIcons"`
	CustomStamps         map[string]CustomStamp `json:"customStamps"`
	Goals                map[string]Goal        `json:"goals"`
	CompletedGoals       []CompletedGoal        `json:"completedGoals"`
	UpdatedAt            string                 `json:"updatedAt,omitempty"` // RFC3339 timestamp
}

// ActiveHabit returns the active habit, if any.
func (s GameState) ActiveHabit() (Habit, bool) {
	h, ok := s.Habits[s.ActiveHabitID]
	return h, ok
}

// HasID reports whether id is a member of the set.
func HasID(set []string, id string) bool {
	i := sort.SearchStrings(set, id)
	return i < len(set) && set[i] == id
}

// AddID returns the set with id inserted, keeping it sorted and unique.
func AddID(set []string, id string) []string {
	i := sort.SearchStrings(set, id)
	if i < len(set) && set[i] == id {
		return set
	}
	out := make([]string, 0, len(set)+1)
	out = append(out, set[:i]...)
	out = append(out, id)
	return append(out, set[i:]...)
}

// NormalizeSet sorts and de-duplicates an id slice loaded from storage.
func NormalizeSet(set []string) []string {
	out := make([]string, 0, len(set))
	for _, id := range set {
		out = AddID(out, id)
	}
	return out
}
