package models

// DayLog is the record of one stamped calendar day for a habit
type DayLog struct {
	Date      string `json:"date"` // YYYY-MM-DD format
	Stamped   bool   `json:"stamped"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds of the stamp action
	Icon      string `json:"icon,omitempty"`
}

// Habit represents a tracked practice and the pet it grows.
// CurrentLevel, CurrentStreak and LongestStreak are derived from Logs.
type Habit struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	StartDate     string            `json:"startDate"` // YYYY-MM-DD format
	Logs          map[string]DayLog `json:"logs"`
	TotalExp      int               `json:"totalExp"`
	CurrentLevel  int               `json:"currentLevel"`
	CurrentStreak int               `json:"currentStreak"`
	LongestStreak int               `json:"longestStreak"`
	StampIcon     string            `json:"stampIcon"`
	StampColor    string            `json:"stampColor"`
	PetID         string            `json:"petId"`
	PetColor      string            `json:"petColor,omitempty"`
	PetNickname   string            `json:"petNickname,omitempty"`
}

// StampedCount returns the number of stamped days in the log.
func (h Habit) StampedCount() int {
	n := 0
	for _, l := range h.Logs {
		if l.Stamped {
			n++
		}
	}
	return n
}

// IsStamped reports whether the given day carries a stamp.
func (h Habit) IsStamped(day string) bool {
	l, ok := h.Logs[day]
	return ok && l.Stamped
}
