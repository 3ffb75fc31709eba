package models

type GoalPeriod string

const (
	PeriodWeekly  GoalPeriod = "weekly"
	PeriodMonthly GoalPeriod = "monthly"
)

// Goal asks for TargetDays stamps on a habit within the current period
type Goal struct {
	ID         string     `json:"id"`
	HabitID    string     `json:"habitId"`
	Period     GoalPeriod `json:"period"`
	TargetDays int        `json:"targetDays"`
	CoinReward int        `json:"coinReward"`
}

// CompletedGoal marks a goal as rewarded for one period. Append-only.
type CompletedGoal struct {
	GoalID      string `json:"goalId"`
	PeriodStart string `json:"periodStart"` // YYYY-MM-DD format
	CompletedAt int64  `json:"completedAt,omitempty"`
}
