// Package goals evaluates weekly and monthly stamp goals against the current period.
package goals

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/models"
	"github.com/julianstephens/stampet/internal/utils"
)

var (
	ErrUnknownPeriod = errors.New("unknown goal period")
	ErrInvalidTarget = errors.New("invalid goal target")
)

// Progress is a snapshot of a goal within the current period
type Progress struct {
	Current    int `json:"current"`
	Target     int `json:"target"`
	Percentage int `json:"percentage"`
}

// ParsePeriod accepts "weekly" or "monthly".
func ParsePeriod(s string) (models.GoalPeriod, error) {
	switch models.GoalPeriod(s) {
	case models.PeriodWeekly, models.PeriodMonthly:
		return models.GoalPeriod(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
}

// PeriodStart returns local midnight of the period containing ref: the most
// recent Sunday for weekly goals, the 1st of the month for monthly goals.
// Unknown periods are treated as weekly.
func PeriodStart(period models.GoalPeriod, ref time.Time) time.Time {
	y, m, d := ref.Date()
	loc := ref.Location()
	if period == models.PeriodMonthly {
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	}
	return time.Date(y, m, d-int(ref.Weekday()), 0, 0, 0, 0, loc)
}

// PeriodEnd returns the last instant of the period containing ref: Saturday
// 23:59:59.999 for weekly goals, the last day of the month for monthly goals.
func PeriodEnd(period models.GoalPeriod, ref time.Time) time.Time {
	const lastMilli = 999 * int(time.Millisecond)
	start := PeriodStart(period, ref)
	y, m, d := start.Date()
	if period == models.PeriodMonthly {
		// day 0 of next month is the last day of this one
		return time.Date(y, m+1, 0, 23, 59, 59, lastMilli, start.Location())
	}
	return time.Date(y, m, d+6, 23, 59, 59, lastMilli, start.Location())
}

// PeriodStartKey returns the DateKey identifying the period containing ref.
func PeriodStartKey(period models.GoalPeriod, ref time.Time) string {
	return utils.DateKey(PeriodStart(period, ref))
}

// CountStampsInPeriod counts stamped logs whose day, taken at local noon,
// falls within [start, end] inclusive.
func CountStampsInPeriod(habit models.Habit, start, end time.Time) int {
	count := 0
	for key, l := range habit.Logs {
		if !l.Stamped {
			continue
		}
		day, err := utils.NoonInLocation(key, start.Location())
		if err != nil {
			continue
		}
		if !day.Before(start) && !day.After(end) {
			count++
		}
	}
	return count
}

// Percentage returns min(100, round(current/target*100)); a non-positive target yields 0.
func Percentage(current, target int) int {
	if target <= 0 || current <= 0 {
		return 0
	}
	pct := int(math.Round(float64(current) / float64(target) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// Evaluate reports a goal's progress in the period containing now. A target
// above the period's length is clamped so the goal stays reachable; a
// non-positive target is left as is and never completes.
func Evaluate(goal models.Goal, habit models.Habit, now time.Time) Progress {
	start := PeriodStart(goal.Period, now)
	end := PeriodEnd(goal.Period, now)
	current := CountStampsInPeriod(habit, start, end)
	target := goal.TargetDays
	if target > 0 {
		target = ClampTarget(goal.Period, target)
	}
	return Progress{
		Current:    current,
		Target:     target,
		Percentage: Percentage(current, target),
	}
}

// IsCompleted reports whether the goal has a completion record for the period
// containing now. Records from earlier periods do not count.
func IsCompleted(goal models.Goal, completed []models.CompletedGoal, now time.Time) bool {
	key := PeriodStartKey(goal.Period, now)
	for _, c := range completed {
		if c.GoalID == goal.ID && c.PeriodStart == key {
			return true
		}
	}
	return false
}

// Due reports whether the goal has reached its target this period and has
// not yet been rewarded for it.
func Due(goal models.Goal, habit models.Habit, completed []models.CompletedGoal, now time.Time) bool {
	if goal.TargetDays <= 0 {
		return false
	}
	p := Evaluate(goal, habit, now)
	return p.Current >= p.Target && !IsCompleted(goal, completed, now)
}

// Reward prices a goal: base * ceil(targetDays / 3), base 10 weekly or 30 monthly.
func Reward(period models.GoalPeriod, targetDays int) int {
	if targetDays <= 0 {
		return 0
	}
	base := constants.WeeklyBaseReward
	if period == models.PeriodMonthly {
		base = constants.MonthlyBaseReward
	}
	blocks := (targetDays + constants.GoalRewardDivisor - 1) / constants.GoalRewardDivisor
	return base * blocks
}

// MaxTarget returns the largest target accepted for a period.
func MaxTarget(period models.GoalPeriod) int {
	if period == models.PeriodMonthly {
		return constants.MaxMonthlyGoalTarget
	}
	return constants.MaxWeeklyGoalTarget
}

// ClampTarget forces a target into the range accepted for its period.
func ClampTarget(period models.GoalPeriod, targetDays int) int {
	if targetDays < constants.MinGoalTarget {
		return constants.MinGoalTarget
	}
	if limit := MaxTarget(period); targetDays > limit {
		return limit
	}
	return targetDays
}

// ValidateTarget rejects targets outside the accepted range for a period.
func ValidateTarget(period models.GoalPeriod, targetDays int) error {
	if _, err := ParsePeriod(string(period)); err != nil {
		return err
	}
	if targetDays < constants.MinGoalTarget || targetDays > MaxTarget(period) {
		return fmt.Errorf("%w: %d (must be %d-%d for %s goals)",
			ErrInvalidTarget, targetDays, constants.MinGoalTarget, MaxTarget(period), period)
	}
	return nil
}
