// Package streak derives consecutive-day streaks from a habit's day logs.
package streak

import (
	"sort"

	"github.com/julianstephens/stampet/internal/models"
	"github.com/julianstephens/stampet/internal/utils"
)

// Current counts the unbroken run of stamped days ending at referenceToday.
// An unstamped today does not break the run: the walk still starts at
// yesterday, so a streak that has not been extended yet today is reported.
func Current(logs map[string]models.DayLog, referenceToday string) int {
	if len(logs) == 0 {
		return 0
	}

	count := 0
	if stamped(logs, referenceToday) {
		count = 1
	}

	day, err := utils.AddDays(referenceToday, -1)
	if err != nil {
		return count
	}
	for stamped(logs, day) {
		count++
		day, err = utils.AddDays(day, -1)
		if err != nil {
			break
		}
	}
	return count
}

// Longest returns the longest run of consecutive stamped days anywhere in the log.
func Longest(logs map[string]models.DayLog) int {
	days := make([]string, 0, len(logs))
	for key, l := range logs {
		if l.Stamped && utils.ValidateDateKey(key) == nil {
			days = append(days, key)
		}
	}
	if len(days) == 0 {
		return 0
	}
	sort.Strings(days)

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		next, err := utils.AddDays(days[i-1], 1)
		if err == nil && next == days[i] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func stamped(logs map[string]models.DayLog, day string) bool {
	l, ok := logs[day]
	return ok && l.Stamped
}
