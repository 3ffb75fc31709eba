package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/stampet/internal/catalog"
	"github.com/julianstephens/stampet/internal/goals"
	"github.com/julianstephens/stampet/internal/leveling"
	"github.com/julianstephens/stampet/internal/models"
	"github.com/julianstephens/stampet/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(14)

	cellStyle = lipgloss.NewStyle().
			Width(4).
			Align(lipgloss.Center)

	todayStyle = cellStyle.
			Underline(true).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("236")).
			Padding(0, 1)
)

var weekdayHeader = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// StampGlyph returns the face a habit stamps with, custom stamps included.
func StampGlyph(s models.GameState, h models.Habit) string {
	if cs, ok := s.CustomStamps[h.StampIcon]; ok {
		return cs.Emoji
	}
	return catalog.LookupIcon(h.StampIcon).Glyph
}

// PetName is the nickname if set, otherwise the species.
func PetName(h models.Habit) string {
	if h.PetNickname != "" {
		return h.PetNickname
	}
	return catalog.LookupPet(h.PetID).Name
}

// ProgressBar renders pct (0-100) as a fixed-width bar.
func ProgressBar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

// RenderStatus summarizes one habit, its pet and its goals.
func RenderStatus(s models.GameState, h models.Habit, now time.Time) string {
	stage := leveling.StageFromLevel(h.CurrentLevel)
	info := leveling.Info(stage)
	color := lipgloss.Color(catalog.LookupColor(h.PetColor).Hex)

	var b strings.Builder
	b.WriteString(titleStyle.Render(h.Name))
	b.WriteString(mutedStyle.Render("  " + h.ID))
	b.WriteString("\n\n")

	pet := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%s %s the %s", info.Emoji, PetName(h), info.Label))
	b.WriteString(row("Pet", pet) + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat(" ", 14)+info.Description) + "\n")

	levelPct := (h.TotalExp % 10) * 10
	b.WriteString(row("Level", fmt.Sprintf("%d  %s  %d exp to next", h.CurrentLevel, ProgressBar(levelPct, 10), leveling.ExpToNextLevel(h.TotalExp))) + "\n")
	if n := leveling.LevelsToNextStage(h.CurrentLevel); n > 0 {
		b.WriteString(row("Next stage", fmt.Sprintf("%d levels", n)) + "\n")
	} else {
		b.WriteString(row("Next stage", "ready to retire to the Hall of Fame") + "\n")
	}
	b.WriteString(row("Total exp", fmt.Sprintf("%d", h.TotalExp)) + "\n")
	b.WriteString(row("Streak", fmt.Sprintf("%d days (best %d)", h.CurrentStreak, h.LongestStreak)) + "\n")

	today := utils.DateKey(now)
	stamped := "not yet"
	if h.IsStamped(today) {
		stamped = StampGlyph(s, h) + " stamped"
	}
	b.WriteString(row("Today", stamped) + "\n")
	b.WriteString(row("Coins", fmt.Sprintf("%d", s.Coins)) + "\n")

	var lines []string
	for _, g := range sortedGoals(s, h.ID) {
		p := goals.Evaluate(g, h, now)
		mark := " "
		if goals.IsCompleted(g, s.CompletedGoals, now) {
			mark = "✓"
		}
		lines = append(lines, fmt.Sprintf("%s %-7s %s %d/%d  +%d coins", mark, g.Period, ProgressBar(p.Percentage, 10), p.Current, p.Target, g.CoinReward))
	}
	if len(lines) > 0 {
		b.WriteString("\n" + titleStyle.Render("Goals") + "\n")
		b.WriteString(strings.Join(lines, "\n") + "\n")
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderCalendar draws a month grid for a 1-indexed month with stamped days
// marked by the habit's stamp face.
func RenderCalendar(s models.GameState, h models.Habit, year int, month time.Month, today string) string {
	glyph := StampGlyph(s, h)
	stampStyle := cellStyle.Foreground(lipgloss.Color(catalog.LookupColor(h.StampColor).Hex))

	var b strings.Builder
	title := fmt.Sprintf("%s %d", month, year)
	b.WriteString(titleStyle.Render(title) + mutedStyle.Render("  "+h.Name) + "\n")

	header := make([]string, len(weekdayHeader))
	for i, d := range weekdayHeader {
		header[i] = mutedStyle.Inherit(cellStyle).Render(d)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...) + "\n")

	days := utils.CalendarDays(year, int(month)-1)
	count := 0
	for week := 0; week*7 < len(days); week++ {
		cells := make([]string, 0, 7)
		for i := week * 7; i < week*7+7 && i < len(days); i++ {
			key := days[i]
			switch {
			case key == "":
				cells = append(cells, cellStyle.Render(""))
			case h.IsStamped(key):
				count++
				cells = append(cells, stampStyle.Render(glyph))
			case key == today:
				cells = append(cells, todayStyle.Render(strings.TrimLeft(key[8:], "0")))
			case key > today:
				cells = append(cells, mutedStyle.Inherit(cellStyle).Render(strings.TrimLeft(key[8:], "0")))
			default:
				cells = append(cells, cellStyle.Render(strings.TrimLeft(key[8:], "0")))
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n")
	}

	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d of %d days stamped", count, utils.DaysInMonth(year, month))))
	return b.String()
}

func sortedGoals(s models.GameState, habitID string) []models.Goal {
	var out []models.Goal
	for _, g := range s.Goals {
		if g.HabitID == habitID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Period != b.Period {
			return a.Period == models.PeriodWeekly
		}
		if a.TargetDays != b.TargetDays {
			return a.TargetDays < b.TargetDays
		}
		return a.ID < b.ID
	})
	return out
}

// SortedHabits returns habits ordered by start date, then name.
func SortedHabits(s models.GameState) []models.Habit {
	out := make([]models.Habit, 0, len(s.Habits))
	for _, h := range s.Habits {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate < out[j].StartDate
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SortedGoals returns the goals of one habit, weekly first.
func SortedGoals(s models.GameState, habitID string) []models.Goal {
	return sortedGoals(s, habitID)
}

// PrintNewAchievements lists achievements unlocked between two snapshots.
func PrintNewAchievements(before, after models.GameState) {
	for _, id := range after.UnlockedAchievements {
		if models.HasID(before.UnlockedAchievements, id) {
			continue
		}
		if a, ok := LookupAchievement(id); ok {
			fmt.Printf("🏆 Achievement unlocked: %s (+%d coins)\n", a.Name, a.RewardCoins)
		}
	}
}
