package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/stampet/internal/game"
	"github.com/julianstephens/stampet/internal/logger"
	"github.com/julianstephens/stampet/internal/models"
	"github.com/julianstephens/stampet/internal/tui/components/habitlist"
)

// tabs, help and status line
const chromeHeight = 4

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.habits.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		m.calendar.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		return m, nil

	case habitlist.StampMsg:
		m.stamp(msg.HabitID)
		return m, nil

	case habitlist.SelectMsg:
		_, err := m.store.Apply(func(s models.GameState, _ time.Time) (models.GameState, error) {
			return game.SetActiveHabit(s, msg.HabitID)
		})
		if err != nil {
			m.setFlash(err.Error(), true)
		} else {
			m.setFlash("Active habit changed", false)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	switch m.state {
	case StateHabits:
		m.habits, cmd = m.habits.Update(msg)
	case StateCalendar:
		if k, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(k, m.keys.PrevMonth):
				m.calendar.Shift(-1)
				m.refresh()
				return m, nil
			case key.Matches(k, m.keys.NextMonth):
				m.calendar.Shift(1)
				m.refresh()
				return m, nil
			}
		}
		m.calendar, cmd = m.calendar.Update(msg)
	}
	return m, cmd
}

func (m *Model) stamp(habitID string) {
	before := m.store.State()
	after, err := m.store.StampToday(habitID)
	if err != nil {
		logger.Warn("Stamp from dashboard failed", "habit", habitID, "error", err)
		m.setFlash(err.Error(), true)
		m.refresh()
		return
	}

	h := after.Habits[habitID]
	msg := fmt.Sprintf("Stamped %s, streak %d", h.Name, h.CurrentStreak)
	if n := len(after.UnlockedAchievements) - len(before.UnlockedAchievements); n > 0 {
		msg += fmt.Sprintf(", %d new achievement(s)", n)
	}
	if gained := after.Coins - before.Coins; gained > 0 {
		msg += fmt.Sprintf(", +%d coins", gained)
	}
	m.setFlash(msg, false)
	m.refresh()
}
