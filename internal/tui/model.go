package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/game"
	"github.com/julianstephens/stampet/internal/tui/components/calendar"
	"github.com/julianstephens/stampet/internal/tui/components/habitlist"
	"github.com/julianstephens/stampet/internal/utils"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateCalendar
	StateWorld
)

var tabTitles = []string{"Habits", "Calendar", "World"}

type Model struct {
	store    *game.Store
	state    SessionState
	keys     KeyMap
	help     help.Model
	habits   habitlist.Model
	calendar calendar.Model
	flash    string
	flashErr bool
	quitting bool
	width    int
	height   int
}

// NewModel builds the dashboard over a loaded game store. Every change goes
// through the store, so it is persisted and mirrored like a CLI command.
func NewModel(store *game.Store) Model {
	m := Model{
		store:    store,
		state:    StateHabits,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		habits:   habitlist.New(nil, 0, 0),
		calendar: calendar.New(0, 0, store.Now()),
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateHabits:
		keys = append(keys, m.keys.Stamp, m.keys.Select)
	case StateCalendar:
		keys = append(keys, m.keys.PrevMonth, m.keys.NextMonth)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateHabits:
		actions = []key.Binding{m.keys.Stamp, m.keys.Select}
	case StateCalendar:
		actions = []key.Binding{m.keys.PrevMonth, m.keys.NextMonth}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh rebuilds every view from the store's current snapshot.
func (m *Model) refresh() {
	s := m.store.State()
	today := utils.DateKey(m.store.Now())

	var items []habitlist.Item
	for _, h := range cli.SortedHabits(s) {
		items = append(items, habitlist.Item{
			Habit:   h,
			Glyph:   cli.StampGlyph(s, h),
			Pet:     cli.PetName(h),
			Active:  h.ID == s.ActiveHabitID,
			Stamped: h.IsStamped(today),
		})
	}
	m.habits.SetItems(items)

	h, ok := m.habits.Selected()
	if !ok {
		h, ok = s.ActiveHabit()
	}
	if !ok {
		m.calendar.SetContent("")
		return
	}
	m.calendar.SetContent(cli.RenderCalendar(s, h, m.calendar.Year, m.calendar.Month, today) +
		"\n\n" + cli.RenderStatus(s, h, m.store.Now()))
}

func (m *Model) setFlash(msg string, isErr bool) {
	m.flash = msg
	m.flashErr = isErr
}
