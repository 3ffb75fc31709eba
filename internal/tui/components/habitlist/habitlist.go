package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/stampet/internal/models"
)

type StampMsg struct {
	HabitID string
}

type SelectMsg struct {
	HabitID string
}

type Item struct {
	Habit   models.Habit
	Glyph   string
	Pet     string
	Active  bool
	Stamped bool
}

func (i Item) Title() string {
	title := i.Habit.Name
	if i.Active {
		title = "● " + title
	}
	if i.Stamped {
		title += " " + i.Glyph
	}
	return title
}

func (i Item) Description() string {
	return fmt.Sprintf("%s | Lv %d | streak %d", i.Pet, i.Habit.CurrentLevel, i.Habit.CurrentStreak)
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Stamp  key.Binding
	Select key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Stamp: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stamp today"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "make active"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // the dashboard renders help

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Stamp, keys.Select}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Stamp, keys.Select}
	}

	return Model{list: l, keys: keys}
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// SetItems replaces the habits, keeping the cursor where it was.
func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
}

// Selected returns the habit under the cursor.
func (m Model) Selected() (models.Habit, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Habit{}, false
	}
	return i.Habit, true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Stamp):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return StampMsg{HabitID: h.ID} }
			}
		case key.Matches(msg, m.keys.Select):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return SelectMsg{HabitID: h.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Run 'stampet onboard' to hatch your first pet."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
