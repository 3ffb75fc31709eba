package calendar

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Model scrolls a rendered month. The caller renders the grid; Model only
// tracks which month is shown.
type Model struct {
	viewport viewport.Model
	Year     int
	Month    time.Month
	content  string
}

func New(width, height int, now time.Time) Model {
	return Model{
		viewport: viewport.New(width, height),
		Year:     now.Year(),
		Month:    now.Month(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.content == "" {
		return "No habit selected."
	}
	return m.viewport.View()
}

// Shift moves the shown month by delta months.
func (m *Model) Shift(delta int) {
	first := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	m.Year = first.Year()
	m.Month = first.Month()
}

func (m *Model) SetContent(content string) {
	m.content = content
	m.viewport.SetContent(content)
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.SetContent(m.content)
}
