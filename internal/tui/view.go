package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/stampet/internal/catalog"
	"github.com/julianstephens/stampet/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateHabits:
		content = m.habits.View()
	case StateCalendar:
		content = m.calendar.View()
	case StateWorld:
		content = renderWorld(m.store.State())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		m.viewFlash(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewFlash() string {
	if m.flash == "" {
		return ""
	}
	if m.flashErr {
		return dangerStyle.Render("✗ " + m.flash)
	}
	return flashStyle.Render("✓ " + m.flash)
}

func renderWorld(s models.GameState) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("🪙 %d coins", s.Coins)))
	b.WriteString("\n\n")

	b.WriteString(headingStyle.Render("Areas") + "\n")
	for _, a := range catalog.Areas() {
		if !models.HasID(s.World.UnlockedAreas, a.ID) {
			fmt.Fprintf(&b, "  🔒 %s (%d coins)\n", a.Name, a.Price)
			continue
		}
		decor := s.World.Areas[a.ID].Decorations
		names := make([]string, 0, len(decor))
		for _, id := range decor {
			if it, ok := catalog.LookupItem(id); ok {
				names = append(names, it.Name)
			}
		}
		line := "  ✓ " + a.Name
		if len(names) > 0 {
			line += ": " + strings.Join(names, ", ")
		}
		b.WriteString(line + "\n")
	}

	fmt.Fprintf(&b, "\n%s %d/%d\n", headingStyle.Render("Pets unlocked"), len(s.UnlockedPets), len(catalog.Pets()))
	fmt.Fprintf(&b, "%s %d\n", headingStyle.Render("Achievements"), len(s.UnlockedAchievements))
	fmt.Fprintf(&b, "%s %d\n", headingStyle.Render("Hall of Fame"), len(s.RetiredPets))
	return b.String()
}
