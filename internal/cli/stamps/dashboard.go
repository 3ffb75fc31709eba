package stamps

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/tui"
)

type DashboardCmd struct{}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	p := tea.NewProgram(tui.NewModel(store), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
