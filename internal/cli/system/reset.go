package system

import (
	"fmt"

	"github.com/julianstephens/stampet/internal/cli"
)

type ResetCmd struct {
	Yes bool `help:"Skip the confirmation prompt." short:"y"`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		fmt.Println("⚠️  WARNING: This erases every habit, pet, coin and achievement.")
		ok, err := cli.Confirm("Reset all game data?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	store, err := ctx.Game()
	if err != nil {
		return err
	}
	if _, err := store.ResetAll(); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	fmt.Println("✓ All game data has been reset. A backup was taken first.")
	return nil
}
