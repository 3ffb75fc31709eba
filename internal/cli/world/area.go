package world

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/stampet/internal/catalog"
	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/game"
	"github.com/julianstephens/stampet/internal/models"
)

type AreaCmd struct {
	List     AreaListCmd     `cmd:"" default:"1" help:"Show world areas and their decorations."`
	Unlock   AreaUnlockCmd   `cmd:"" help:"Buy access to a world area."`
	Decorate AreaDecorateCmd `cmd:"" help:"Place a decoration from your inventory in an area."`
}

type AreaListCmd struct{}

func (c *AreaListCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	s := store.State()

	for _, a := range catalog.Areas() {
		if !models.HasID(s.World.UnlockedAreas, a.ID) {
			fmt.Printf("  🔒 %-10s %d coins\n", a.Name, a.Price)
			continue
		}
		cfg := s.World.Areas[a.ID]
		decor := "no decorations"
		if len(cfg.Decorations) > 0 {
			names := make([]string, 0, len(cfg.Decorations))
			for _, id := range cfg.Decorations {
				if it, ok := catalog.LookupItem(id); ok {
					names = append(names, it.Name)
				} else {
					names = append(names, id)
				}
			}
			decor = strings.Join(names, ", ")
		}
		fmt.Printf("  ✓ %-10s %s (%s)\n", a.Name, cfg.Background, decor)
	}
	return nil
}

type AreaUnlockCmd struct {
	Area string `arg:"" help:"Area id to unlock."`
}

func (c *AreaUnlockCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	before := store.State()
	after, err := store.Apply(func(s models.GameState, _ time.Time) (models.GameState, error) {
		return game.UnlockArea(s, c.Area)
	})
	if err != nil {
		return fmt.Errorf("failed to unlock area: %w", err)
	}
	a, _ := catalog.LookupArea(c.Area)
	fmt.Printf("✓ Unlocked %s (%d coins left)\n", a.Name, after.Coins)
	cli.PrintNewAchievements(before, after)
	return nil
}

type AreaDecorateCmd struct {
	Area string `arg:"" help:"Unlocked area id."`
	Item string `arg:"" help:"Decoration id from your inventory."`
}

func (c *AreaDecorateCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	_, err = store.Apply(func(s models.GameState, _ time.Time) (models.GameState, error) {
		return game.PlaceDecoration(s, c.Area, c.Item)
	})
	if err != nil {
		return fmt.Errorf("failed to place decoration: %w", err)
	}
	it, _ := catalog.LookupItem(c.Item)
	a, _ := catalog.LookupArea(c.Area)
	fmt.Printf("✓ Placed %s in the %s\n", it.Name, a.Name)
	return nil
}
