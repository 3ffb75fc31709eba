package stamps

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/stampet/internal/catalog"
	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/game"
	"github.com/julianstephens/stampet/internal/models"
)

type IconListCmd struct{}

func (c *IconListCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	s := store.State()

	fmt.Println("Stamp icons:")
	for _, info := range catalog.Icons() {
		state := fmt.Sprintf("%d coins", info.Price)
		if models.HasID(s.UnlockedIcons, string(info.ID)) {
			state = "unlocked"
		}
		fmt.Printf("  %s  %-8s %s\n", info.Glyph, info.ID, state)
	}

	if len(s.CustomStamps) > 0 {
		fmt.Println("\nCustom stamps:")
		ids := make([]string, 0, len(s.CustomStamps))
		for id := range s.CustomStamps {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			cs := s.CustomStamps[id]
			fmt.Printf("  %s  %-20s %s\n", cs.Emoji, cs.Name, cs.ID)
		}
	}
	return nil
}

type IconUnlockCmd struct {
	Icon string `arg:"" help:"Icon id to buy."`
}

func (c *IconUnlockCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	before := store.State()
	after, err := store.Apply(func(s models.GameState, _ time.Time) (models.GameState, error) {
		return game.UnlockIcon(s, c.Icon)
	})
	if err != nil {
		return fmt.Errorf("failed to unlock icon: %w", err)
	}
	info := catalog.LookupIcon(c.Icon)
	fmt.Printf("✓ Unlocked %s %s (%d coins left)\n", info.Glyph, info.Label, after.Coins)
	cli.PrintNewAchievements(before, after)
	return nil
}

type IconSetCmd struct {
	Icon  string `arg:"" help:"Icon id or custom stamp id."`
	Habit string `help:"Habit id or name. Defaults to the active habit."`
}

func (c *IconSetCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	h, err := cli.ResolveHabit(store.State(), c.Habit)
	if err != nil {
		return err
	}
	after, err := store.Apply(func(s models.GameState, _ time.Time) (models.GameState, error) {
		return game.SetStampIcon(s, h.ID, c.Icon)
	})
	if err != nil {
		return fmt.Errorf("failed to set stamp icon: %w", err)
	}
	fmt.Printf("✓ %s now stamps with %s\n", h.Name, cli.StampGlyph(after, after.Habits[h.ID]))
	return nil
}

type CustomStampAddCmd struct {
	Name  string `arg:"" help:"Name of the stamp."`
	Emoji string `arg:"" help:"Emoji or short text shown on stamped days."`
}

func (c *CustomStampAddCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	before := store.State()
	var created models.CustomStamp
	after, err := store.Apply(func(s models.GameState, now time.Time) (models.GameState, error) {
		next, cs, err := game.AddCustomStamp(s, c.Name, c.Emoji, now)
		created = cs
		return next, err
	})
	if err != nil {
		return fmt.Errorf("failed to add custom stamp: %w", err)
	}
	fmt.Printf("✓ Added custom stamp %s %s (id %s)\n", created.Emoji, created.Name, created.ID)
	fmt.Println("  Use it with: stampet icon set " + created.ID)
	cli.PrintNewAchievements(before, after)
	return nil
}
