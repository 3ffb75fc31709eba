package world

import (
	"fmt"
	"time"

	"github.com/julianstephens/stampet/internal/catalog"
	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/game"
	"github.com/julianstephens/stampet/internal/models"
)

type ShopListCmd struct{}

func (c *ShopListCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	s := store.State()

	owned := make(map[string]int)
	for _, id := range s.Inventory {
		owned[id]++
	}

	fmt.Printf("Coins: %d\n\n", s.Coins)
	fmt.Println("Items:")
	for _, it := range catalog.Items() {
		kind := "item"
		if it.Decoration {
			kind = "decoration"
		}
		line := fmt.Sprintf("  %-8s %-10s %4d coins  %s", it.ID, it.Name, it.Price, kind)
		if n := owned[it.ID]; n > 0 {
			line += fmt.Sprintf("  (owned: %d)", n)
		}
		fmt.Println(line)
	}

	fmt.Println("\nPets:")
	for _, p := range catalog.Pets() {
		fmt.Printf("  %-8s %-10s %s\n", p.ID, p.Name, ownership(s.UnlockedPets, p.ID, p.Price))
	}

	fmt.Println("\nAreas:")
	for _, a := range catalog.Areas() {
		fmt.Printf("  %-8s %-10s %s\n", a.ID, a.Name, ownership(s.World.UnlockedAreas, a.ID, a.Price))
	}
	return nil
}

func ownership(set []string, id string, price int) string {
	if models.HasID(set, id) {
		return "unlocked"
	}
	return fmt.Sprintf("%d coins", price)
}

type ShopBuyCmd struct {
	Item string `arg:"" help:"Item id to buy."`
}

func (c *ShopBuyCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	before := store.State()
	after, err := store.Apply(func(s models.GameState, _ time.Time) (models.GameState, error) {
		return game.BuyItem(s, c.Item)
	})
	if err != nil {
		return fmt.Errorf("failed to buy item: %w", err)
	}
	it, _ := catalog.LookupItem(c.Item)
	fmt.Printf("✓ Bought %s (%d coins left)\n", it.Name, after.Coins)
	cli.PrintNewAchievements(before, after)
	return nil
}
