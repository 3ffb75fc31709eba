package world

import (
	"fmt"
	"time"

	"github.com/julianstephens/stampet/internal/catalog"
	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/game"
	"github.com/julianstephens/stampet/internal/leveling"
	"github.com/julianstephens/stampet/internal/models"
)

type PetCmd struct {
	Unlock PetUnlockCmd `cmd:"" help:"Buy a new pet species."`
	Retire PetRetireCmd `cmd:"" help:"Send an adult pet to the Hall of Fame and start over with an egg."`
}

type PetUnlockCmd struct {
	Pet string `arg:"" help:"Pet id to unlock."`
}

func (c *PetUnlockCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	before := store.State()
	after, err := store.Apply(func(s models.GameState, _ time.Time) (models.GameState, error) {
		return game.UnlockPet(s, c.Pet)
	})
	if err != nil {
		return fmt.Errorf("failed to unlock pet: %w", err)
	}
	fmt.Printf("✓ Unlocked the %s (%d coins left)\n", catalog.LookupPet(c.Pet).Name, after.Coins)
	cli.PrintNewAchievements(before, after)
	return nil
}

type PetRetireCmd struct {
	Habit string `help:"Habit id or name. Defaults to the active habit."`
	Yes   bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *PetRetireCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	before := store.State()
	h, err := cli.ResolveHabit(before, c.Habit)
	if err != nil {
		return err
	}
	if !leveling.CanRetire(h.CurrentLevel) {
		return fmt.Errorf("%s is level %d and can retire once it is an adult", cli.PetName(h), h.CurrentLevel)
	}

	if !c.Yes {
		ok, err := cli.Confirm(fmt.Sprintf("Retire %s? The habit's stamps will be cleared.", cli.PetName(h)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	var rec models.RetiredPet
	after, err := store.Apply(func(s models.GameState, now time.Time) (models.GameState, error) {
		next, r, err := game.RetirePet(s, h.ID, now)
		rec = r
		return next, err
	})
	if err != nil {
		return fmt.Errorf("failed to retire pet: %w", err)
	}
	fmt.Printf("🏅 %s joined the Hall of Fame at level %d after %d stamps\n", petLabel(rec), rec.FinalLevel, rec.TotalStamps)
	fmt.Printf("A new egg is waiting for %s.\n", h.Name)
	cli.PrintNewAchievements(before, after)
	return nil
}

func petLabel(rec models.RetiredPet) string {
	if rec.Nickname != "" {
		return rec.Nickname
	}
	return catalog.LookupPet(rec.PetID).Name
}

type HallOfFameCmd struct{}

func (c *HallOfFameCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	s := store.State()
	if len(s.RetiredPets) == 0 {
		fmt.Println("The Hall of Fame is empty. Raise a pet to adulthood to retire it.")
		return nil
	}

	fmt.Println("Hall of Fame:")
	for _, rec := range s.RetiredPets {
		fmt.Printf("  %s  %-12s %-16s level %-3d %4d stamps  best streak %d\n",
			rec.RetiredAt, petLabel(rec), rec.HabitName, rec.FinalLevel, rec.TotalStamps, rec.LongestStreak)
	}
	return nil
}

type AchievementsCmd struct {
	All bool `help:"Include locked achievements."`
}

func (c *AchievementsCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	s := store.State()

	reg := game.Achievements().Registry()
	fmt.Printf("Achievements: %d of %d\n", len(s.UnlockedAchievements), len(reg))
	for _, a := range reg {
		unlocked := models.HasID(s.UnlockedAchievements, a.ID)
		if !unlocked && !c.All {
			continue
		}
		mark := "🔒"
		if unlocked {
			mark = "🏆"
		}
		fmt.Printf("  %s %-18s %-36s +%d coins\n", mark, a.Name, a.Description, a.RewardCoins)
	}
	return nil
}
