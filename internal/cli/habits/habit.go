package habits

import (
	"fmt"
	"time"

	"github.com/julianstephens/stampet/internal/catalog"
	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/game"
	"github.com/julianstephens/stampet/internal/leveling"
	"github.com/julianstephens/stampet/internal/models"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Add a habit with its own pet."`
	List      HabitListCmd      `cmd:"" help:"List habits." default:"1"`
	Use       HabitUseCmd       `cmd:"" help:"Make a habit the active one."`
	Delete    HabitDeleteCmd    `cmd:"" help:"Delete a habit, its stamps and its goals."`
	RenamePet HabitRenamePetCmd `cmd:"" name:"rename-pet" help:"Give a habit's pet a nickname."`
}

type HabitAddCmd struct {
	Name string `arg:"" help:"Habit name."`
	Icon string `help:"Stamp icon or custom stamp id." default:"paw"`
	Pet  string `help:"Pet species (must be unlocked)." default:"cat"`
	Use  bool   `help:"Make the new habit active."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	var habit models.Habit
	_, err = store.Apply(func(s models.GameState, now time.Time) (models.GameState, error) {
		next, h, err := game.AddHabit(s, c.Name, c.Icon, c.Pet, now)
		if err != nil {
			return s, err
		}
		habit = h
		if c.Use {
			return game.SetActiveHabit(next, h.ID)
		}
		return next, nil
	})
	if err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	fmt.Printf("✓ Added habit %s with a %s egg (id %s)\n", habit.Name, catalog.LookupPet(habit.PetID).Name, habit.ID)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	s := store.State()
	if len(s.Habits) == 0 {
		fmt.Println("No habits yet. Run 'stampet onboard' to start.")
		return nil
	}

	for _, h := range cli.SortedHabits(s) {
		marker := " "
		if h.ID == s.ActiveHabitID {
			marker = "*"
		}
		info := leveling.Info(leveling.StageFromLevel(h.CurrentLevel))
		fmt.Printf("%s %s %-20s %s %-10s lvl %-3d streak %-3d %s\n",
			marker, cli.StampGlyph(s, h), h.Name, info.Emoji, cli.PetName(h), h.CurrentLevel, h.CurrentStreak, h.ID)
	}
	return nil
}

type HabitUseCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitUseCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	h, err := cli.ResolveHabit(store.State(), c.Habit)
	if err != nil {
		return err
	}
	if _, err := store.Apply(func(s models.GameState, _ time.Time) (models.GameState, error) {
		return game.SetActiveHabit(s, h.ID)
	}); err != nil {
		return err
	}
	fmt.Printf("✓ Active habit: %s\n", h.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Yes   bool   `help:"Do not ask for confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	h, err := cli.ResolveHabit(store.State(), c.Habit)
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := cli.Confirm(fmt.Sprintf("Delete %s and its %d stamps?", h.Name, h.StampedCount()))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if _, err := store.Apply(func(s models.GameState, _ time.Time) (models.GameState, error) {
		return game.DeleteHabit(s, h.ID)
	}); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	fmt.Printf("✓ Deleted habit %s\n", h.Name)
	return nil
}

type HabitRenamePetCmd struct {
	Nickname string `arg:"" help:"New nickname. Empty clears it."`
	Habit    string `help:"Habit id or name. Defaults to the active habit."`
}

func (c *HabitRenamePetCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	h, err := cli.ResolveHabit(store.State(), c.Habit)
	if err != nil {
		return err
	}
	after, err := store.Apply(func(s models.GameState, _ time.Time) (models.GameState, error) {
		return game.RenamePet(s, h.ID, c.Nickname)
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s's pet is now called %s\n", h.Name, cli.PetName(after.Habits[h.ID]))
	return nil
}
