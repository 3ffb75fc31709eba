package goals

import (
	"fmt"
	"time"

	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/game"
	goalengine "github.com/julianstephens/stampet/internal/goals"
	"github.com/julianstephens/stampet/internal/models"
)

type GoalCmd struct {
	Add    GoalAddCmd    `cmd:"" help:"Create a weekly or monthly goal."`
	List   GoalListCmd   `cmd:"" help:"Show goal progress for the current period." default:"1"`
	Delete GoalDeleteCmd `cmd:"" help:"Delete a goal."`
}

type GoalAddCmd struct {
	Period string `arg:"" enum:"weekly,monthly" help:"Goal period (weekly or monthly)."`
	Days   int    `arg:"" help:"Stamped days needed in the period."`
	Habit  string `help:"Habit id or name. Defaults to the active habit."`
}

func (c *GoalAddCmd) Run(ctx *cli.Context) error {
	period, err := goalengine.ParsePeriod(c.Period)
	if err != nil {
		return err
	}
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	h, err := cli.ResolveHabit(store.State(), c.Habit)
	if err != nil {
		return err
	}

	before := store.State()
	var goal models.Goal
	after, err := store.Apply(func(s models.GameState, now time.Time) (models.GameState, error) {
		next, g, err := game.CreateGoal(s, h.ID, period, c.Days, now)
		goal = g
		return next, err
	})
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}

	fmt.Printf("✓ Goal: stamp %s %d days per %s period for %d coins (id %s)\n",
		h.Name, goal.TargetDays, goal.Period, goal.CoinReward, goal.ID)
	if len(after.CompletedGoals) > len(before.CompletedGoals) {
		fmt.Printf("🎯 Already reached this period! Coins: %d\n", after.Coins)
	}
	return nil
}

type GoalListCmd struct {
	Habit string `help:"Only show goals for this habit."`
}

func (c *GoalListCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	s := store.State()
	now := store.Now()

	habits := cli.SortedHabits(s)
	if c.Habit != "" {
		h, err := cli.ResolveHabit(s, c.Habit)
		if err != nil {
			return err
		}
		habits = []models.Habit{h}
	}

	shown := 0
	for _, h := range habits {
		list := cli.SortedGoals(s, h.ID)
		if len(list) == 0 {
			continue
		}
		fmt.Printf("%s\n", h.Name)
		for _, g := range list {
			p := goalengine.Evaluate(g, h, now)
			status := ""
			if goalengine.IsCompleted(g, s.CompletedGoals, now) {
				status = " ✓ rewarded"
			}
			end := goalengine.PeriodEnd(g.Period, now).Format("Jan 2")
			fmt.Printf("  %-7s %s %2d/%-2d %3d%%  +%d coins  ends %s%s  %s\n",
				g.Period, cli.ProgressBar(p.Percentage, 10), p.Current, p.Target, p.Percentage, g.CoinReward, end, status, g.ID)
			shown++
		}
	}
	if shown == 0 {
		fmt.Println("No goals yet. Add one with: stampet goal add weekly 3")
	}
	return nil
}

type GoalDeleteCmd struct {
	ID string `arg:"" help:"Goal id."`
}

func (c *GoalDeleteCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	if _, err := store.Apply(func(s models.GameState, _ time.Time) (models.GameState, error) {
		return game.DeleteGoal(s, c.ID)
	}); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	fmt.Println("✓ Goal deleted")
	return nil
}
