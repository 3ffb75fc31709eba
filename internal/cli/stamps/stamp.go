package stamps

import (
	"fmt"
	"time"

	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/leveling"
	"github.com/julianstephens/stampet/internal/models"
	"github.com/julianstephens/stampet/internal/utils"
)

type StampCmd struct {
	Date  string `help:"Day to stamp (YYYY-MM-DD). Defaults to today."`
	Habit string `help:"Habit id or name. Defaults to the active habit."`
}

func (c *StampCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	before := store.State()
	h, err := cli.ResolveHabit(before, c.Habit)
	if err != nil {
		return err
	}

	date := c.Date
	if date == "" {
		date = utils.DateKey(store.Now())
	}
	if h.IsStamped(date) {
		fmt.Printf("%s is already stamped on %s.\n", h.Name, date)
		return nil
	}

	after, err := store.StampDate(h.ID, date)
	if err != nil {
		return fmt.Errorf("failed to stamp: %w", err)
	}
	printGains(before, after, h.ID)
	return nil
}

type StampRangeCmd struct {
	From  string `help:"First day (YYYY-MM-DD)." required:""`
	To    string `help:"Last day (YYYY-MM-DD), inclusive." required:""`
	Habit string `help:"Habit id or name. Defaults to the active habit."`
}

func (c *StampRangeCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	before := store.State()
	h, err := cli.ResolveHabit(before, c.Habit)
	if err != nil {
		return err
	}

	after, err := store.StampRange(h.ID, c.From, c.To)
	if err != nil {
		return fmt.Errorf("failed to stamp range: %w", err)
	}
	printGains(before, after, h.ID)
	return nil
}

// printGains reports what a stamp changed: exp, level, stage, goals and achievements.
func printGains(before, after models.GameState, habitID string) {
	was, is := before.Habits[habitID], after.Habits[habitID]
	added := is.StampedCount() - was.StampedCount()
	fmt.Printf("✓ Stamped %d day(s) for %s (+%d exp, streak %d)\n", added, is.Name, is.TotalExp-was.TotalExp, is.CurrentStreak)

	if leveling.WillLevelUp(was.TotalExp, is.TotalExp-was.TotalExp) {
		fmt.Printf("⬆ Level up! %s is now level %d\n", cli.PetName(is), is.CurrentLevel)
	}
	if s1, s2 := leveling.StageFromLevel(was.CurrentLevel), leveling.StageFromLevel(is.CurrentLevel); s1 != s2 {
		info := leveling.Info(s2)
		fmt.Printf("%s %s grew into a %s!\n", info.Emoji, cli.PetName(is), info.Label)
	}

	for _, cg := range after.CompletedGoals[len(before.CompletedGoals):] {
		if g, ok := after.Goals[cg.GoalID]; ok {
			fmt.Printf("🎯 Goal complete: %s %d days (+%d coins)\n", g.Period, g.TargetDays, g.CoinReward)
		}
	}
	cli.PrintNewAchievements(before, after)
	if after.Coins != before.Coins {
		fmt.Printf("Coins: %d\n", after.Coins)
	}
}

type StatusCmd struct {
	Habit string `arg:"" optional:"" help:"Habit id or name. Defaults to the active habit."`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	s := store.State()
	h, err := cli.ResolveHabit(s, c.Habit)
	if err != nil {
		return err
	}
	fmt.Println(cli.RenderStatus(s, h, store.Now()))
	return nil
}

type CalendarCmd struct {
	Year  int    `help:"Year to show. Defaults to the current year."`
	Month int    `help:"Month to show (1-12). Defaults to the current month."`
	Habit string `help:"Habit id or name. Defaults to the active habit."`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	s := store.State()
	h, err := cli.ResolveHabit(s, c.Habit)
	if err != nil {
		return err
	}

	now := store.Now()
	year, month := now.Year(), now.Month()
	if c.Year != 0 {
		year = c.Year
	}
	if c.Month != 0 {
		if c.Month < 1 || c.Month > 12 {
			return fmt.Errorf("month must be between 1 and 12, got %d", c.Month)
		}
		month = time.Month(c.Month)
	}

	fmt.Println(cli.RenderCalendar(s, h, year, month, utils.DateKey(now)))
	return nil
}
