package habits

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/stampet/internal/catalog"
	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/game"
	"github.com/julianstephens/stampet/internal/models"
)

// onboardForm holds the answers collected by the interactive form
type onboardForm struct {
	Name  string
	Icon  string
	Color string
}

// runForm is swapped in tests.
var runForm = func(fm *onboardForm) error {
	return newOnboardForm(fm).Run()
}

func newOnboardForm(fm *onboardForm) *huh.Form {
	var icons []huh.Option[string]
	for _, id := range catalog.FreeIcons() {
		info := catalog.LookupIcon(id)
		icons = append(icons, huh.NewOption(info.Glyph+" "+info.Label, id))
	}
	var colors []huh.Option[string]
	for _, c := range catalog.Colors() {
		colors = append(colors, huh.NewOption(c.ID, c.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What habit do you want to build?").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Stamp").
				Options(icons...).
				Value(&fm.Icon),
			huh.NewSelect[string]().
				Title("Pet colour").
				Options(colors...).
				Value(&fm.Color),
		),
	).WithTheme(huh.ThemeDracula())
}

type OnboardCmd struct {
	Name  string `help:"Name of your first habit. Prompts when empty."`
	Icon  string `help:"Stamp icon (paw, star or heart)." default:"paw"`
	Color string `help:"Pet colour." default:"orange"`
}

func (c *OnboardCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Game()
	if err != nil {
		return err
	}
	if len(store.State().Habits) > 0 {
		return fmt.Errorf("%w: use 'stampet habit add' for more habits", game.ErrAlreadyOnboarded)
	}

	fm := &onboardForm{Name: c.Name, Icon: c.Icon, Color: c.Color}
	if strings.TrimSpace(fm.Name) == "" {
		if err := runForm(fm); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("Onboarding cancelled.")
				return nil
			}
			return fmt.Errorf("onboarding form failed: %w", err)
		}
	}

	var habit models.Habit
	after, err := store.Apply(func(s models.GameState, now time.Time) (models.GameState, error) {
		next, h, err := game.Onboard(s, fm.Name, fm.Icon, fm.Color, now)
		habit = h
		return next, err
	})
	if err != nil {
		return fmt.Errorf("onboarding failed: %w", err)
	}

	fmt.Printf("🥚 Welcome! Your %s egg is waiting for its first stamp.\n", catalog.LookupPet(habit.PetID).Name)
	fmt.Printf("   Habit: %s  Stamp: %s\n", habit.Name, cli.StampGlyph(after, habit))
	fmt.Println("   Stamp today with: stampet stamp")
	return nil
}
