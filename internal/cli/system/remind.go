package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/game"
	"github.com/julianstephens/stampet/internal/logger"
	"github.com/julianstephens/stampet/internal/notifier"
	"github.com/julianstephens/stampet/internal/storage"
	"github.com/julianstephens/stampet/internal/utils"
)

// deliver is swapped in tests.
var deliver notifier.NotifyFunc = func(text string) error {
	return notifier.New().Notify(text)
}

type RemindCmd struct {
	Once   bool   `help:"Check once now and exit instead of waiting for the reminder time."`
	DryRun bool   `help:"Print the reminder to stdout instead of sending it."`
	At     string `help:"Override the reminder time (HH:MM) from settings."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		fmt.Println("Notifications are disabled in settings.")
		return nil
	}
	loc, err := ctx.Location()
	if err != nil {
		return err
	}

	at := settings.ReminderTime
	if c.At != "" {
		at = c.At
	}

	notify := deliver
	if c.DryRun {
		notify = func(text string) error {
			fmt.Printf("[dry-run] %s\n", text)
			return nil
		}
	}

	r, err := notifier.NewReminder(notifier.ReminderConfig{
		Time:     at,
		Location: loc,
		Message:  constants.ReminderMessage,
	}, dueCheck(ctx), notify)
	if err != nil {
		return err
	}

	if c.Once {
		now := time.Now()
		if ctx.Clock != nil {
			now = ctx.Clock()
		}
		if !r.Fire(now) && c.DryRun {
			fmt.Println("No reminder needed.")
		}
		return nil
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := r.Start(sigCtx); err != nil {
		return err
	}
	fmt.Printf("Reminder scheduled daily at %s (%s). Press Ctrl+C to stop.\n", at, loc)
	logger.Info("Reminder started", "next", r.NextFire(time.Now()))
	<-sigCtx.Done()
	r.Stop()
	fmt.Println("Reminder stopped.")
	return nil
}

// dueCheck reports whether the active habit still lacks a stamp for the day.
// Storage is reread each time so stamps made by other processes count, and
// nothing is written back: a long-running reminder must never replace a
// newer file with its own stale copy.
func dueCheck(ctx *cli.Context) notifier.CheckFunc {
	return func(now time.Time) (bool, error) {
		if err := ctx.Provider.Load(); err != nil {
			return false, err
		}
		loc, err := ctx.Location()
		if err != nil {
			return false, err
		}
		data, err := ctx.Provider.GetDocument(constants.GameStateKey)
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("failed to read game state: %w", err)
		}
		state, _, err := game.Decode(data)
		if err != nil {
			logger.Warn("Skipping reminder, game state is unreadable", "error", err)
			return false, nil
		}
		local := now.In(loc)
		h, ok := game.Refresh(state, local).ActiveHabit()
		if !ok {
			return false, nil
		}
		return !h.IsStamped(utils.DateKey(local)), nil
	}
}
