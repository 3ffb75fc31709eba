package settings

import (
	"fmt"

	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/storage"
	"github.com/julianstephens/stampet/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA timezone that decides when a day starts, or Local."`
	ReminderTime         *string `help:"Daily reminder time (HH:MM)."`
	NotificationsEnabled *bool   `help:"Enable or disable the daily reminder."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:              %s\n", settings.Timezone)
		fmt.Println("\nReminder Settings:")
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		fmt.Printf("  Reminder Time:         %s\n", settings.ReminderTime)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.ReminderTime != nil {
		if !utils.ValidateTimeFormat(*c.ReminderTime) {
			return fmt.Errorf("invalid reminder time %q, expected HH:MM", *c.ReminderTime)
		}
		settings.ReminderTime = *c.ReminderTime
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}

	if updated {
		if err := storage.SaveSettings(ctx.Provider, settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
