package models

import (
	"fmt"

	"github.com/julianstephens/stampet/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingReminderTime:
			settings.ReminderTime = value
		case constants.SettingNotificationsEnabled:
			switch value {
			case "true":
				settings.NotificationsEnabled = true
			case "false", "":
				settings.NotificationsEnabled = false
			default:
				return Settings{}, fmt.Errorf("parsing notifications_enabled: invalid boolean %q", value)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingReminderTime:         settings.ReminderTime,
		constants.SettingNotificationsEnabled: fmt.Sprintf("%v", settings.NotificationsEnabled),
	}
}

// DefaultSettings returns settings populated with the application defaults.
func DefaultSettings() Settings {
	return Settings{
		Timezone:             constants.DefaultTimezone,
		ReminderTime:         constants.DefaultReminderTime,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.ReminderTime == "" {
		settings.ReminderTime = constants.DefaultReminderTime
	}
}
