package constants

const (
	SettingTimezone             = "timezone"
	SettingReminderTime         = "reminder_time"
	SettingNotificationsEnabled = "notifications_enabled"

	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultReminderTime         = "20:00"
	DefaultNotificationsEnabled = true
)
