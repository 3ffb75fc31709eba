package models

// Settings represents user preferences stored next to the game state
type Settings struct {
	Timezone             string `json:"timezone"`              // IANA timezone name or "Local" for system timezone
	ReminderTime         string `json:"reminder_time"`         // daily reminder time, e.g. "20:00"
	NotificationsEnabled bool   `json:"notifications_enabled"` // whether the daily reminder fires
}
