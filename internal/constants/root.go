package constants

import "time"

const (
	AppName            = "stampet"
	DefaultKeyringUser = "sync-credentials"
	DefaultConfigPath  = "~/.config/stampet/stampet.db"
	Version            = "v0.3.0"

	// DateFormat is the canonical DateKey layout (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Local storage document keys
	GameStateKey = "stampet:game-state"
	SettingsKey  = "stampet:settings"

	// GameStateVersion is the schema generation written by this build.
	// Version 1 is the legacy single-habit shape.
	GameStateVersion = 2

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "stampet-"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "stampet-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.stampet"
	TrayExecutablePrefix   = "stampet-tray"
	TraySecretHeader       = "X-Stampet-Secret"
	ReminderMessage        = "Don't forget to stamp today!"

	// Remote sync
	DefaultPushTimeout   = 10 * time.Second
	RemoteObjectPrefix   = "users"
	RemoteObjectName     = "game-state.json"
	MongoDatabase        = "stampet"
	MongoCollection      = "game_states"
	PostgresSchema       = "stampet"
	DefaultLegacyHabitID = "legacy-habit"
)
