package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/stampet/internal/backup"
	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/game"
	"github.com/julianstephens/stampet/internal/keyring"
	"github.com/julianstephens/stampet/internal/storage"
	"github.com/julianstephens/stampet/internal/utils"
	"github.com/julianstephens/stampet/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name     string
	run      func(*cli.Context) error
	needsDB  bool
	warnOnly bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	checks := []check{
		{name: "Storage reachable", run: checkStorageReachable},
		{name: "Schema version", run: checkSchemaVersion, needsDB: true},
		{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
		{name: "Settings", run: checkSettings, needsDB: true},
		{name: "Game state", run: checkGameState, needsDB: true},
		{name: "Clock/timezone", run: checkClockTimezone},
		{name: "Sync credentials", run: checkSyncCredentials, warnOnly: true},
	}

	hasError := false
	reachable := true
	for _, c := range checks {
		if c.needsDB && !reachable {
			fmt.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Storage reachable" {
				reachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if err := ctx.Provider.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	if sqliteStore, ok := ctx.Provider.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Provider.(*storage.SQLiteStore)
	if !ok {
		// JSON storage has no schema
		return nil
	}
	current, latest, err := sqliteStore.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Provider.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone %q", settings.Timezone)
	}
	if !utils.ValidateTimeFormat(settings.ReminderTime) {
		return fmt.Errorf("invalid reminder time %q", settings.ReminderTime)
	}
	return nil
}

// checkGameState validates the stored document as written, before any
// refresh on load could hide drift.
func checkGameState(ctx *cli.Context) error {
	data, err := ctx.Provider.GetDocument(constants.GameStateKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read game state: %w", err)
	}
	state, _, err := game.Decode(data)
	if err != nil {
		return err
	}

	loc, err := ctx.Location()
	if err != nil {
		return err
	}
	today := utils.DateKey(time.Now().In(loc))
	if ctx.Clock != nil {
		today = utils.DateKey(ctx.Clock().In(loc))
	}
	result := validation.ValidateGameState(state, today)
	if result.HasConflicts() {
		return errors.New(result.FormatReport())
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := ctx.Location(); err != nil {
		return err
	}
	return nil
}

func checkSyncCredentials(ctx *cli.Context) error {
	if ctx.Config == nil || !ctx.Config.SyncEnabled() {
		return nil
	}
	if err := ctx.Config.Validate(); err != nil {
		return err
	}
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available, secrets must come from the environment")
	}
	return nil
}
