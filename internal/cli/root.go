package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/stampet/internal/achievements"
	"github.com/julianstephens/stampet/internal/backup"
	"github.com/julianstephens/stampet/internal/config"
	"github.com/julianstephens/stampet/internal/game"
	"github.com/julianstephens/stampet/internal/logger"
	"github.com/julianstephens/stampet/internal/models"
	"github.com/julianstephens/stampet/internal/remote"
	"github.com/julianstephens/stampet/internal/storage"
	"github.com/julianstephens/stampet/internal/utils"
)

var ErrNoHabits = errors.New("no habits yet, run 'stampet onboard' first")

type Context struct {
	Provider storage.Provider
	Config   *config.Config
	// Clock overrides time.Now in tests.
	Clock func() time.Time
	// NewMirror connects the remote backend. Nil disables sync.
	NewMirror func(ctx context.Context) (remote.Mirror, error)

	store  *game.Store
	mirror remote.Mirror
	pusher *remote.Pusher
}

// OpenProvider picks the local storage implementation for cfg.
func OpenProvider(cfg *config.Config) storage.Provider {
	if cfg.Driver() == config.DriverJSON {
		return storage.NewJSONStore(cfg.DataPath)
	}
	return storage.NewSQLiteStore(cfg.DataPath)
}

func (c *Context) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

// Settings returns the stored user settings, defaults filled in.
func (c *Context) Settings() (models.Settings, error) {
	return storage.GetSettings(c.Provider)
}

// Location resolves the timezone from settings.
func (c *Context) Location() (*time.Location, error) {
	settings, err := c.Settings()
	if err != nil {
		return nil, err
	}
	return utils.LoadLocation(settings.Timezone)
}

// Game returns the loaded game store, wiring remote sync when configured.
// A remote that cannot be reached only disables mirroring.
func (c *Context) Game() (*game.Store, error) {
	if c.store != nil {
		return c.store, nil
	}

	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	opts := []game.Option{game.WithLocation(loc)}
	if c.Clock != nil {
		opts = append(opts, game.WithClock(c.Clock))
	}

	if c.syncEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), c.Config.PushTimeout)
		mirror, err := c.NewMirror(ctx)
		cancel()
		if err != nil {
			logger.Warn("Remote sync unavailable, continuing offline", "backend", c.Config.SyncBackend, "error", err)
		} else {
			c.mirror = mirror
			c.pusher = remote.NewPusher(mirror, c.Config.UserID, c.Config.PushTimeout)
			opts = append(opts, game.WithMirror(mirror, c.Config.UserID), game.WithPusher(c.pusher))
		}
	}

	store := game.NewStore(c.Provider, opts...)
	if _, err := store.Load(); err != nil {
		return nil, err
	}
	c.store = store
	return store, nil
}

// RequireSync returns the game store and fails unless a remote is connected.
func (c *Context) RequireSync() (*game.Store, error) {
	if !c.syncEnabled() {
		return nil, config.ErrSyncDisabled
	}
	store, err := c.Game()
	if err != nil {
		return nil, err
	}
	if c.mirror == nil {
		return nil, fmt.Errorf("could not connect to the %s backend, see the log for details", c.Config.SyncBackend)
	}
	return store, nil
}

func (c *Context) syncEnabled() bool {
	return c.NewMirror != nil && c.Config != nil && c.Config.SyncEnabled()
}

// Close drains pending pushes and releases storage.
func (c *Context) Close() error {
	if c.pusher != nil {
		c.pusher.Close()
		pushed, failed := c.pusher.Stats()
		logger.Debug("Remote pusher drained", "pushed", pushed, "failed", failed)
	}
	if c.mirror != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.mirror.Close(ctx); err != nil {
			logger.Warn("Failed to close remote mirror", "error", err)
		}
	}
	return c.Provider.Close()
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Provider.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveHabit finds a habit by id or case-insensitive name. An empty ref
// selects the active habit.
func ResolveHabit(s models.GameState, ref string) (models.Habit, error) {
	if len(s.Habits) == 0 {
		return models.Habit{}, ErrNoHabits
	}
	if ref == "" {
		if h, ok := s.ActiveHabit(); ok {
			return h, nil
		}
		return models.Habit{}, fmt.Errorf("%w: no active habit", game.ErrHabitNotFound)
	}
	if h, ok := s.Habits[ref]; ok {
		return h, nil
	}

	var matches []models.Habit
	for _, h := range s.Habits {
		if strings.EqualFold(h.Name, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return models.Habit{}, fmt.Errorf("%w: %s", game.ErrHabitNotFound, ref)
	default:
		return models.Habit{}, fmt.Errorf("habit name %q is ambiguous, use its id", ref)
	}
}

// LookupAchievement returns registry metadata for an achievement id.
func LookupAchievement(id string) (achievements.Achievement, bool) {
	return game.Achievements().Lookup(id)
}

// confirmInput is swapped in tests.
var confirmInput io.Reader = os.Stdin

// Confirm asks a yes/no question on stdin. Anything but y or yes is a no.
func Confirm(question string) (bool, error) {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(confirmInput)
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// SetConfirmInput replaces the confirmation source and returns a restore func.
func SetConfirmInput(r io.Reader) func() {
	old := confirmInput
	confirmInput = r
	return func() { confirmInput = old }
}
