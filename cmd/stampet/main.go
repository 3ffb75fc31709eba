package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/cli/backups"
	"github.com/julianstephens/stampet/internal/cli/goals"
	"github.com/julianstephens/stampet/internal/cli/habits"
	"github.com/julianstephens/stampet/internal/cli/mirrors"
	"github.com/julianstephens/stampet/internal/cli/settings"
	"github.com/julianstephens/stampet/internal/cli/stamps"
	"github.com/julianstephens/stampet/internal/cli/system"
	"github.com/julianstephens/stampet/internal/cli/world"
	"github.com/julianstephens/stampet/internal/config"
	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/errors"
	"github.com/julianstephens/stampet/internal/logger"
)

type App struct {
	Version kong.VersionFlag
	Config  string `help:"Storage file path (.db for SQLite, .json for a JSON file)." type:"path" default:"~/.config/stampet/stampet.db" env:"STAMPET_CONFIG"`
	Debug   bool   `help:"Log debug output to stderr." env:"STAMPET_DEBUG"`
	User    string `help:"User id for remote sync." env:"STAMPET_USER_ID"`

	Init       system.InitCmd       `cmd:"" help:"Initialize stampet storage."`
	Onboard    habits.OnboardCmd    `cmd:"" help:"Create your first habit and hatch a pet."`
	Status     stamps.StatusCmd     `cmd:"" default:"withargs" help:"Show a habit's pet, level, streak and goals."`
	Calendar   stamps.CalendarCmd   `cmd:"" help:"Show a month of stamps."`
	Stamp      stamps.StampCmd      `cmd:"" help:"Stamp today (or --date) for a habit."`
	StampRange stamps.StampRangeCmd `cmd:"" name:"stamp-range" help:"Stamp every day in an inclusive date range."`
	Dashboard  stamps.DashboardCmd  `cmd:"" help:"Open the interactive dashboard."`

	Habit habits.HabitCmd `cmd:"" help:"Manage habits."`
	Goal  goals.GoalCmd   `cmd:"" help:"Manage weekly and monthly goals."`

	Shop struct {
		List world.ShopListCmd `cmd:"" default:"1" help:"Show items, pets and areas for sale."`
		Buy  world.ShopBuyCmd  `cmd:"" help:"Buy an item."`
	} `cmd:"" help:"Spend coins in the shop."`
	Area world.AreaCmd `cmd:"" help:"Unlock and decorate world areas."`
	Pet  world.PetCmd  `cmd:"" help:"Unlock pets and retire adults."`
	Icon struct {
		List   stamps.IconListCmd   `cmd:"" default:"1" help:"List stamp icons and custom stamps."`
		Unlock stamps.IconUnlockCmd `cmd:"" help:"Buy a stamp icon."`
		Set    stamps.IconSetCmd    `cmd:"" help:"Choose the stamp icon for a habit."`
	} `cmd:"" help:"Manage stamp icons."`
	StampCustom struct {
		Add stamps.CustomStampAddCmd `cmd:"" help:"Create a custom stamp."`
	} `cmd:"" name:"stamp-custom" help:"Manage custom stamps."`

	Achievements world.AchievementsCmd `cmd:"" help:"List unlocked achievements."`
	HallOfFame   world.HallOfFameCmd   `cmd:"" name:"hall-of-fame" help:"Show retired pets."`

	Sync     mirrors.SyncCmd      `cmd:"" help:"Push or pull the game state to the remote backend."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage local storage backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage sync secrets in the OS keyring."`
	Remind   system.RemindCmd     `cmd:"" help:"Send a daily reminder when today is not stamped."`
	Reset    system.ResetCmd      `cmd:"" help:"Erase all game data."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
}

func newParser(app *App) (*kong.Kong, error) {
	return kong.New(app,
		kong.Name(constants.AppName),
		kong.Description("Stamp your habits daily and raise a pet"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)
}

func main() {
	config.LoadDotenv()
	errors.Fatal(run(os.Args[1:], config.Load()))
}

// run parses args and executes the selected command against cfg, which
// already holds the environment settings.
func run(args []string, cfg *config.Config) error {
	var app App
	parser, err := newParser(&app)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		var parseErr *kong.ParseError
		if stderrors.As(err, &parseErr) {
			_ = parseErr.Context.PrintUsage(true)
		}
		return errors.Usage(err)
	}

	cfg.DataPath = app.Config
	cfg.Debug = app.Debug
	if app.User != "" {
		cfg.UserID = app.User
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: cfg.ConfigDir(),
		SentryDSN: cfg.SentryDSN,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Flush()

	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.ResolveSecrets(); err != nil {
		logger.Warn("Remote sync secrets unavailable", "error", err)
	}

	provider := cli.OpenProvider(cfg)
	appCtx := &cli.Context{
		Provider:  provider,
		Config:    cfg,
		NewMirror: cfg.NewMirror,
	}

	// init handles its own storage setup
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := provider.Load(); err != nil {
			return err
		}
	}

	runErr := ctx.Run(appCtx)
	if err := appCtx.Close(); err != nil {
		logger.Warn("Failed to close storage", "error", err)
	}
	return runErr
}
