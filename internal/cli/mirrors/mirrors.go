package mirrors

import (
	"context"
	"fmt"

	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/config"
)

type SyncCmd struct {
	Push   SyncPushCmd   `cmd:"" help:"Upload the local game state to the remote backend."`
	Pull   SyncPullCmd   `cmd:"" help:"Adopt the remote game state if it is newer than the local one."`
	Status SyncStatusCmd `cmd:"" default:"1" help:"Show the sync configuration."`
}

type SyncPushCmd struct{}

func (c *SyncPushCmd) Run(ctx *cli.Context) error {
	store, err := ctx.RequireSync()
	if err != nil {
		return err
	}
	pctx, cancel := context.WithTimeout(context.Background(), ctx.Config.PushTimeout)
	defer cancel()
	if err := store.Push(pctx); err != nil {
		return err
	}
	fmt.Printf("✓ Pushed game state to %s (updated %s)\n", ctx.Config.SyncBackend, store.State().UpdatedAt)
	return nil
}

type SyncPullCmd struct{}

func (c *SyncPullCmd) Run(ctx *cli.Context) error {
	store, err := ctx.RequireSync()
	if err != nil {
		return err
	}
	pctx, cancel := context.WithTimeout(context.Background(), ctx.Config.PushTimeout)
	defer cancel()
	adopted, err := store.Pull(pctx)
	if err != nil {
		return err
	}
	if !adopted {
		fmt.Println("Local game state is up to date.")
		return nil
	}
	fmt.Printf("✓ Pulled game state from %s (updated %s)\n", ctx.Config.SyncBackend, store.State().UpdatedAt)
	return nil
}

type SyncStatusCmd struct{}

func (c *SyncStatusCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config
	if cfg == nil || !cfg.SyncEnabled() {
		fmt.Println("Sync: disabled")
		fmt.Println("  Set STAMPET_SYNC_BACKEND to s3, mongo or postgres to enable it.")
		return nil
	}
	fmt.Printf("Sync:    %s\n", cfg.SyncBackend)
	fmt.Printf("User:    %s\n", cfg.UserID)
	fmt.Printf("Timeout: %s\n", cfg.PushTimeout)
	switch cfg.SyncBackend {
	case config.SyncS3:
		fmt.Printf("Bucket:  %s (%s)\n", cfg.S3Bucket, cfg.S3Region)
		if cfg.S3Endpoint != "" {
			fmt.Printf("Endpoint: %s\n", cfg.S3Endpoint)
		}
	case config.SyncMongo:
		fmt.Printf("Database: %s\n", cfg.MongoDatabase)
	}
	return nil
}
