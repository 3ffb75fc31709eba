package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing storage before initialization."`
	Source string `help:"Storage file (.db or .json) to copy game data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Provider.GetConfigPath()
	if c.Force {
		if c.Source != "" && samePath(c.Source, path) {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
		}
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Provider.Close(); err != nil {
				return fmt.Errorf("failed to close existing storage: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing storage: %w", err)
			}
			fmt.Printf("Deleted existing storage at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing storage: %w", err)
		}
	}

	if err := ctx.Provider.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized stampet storage at: %s\n", path)

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		n, err := copyDocuments(storage.New(c.Source), ctx.Provider)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Printf("  Copied %d document(s)\n", n)
	}

	if err := storage.EnsureSettings(ctx.Provider); err != nil {
		return fmt.Errorf("failed to write default settings: %w", err)
	}
	return nil
}

// copyDocuments copies every document from src into dst, overwriting keys
// that already exist.
func copyDocuments(src, dst storage.Provider) (int, error) {
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source storage: %w", err)
	}
	defer src.Close()

	keys, err := src.Keys()
	if err != nil {
		return 0, fmt.Errorf("failed to list source documents: %w", err)
	}
	for _, key := range keys {
		data, err := src.GetDocument(key)
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := dst.PutDocument(key, data); err != nil {
			return 0, fmt.Errorf("failed to write %s: %w", key, err)
		}
	}
	return len(keys), nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
