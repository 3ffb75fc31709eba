package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/stampet/internal/cli"
	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/keyring"
	"github.com/julianstephens/stampet/internal/remote"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a sync secret in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show a stored sync secret, masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove a sync secret from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" default:"1" help:"Check the OS keyring and list stored secrets."`
}

// KeyringSetCmd stores a remote sync secret in the OS keyring
type KeyringSetCmd struct {
	Name   string `arg:"" enum:"s3-secret-key,mongo-uri,postgres-url" help:"Secret name: s3-secret-key, mongo-uri or postgres-url."`
	Secret string `arg:"" help:"Secret value to store."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if err := validateSecret(cmd.Name, cmd.Secret); err != nil {
		return err
	}
	if err := keyring.Set(cmd.Name, cmd.Secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", cmd.Name, err)
	}

	fmt.Printf("✓ %s stored successfully in OS keyring\n", cmd.Name)
	return nil
}

func validateSecret(name, secret string) error {
	switch name {
	case keyring.SecretPostgresURL:
		if !strings.HasPrefix(secret, "postgres://") &&
			!strings.HasPrefix(secret, "postgresql://") &&
			!strings.Contains(secret, "host=") {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
		// The keyring is encrypted, so an embedded password is fine here.
		if err := remote.ValidateConnString(secret, true); err != nil {
			return fmt.Errorf("invalid connection string: %w", err)
		}
	case keyring.SecretMongoURI:
		if !strings.HasPrefix(secret, "mongodb://") && !strings.HasPrefix(secret, "mongodb+srv://") {
			return errors.New("mongo URI must start with mongodb:// or mongodb+srv://")
		}
	case keyring.SecretS3Key:
		if strings.TrimSpace(secret) == "" {
			return errors.New("secret key cannot be empty")
		}
	}
	return nil
}

type KeyringGetCmd struct {
	Name string `arg:"" enum:"s3-secret-key,mongo-uri,postgres-url" help:"Secret name."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	secret, err := keyring.Get(cmd.Name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use '%s keyring set %s' to store one", cmd.Name, constants.AppName, cmd.Name)
		}
		return fmt.Errorf("failed to retrieve %s from keyring: %w", cmd.Name, err)
	}

	fmt.Printf("%s retrieved from keyring:\n", cmd.Name)
	fmt.Println(maskSecret(cmd.Name, secret))
	return nil
}

type KeyringDeleteCmd struct {
	Name string `arg:"" enum:"s3-secret-key,mongo-uri,postgres-url" help:"Secret name."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.Delete(cmd.Name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", cmd.Name)
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", cmd.Name, err)
	}

	fmt.Printf("✓ %s deleted from OS keyring\n", cmd.Name)
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}

	fmt.Println("✓ OS keyring is available")
	for _, name := range keyring.SecretNames() {
		_, err := keyring.Get(name)
		switch {
		case err == nil:
			fmt.Printf("✓ %s is stored in keyring\n", name)
		case errors.Is(err, keyring.ErrNotFound):
			fmt.Printf("ℹ No %s stored in keyring\n", name)
		default:
			fmt.Printf("❌ %s: %v\n", name, err)
		}
	}
	return nil
}

func maskSecret(name, secret string) string {
	switch name {
	case keyring.SecretPostgresURL, keyring.SecretMongoURI:
		return maskPassword(secret)
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if strings.Contains(connStr, "://") {
		u, err := url.Parse(connStr)
		if err == nil && u.User != nil {
			if _, hasPassword := u.User.Password(); hasPassword {
				return strings.Replace(u.Redacted(), ":xxxxx@", ":****@", 1)
			}
		}
		return connStr
	}

	// DSN format (host=... user=... password=... dbname=...)
	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		masked := make([]string, 0, len(parts))
		for _, part := range parts {
			if strings.HasPrefix(part, "password=") {
				masked = append(masked, "password=****")
			} else {
				masked = append(masked, part)
			}
		}
		return strings.Join(masked, " ")
	}
	return connStr
}
