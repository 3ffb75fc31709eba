package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/keyring"
	"github.com/julianstephens/stampet/internal/remote"
)

// Sync backends
const (
	SyncNone     = "none"
	SyncS3       = "s3"
	SyncMongo    = "mongo"
	SyncPostgres = "postgres"
)

// Storage drivers
const (
	DriverAuto   = ""
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

var ErrSyncDisabled = errors.New("remote sync is not configured (set STAMPET_SYNC_BACKEND)")

// secretLookup is swapped in tests.
var secretLookup = keyring.Get

type Config struct {
	// Local storage
	DataPath      string
	StorageDriver string // "json", "sqlite" or empty to pick by file extension

	// Remote sync
	SyncBackend string
	UserID      string
	PushTimeout time.Duration

	// S3-compatible object storage
	S3Region    string
	S3Bucket    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	// MongoDB
	MongoURI      string
	MongoDatabase string

	// PostgreSQL
	PostgresURL string

	// Observability
	SentryDSN string
	Debug     bool

	// Warnings collects problems found while loading, for logging once the
	// logger is up.
	Warnings []string
}

// LoadDotenv loads a .env file from the working directory if there is one.
// Existing environment variables win.
func LoadDotenv() bool {
	return godotenv.Load() == nil
}

// Load reads the configuration from the environment.
func Load() *Config {
	cfg := &Config{}
	cfg.DataPath = ExpandPath(cfg.envString("STAMPET_CONFIG", constants.DefaultConfigPath))
	cfg.StorageDriver = strings.ToLower(cfg.envString("STAMPET_STORAGE", DriverAuto))
	cfg.SyncBackend = strings.ToLower(cfg.envString("STAMPET_SYNC_BACKEND", SyncNone))
	cfg.UserID = cfg.envString("STAMPET_USER_ID", "")
	cfg.PushTimeout = cfg.envDuration("STAMPET_PUSH_TIMEOUT", constants.DefaultPushTimeout)

	cfg.S3Region = cfg.envString("STAMPET_S3_REGION", "us-east-1")
	cfg.S3Bucket = cfg.envString("STAMPET_S3_BUCKET", "")
	cfg.S3Endpoint = cfg.envString("STAMPET_S3_ENDPOINT", "")
	cfg.S3AccessKey = cfg.envString("STAMPET_S3_ACCESS_KEY", "")
	cfg.S3SecretKey = cfg.envString("STAMPET_S3_SECRET_KEY", "")

	cfg.MongoURI = cfg.envString("STAMPET_MONGO_URI", "")
	cfg.MongoDatabase = cfg.envString("STAMPET_MONGO_DATABASE", constants.MongoDatabase)

	cfg.PostgresURL = cfg.envString("STAMPET_POSTGRES_URL", "")

	cfg.SentryDSN = cfg.envString("SENTRY_DSN", "")
	cfg.Debug = cfg.envBool("STAMPET_DEBUG", false)
	return cfg
}

// ConfigDir is the directory holding the data file, logs and backups.
func (c *Config) ConfigDir() string {
	return filepath.Dir(c.DataPath)
}

// Driver resolves the storage driver, falling back to the data file extension.
func (c *Config) Driver() string {
	switch c.StorageDriver {
	case DriverJSON, DriverSQLite:
		return c.StorageDriver
	}
	if strings.EqualFold(filepath.Ext(c.DataPath), ".json") {
		return DriverJSON
	}
	return DriverSQLite
}

// SyncEnabled reports whether a remote backend is selected.
func (c *Config) SyncEnabled() bool {
	return c.SyncBackend != "" && c.SyncBackend != SyncNone
}

// Validate checks the fields that do not need network access.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverAuto, DriverJSON, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q (want json or sqlite)", c.StorageDriver)
	}

	switch c.SyncBackend {
	case "", SyncNone:
		return nil
	case SyncS3:
		if c.S3Bucket == "" {
			return errors.New("STAMPET_S3_BUCKET is required for s3 sync")
		}
	case SyncMongo, SyncPostgres:
	default:
		return fmt.Errorf("unknown sync backend %q (want none, s3, mongo or postgres)", c.SyncBackend)
	}

	if err := remote.ValidateUserID(c.UserID); err != nil {
		return fmt.Errorf("STAMPET_USER_ID: %w", err)
	}
	if c.PostgresURL != "" {
		if err := remote.ValidateConnString(c.PostgresURL, false); err != nil {
			if errors.Is(err, remote.ErrEmbeddedCredentials) {
				return fmt.Errorf("STAMPET_POSTGRES_URL: %w; store it with 'stampet keyring set %s' or use PGPASSWORD", err, keyring.SecretPostgresURL)
			}
			return fmt.Errorf("STAMPET_POSTGRES_URL: %w", err)
		}
	}
	return nil
}

// ResolveSecrets fills secrets missing from the environment from the OS
// keyring. Only the selected backend's secret is looked up.
func (c *Config) ResolveSecrets() error {
	var name string
	var target *string
	switch c.SyncBackend {
	case SyncS3:
		name, target = keyring.SecretS3Key, &c.S3SecretKey
	case SyncMongo:
		name, target = keyring.SecretMongoURI, &c.MongoURI
	case SyncPostgres:
		name, target = keyring.SecretPostgresURL, &c.PostgresURL
	default:
		return nil
	}
	if *target != "" {
		return nil
	}

	secret, err := secretLookup(name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			if c.SyncBackend == SyncS3 {
				// The AWS default credential chain may still supply one
				return nil
			}
			return fmt.Errorf("no %s configured in the environment or the OS keyring", name)
		}
		return fmt.Errorf("failed to read %s from keyring: %w", name, err)
	}
	if c.SyncBackend == SyncPostgres {
		if err := remote.ValidateConnString(secret, true); err != nil {
			return fmt.Errorf("keyring %s: %w", name, err)
		}
	}
	*target = secret
	return nil
}

// NewMirror connects to the configured remote backend.
func (c *Config) NewMirror(ctx context.Context) (remote.Mirror, error) {
	switch c.SyncBackend {
	case SyncS3:
		return remote.NewS3Mirror(ctx, remote.S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	case SyncMongo:
		if c.MongoURI == "" {
			return nil, errors.New("mongo sync needs a connection URI")
		}
		return remote.NewMongoMirror(ctx, c.MongoURI, c.MongoDatabase)
	case SyncPostgres:
		if c.PostgresURL == "" {
			return nil, errors.New("postgres sync needs a connection string")
		}
		return remote.NewPostgresMirror(ctx, c.PostgresURL)
	default:
		return nil, ErrSyncDisabled
	}
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func (c *Config) envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func (c *Config) envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		c.Warnings = append(c.Warnings, fmt.Sprintf("config invalid bool for %s (%q), using default %v", key, v, def))
		return def
	}
	return b
}

func (c *Config) envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		c.Warnings = append(c.Warnings, fmt.Sprintf("config invalid duration for %s (%q), using default %s", key, v, def))
		return def
	}
	return d
}
