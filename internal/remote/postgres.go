package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	pq "github.com/lib/pq"

	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/logger"
	"github.com/julianstephens/stampet/internal/migration"
	"github.com/julianstephens/stampet/migrations"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// PostgresMirror keeps one JSONB row per user in game_documents
type PostgresMirror struct {
	db *sqlx.DB
}

type documentRow struct {
	UserID    string `db:"user_id"`
	GameState string `db:"game_state"`
	UpdatedAt string `db:"updated_at"`
}

// ValidateConnString checks that connStr is a PostgreSQL URI or DSN. Unless
// allowPassword is set, a password embedded in the string is rejected; only
// secrets read from the OS keyring may carry one.
func ValidateConnString(connStr string, allowPassword bool) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}
	if allowPassword {
		return nil
	}

	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := parsedURL.User.Password(); isSet {
			return ErrEmbeddedCredentials
		}
		return nil
	}

	for _, pair := range strings.Fields(connStr) {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[0]), "password") {
			return ErrEmbeddedCredentials
		}
	}
	return nil
}

// withSearchPath pins the connection to the application schema unless the
// caller already chose one.
func withSearchPath(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return connStr
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.PostgresSchema)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}

	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "search_path") {
			return connStr
		}
	}
	return strings.TrimSpace(connStr) + " search_path=" + constants.PostgresSchema
}

// NewPostgresMirror opens the database, creates the schema and applies the
// embedded postgres migrations.
func NewPostgresMirror(ctx context.Context, connStr string) (*PostgresMirror, error) {
	db, err := sqlx.Open("postgres", withSearchPath(connStr))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") {
			return nil, fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+constants.PostgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	if _, err := migration.NewPostgresRunner(db.DB, subFS).Apply(func(msg string) {
		logger.Debug(msg)
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresMirror{db: db}, nil
}

func (m *PostgresMirror) Name() string { return "postgres" }

func (m *PostgresMirror) Push(ctx context.Context, userID string, doc Document) error {
	if err := ValidateUserID(userID); err != nil {
		return err
	}
	row := documentRow{
		UserID:    userID,
		GameState: string(doc.GameState),
		UpdatedAt: doc.UpdatedAt,
	}
	_, err := m.db.NamedExecContext(ctx, `
		INSERT INTO game_documents (user_id, game_state, updated_at)
		VALUES (:user_id, :game_state, :updated_at)
		ON CONFLICT (user_id) DO UPDATE
		SET game_state = EXCLUDED.game_state, updated_at = EXCLUDED.updated_at
	`, row)
	if err != nil {
		return fmt.Errorf("failed to upsert game state: %w", err)
	}
	return nil
}

func (m *PostgresMirror) Pull(ctx context.Context, userID string) (Document, error) {
	if err := ValidateUserID(userID); err != nil {
		return Document{}, err
	}

	var row documentRow
	err := m.db.GetContext(ctx, &row,
		"SELECT user_id, game_state, updated_at FROM game_documents WHERE user_id = $1", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, fmt.Errorf("%w: %s", ErrNotFound, userID)
		}
		return Document{}, fmt.Errorf("failed to fetch game state: %w", err)
	}
	return Document{GameState: []byte(row.GameState), UpdatedAt: row.UpdatedAt}, nil
}

func (m *PostgresMirror) Close(context.Context) error {
	return m.db.Close()
}
