// Package remote mirrors the game state document to an optional remote store.
// Remote is a backup and sync target, never a concurrent writer: local state
// pushes whole documents and pulls are reconciled by the caller.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/julianstephens/stampet/internal/constants"
)

var (
	ErrNotFound      = errors.New("remote document not found")
	ErrInvalidUserID = errors.New("invalid sync user id")
)

// Document is the unit of remote sync. Last write wins at document level.
type Document struct {
	GameState json.RawMessage `json:"gameState"`
	UpdatedAt string          `json:"updatedAt"` // RFC3339 timestamp
}

// Mirror is a remote document store keyed by user id.
type Mirror interface {
	Name() string
	Push(ctx context.Context, userID string, doc Document) error
	Pull(ctx context.Context, userID string) (Document, error)
	Close(ctx context.Context) error
}

// ValidateUserID rejects ids that cannot be used as an object path segment.
func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: must not be empty", ErrInvalidUserID)
	}
	if strings.ContainsAny(userID, "/\\") || userID == "." || userID == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}
	return nil
}

// ObjectKey returns the object path of a user's document, users/<id>/game-state.json.
func ObjectKey(userID string) string {
	return path.Join(constants.RemoteObjectPrefix, userID, constants.RemoteObjectName)
}

// IsNewer reports whether updatedAt is strictly later than other. An empty or
// unparseable other is treated as the beginning of time; an unparseable
// updatedAt is never newer.
func IsNewer(updatedAt, other string) bool {
	t, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return false
	}
	o, err := time.Parse(time.RFC3339Nano, other)
	if err != nil {
		return true
	}
	return t.After(o)
}
