package game

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/logger"
	"github.com/julianstephens/stampet/internal/models"
	"github.com/julianstephens/stampet/internal/remote"
	"github.com/julianstephens/stampet/internal/storage"
)

// Pusher receives every persisted snapshot for best-effort remote mirroring.
type Pusher interface {
	Enqueue(doc remote.Document)
}

// Mutation is a pure state transition evaluated at now.
type Mutation func(s models.GameState, now time.Time) (models.GameState, error)

// Store holds the canonical state and writes every change through to local
// storage before handing a copy to the pusher. It is not safe for concurrent
// use; mutations are applied serially.
type Store struct {
	provider storage.Provider
	loc      *time.Location
	clock    func() time.Time
	pusher   Pusher
	mirror   remote.Mirror
	userID   string

	state  models.GameState
	loaded bool
}

type Option func(*Store)

// WithLocation sets the timezone that decides what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithPusher mirrors every persisted snapshot asynchronously.
func WithPusher(p Pusher) Option {
	return func(s *Store) { s.pusher = p }
}

// WithMirror enables explicit Push and Pull against a remote mirror.
func WithMirror(m remote.Mirror, userID string) Option {
	return func(s *Store) {
		s.mirror = m
		s.userID = userID
	}
}

func NewStore(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		loc:      time.Local,
		clock:    time.Now,
		state:    NewGameState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current time in the store's timezone.
func (s *Store) Now() time.Time {
	return s.clock().In(s.loc)
}

// Load reads the persisted state. A missing document starts a fresh world; a
// malformed or unknown-version document is discarded the same way and never
// surfaces as an error. Storage failures do.
func (s *Store) Load() (models.GameState, error) {
	now := s.Now()
	data, err := s.provider.GetDocument(constants.GameStateKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return models.GameState{}, fmt.Errorf("failed to read game state: %w", err)
		}
		s.state = Refresh(NewGameState(), now)
		s.loaded = true
		return s.State(), nil
	}

	state, migrated, err := Decode(data)
	if err != nil {
		logger.Warn("Discarding unreadable game state", "error", err)
		s.state = Refresh(NewGameState(), now)
		s.loaded = true
		return s.State(), s.persist()
	}
	if migrated {
		logger.Info("Migrated legacy single-habit game state")
	}

	refreshed := Refresh(state, now)
	s.state = refreshed
	s.loaded = true
	if migrated || !reflect.DeepEqual(refreshed, state) {
		return s.State(), s.persist()
	}
	return s.State(), nil
}

// State returns a copy of the current snapshot.
func (s *Store) State() models.GameState {
	return s.state.Clone()
}

// Apply runs a mutation and writes the result through. A failing mutation
// leaves state and storage untouched; a mutation that changes nothing is not
// written.
func (s *Store) Apply(m Mutation) (models.GameState, error) {
	if !s.loaded {
		if _, err := s.Load(); err != nil {
			return models.GameState{}, err
		}
	}

	next, err := m(s.state.Clone(), s.Now())
	if err != nil {
		return s.State(), err
	}
	if reflect.DeepEqual(next, s.state) {
		return s.State(), nil
	}

	prev := s.state
	s.state = next
	if err := s.persist(); err != nil {
		s.state = prev
		return s.State(), err
	}
	return s.State(), nil
}

// StampDate stamps one day and persists the result.
func (s *Store) StampDate(habitID, date string) (models.GameState, error) {
	return s.Apply(func(st models.GameState, now time.Time) (models.GameState, error) {
		return StampDate(st, habitID, date, now)
	})
}

// StampToday stamps the current day of the store's timezone.
func (s *Store) StampToday(habitID string) (models.GameState, error) {
	return s.Apply(func(st models.GameState, now time.Time) (models.GameState, error) {
		return StampDate(st, habitID, now.Format(constants.DateFormat), now)
	})
}

func (s *Store) StampRange(habitID, start, end string) (models.GameState, error) {
	return s.Apply(func(st models.GameState, now time.Time) (models.GameState, error) {
		return StampRange(st, habitID, start, end, now)
	})
}

// ResetAll deletes the persisted document and writes a fresh world in its
// place. The fresh world carries a newer updatedAt than anything written
// before, so an older remote snapshot can never be pulled back over it.
// This cannot be undone.
func (s *Store) ResetAll() (models.GameState, error) {
	if err := s.provider.DeleteDocument(constants.GameStateKey); err != nil {
		return s.State(), fmt.Errorf("failed to clear game state: %w", err)
	}
	fresh := Refresh(NewGameState(), s.Now())
	fresh.UpdatedAt = s.state.UpdatedAt
	s.state = fresh
	s.loaded = true
	if err := s.persist(); err != nil {
		return s.State(), err
	}
	logger.Info("Game state reset")
	return s.State(), nil
}

// Push uploads the current snapshot synchronously.
func (s *Store) Push(ctx context.Context) error {
	if s.mirror == nil {
		return fmt.Errorf("remote sync is not configured")
	}
	doc, err := s.document()
	if err != nil {
		return err
	}
	if err := s.mirror.Push(ctx, s.userID, doc); err != nil {
		return fmt.Errorf("push to %s failed: %w", s.mirror.Name(), err)
	}
	return nil
}

// Pull fetches the remote snapshot and adopts it only when its updatedAt is
// strictly newer than the local one. Local edits made after the remote was
// written always win.
func (s *Store) Pull(ctx context.Context) (bool, error) {
	if s.mirror == nil {
		return false, fmt.Errorf("remote sync is not configured")
	}
	if !s.loaded {
		if _, err := s.Load(); err != nil {
			return false, err
		}
	}

	doc, err := s.mirror.Pull(ctx, s.userID)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("pull from %s failed: %w", s.mirror.Name(), err)
	}
	if !remote.IsNewer(doc.UpdatedAt, s.state.UpdatedAt) {
		logger.Debug("Remote snapshot is not newer, keeping local", "remote", doc.UpdatedAt, "local", s.state.UpdatedAt)
		return false, nil
	}

	state, _, err := Decode(doc.GameState)
	if err != nil {
		return false, fmt.Errorf("remote game state rejected: %w", err)
	}
	state = Refresh(state, s.Now())
	state.UpdatedAt = doc.UpdatedAt

	data, err := Encode(state)
	if err != nil {
		return false, err
	}
	if err := s.provider.PutDocument(constants.GameStateKey, data); err != nil {
		return false, fmt.Errorf("failed to save game state: %w", err)
	}
	s.state = state
	logger.Info("Adopted remote game state", "mirror", s.mirror.Name(), "updatedAt", doc.UpdatedAt)
	return true, nil
}

func (s *Store) persist() error {
	s.state.UpdatedAt = s.timestamp()
	data, err := Encode(s.state)
	if err != nil {
		return err
	}
	if err := s.provider.PutDocument(constants.GameStateKey, data); err != nil {
		logger.Error("Failed to persist game state", "error", err)
		return fmt.Errorf("failed to save game state: %w", err)
	}
	logger.Debug("Persisted game state", "updatedAt", s.state.UpdatedAt)
	s.enqueue()
	return nil
}

func (s *Store) enqueue() {
	if s.pusher == nil {
		return
	}
	doc, err := s.document()
	if err != nil {
		logger.Warn("Skipping remote push", "error", err)
		return
	}
	s.pusher.Enqueue(doc)
}

func (s *Store) document() (remote.Document, error) {
	data, err := Encode(s.state)
	if err != nil {
		return remote.Document{}, err
	}
	return remote.Document{GameState: data, UpdatedAt: s.state.UpdatedAt}, nil
}

// timestamp is always later than the previous one so last-write-wins
// comparisons never tie within one session.
func (s *Store) timestamp() string {
	t := s.clock().UTC()
	if prev, err := time.Parse(time.RFC3339Nano, s.state.UpdatedAt); err == nil && !t.After(prev) {
		t = prev.Add(time.Millisecond)
	}
	return t.Format(time.RFC3339Nano)
}
