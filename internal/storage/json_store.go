package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/logger"
)

type fileLayout struct {
	Version   int                        `json:"version"`
	Documents map[string]json.RawMessage `json:"documents"`
}

// JSONStore keeps every document in a single JSON file on disk.
type JSONStore struct {
	path  string
	store *fileLayout
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &fileLayout{
		Version:   1,
		Documents: make(map[string]json.RawMessage),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	layout, err := parseLayout(data)
	if err != nil {
		return s.quarantine(err)
	}
	s.store = layout
	return nil
}

func parseLayout(data []byte) (*fileLayout, error) {
	layout := &fileLayout{}
	if err := json.Unmarshal(data, layout); err != nil {
		return nil, err
	}
	if layout.Documents == nil {
		layout.Documents = make(map[string]json.RawMessage)
	}
	// The file is written indented; hand documents back compact.
	for key, doc := range layout.Documents {
		var buf bytes.Buffer
		if err := json.Compact(&buf, doc); err != nil {
			return nil, fmt.Errorf("document %s: %w", key, err)
		}
		layout.Documents[key] = buf.Bytes()
	}
	return layout, nil
}

// quarantine moves an unparseable file to <path>.corrupt-<ts> and starts
// over with an empty store.
func (s *JSONStore) quarantine(cause error) error {
	aside := fmt.Sprintf("%s.corrupt-%s", s.path, time.Now().UTC().Format("20060102T150405Z"))
	if err := os.Rename(s.path, aside); err != nil {
		return fmt.Errorf("failed to set aside unreadable storage: %w", err)
	}
	logger.Warn("Storage file is unreadable, starting fresh", "error", cause, "movedTo", aside)
	s.store = &fileLayout{
		Version:   1,
		Documents: make(map[string]json.RawMessage),
	}
	return s.save()
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a temp file and renames it over the store so a crash never
// leaves a half-written file behind.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *JSONStore) GetDocument(key string) ([]byte, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	doc, ok := s.store.Documents[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return append([]byte(nil), doc...), nil
}

func (s *JSONStore) PutDocument(key string, value []byte) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return fmt.Errorf("document %s is not valid JSON: %w", key, err)
	}
	s.store.Documents[key] = buf.Bytes()
	return s.save()
}

func (s *JSONStore) DeleteDocument(key string) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	if _, ok := s.store.Documents[key]; !ok {
		return nil
	}
	delete(s.store.Documents, key)
	return s.save()
}

func (s *JSONStore) Keys() ([]string, error) {
	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	keys := make([]string, 0, len(s.store.Documents))
	for k := range s.store.Documents {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *JSONStore) Clear() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Documents = make(map[string]json.RawMessage)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
