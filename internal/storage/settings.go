package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/models"
)

// New picks a provider from the file extension: .json gets the JSON file
// store, anything else SQLite.
func New(path string) Provider {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONStore(path)
	}
	return NewSQLiteStore(path)
}

// GetSettings reads the settings document, filling defaults for missing keys.
func GetSettings(p Provider) (models.Settings, error) {
	data, err := p.GetDocument(constants.SettingsKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.DefaultSettings(), nil
		}
		return models.Settings{}, err
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return models.Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	settings, err := models.MapToSettings(m)
	if err != nil {
		return models.Settings{}, err
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// SaveSettings writes settings as a flat key/value document.
func SaveSettings(p Provider, settings models.Settings) error {
	data, err := json.Marshal(models.SettingsToMap(settings))
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	return p.PutDocument(constants.SettingsKey, data)
}

// EnsureSettings writes default settings when none are stored yet.
func EnsureSettings(p Provider) error {
	_, err := p.GetDocument(constants.SettingsKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	return SaveSettings(p, models.DefaultSettings())
}
