package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/models"
	"github.com/snappy-loop/dearme/internal/settings"
)

// SettingsRepository persists the provider settings as a single JSON row.
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Load returns the saved settings, or defaults when none exist or the row cannot be read.
func (r *SettingsRepository) Load(ctx context.Context) models.Settings {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, settings.Key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings()
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to load settings, using defaults")
		return models.DefaultSettings()
	}
	return settings.Decode(raw)
}

// Save overwrites the settings row.
func (r *SettingsRepository) Save(ctx context.Context, s models.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		settings.Key, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

var _ settings.Store = (*SettingsRepository)(nil)
