package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/localstore"
	"github.com/snappy-loop/dearme/internal/models"
)

// Key is the local store key holding the persisted settings object.
const Key = "dear_me_settings"

// Store loads and saves provider settings. Load never fails: missing or unreadable
// settings yield models.DefaultSettings(). Save overwrites; it never merges.
type Store interface {
	Load(ctx context.Context) models.Settings
	Save(ctx context.Context, s models.Settings) error
}

// LocalStore keeps settings in the local key-value store.
type LocalStore struct {
	kv *localstore.Store
}

// NewLocalStore returns a Store backed by kv.
func NewLocalStore(kv *localstore.Store) *LocalStore {
	return &LocalStore{kv: kv}
}

// Load returns the last saved settings, or defaults.
func (s *LocalStore) Load(ctx context.Context) models.Settings {
	raw, ok := s.kv.Get(Key)
	if !ok {
		return models.DefaultSettings()
	}
	return Decode(raw)
}

// Save overwrites the persisted settings.
func (s *LocalStore) Save(ctx context.Context, st models.Settings) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.kv.Set(Key, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	log.Info().
		Str("provider", string(st.Provider)).
		Str("voice_provider", string(st.VoiceProvider)).
		Msg("Settings saved")
	return nil
}

// Decode parses a persisted settings object. Parse failures are logged and treated as "no settings".
func Decode(raw []byte) models.Settings {
	if string(raw) == "null" {
		return models.DefaultSettings()
	}
	var st models.Settings
	if err := json.Unmarshal(raw, &st); err != nil {
		log.Error().Err(err).Msg("Failed to parse saved settings, using defaults")
		return models.DefaultSettings()
	}
	return st
}
