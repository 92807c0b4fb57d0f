// Package settings persists the user-facing options as a JSON document.
//
// Defaults come from the `default` tags on domain.Settings. A stored
// document only overrides the keys it contains, so options added later
// keep their defaults when an older file is loaded.
package settings

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/pkg/jsonfile"
)

// FileName is the settings document inside the data directory
const FileName = "settings.json"

var validate = validator.New()

// Store holds the current settings in memory and mirrors them to disk.
type Store struct {
	path    string
	mu      sync.RWMutex
	current domain.Settings
	log     zerolog.Logger
}

// NewStore loads dataDir/settings.json, falling back to defaults when the
// file is missing, corrupt or invalid.
func NewStore(dataDir string, log zerolog.Logger) *Store {
	s := &Store{
		path: filepath.Join(dataDir, FileName),
		log:  log.With().Str("component", "settings").Logger(),
	}
	s.current = s.read()
	return s
}

// Defaults returns the settings used when nothing is stored
func Defaults() domain.Settings {
	var out domain.Settings
	// Only fails on malformed tags, which is a programming error.
	if err := defaults.Set(&out); err != nil {
		panic(fmt.Sprintf("settings defaults: %v", err))
	}
	return out
}

// Load returns a copy of the current settings
func (s *Store) Load() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.current)
}

// Save validates next and makes it current. A validation failure is
// returned and leaves the current settings untouched. A write failure is
// logged; the new settings still apply for the life of the process.
func (s *Store) Save(next domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(clone(next))
}

// Merge applies change to a copy of the current settings and saves the
// result. Decoding a partial JSON body inside change leaves absent keys
// at their current values. The store stays locked from read to swap, so
// concurrent merges apply one after the other.
func (s *Store) Merge(change func(*domain.Settings) error) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := clone(s.current)
	if err := change(&next); err != nil {
		return domain.Settings{}, err
	}
	if err := s.commit(next); err != nil {
		return domain.Settings{}, err
	}
	return clone(next), nil
}

// commit validates next, swaps it in and mirrors it to disk. Callers hold mu.
func (s *Store) commit(next domain.Settings) error {
	if err := Validate(next); err != nil {
		return err
	}
	s.current = next
	if err := jsonfile.Write(s.path, next); err != nil {
		s.log.Warn().Err(err).Msg("Failed to persist settings")
	}
	return nil
}

func (s *Store) read() domain.Settings {
	out := Defaults()
	err := jsonfile.Read(s.path, &out)
	switch {
	case errors.Is(err, jsonfile.ErrNotExist):
		return out
	case err != nil:
		s.log.Warn().Err(err).Msg("Ignoring unreadable settings file")
		return Defaults()
	}
	if err := Validate(out); err != nil {
		s.log.Warn().Err(err).Msg("Ignoring invalid settings file")
		return Defaults()
	}
	return out
}

func clone(in domain.Settings) domain.Settings {
	if in.CoverageSectors != nil {
		in.CoverageSectors = append([]string{}, in.CoverageSectors...)
	}
	return in
}
