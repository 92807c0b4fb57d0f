// Package history archives opportunities the user chose to track.
package history

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/pkg/jsonfile"
)

// FileName is the history document inside the data directory
const FileName = "history.json"

// MaxEntries bounds the archive; the oldest entries drop off first
const MaxEntries = 50

// Store keeps archived opportunities newest first. The in-memory list is
// authoritative and every change is mirrored to disk.
type Store struct {
	path    string
	mu      sync.Mutex
	entries []domain.HistoryEntry
	now     func() time.Time
	log     zerolog.Logger
}

// NewStore loads dataDir/history.json. A missing or corrupt file starts
// an empty archive.
func NewStore(dataDir string, log zerolog.Logger) *Store {
	s := &Store{
		path: filepath.Join(dataDir, FileName),
		now:  time.Now,
		log:  log.With().Str("component", "history").Logger(),
	}
	s.entries = s.read()
	return s
}

// Append archives opp with a fresh id and OPEN status and returns the new
// entry. A persistence failure is logged; the entry stays in the archive.
func (s *Store) Append(opp domain.Opportunity) domain.HistoryEntry {
	entry := domain.HistoryEntry{
		Opportunity: opp,
		ID:          uuid.NewString(),
		CreatedAt:   s.now().UTC(),
		Status:      domain.StatusOpen,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append([]domain.HistoryEntry{entry}, s.entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	s.entries = entries
	if err := jsonfile.Write(s.path, entries); err != nil {
		s.log.Warn().Err(err).Str("symbol", opp.Symbol).Msg("Failed to persist history")
	}
	return entry
}

// List returns a copy of the archive, newest first.
func (s *Store) List() []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.HistoryEntry{}, s.entries...)
}

func (s *Store) read() []domain.HistoryEntry {
	var entries []domain.HistoryEntry
	err := jsonfile.Read(s.path, &entries)
	if err != nil {
		if !errors.Is(err, jsonfile.ErrNotExist) {
			s.log.Warn().Err(err).Msg("Ignoring unreadable history file")
		}
		return []domain.HistoryEntry{}
	}
	if entries == nil {
		return []domain.HistoryEntry{}
	}
	return entries
}
