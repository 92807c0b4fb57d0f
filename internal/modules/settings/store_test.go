package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/espresso/internal/domain"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, domain.ProfileBalanced, d.RiskProfile)
	assert.True(t, d.DarkMode)
	assert.True(t, d.Notifications)
	assert.Equal(t, 1.0, d.RVOLThreshold)
	assert.Len(t, d.CoverageSectors, 9)
	assert.Contains(t, d.CoverageSectors, "Materials")
}

func TestStore_MissingFileUsesDefaults(t *testing.T) {
	store := NewStore(t.TempDir(), zerolog.Nop())
	assert.Equal(t, Defaults(), store.Load())
}

func TestStore_PartialDocumentKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, `{"risk_profile":"SPECULATIVE","dark_mode":false}`)

	got := NewStore(dir, zerolog.Nop()).Load()

	assert.Equal(t, domain.ProfileSpeculative, got.RiskProfile)
	assert.False(t, got.DarkMode, "stored false must survive defaults")
	assert.True(t, got.Notifications)
	assert.Equal(t, 1.0, got.RVOLThreshold)
	assert.Len(t, got.CoverageSectors, 9)
}

func TestStore_CorruptOrInvalidFileUsesDefaults(t *testing.T) {
	for name, content := range map[string]string{
		"corrupt": `{"risk_profile":`,
		"invalid": `{"risk_profile":"YOLO"}`,
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, content)
			assert.Equal(t, Defaults(), NewStore(dir, zerolog.Nop()).Load())
		})
	}
}

func TestStore_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, zerolog.Nop())

	next := store.Load()
	next.RVOLThreshold = 1.8
	next.CoverageSectors = []string{"Energy"}
	require.NoError(t, store.Save(next))

	assert.Equal(t, next, store.Load())
	assert.Equal(t, next, NewStore(dir, zerolog.Nop()).Load(), "reloaded from disk")
}

func TestStore_SaveRejectsInvalid(t *testing.T) {
	store := NewStore(t.TempDir(), zerolog.Nop())

	bad := store.Load()
	bad.RiskProfile = "YOLO"
	bad.RVOLThreshold = -1
	err := store.Save(bad)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "ERR_ONEOF", verr.Fields[0].Code)
	assert.Equal(t, "RiskProfile must be one of: DEFENSIVE, BALANCED, SPECULATIVE", verr.Fields[0].Message)
	assert.Equal(t, "ERR_GTE", verr.Fields[1].Code)
	assert.Equal(t, Defaults(), store.Load(), "rejected settings are not applied")
}

func TestStore_SaveKeepsMemoryWhenWriteFails(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, zerolog.Nop())
	// A directory in place of the file makes the rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, FileName), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName, "x"), nil, 0644))

	next := store.Load()
	next.Notifications = false
	require.NoError(t, store.Save(next))
	assert.False(t, store.Load().Notifications)
}

func TestStore_Merge(t *testing.T) {
	store := NewStore(t.TempDir(), zerolog.Nop())

	got, err := store.Merge(func(s *domain.Settings) error {
		return json.Unmarshal([]byte(`{"rvol_threshold":2.5}`), s)
	})
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.RVOLThreshold)
	assert.Equal(t, domain.ProfileBalanced, got.RiskProfile)
	assert.Equal(t, got, store.Load())
}

func TestStore_ConcurrentMergesAllApply(t *testing.T) {
	store := NewStore(t.TempDir(), zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Merge(func(s *domain.Settings) error {
				current := s.RVOLThreshold
				time.Sleep(time.Millisecond)
				s.RVOLThreshold = current + 0.5
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 11.0, store.Load().RVOLThreshold, "1.0 plus twenty increments of 0.5")
}

func TestStore_MergeRejectsInvalid(t *testing.T) {
	store := NewStore(t.TempDir(), zerolog.Nop())

	_, err := store.Merge(func(s *domain.Settings) error {
		s.RVOLThreshold = -3
		return nil
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1.0, store.Load().RVOLThreshold)
}

func TestStore_LoadReturnsCopy(t *testing.T) {
	store := NewStore(t.TempDir(), zerolog.Nop())
	s := store.Load()
	s.CoverageSectors[0] = "Mutated"
	assert.NotEqual(t, "Mutated", store.Load().CoverageSectors[0])
}

func writeFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))
}
