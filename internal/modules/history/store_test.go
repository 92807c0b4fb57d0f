package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/espresso/internal/domain"
	testingpkg "github.com/aristath/espresso/internal/testing"
)

func setupStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store := NewStore(dir, zerolog.Nop())
	store.now = testingpkg.Clock
	return store, dir
}

func TestStore_EmptyWhenMissing(t *testing.T) {
	store, _ := setupStore(t)
	assert.Empty(t, store.List())
	assert.NotNil(t, store.List())
}

func TestStore_AppendPrepends(t *testing.T) {
	store, _ := setupStore(t)

	first := store.Append(domain.Opportunity{Symbol: "AAPL", Confidence: 80})
	second := store.Append(domain.Opportunity{Symbol: "MSFT"})

	_, err := uuid.Parse(first.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, domain.StatusOpen, first.Status)
	assert.Equal(t, testingpkg.FixedNow, first.CreatedAt)

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "MSFT", list[0].Symbol)
	assert.Equal(t, "AAPL", list[1].Symbol)
	assert.Equal(t, 80, list[1].Confidence)
}

func TestStore_TruncatesToMax(t *testing.T) {
	store, _ := setupStore(t)
	for i := 0; i < MaxEntries+5; i++ {
		store.Append(domain.Opportunity{Symbol: fmt.Sprintf("S%02d", i)})
	}

	list := store.List()
	require.Len(t, list, MaxEntries)
	assert.Equal(t, "S54", list[0].Symbol)
	assert.Equal(t, "S05", list[MaxEntries-1].Symbol)
}

func TestStore_CorruptFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("[{"), 0644))
	store := NewStore(dir, zerolog.Nop())

	assert.Empty(t, store.List())

	store.Append(domain.Opportunity{Symbol: "AAPL"})
	assert.Len(t, store.List(), 1, "append replaces a corrupt archive")
	assert.Len(t, NewStore(dir, zerolog.Nop()).List(), 1)
}

func TestStore_ReloadsFromDisk(t *testing.T) {
	store, dir := setupStore(t)
	entry := store.Append(domain.Opportunity{Symbol: "NVDA", OppScore: 91})

	list := NewStore(dir, zerolog.Nop()).List()
	require.Len(t, list, 1)
	assert.Equal(t, entry.ID, list[0].ID)
	assert.Equal(t, 91, list[0].OppScore)
}

func TestStore_KeepsEntryWhenWriteFails(t *testing.T) {
	store, dir := setupStore(t)
	// A directory in place of the file makes the rename fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, FileName), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName, "x"), nil, 0644))

	entry := store.Append(domain.Opportunity{Symbol: "AMD"})

	list := store.List()
	require.Len(t, list, 1)
	assert.Equal(t, entry.ID, list[0].ID)
}

func TestStore_ListReturnsCopy(t *testing.T) {
	store, _ := setupStore(t)
	store.Append(domain.Opportunity{Symbol: "AAPL"})

	list := store.List()
	list[0].Symbol = "MUTATED"
	assert.Equal(t, "AAPL", store.List()[0].Symbol)
}
