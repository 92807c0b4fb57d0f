package clientdata

import (
	"bytes"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Clock returns the current time. Tests inject a fixed clock.
type Clock func() time.Time

type memoryEntry struct {
	payload  []byte
	storedAt time.Time
}

// MemoryTier is the in-process tier. go-cache evicts entries after the
// retention period; freshness is decided per lookup from storedAt.
type MemoryTier struct {
	items *gocache.Cache
	now   Clock
}

// NewMemoryTier creates a memory tier that drops entries after retention.
func NewMemoryTier(retention time.Duration, now Clock) *MemoryTier {
	if now == nil {
		now = time.Now
	}
	if retention <= 0 {
		retention = time.Hour
	}
	return &MemoryTier{
		items: gocache.New(retention, 2*retention),
		now:   now,
	}
}

// Get returns the payload if now - storedAt < maxAge.
func (m *MemoryTier) Get(key string, maxAge time.Duration) ([]byte, bool) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false
	}
	entry, ok := v.(memoryEntry)
	if !ok || m.now().Sub(entry.storedAt) >= maxAge {
		return nil, false
	}
	return bytes.Clone(entry.payload), true
}

// Set stores a copy of payload stamped with the current time.
func (m *MemoryTier) Set(key string, payload []byte) {
	m.items.Set(key, memoryEntry{
		payload:  bytes.Clone(payload),
		storedAt: m.now(),
	}, gocache.DefaultExpiration)
}

// Delete removes key.
func (m *MemoryTier) Delete(key string) {
	m.items.Delete(key)
}

// Len returns the number of retained entries, fresh or not.
func (m *MemoryTier) Len() int {
	return m.items.ItemCount()
}
