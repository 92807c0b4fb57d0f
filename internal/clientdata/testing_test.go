package clientdata

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeClock starts at the real wall time so file modification ages line up.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupRepository(t *testing.T, clock *fakeClock) (*Repository, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	repo, err := NewRepository(Options{
		Dir: t.TempDir(),
		Policies: map[Kind]Policy{
			KindQuote:   {Memory: 60 * time.Second, File: 10 * time.Minute},
			KindHistory: {Memory: time.Minute, File: time.Hour},
		},
		Clock:      clock.Now,
		Registerer: reg,
		Log:        zerolog.Nop(),
	})
	require.NoError(t, err)
	return repo, reg
}
