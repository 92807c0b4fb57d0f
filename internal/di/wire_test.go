package di

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/espresso/internal/clients/yahoo"
	"github.com/aristath/espresso/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir:          t.TempDir(),
		LogLevel:         "info",
		Port:             8001,
		QuoteTTL:         time.Minute,
		FileTTL:          time.Hour,
		FundamentalsTTL:  24 * time.Hour,
		CacheRetention:   7 * 24 * time.Hour,
		WorkerPoolSize:   10,
		GatewayRate:      5,
		WarmupSchedule:   "0 */15 * * * *",
		CleanupSchedule:  "",
		Benchmark:        "SPY",
		NewsFeedURL:      yahoo.DefaultFeedURL,
		OpportunityLimit: 10,
	}
}

func TestWire(t *testing.T) {
	c, jobs, err := Wire(testConfig(t), zerolog.Nop())
	require.NoError(t, err)

	assert.NotNil(t, c.Analytics)
	assert.NotNil(t, c.Deps.Opportunities)
	assert.Equal(t, 10, c.Pool.Size())
	assert.Equal(t, "cache_warmup", jobs.Warmup.Name())
	assert.NotEmpty(t, jobs.Cleanup.Name())

	families, err := c.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestWire_BadSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.WarmupSchedule = "every now and then"

	_, _, err := Wire(cfg, zerolog.Nop())
	assert.Error(t, err)
}
