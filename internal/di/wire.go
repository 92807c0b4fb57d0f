package di

import (
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/aristath/espresso/internal/clientdata"
	"github.com/aristath/espresso/internal/clients/alphavantage"
	"github.com/aristath/espresso/internal/clients/yahoo"
	"github.com/aristath/espresso/internal/config"
	"github.com/aristath/espresso/internal/marketdata"
	"github.com/aristath/espresso/internal/scheduler"
	"github.com/aristath/espresso/internal/services"
	"github.com/aristath/espresso/internal/work"
)

// CacheDirName is the file tier directory inside the data directory
const CacheDirName = "cache"

// Wire initializes all dependencies and returns a fully configured container
// Order of operations:
// 1. Initialize clients
// 2. Initialize the cache and market data service
// 3. Initialize engines and the produced API
// 4. Register jobs
func Wire(cfg *config.Config, log zerolog.Logger) (*Container, *JobInstances, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c := &Container{
		Config:         cfg,
		Registry:       reg,
		YahooClient:    yahoo.NewClient(cfg.GatewayRate, log),
		NewsFeed:       yahoo.NewNewsFeed(cfg.NewsFeedURL, cfg.GatewayRate, log),
		EarningsClient: alphavantage.NewClient(cfg.AlphaVantageKey, log),
		Pool:           work.NewPool(cfg.WorkerPoolSize, log),
	}

	cache, err := clientdata.NewRepository(clientdata.Options{
		Dir:        filepath.Join(cfg.DataDir, CacheDirName),
		Policies:   cfg.CachePolicies(),
		Registerer: reg,
		Log:        log,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	c.Cache = cache

	gateway := marketdata.Compose(c.YahooClient, c.NewsFeed, c.EarningsClient)
	c.MarketData = marketdata.NewService(gateway, cache, log)

	c.Deps = services.NewDeps(c.MarketData, c.Pool, cfg.Benchmark, cfg.DataDir, log)
	c.Analytics = services.NewAnalytics(c.Deps, log)

	jobs, err := RegisterJobs(c, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to register jobs: %w", err)
	}

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("workers", c.Pool.Size()).
		Str("benchmark", cfg.Benchmark).
		Msg("Dependencies wired")
	return c, jobs, nil
}

// RegisterJobs creates the background jobs and schedules them
func RegisterJobs(c *Container, log zerolog.Logger) (*JobInstances, error) {
	c.Scheduler = scheduler.New(log)

	jobs := &JobInstances{
		Warmup:  scheduler.NewWarmupJob(c.Analytics, log),
		Cleanup: clientdata.NewCleanupJob(c.Cache, c.Config.CacheRetention, log),
	}
	if err := c.Scheduler.AddJob(c.Config.WarmupSchedule, jobs.Warmup); err != nil {
		return nil, fmt.Errorf("warm-up schedule %q: %w", c.Config.WarmupSchedule, err)
	}
	if err := c.Scheduler.AddJob(c.Config.CleanupSchedule, jobs.Cleanup); err != nil {
		return nil, fmt.Errorf("cleanup schedule %q: %w", c.Config.CleanupSchedule, err)
	}
	return jobs, nil
}
