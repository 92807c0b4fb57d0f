// Package di provides dependency injection wiring and initialization.
package di

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aristath/espresso/internal/clientdata"
	"github.com/aristath/espresso/internal/clients/alphavantage"
	"github.com/aristath/espresso/internal/clients/yahoo"
	"github.com/aristath/espresso/internal/config"
	"github.com/aristath/espresso/internal/marketdata"
	"github.com/aristath/espresso/internal/scheduler"
	"github.com/aristath/espresso/internal/services"
	"github.com/aristath/espresso/internal/work"
)

// Container holds all dependencies for the application
// This is the single source of truth for all service instances
type Container struct {
	Config   *config.Config
	Registry *prometheus.Registry

	// Clients
	YahooClient    *yahoo.Client
	NewsFeed       *yahoo.NewsFeed
	EarningsClient *alphavantage.Client

	// Data plumbing
	Cache      *clientdata.Repository
	MarketData *marketdata.Service
	Pool       *work.Pool

	// Engines and the produced API
	Deps      services.Deps
	Analytics *services.Analytics

	Scheduler *scheduler.Scheduler
}

// JobInstances holds the registered background jobs
type JobInstances struct {
	Warmup  scheduler.Job
	Cleanup scheduler.Job
}
