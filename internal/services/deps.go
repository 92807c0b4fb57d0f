package services

import (
	"github.com/rs/zerolog"

	"github.com/aristath/espresso/internal/market_regime"
	"github.com/aristath/espresso/internal/marketdata"
	"github.com/aristath/espresso/internal/modules/earnings"
	"github.com/aristath/espresso/internal/modules/history"
	"github.com/aristath/espresso/internal/modules/indicators"
	"github.com/aristath/espresso/internal/modules/narrative"
	"github.com/aristath/espresso/internal/modules/opportunities"
	"github.com/aristath/espresso/internal/modules/overview"
	"github.com/aristath/espresso/internal/modules/risk"
	"github.com/aristath/espresso/internal/modules/settings"
	"github.com/aristath/espresso/internal/work"
)

// NewDeps builds every engine on top of one market data service and one
// worker pool. benchmark is the beta and regime reference symbol and the
// talking points come from its headlines; the settings and history
// documents live in dataDir.
func NewDeps(data *marketdata.Service, pool *work.Pool, benchmark, dataDir string, log zerolog.Logger) Deps {
	ind := indicators.NewEngine(data, log)
	riskEngine := risk.NewEngine(data, pool, benchmark, log)
	gen := narrative.NewGenerator(data, ind, pool, log)
	cal := earnings.NewService(data, pool, log)

	return Deps{
		MarketData:    data,
		Indicators:    ind,
		Risk:          riskEngine,
		Narrative:     gen,
		Regime:        market_regime.NewDetector(data, pool, benchmark, log),
		Opportunities: opportunities.NewService(ind, riskEngine, gen, cal, pool, log),
		Earnings:      cal,
		Overview:      overview.NewService(data, pool, benchmark, log),
		Settings:      settings.NewStore(dataDir, log),
		History:       history.NewStore(dataDir, log),
	}
}
