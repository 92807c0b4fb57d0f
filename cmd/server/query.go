package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/espresso/internal/domain"
	"github.com/aristath/espresso/internal/modules/earnings"
	"github.com/aristath/espresso/internal/modules/overview"
	"github.com/aristath/espresso/internal/utils"
)

// queryTimeout bounds one CLI query
const queryTimeout = 2 * time.Minute

var (
	profileFlag string
	limitFlag   int
	daysFlag    int
	withFlag    []string
	countFlag   int
)

func addQueryCommands(root *cobra.Command) {
	opportunities := &cobra.Command{
		Use:   "opportunities",
		Short: "Rank trade ideas for a risk profile",
		Args:  cobra.NoArgs,
		RunE: query(func(ctx context.Context, args []string) any {
			current := container.Analytics.Settings()
			profile := current.RiskProfile
			if profileFlag != "" {
				profile = domain.ParseRiskProfile(strings.ToUpper(profileFlag))
			}
			limit := limitFlag
			if limit <= 0 {
				limit = cfg.OpportunityLimit
			}
			return container.Analytics.Opportunities(ctx, profile, current, limit)
		}),
	}
	opportunities.Flags().StringVar(&profileFlag, "profile", "", "DEFENSIVE, BALANCED or SPECULATIVE (default: saved setting)")
	opportunities.Flags().IntVar(&limitFlag, "limit", 0, "maximum ideas to return")

	earningsCmd := &cobra.Command{
		Use:   "earnings",
		Short: "List upcoming earnings in the coverage universe",
		Args:  cobra.NoArgs,
		RunE: query(func(ctx context.Context, args []string) any {
			return container.Analytics.EarningsCalendar(ctx, daysFlag)
		}),
	}
	earningsCmd.Flags().IntVar(&daysFlag, "days", earnings.DefaultCalendarDays, "look-ahead window in days")

	compare := &cobra.Command{
		Use:   "compare SYMBOL",
		Short: "Compare trailing performance and correlation against peers",
		Args:  cobra.ExactArgs(1),
		RunE: query(func(ctx context.Context, args []string) any {
			return container.Analytics.Comparison(ctx, utils.NormalizeSymbol(args[0]), utils.NormalizeSymbols(withFlag))
		}),
	}
	compare.Flags().StringSliceVar(&withFlag, "with", nil, "peer symbols (default: S&P 500 and XLK)")

	movers := &cobra.Command{
		Use:   "movers",
		Short: "Top gainers and losers in the coverage universe",
		Args:  cobra.NoArgs,
		RunE: query(func(ctx context.Context, args []string) any {
			return container.Analytics.Movers(ctx, countFlag)
		}),
	}
	movers.Flags().IntVar(&countFlag, "count", overview.DefaultMovers, "names per side")

	root.AddCommand(
		opportunities,
		movers,
		earningsCmd,
		compare,
		symbolCommand("indicators", "Technical indicator snapshot", func(ctx context.Context, sym string) any {
			return container.Analytics.Indicators(ctx, sym)
		}),
		symbolCommand("risk", "Beta, volatility, Sharpe and drawdown", func(ctx context.Context, sym string) any {
			return container.Analytics.RiskMetrics(ctx, sym)
		}),
		symbolCommand("fundamentals", "Valuation and growth figures", func(ctx context.Context, sym string) any {
			return container.Analytics.Fundamentals(ctx, sym)
		}),
		&cobra.Command{
			Use:   "narrative [SYMBOL]",
			Short: "Morning market narrative, or one symbol's narrative",
			Args:  cobra.MaximumNArgs(1),
			RunE: query(func(ctx context.Context, args []string) any {
				if len(args) == 1 {
					return container.Analytics.Narrative(ctx, utils.NormalizeSymbol(args[0]))
				}
				return container.Analytics.MorningNarrative(ctx)
			}),
		},
		&cobra.Command{
			Use:   "indices",
			Short: "Quote the S&P 500, NASDAQ and Dow",
			Args:  cobra.NoArgs,
			RunE: query(func(ctx context.Context, args []string) any {
				return container.Analytics.MarketIndices(ctx)
			}),
		},
		symbolCommand("news", "Headlines from the past week with sentiment", func(ctx context.Context, sym string) any {
			return container.Analytics.News(ctx, sym)
		}),
		&cobra.Command{
			Use:   "talking-points",
			Short: "Latest market headlines",
			Args:  cobra.NoArgs,
			RunE: query(func(ctx context.Context, args []string) any {
				return container.Analytics.TalkingPoints(ctx)
			}),
		},
		&cobra.Command{
			Use:   "regime",
			Short: "Classify the market regime",
			Args:  cobra.NoArgs,
			RunE: query(func(ctx context.Context, args []string) any {
				return container.Analytics.DetectRegime(ctx)
			}),
		},
		&cobra.Command{
			Use:   "rotation",
			Short: "Rank sectors by weekly performance",
			Args:  cobra.NoArgs,
			RunE: query(func(ctx context.Context, args []string) any {
				return container.Analytics.SectorRotation(ctx)
			}),
		},
		&cobra.Command{
			Use:   "correlation SYMBOL SYMBOL...",
			Short: "Average pairwise correlation of daily returns",
			Args:  cobra.MinimumNArgs(2),
			RunE: query(func(ctx context.Context, args []string) any {
				return container.Analytics.PortfolioCorrelation(ctx, utils.NormalizeSymbols(args))
			}),
		},
		&cobra.Command{
			Use:   "history",
			Short: "List archived opportunities",
			Args:  cobra.NoArgs,
			RunE: query(func(ctx context.Context, args []string) any {
				return container.Analytics.History()
			}),
		},
	)
}

func symbolCommand(use, short string, fn func(ctx context.Context, symbol string) any) *cobra.Command {
	return &cobra.Command{
		Use:   use + " SYMBOL",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: query(func(ctx context.Context, args []string) any {
			return fn(ctx, utils.NormalizeSymbol(args[0]))
		}),
	}
}

// query runs fn with a timeout and prints its result as indented JSON
func query(fn func(ctx context.Context, args []string) any) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), queryTimeout)
		defer cancel()

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(fn(ctx, args))
	}
}
