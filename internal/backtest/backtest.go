package backtest

import (
	"context"
	"fmt"
	"time"

	"marketmatch/internal/domain"
	"marketmatch/internal/logger"
	"marketmatch/internal/marketdata"
	"marketmatch/internal/scoring"
	"marketmatch/internal/timeseries"
)

const fxPair = "CADUSD=X"

type Handler struct {
	Gateway marketdata.Gateway
}

// Run reconstructs a weight-scaled, normalized portfolio price index
// over [start, end] at monthly sampling and compares it against the
// 50/50 benchmark blend. Individual components that fail to price are
// skipped; a benchmark failure or a fully unpriceable portfolio is an
// error.
func (h Handler) Run(ctx context.Context, positions []domain.WeightedPosition, start, end time.Time) (*domain.BacktestResult, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("cannot backtest an empty portfolio")
	}

	benchmark, err := h.blendedBenchmarkIndex(ctx, start, end)
	if err != nil {
		return nil, err
	}

	fx, err := h.fxSeries(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get fx series: %w", err)
	}

	log := logger.FromContext(ctx)
	portfolio := timeseries.Series{}
	components := 0
	for _, position := range positions {
		component, err := h.componentIndex(ctx, position, fx, start, end)
		if err != nil {
			log.Warnw("skipping backtest component", "symbol", position.Symbol, "error", err)
			continue
		}
		if component.Len() == 0 {
			log.Infow("no backtest data for component", "symbol", position.Symbol)
			continue
		}
		// union join with forward-fill, so components with slightly
		// different date coverage still combine; note a component's
		// true gaps are carried forward as stale values here
		portfolio = portfolio.Add(component)
		components++
	}
	if components == 0 {
		return nil, fmt.Errorf("no portfolio components could be priced")
	}

	portfolio = portfolio.Normalize()

	alignedPortfolio, alignedBenchmark := portfolio.Intersect(benchmark)
	if alignedPortfolio.Len() < 2 {
		return nil, fmt.Errorf("insufficient overlapping dates between portfolio and benchmark")
	}

	correlation, err := timeseries.Pearson(alignedPortfolio, alignedBenchmark)
	if err != nil {
		return nil, fmt.Errorf("failed to compute correlation: %w", err)
	}

	return &domain.BacktestResult{
		Dates:              alignedPortfolio.Dates(),
		PortfolioIndex:     alignedPortfolio.Values(),
		BenchmarkIndex:     alignedBenchmark.Values(),
		PortfolioReturnPct: 100 * (alignedPortfolio.Last()/alignedPortfolio.First() - 1),
		BenchmarkReturnPct: 100 * (alignedBenchmark.Last()/alignedBenchmark.First() - 1),
		Correlation:        correlation,
	}, nil
}

// blendedBenchmarkIndex fetches both benchmark indices, aligns them
// on common dates, normalizes each to 1.0 and averages them.
func (h Handler) blendedBenchmarkIndex(ctx context.Context, start, end time.Time) (timeseries.Series, error) {
	us, err := h.benchmarkIndex(ctx, scoring.BenchmarkUS, start, end)
	if err != nil {
		return timeseries.Series{}, err
	}
	ca, err := h.benchmarkIndex(ctx, scoring.BenchmarkCA, start, end)
	if err != nil {
		return timeseries.Series{}, err
	}

	usAligned, caAligned := us.Intersect(ca)
	if usAligned.Len() == 0 {
		return timeseries.Series{}, fmt.Errorf("benchmarks share no common dates")
	}

	return usAligned.Normalize().Blend(caAligned.Normalize()), nil
}

func (h Handler) benchmarkIndex(ctx context.Context, symbol string, start, end time.Time) (timeseries.Series, error) {
	points, err := h.Gateway.GetHistory(ctx, symbol, start, end, marketdata.Monthly)
	if err != nil {
		return timeseries.Series{}, fmt.Errorf("failed to get benchmark data for %s: %w", symbol, err)
	}
	if len(points) == 0 {
		return timeseries.Series{}, fmt.Errorf("no benchmark data for %s", symbol)
	}
	return timeseries.FromPricePoints(points), nil
}

func (h Handler) fxSeries(ctx context.Context, start, end time.Time) (timeseries.Series, error) {
	points, err := h.Gateway.GetFxRate(ctx, fxPair, start, end, marketdata.Monthly)
	if err != nil {
		return timeseries.Series{}, err
	}
	return timeseries.FromPricePoints(points), nil
}

// componentIndex builds one position's weight-scaled normalized price
// index in the base currency. USD prices are converted through the fx
// series on common dates (inner join).
func (h Handler) componentIndex(ctx context.Context, position domain.WeightedPosition, fx timeseries.Series, start, end time.Time) (timeseries.Series, error) {
	points, err := h.Gateway.GetHistory(ctx, position.Symbol, start, end, marketdata.Monthly)
	if err != nil {
		return timeseries.Series{}, fmt.Errorf("failed to get history: %w", err)
	}
	if len(points) == 0 {
		return timeseries.Series{}, nil
	}

	prices := timeseries.FromPricePoints(points)

	currency, err := h.Gateway.GetCurrency(ctx, position.Symbol)
	if err != nil || currency == "" {
		currency = "USD"
	}
	if currency == "USD" {
		prices = prices.Div(fx)
		if prices.Len() == 0 {
			return timeseries.Series{}, fmt.Errorf("no fx overlap for USD component")
		}
	}

	return prices.Normalize().Scale(position.WeightPct / 100), nil
}
