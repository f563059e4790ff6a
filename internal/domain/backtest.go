package domain

import "time"

// BacktestResult compares a weighted portfolio index against the
// blended benchmark index over a shared, ascending date axis. Both
// index series are normalized to start at 1.0.
type BacktestResult struct {
	Dates              []time.Time
	PortfolioIndex     []float64
	BenchmarkIndex     []float64
	PortfolioReturnPct float64
	BenchmarkReturnPct float64
	Correlation        float64
}
