package app

import (
	"context"
	"fmt"

	"marketmatch/internal/allocation"
	"marketmatch/internal/backtest"
	"marketmatch/internal/domain"
	"marketmatch/internal/logger"
	"marketmatch/internal/scoring"
	"marketmatch/internal/screener"
	"marketmatch/internal/sizing"
)

const (
	DefaultNumStocks = 24
	DefaultBudget    = 1_000_000
)

type OptimizeHandler struct {
	Screener screener.Handler
	Scoring  scoring.Handler
	Sizing   sizing.Handler
	Backtest backtest.Handler
}

type OptimizeInput struct {
	Symbols   []string
	NumStocks int
	Budget    float64
}

type OptimizeResponse struct {
	Kept       []string
	Rejections []screener.Rejection
	Candidates []domain.ScoredCandidate
	Positions  []domain.WeightedPosition
	Lines      []domain.PortfolioLine
	TotalFees  float64

	// Backtest failures are reported as data, not as a pipeline error
	Backtest      *domain.BacktestResult
	BacktestError string
}

// Optimize runs the full construction pipeline: filter, score, select
// top-N, allocate weights, then size lots and backtest off the same
// allocation.
func (h OptimizeHandler) Optimize(ctx context.Context, in OptimizeInput) (*OptimizeResponse, error) {
	if len(in.Symbols) == 0 {
		return nil, fmt.Errorf("no symbols provided")
	}
	if in.NumStocks <= 0 {
		in.NumStocks = DefaultNumStocks
	}
	if in.Budget <= 0 {
		in.Budget = DefaultBudget
	}

	kept, rejections, err := h.Screener.Filter(ctx, in.Symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to filter symbols: %w", err)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("no valid symbols after filtering")
	}

	candidates, err := h.Scoring.Score(ctx, kept)
	if err != nil {
		return nil, fmt.Errorf("failed to score symbols: %w", err)
	}

	selected := candidates
	if len(selected) > in.NumStocks {
		selected = selected[:in.NumStocks]
	}

	positions, err := allocation.Allocate(selected)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate weights: %w", err)
	}

	sized, err := h.Sizing.Size(ctx, positions, in.Budget)
	if err != nil {
		return nil, fmt.Errorf("failed to size portfolio: %w", err)
	}

	response := &OptimizeResponse{
		Kept:       kept,
		Rejections: rejections,
		Candidates: candidates,
		Positions:  positions,
		Lines:      sized.Lines,
		TotalFees:  sized.TotalFees,
	}

	result, err := h.Backtest.Run(ctx, positions, scoring.WindowStart, scoring.WindowEnd)
	if err != nil {
		logger.FromContext(ctx).Warnw("backtest failed", "error", err)
		response.BacktestError = err.Error()
	} else {
		response.Backtest = result
	}

	return response, nil
}
