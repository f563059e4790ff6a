package scoring

import (
	"context"
	"fmt"
	"sort"

	"marketmatch/internal/domain"
	"marketmatch/internal/logger"
	"marketmatch/internal/marketdata"
	"marketmatch/internal/timeseries"
	"marketmatch/internal/util"

	"github.com/montanaflynn/stats"
)

const (
	BenchmarkUS = "^GSPC"
	BenchmarkCA = "XIU.TO"

	marketValueWeight   = 1.0
	returnsWeight       = 0.001
	trackingErrorWeight = 0.1

	// approximate combined value of the S&P 500 and TSX 60 universes
	totalMarketValue = 50_578_000_000_000
)

var (
	// WindowStart and WindowEnd bound the long scoring window, also
	// used by the backtest engine.
	WindowStart = util.NewDate(2021, 1, 1)
	WindowEnd   = util.NewDate(2024, 11, 2)
)

type Handler struct {
	Gateway marketdata.Gateway
}

// BlendedBenchmarkReturns builds the monthly return series of the
// 50/50 benchmark blend. Dates missing either index are dropped.
func (h Handler) BlendedBenchmarkReturns(ctx context.Context) (timeseries.Series, error) {
	us, err := h.benchmarkReturns(ctx, BenchmarkUS)
	if err != nil {
		return timeseries.Series{}, err
	}
	ca, err := h.benchmarkReturns(ctx, BenchmarkCA)
	if err != nil {
		return timeseries.Series{}, err
	}

	return us.Blend(ca), nil
}

func (h Handler) benchmarkReturns(ctx context.Context, symbol string) (timeseries.Series, error) {
	points, err := h.Gateway.GetHistory(ctx, symbol, WindowStart, WindowEnd, marketdata.Monthly)
	if err != nil {
		return timeseries.Series{}, fmt.Errorf("failed to get benchmark data for %s: %w", symbol, err)
	}
	if len(points) == 0 {
		return timeseries.Series{}, fmt.Errorf("no benchmark data for %s", symbol)
	}
	return timeseries.FromPricePoints(points).PctChange(), nil
}

// Score rates each symbol against the blended benchmark and returns
// candidates in descending rating order (ties keep input order).
// Symbols that cannot be priced are logged and dropped; a benchmark
// failure is fatal.
func (h Handler) Score(ctx context.Context, symbols []string) ([]domain.ScoredCandidate, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols provided")
	}

	blended, err := h.BlendedBenchmarkReturns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmark data: %w", err)
	}
	benchmarkMean, err := blended.Mean()
	if err != nil {
		return nil, fmt.Errorf("failed to compute benchmark mean return: %w", err)
	}

	log := logger.FromContext(ctx)
	candidates := []domain.ScoredCandidate{}
	for _, symbol := range symbols {
		candidate, err := h.scoreSymbol(ctx, symbol, benchmarkMean)
		if err != nil {
			log.Warnw("dropping symbol from scoring", "symbol", symbol, "error", err)
			continue
		}
		if candidate == nil {
			log.Infow("no scoring data for symbol", "symbol", symbol)
			continue
		}
		candidates = append(candidates, *candidate)
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no symbols could be rated")
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Rating > candidates[j].Rating
	})

	return candidates, nil
}

// scoreSymbol returns (nil, nil) when the provider has no history for
// the symbol.
func (h Handler) scoreSymbol(ctx context.Context, symbol string, benchmarkMean float64) (*domain.ScoredCandidate, error) {
	points, err := h.Gateway.GetHistory(ctx, symbol, WindowStart, WindowEnd, marketdata.Monthly)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	if len(points) == 0 {
		return nil, nil
	}

	returns := timeseries.FromPricePoints(points).PctChange()
	if returns.Len() == 0 {
		return nil, nil
	}

	meanReturn, err := returns.Mean()
	if err != nil {
		return nil, fmt.Errorf("failed to compute mean return: %w", err)
	}

	marketCap, err := h.Gateway.GetMarketCap(ctx, symbol)
	if err != nil {
		// a missing market cap just zeroes the market value score
		marketCap = 0
	}
	marketValueScore := 0.0
	if marketCap > 0 {
		marketValueScore = marketCap / totalMarketValue
	}

	// a mean return exactly matching the benchmark scores 0 here, not
	// infinity - this mirrors the historical behavior of the rating
	returnsScore := 0.0
	if diff := abs(meanReturn - benchmarkMean); diff > 0 {
		returnsScore = 1 / diff
	}

	excess := make([]float64, 0, returns.Len())
	for _, r := range returns.Values() {
		excess = append(excess, r-benchmarkMean)
	}
	trackingError, err := stats.StandardDeviationSample(excess)
	if err != nil {
		return nil, fmt.Errorf("failed to compute tracking error: %w", err)
	}
	trackingErrorScore := 0.0
	if trackingError > 0 {
		trackingErrorScore = 1 / trackingError
	}

	rating := marketValueScore*marketValueWeight +
		returnsScore*returnsWeight +
		trackingErrorScore*trackingErrorWeight

	return &domain.ScoredCandidate{
		Symbol:             symbol,
		MarketValueScore:   marketValueScore,
		ReturnsScore:       returnsScore,
		TrackingErrorScore: trackingErrorScore,
		Rating:             rating,
		MarketCap:          marketCap,
		MeanReturn:         meanReturn,
		TrackingError:      trackingError,
	}, nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// MarketSummary reports both benchmark index series and their
// cumulative percentage changes over the scoring window.
type MarketSummary struct {
	USIndex    timeseries.Series
	CAIndex    timeseries.Series
	USReturn   float64
	CAReturn   float64
	AvgReturn  float64
	BlendedAvg float64
}

func (h Handler) MarketSummary(ctx context.Context) (*MarketSummary, error) {
	usPoints, err := h.Gateway.GetHistory(ctx, BenchmarkUS, WindowStart, WindowEnd, marketdata.Monthly)
	if err != nil {
		return nil, fmt.Errorf("failed to get benchmark data for %s: %w", BenchmarkUS, err)
	}
	caPoints, err := h.Gateway.GetHistory(ctx, BenchmarkCA, WindowStart, WindowEnd, marketdata.Monthly)
	if err != nil {
		return nil, fmt.Errorf("failed to get benchmark data for %s: %w", BenchmarkCA, err)
	}
	if len(usPoints) == 0 || len(caPoints) == 0 {
		return nil, fmt.Errorf("no benchmark data available")
	}

	us := timeseries.FromPricePoints(usPoints)
	ca := timeseries.FromPricePoints(caPoints)

	usReturn := 100 * (us.Last()/us.First() - 1)
	caReturn := 100 * (ca.Last()/ca.First() - 1)

	blended, err := h.BlendedBenchmarkReturns(ctx)
	if err != nil {
		return nil, err
	}
	blendedMean, err := blended.Mean()
	if err != nil {
		return nil, err
	}

	return &MarketSummary{
		USIndex:    us,
		CAIndex:    ca,
		USReturn:   usReturn,
		CAReturn:   caReturn,
		AvgReturn:  (usReturn + caReturn) / 2,
		BlendedAvg: blendedMean,
	}, nil
}
