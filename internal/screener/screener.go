package screener

import (
	"context"
	"fmt"
	"sync"

	"marketmatch/internal/domain"
	"marketmatch/internal/logger"
	"marketmatch/internal/marketdata"
	"marketmatch/internal/util"

	"github.com/montanaflynn/stats"
)

const (
	liquidityFloor = 100_000

	// months need this many trading days to count toward the
	// average monthly volume
	minTradingDaysPerMonth = 18

	maxConcurrentFetches = 8
)

var (
	volumeWindowStart = util.NewDate(2023, 10, 1)
	volumeWindowEnd   = util.NewDate(2024, 9, 30)
)

var acceptedCurrencies = map[string]bool{
	"USD": true,
	"CAD": true,
}

type Rejection struct {
	Symbol string
	Reason string
}

type Handler struct {
	Gateway marketdata.Gateway
}

// Filter screens symbols for tradeable history, accepted currency and
// a liquidity floor. Every input symbol lands in exactly one of the
// two outputs; per-symbol failures become rejections, never errors.
// Symbols are screened concurrently but kept in input order.
func (h Handler) Filter(ctx context.Context, symbols []string) ([]string, []Rejection, error) {
	if len(symbols) == 0 {
		return nil, nil, fmt.Errorf("no symbols provided")
	}

	reasons := make([]string, len(symbols))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentFetches)
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			reasons[i] = h.screen(ctx, symbol)
		}(i, symbol)
	}
	wg.Wait()

	kept := []string{}
	rejected := []Rejection{}
	for i, symbol := range symbols {
		if reasons[i] == "" {
			kept = append(kept, symbol)
		} else {
			rejected = append(rejected, Rejection{Symbol: symbol, Reason: reasons[i]})
		}
	}

	return kept, rejected, nil
}

// screen returns an empty string if the symbol passes, otherwise the
// rejection reason.
func (h Handler) screen(ctx context.Context, symbol string) string {
	if err := ctx.Err(); err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	history, err := h.Gateway.GetHistory(ctx, symbol, volumeWindowStart, volumeWindowEnd, marketdata.Daily)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	if len(history) == 0 {
		return "no recent data"
	}

	currency, err := h.Gateway.GetCurrency(ctx, symbol)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	if !acceptedCurrencies[currency] {
		return fmt.Sprintf("unsupported currency (%s)", currency)
	}

	volume := averageMonthlyVolume(history)
	if volume < liquidityFloor {
		return fmt.Sprintf("low liquidity (%.0f)", volume)
	}

	logger.FromContext(ctx).Debugw("symbol passed screening", "symbol", symbol, "avgVolume", volume)
	return ""
}

// averageMonthlyVolume averages daily volume within each calendar
// month, then averages the qualifying months. Months with too few
// trading days are ignored.
func averageMonthlyVolume(history []domain.PricePoint) float64 {
	byMonth := map[string][]float64{}
	monthOrder := []string{}
	for _, p := range history {
		key := util.MonthKey(p.Date)
		if _, ok := byMonth[key]; !ok {
			monthOrder = append(monthOrder, key)
		}
		byMonth[key] = append(byMonth[key], float64(p.Volume))
	}

	monthlyMeans := []float64{}
	for _, key := range monthOrder {
		volumes := byMonth[key]
		if len(volumes) < minTradingDaysPerMonth {
			continue
		}
		mean, err := stats.Mean(volumes)
		if err != nil {
			continue
		}
		monthlyMeans = append(monthlyMeans, mean)
	}
	if len(monthlyMeans) == 0 {
		return 0
	}

	mean, err := stats.Mean(monthlyMeans)
	if err != nil {
		return 0
	}
	return mean
}
