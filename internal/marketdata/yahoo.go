package marketdata

import (
	"context"
	"fmt"
	"time"

	"marketmatch/internal/domain"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
)

// YahooGateway implements Gateway on top of Yahoo Finance.
type YahooGateway struct{}

func NewYahooGateway() YahooGateway {
	return YahooGateway{}
}

func (g YahooGateway) GetHistory(ctx context.Context, symbol string, start, end time.Time, interval Interval) ([]domain.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   symbol,
		Interval: datetime.Interval(interval),
	}
	iter := chart.Get(params)

	points := []domain.PricePoint{}
	for iter.Next() {
		bar := iter.Bar()
		points = append(points, domain.PricePoint{
			Date:   time.Unix(int64(bar.Timestamp), 0).UTC(),
			Close:  bar.Close.InexactFloat64(),
			Volume: int64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}

	return points, nil
}

func (g YahooGateway) GetCurrency(ctx context.Context, symbol string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	eq, err := equity.Get(symbol)
	if err != nil {
		return "", fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}
	if eq == nil {
		return "", nil
	}

	return eq.CurrencyID, nil
}

func (g YahooGateway) GetMarketCap(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	eq, err := equity.Get(symbol)
	if err != nil {
		return 0, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}
	if eq == nil {
		return 0, nil
	}

	return float64(eq.MarketCap), nil
}

func (g YahooGateway) GetFxRate(ctx context.Context, pair string, start, end time.Time, interval Interval) ([]domain.PricePoint, error) {
	return g.GetHistory(ctx, pair, start, end, interval)
}
