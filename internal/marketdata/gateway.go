package marketdata

import (
	"context"
	"time"

	"marketmatch/internal/domain"
)

type Interval string

const (
	Daily   Interval = "1d"
	Monthly Interval = "1mo"
)

// Gateway is the market data boundary. Every method treats "the
// provider has nothing for this symbol" as a first-class result: an
// empty slice or zero value with a nil error, never an error.
//
//go:generate mockgen -source=gateway.go -destination=mocks/gateway.mock.go
type Gateway interface {
	// GetHistory returns close/volume bars for symbol in [start, end].
	GetHistory(ctx context.Context, symbol string, start, end time.Time, interval Interval) ([]domain.PricePoint, error)

	// GetCurrency returns the quote currency code for symbol.
	GetCurrency(ctx context.Context, symbol string) (string, error)

	// GetMarketCap returns the market capitalization for symbol, or 0
	// when the provider does not report one.
	GetMarketCap(ctx context.Context, symbol string) (float64, error)

	// GetFxRate returns the exchange rate series for a currency pair
	// symbol such as "CADUSD=X".
	GetFxRate(ctx context.Context, pair string, start, end time.Time, interval Interval) ([]domain.PricePoint, error)
}
