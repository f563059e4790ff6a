package sizing

import (
	"context"
	"fmt"

	"marketmatch/internal/domain"
	"marketmatch/internal/logger"
	"marketmatch/internal/marketdata"
	"marketmatch/internal/util"

	"github.com/shopspring/decimal"
)

const (
	BaseCurrency = "CAD"

	fxPair         = "CADUSD=X"
	fxFallbackRate = 1.35

	// above this raw share count the brokerage charges a flat fee;
	// below it the fee is implicit in a bumped price denominator
	flatFeeShareThreshold = 3950.0
	flatFee               = 3.95
	priceBump             = 0.001
)

var (
	pricingWindowStart = util.NewDate(2024, 11, 22)
	pricingWindowEnd   = util.NewDate(2024, 12, 2)
)

type Handler struct {
	Gateway marketdata.Gateway
}

type SizeResult struct {
	Lines     []domain.PortfolioLine
	TotalFees float64
}

// Size converts target weights and a cash budget into share counts in
// the base currency. Symbols that fail to price are skipped; partial
// portfolios are acceptable.
func (h Handler) Size(ctx context.Context, positions []domain.WeightedPosition, budget float64) (*SizeResult, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("cannot size an empty portfolio")
	}
	if budget <= 0 {
		return nil, fmt.Errorf("budget must be positive, got %f", budget)
	}

	rate := h.exchangeRate(ctx)
	log := logger.FromContext(ctx)

	result := &SizeResult{Lines: []domain.PortfolioLine{}}
	for _, position := range positions {
		line, err := h.sizePosition(ctx, position, budget, rate)
		if err != nil {
			log.Warnw("skipping unpriceable position", "symbol", position.Symbol, "error", err)
			continue
		}
		if line == nil {
			log.Infow("no pricing data for position", "symbol", position.Symbol)
			continue
		}

		result.TotalFees += line.fee
		result.Lines = append(result.Lines, line.PortfolioLine)
	}

	return result, nil
}

// exchangeRate returns the CADUSD rate at the start of the pricing
// window, or the fallback constant when the FX fetch comes up empty.
func (h Handler) exchangeRate(ctx context.Context) float64 {
	points, err := h.Gateway.GetFxRate(ctx, fxPair, pricingWindowStart, pricingWindowEnd, marketdata.Daily)
	if err != nil || len(points) == 0 {
		return fxFallbackRate
	}
	return points[0].Close
}

type sizedLine struct {
	domain.PortfolioLine
	fee float64
}

// sizePosition returns (nil, nil) when the provider has no pricing
// data for the symbol.
func (h Handler) sizePosition(ctx context.Context, position domain.WeightedPosition, budget, rate float64) (*sizedLine, error) {
	points, err := h.Gateway.GetHistory(ctx, position.Symbol, pricingWindowStart, pricingWindowEnd, marketdata.Daily)
	if err != nil {
		return nil, fmt.Errorf("failed to get price: %w", err)
	}
	if len(points) == 0 {
		return nil, nil
	}
	price := points[0].Close

	currency, err := h.Gateway.GetCurrency(ctx, position.Symbol)
	if err != nil || currency == "" {
		currency = "USD"
	}

	priceBase := price
	if currency == "USD" {
		priceBase = price * (1 / rate)
	}

	spend := budget * position.WeightPct / 100
	rawShares := spend / priceBase

	var shares, fee float64
	if rawShares > flatFeeShareThreshold {
		fee = flatFee
		shares = (spend - fee) / priceBase
	} else {
		shares = spend / (priceBase + priceBump)
		fee = spend - shares*priceBase
	}

	return &sizedLine{
		PortfolioLine: domain.PortfolioLine{
			Symbol:    position.Symbol,
			Price:     round2(priceBase),
			Currency:  BaseCurrency,
			Shares:    round2(shares),
			Value:     round2(shares * priceBase),
			WeightPct: position.WeightPct,
			Rating:    position.Rating,
		},
		fee: fee,
	}, nil
}

func round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}
