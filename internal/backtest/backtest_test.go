package backtest

import (
	"context"
	"testing"

	"marketmatch/internal/domain"
	mock_marketdata "marketmatch/internal/marketdata/mocks"
	"marketmatch/internal/scoring"
	"marketmatch/internal/util"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func monthlyCloses(closes ...float64) []domain.PricePoint {
	out := make([]domain.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = domain.PricePoint{Date: util.NewDate(2021, 1+i, 1), Close: c}
	}
	return out
}

func newBacktestMock(t *testing.T, histories map[string][]domain.PricePoint, currencies map[string]string, fx []domain.PricePoint) *mock_marketdata.MockGateway {
	ctrl := gomock.NewController(t)
	gateway := mock_marketdata.NewMockGateway(ctrl)

	gateway.EXPECT().
		GetHistory(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, symbol string, _, _ any, _ any) ([]domain.PricePoint, error) {
			return histories[symbol], nil
		}).
		AnyTimes()
	gateway.EXPECT().
		GetCurrency(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, symbol string) (string, error) {
			return currencies[symbol], nil
		}).
		AnyTimes()
	gateway.EXPECT().
		GetFxRate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fx, nil).
		AnyTimes()

	return gateway
}

func Test_Run(t *testing.T) {
	start := scoring.WindowStart
	end := scoring.WindowEnd

	t.Run("portfolio tracking the benchmark correlates at 1", func(t *testing.T) {
		path := monthlyCloses(100, 110, 121, 133.1)
		histories := map[string][]domain.PricePoint{
			scoring.BenchmarkUS: path,
			scoring.BenchmarkCA: path,
			"A":                 path,
			"B":                 path,
		}
		currencies := map[string]string{"A": "CAD", "B": "CAD"}
		gateway := newBacktestMock(t, histories, currencies, nil)

		handler := Handler{Gateway: gateway}
		result, err := handler.Run(context.Background(), []domain.WeightedPosition{
			{Symbol: "A", WeightPct: 50},
			{Symbol: "B", WeightPct: 50},
		}, start, end)
		require.NoError(t, err)

		require.InDelta(t, 1.0, result.Correlation, 1e-9)
		require.InDelta(t, result.BenchmarkReturnPct, result.PortfolioReturnPct, 1e-6)
		require.InDelta(t, 33.1, result.PortfolioReturnPct, 1e-6)
		require.Len(t, result.Dates, 4)
		require.InDelta(t, 1.0, result.PortfolioIndex[0], 1e-9)
		require.InDelta(t, 1.0, result.BenchmarkIndex[0], 1e-9)
	})

	t.Run("usd components convert through the fx series", func(t *testing.T) {
		benchmarkPath := monthlyCloses(100, 110, 121)
		// flat USD price with a strengthening CAD: the converted CAD
		// series falls
		histories := map[string][]domain.PricePoint{
			scoring.BenchmarkUS: benchmarkPath,
			scoring.BenchmarkCA: benchmarkPath,
			"U":                 monthlyCloses(100, 100, 100),
		}
		fx := monthlyCloses(0.5, 0.8, 1.0)
		gateway := newBacktestMock(t, histories, map[string]string{"U": "USD"}, fx)

		handler := Handler{Gateway: gateway}
		result, err := handler.Run(context.Background(), []domain.WeightedPosition{
			{Symbol: "U", WeightPct: 100},
		}, start, end)
		require.NoError(t, err)

		// 200 -> 125 -> 100 CAD, normalized to 1 -> 0.5
		require.InDelta(t, -50.0, result.PortfolioReturnPct, 1e-6)
	})

	t.Run("components with missing dates carry forward", func(t *testing.T) {
		histories := map[string][]domain.PricePoint{
			scoring.BenchmarkUS: monthlyCloses(100, 100, 100),
			scoring.BenchmarkCA: monthlyCloses(100, 100, 100),
			"FULL":              monthlyCloses(100, 110, 120),
			"SPARSE": {
				{Date: util.NewDate(2021, 1, 1), Close: 50},
				// 2021-02-01 missing
				{Date: util.NewDate(2021, 3, 1), Close: 60},
			},
		}
		currencies := map[string]string{"FULL": "CAD", "SPARSE": "CAD"}
		gateway := newBacktestMock(t, histories, currencies, nil)

		handler := Handler{Gateway: gateway}
		result, err := handler.Run(context.Background(), []domain.WeightedPosition{
			{Symbol: "FULL", WeightPct: 50},
			{Symbol: "SPARSE", WeightPct: 50},
		}, start, end)
		require.NoError(t, err)

		// month 2: FULL contributes 0.55, SPARSE carries 0.5 forward
		require.Len(t, result.PortfolioIndex, 3)
		require.InDelta(t, 1.05, result.PortfolioIndex[1], 1e-9)
	})

	t.Run("unpriceable components are skipped", func(t *testing.T) {
		path := monthlyCloses(100, 110, 121)
		histories := map[string][]domain.PricePoint{
			scoring.BenchmarkUS: path,
			scoring.BenchmarkCA: path,
			"A":                 path,
		}
		gateway := newBacktestMock(t, histories, map[string]string{"A": "CAD"}, nil)

		handler := Handler{Gateway: gateway}
		result, err := handler.Run(context.Background(), []domain.WeightedPosition{
			{Symbol: "A", WeightPct: 50},
			{Symbol: "GHOST", WeightPct: 50},
		}, start, end)
		require.NoError(t, err)
		require.InDelta(t, 1.0, result.Correlation, 1e-9)
	})

	t.Run("no components price", func(t *testing.T) {
		path := monthlyCloses(100, 110, 121)
		histories := map[string][]domain.PricePoint{
			scoring.BenchmarkUS: path,
			scoring.BenchmarkCA: path,
		}
		gateway := newBacktestMock(t, histories, map[string]string{}, nil)

		handler := Handler{Gateway: gateway}
		_, err := handler.Run(context.Background(), []domain.WeightedPosition{
			{Symbol: "GHOST", WeightPct: 100},
		}, start, end)
		require.ErrorContains(t, err, "no portfolio components could be priced")
	})

	t.Run("benchmark failure is fatal", func(t *testing.T) {
		gateway := newBacktestMock(t, map[string][]domain.PricePoint{}, map[string]string{}, nil)

		handler := Handler{Gateway: gateway}
		_, err := handler.Run(context.Background(), []domain.WeightedPosition{
			{Symbol: "A", WeightPct: 100},
		}, start, end)
		require.ErrorContains(t, err, "no benchmark data")
	})

	t.Run("empty portfolio", func(t *testing.T) {
		gateway := newBacktestMock(t, map[string][]domain.PricePoint{}, map[string]string{}, nil)

		handler := Handler{Gateway: gateway}
		_, err := handler.Run(context.Background(), nil, start, end)
		require.ErrorContains(t, err, "empty portfolio")
	})
}
