package scoring

import (
	"context"
	"testing"

	"marketmatch/internal/domain"
	mock_marketdata "marketmatch/internal/marketdata/mocks"
	"marketmatch/internal/util"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// flatSeries yields zero returns every month.
func flatSeries(months int) []domain.PricePoint {
	out := []domain.PricePoint{}
	for i := 0; i < months; i++ {
		out = append(out, domain.PricePoint{
			Date:  util.NewDate(2021, 1+i, 1),
			Close: 100,
		})
	}
	return out
}

// growthSeries compounds at the given monthly rate.
func growthSeries(months int, rate float64) []domain.PricePoint {
	out := []domain.PricePoint{}
	price := 100.0
	for i := 0; i < months; i++ {
		out = append(out, domain.PricePoint{
			Date:  util.NewDate(2021, 1+i, 1),
			Close: price,
		})
		price *= 1 + rate
	}
	return out
}

func newScoringMock(t *testing.T, histories map[string][]domain.PricePoint, marketCaps map[string]float64) *mock_marketdata.MockGateway {
	ctrl := gomock.NewController(t)
	gateway := mock_marketdata.NewMockGateway(ctrl)

	gateway.EXPECT().
		GetHistory(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, symbol string, _, _ any, _ any) ([]domain.PricePoint, error) {
			return histories[symbol], nil
		}).
		AnyTimes()
	gateway.EXPECT().
		GetMarketCap(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, symbol string) (float64, error) {
			return marketCaps[symbol], nil
		}).
		AnyTimes()

	return gateway
}

func Test_Score(t *testing.T) {
	t.Run("zero denominators score exactly zero, not infinity", func(t *testing.T) {
		// the benchmark blend is flat, so a flat symbol matches the
		// benchmark mean exactly and has zero tracking error
		histories := map[string][]domain.PricePoint{
			BenchmarkUS: flatSeries(12),
			BenchmarkCA: flatSeries(12),
			"FLAT":      flatSeries(12),
		}
		gateway := newScoringMock(t, histories, map[string]float64{})

		handler := Handler{Gateway: gateway}
		candidates, err := handler.Score(context.Background(), []string{"FLAT"})
		require.NoError(t, err)
		require.Len(t, candidates, 1)

		c := candidates[0]
		require.Zero(t, c.ReturnsScore)
		require.Zero(t, c.TrackingErrorScore)
		require.Zero(t, c.MarketValueScore)
		require.Zero(t, c.Rating)
		require.False(t, c.Rating != c.Rating, "rating must not be NaN")
	})

	t.Run("sorted descending by rating, unpriceable symbols dropped", func(t *testing.T) {
		histories := map[string][]domain.PricePoint{
			BenchmarkUS: growthSeries(12, 0.01),
			BenchmarkCA: growthSeries(12, 0.01),
			"BIG":       growthSeries(12, 0.012),
			"SMALL":     growthSeries(12, 0.012),
			"GHOST":     nil,
		}
		marketCaps := map[string]float64{
			"BIG":   2_000_000_000_000,
			"SMALL": 1_000_000_000,
		}
		gateway := newScoringMock(t, histories, marketCaps)

		handler := Handler{Gateway: gateway}
		candidates, err := handler.Score(context.Background(), []string{"SMALL", "BIG", "GHOST"})
		require.NoError(t, err)

		require.Len(t, candidates, 2)
		require.Equal(t, "BIG", candidates[0].Symbol)
		require.Equal(t, "SMALL", candidates[1].Symbol)
		require.Greater(t, candidates[0].Rating, candidates[1].Rating)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		histories := map[string][]domain.PricePoint{
			BenchmarkUS: growthSeries(12, 0.01),
			BenchmarkCA: growthSeries(12, 0.01),
			"X":         growthSeries(12, 0.02),
			"Y":         growthSeries(12, 0.02),
		}
		gateway := newScoringMock(t, histories, map[string]float64{})

		handler := Handler{Gateway: gateway}
		candidates, err := handler.Score(context.Background(), []string{"Y", "X"})
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		require.Equal(t, "Y", candidates[0].Symbol)
		require.Equal(t, "X", candidates[1].Symbol)
	})

	t.Run("no symbols could be rated", func(t *testing.T) {
		histories := map[string][]domain.PricePoint{
			BenchmarkUS: growthSeries(12, 0.01),
			BenchmarkCA: growthSeries(12, 0.01),
		}
		gateway := newScoringMock(t, histories, map[string]float64{})

		handler := Handler{Gateway: gateway}
		_, err := handler.Score(context.Background(), []string{"GHOST"})
		require.ErrorContains(t, err, "no symbols could be rated")
	})

	t.Run("benchmark failure is fatal", func(t *testing.T) {
		gateway := newScoringMock(t, map[string][]domain.PricePoint{}, map[string]float64{})

		handler := Handler{Gateway: gateway}
		_, err := handler.Score(context.Background(), []string{"ANY"})
		require.ErrorContains(t, err, "failed to load benchmark data")
	})

	t.Run("empty input", func(t *testing.T) {
		gateway := newScoringMock(t, map[string][]domain.PricePoint{}, map[string]float64{})

		handler := Handler{Gateway: gateway}
		_, err := handler.Score(context.Background(), nil)
		require.ErrorContains(t, err, "no symbols provided")
	})
}
