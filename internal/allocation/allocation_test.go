package allocation

import (
	"fmt"
	"testing"

	"marketmatch/internal/domain"

	"github.com/stretchr/testify/require"
)

func candidates(ratings ...float64) []domain.ScoredCandidate {
	out := make([]domain.ScoredCandidate, len(ratings))
	for i, r := range ratings {
		out[i] = domain.ScoredCandidate{
			Symbol: fmt.Sprintf("S%d", i),
			Rating: r,
		}
	}
	return out
}

func weightSum(positions []domain.WeightedPosition) float64 {
	sum := 0.0
	for _, p := range positions {
		sum += p.WeightPct
	}
	return sum
}

func Test_Allocate(t *testing.T) {
	t.Run("dominant rating caps and excess redistributes", func(t *testing.T) {
		// n=10: floor 5% each, the dominant position clamps at the 15%
		// cap and the excess mass flows to the other nine
		positions, err := Allocate(candidates(1000, 1, 1, 1, 1, 1, 1, 1, 1, 1))
		require.NoError(t, err)
		require.Len(t, positions, 10)

		require.InDelta(t, 15.0, positions[0].WeightPct, 1e-3)
		for _, p := range positions[1:] {
			require.InDelta(t, 85.0/9, p.WeightPct, 1e-2)
		}
		require.InDelta(t, 100.0, weightSum(positions), 1e-6)
	})

	t.Run("two positions, floor above cap, rescale past the cap", func(t *testing.T) {
		// degenerate case: n=2 puts the 25% floor above the 15% cap,
		// so both positions clamp and the final rescale evens them out
		positions, err := Allocate(candidates(30, 10))
		require.NoError(t, err)
		require.Len(t, positions, 2)

		require.InDelta(t, 50.0, positions[0].WeightPct, 1e-6)
		require.InDelta(t, 50.0, positions[1].WeightPct, 1e-6)
		require.InDelta(t, 100.0, weightSum(positions), 1e-6)
	})

	t.Run("equal ratings split evenly", func(t *testing.T) {
		positions, err := Allocate(candidates(5, 5, 5, 5, 5, 5, 5, 5))
		require.NoError(t, err)

		for _, p := range positions {
			require.InDelta(t, 12.5, p.WeightPct, 1e-6)
		}
		require.InDelta(t, 100.0, weightSum(positions), 1e-6)
	})

	t.Run("no weight below the floor, none above the cap", func(t *testing.T) {
		ratings := []float64{1000, 500, 100, 50, 20, 10, 5, 2, 1, 0.5}
		positions, err := Allocate(candidates(ratings...))
		require.NoError(t, err)

		n := float64(len(ratings))
		minPct := 100 / (2 * n)
		for _, p := range positions {
			require.GreaterOrEqual(t, p.WeightPct, minPct-1e-9)
			// the pre-rescale sum falls short of 1 by at most the
			// unplaced remainder, so the rescale barely moves the cap
			require.LessOrEqual(t, p.WeightPct, 15.0+1e-2)
		}
		require.InDelta(t, 100.0, weightSum(positions), 1e-6)
	})

	t.Run("terminates with one wildly dominant rating", func(t *testing.T) {
		positions, err := Allocate(candidates(1e12, 1, 1, 1))
		require.NoError(t, err)
		require.InDelta(t, 100.0, weightSum(positions), 1e-6)
	})

	t.Run("all ratings zero falls back to even split", func(t *testing.T) {
		positions, err := Allocate(candidates(0, 0, 0, 0))
		require.NoError(t, err)
		for _, p := range positions {
			require.InDelta(t, 25.0, p.WeightPct, 1e-6)
		}
	})

	t.Run("single position takes everything", func(t *testing.T) {
		positions, err := Allocate(candidates(42))
		require.NoError(t, err)
		require.Len(t, positions, 1)
		require.InDelta(t, 100.0, positions[0].WeightPct, 1e-6)
	})

	t.Run("empty candidate set", func(t *testing.T) {
		_, err := Allocate(nil)
		require.ErrorContains(t, err, "empty candidate set")
	})
}
