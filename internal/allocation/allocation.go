package allocation

import (
	"fmt"
	"math"

	"marketmatch/internal/domain"
)

const (
	maxWeight = 0.15

	// stop redistributing once the unplaced mass is below this
	remainingTolerance = 0.001

	// floating-point non-convergence guard; the loop normally exits
	// in a handful of passes
	maxPasses = 1000
)

// Allocate converts rated candidates into portfolio weights via
// capped water-filling: every position starts at the 1/(2n) floor,
// the remaining mass is distributed proportionally to rating, and
// positions hitting the 15% cap exit further rounds with their excess
// returned to the pool. Final weights are rescaled to percentages
// summing to exactly 100.
func Allocate(candidates []domain.ScoredCandidate) ([]domain.WeightedPosition, error) {
	n := len(candidates)
	if n == 0 {
		return nil, fmt.Errorf("cannot allocate weights for an empty candidate set")
	}

	minWeight := 1 / (2 * float64(n))

	totalRating := 0.0
	for _, c := range candidates {
		totalRating += c.Rating
	}

	weights := make([]float64, n)
	proportional := make([]float64, n)
	for i, c := range candidates {
		weights[i] = minWeight
		if totalRating > 0 {
			proportional[i] = c.Rating / totalRating
		}
	}

	remaining := 1 - float64(n)*minWeight

	for pass := 0; pass < maxPasses && remaining > remainingTolerance; pass++ {
		totalProportional := 0.0
		for _, p := range proportional {
			totalProportional += p
		}
		if totalProportional == 0 {
			break
		}

		adjustment := remaining / totalProportional
		for i := range weights {
			increment := proportional[i] * adjustment
			newWeight := weights[i] + increment
			if newWeight > maxWeight {
				excess := newWeight - maxWeight
				weights[i] = maxWeight
				proportional[i] = 0
				remaining -= increment - excess
			} else {
				weights[i] = newWeight
				remaining -= increment
			}
		}
	}

	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum == 0 || math.IsNaN(sum) {
		return nil, fmt.Errorf("invalid weight sum %f", sum)
	}

	positions := make([]domain.WeightedPosition, n)
	for i, c := range candidates {
		pct := weights[i] * 100 / sum
		if math.IsNaN(pct) {
			return nil, fmt.Errorf("invalid weight NaN for %s", c.Symbol)
		}
		positions[i] = domain.WeightedPosition{
			Symbol:    c.Symbol,
			Rating:    c.Rating,
			WeightPct: pct,
		}
	}

	return positions, nil
}
