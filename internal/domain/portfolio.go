package domain

// ScoredCandidate is one symbol's composite rating and the raw
// inputs it was computed from.
type ScoredCandidate struct {
	Symbol             string
	MarketValueScore   float64
	ReturnsScore       float64
	TrackingErrorScore float64
	Rating             float64
	MarketCap          float64
	MeanReturn         float64
	TrackingError      float64
}

// WeightedPosition carries a post-allocation weight, expressed as a
// percentage so the full portfolio sums to 100.
type WeightedPosition struct {
	Symbol    string
	Rating    float64
	WeightPct float64
}

// PortfolioLine is one sized position: unit price in the base
// currency, fractional share count and resulting value, all rounded
// to cents.
type PortfolioLine struct {
	Symbol    string
	Price     float64
	Currency  string
	Shares    float64
	Value     float64
	WeightPct float64
	Rating    float64
}
