package domain

import "time"

// PricePoint is one bar of a historical series. Volume is zero for
// series where the provider reports none (FX, indices).
type PricePoint struct {
	Date   time.Time
	Close  float64
	Volume int64
}
