package timeseries

import (
	"fmt"
	"sort"
	"time"

	"marketmatch/internal/domain"

	"github.com/montanaflynn/stats"
)

// Series is an ordered date -> value mapping. Dates are ascending and
// unique; every alignment operation (intersect, add, div, blend)
// returns a new Series and leaves the receiver untouched.
type Series struct {
	dates  []time.Time
	values []float64
}

func New(dates []time.Time, values []float64) (Series, error) {
	if len(dates) != len(values) {
		return Series{}, fmt.Errorf("mismatched series lengths: %d dates, %d values", len(dates), len(values))
	}

	type entry struct {
		date  time.Time
		value float64
	}
	entries := make([]entry, 0, len(dates))
	for i := range dates {
		entries = append(entries, entry{dates[i], values[i]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].date.Before(entries[j].date)
	})

	s := Series{}
	for _, e := range entries {
		// last value wins on duplicate dates
		if n := len(s.dates); n > 0 && s.dates[n-1].Equal(e.date) {
			s.values[n-1] = e.value
			continue
		}
		s.dates = append(s.dates, e.date)
		s.values = append(s.values, e.value)
	}

	return s, nil
}

func FromPricePoints(points []domain.PricePoint) Series {
	dates := make([]time.Time, 0, len(points))
	values := make([]float64, 0, len(points))
	for _, p := range points {
		dates = append(dates, p.Date)
		values = append(values, p.Close)
	}
	s, _ := New(dates, values)
	return s
}

func (s Series) Len() int { return len(s.dates) }

func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)
	return out
}

func (s Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

func (s Series) At(date time.Time) (float64, bool) {
	i := sort.Search(len(s.dates), func(i int) bool {
		return !s.dates[i].Before(date)
	})
	if i < len(s.dates) && s.dates[i].Equal(date) {
		return s.values[i], true
	}
	return 0, false
}

func (s Series) First() float64 {
	return s.values[0]
}

func (s Series) Last() float64 {
	return s.values[len(s.values)-1]
}

// valueAsOf returns the value at the latest date <= the given date,
// falling back to the first value for dates before the series starts.
func (s Series) valueAsOf(date time.Time) float64 {
	i := sort.Search(len(s.dates), func(i int) bool {
		return s.dates[i].After(date)
	})
	if i == 0 {
		return s.values[0]
	}
	return s.values[i-1]
}

// PctChange derives period-over-period fractional returns. The result
// is one element shorter and keyed by the later date of each pair.
func (s Series) PctChange() Series {
	out := Series{}
	for i := 1; i < len(s.values); i++ {
		out.dates = append(out.dates, s.dates[i])
		out.values = append(out.values, s.values[i]/s.values[i-1]-1)
	}
	return out
}

// Normalize rescales the series so it starts at 1.0.
func (s Series) Normalize() Series {
	if s.Len() == 0 || s.values[0] == 0 {
		return Series{}
	}
	return s.Scale(1 / s.values[0])
}

func (s Series) Scale(factor float64) Series {
	out := Series{dates: s.Dates(), values: make([]float64, len(s.values))}
	for i, v := range s.values {
		out.values[i] = v * factor
	}
	return out
}

// Intersect aligns two series on their common dates (inner join).
func (s Series) Intersect(other Series) (Series, Series) {
	left, right := Series{}, Series{}
	for i, d := range s.dates {
		if v, ok := other.At(d); ok {
			left.dates = append(left.dates, d)
			left.values = append(left.values, s.values[i])
			right.dates = append(right.dates, d)
			right.values = append(right.values, v)
		}
	}
	return left, right
}

// Div divides the receiver by the other series on their common dates.
func (s Series) Div(other Series) Series {
	left, right := s.Intersect(other)
	for i := range left.values {
		left.values[i] /= right.values[i]
	}
	return left
}

// Blend averages two series on their common dates.
func (s Series) Blend(other Series) Series {
	left, right := s.Intersect(other)
	for i := range left.values {
		left.values[i] = (left.values[i] + right.values[i]) / 2
	}
	return left
}

// Add sums two series over the union of their dates. A series missing
// a date contributes its last known value carried forward (its first
// value for dates before it starts), so partial components never drop
// to zero mid-series. This can mask true gaps behind stale values.
func (s Series) Add(other Series) Series {
	if s.Len() == 0 {
		return other
	}
	if other.Len() == 0 {
		return s
	}

	union := append(s.Dates(), other.dates...)
	sort.Slice(union, func(i, j int) bool { return union[i].Before(union[j]) })

	out := Series{}
	for _, d := range union {
		if n := len(out.dates); n > 0 && out.dates[n-1].Equal(d) {
			continue
		}
		out.dates = append(out.dates, d)
		out.values = append(out.values, s.valueAsOf(d)+other.valueAsOf(d))
	}
	return out
}

func (s Series) Mean() (float64, error) {
	if s.Len() == 0 {
		return 0, fmt.Errorf("cannot take mean of empty series")
	}
	return stats.Mean(s.values)
}

// Pearson computes the correlation coefficient between two series
// that are already aligned on the same date axis.
func Pearson(a, b Series) (float64, error) {
	if a.Len() != b.Len() {
		return 0, fmt.Errorf("cannot correlate series of different lengths: %d vs %d", a.Len(), b.Len())
	}
	return stats.Pearson(a.values, b.values)
}
