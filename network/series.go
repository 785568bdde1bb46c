package network

import "fmt"

// Series is a dense per-snapshot column of values. Its length always equals
// the network's snapshot horizon.
type Series struct {
	Values []float64
}

// NewSeries returns a series of the given length filled with the given value.
func NewSeries(length int, fill float64) *Series {
	values := make([]float64, length)
	for i := range values {
		values[i] = fill
	}
	return &Series{Values: values}
}

// NewSeriesFrom copies the given values into a series.
func NewSeriesFrom(values []float64) *Series {
	copied := make([]float64, len(values))
	copy(copied, values)
	return &Series{Values: copied}
}

// Len returns the number of snapshots covered.
func (s *Series) Len() int {
	return len(s.Values)
}

// Scaled returns a new series with every value multiplied by factor.
func (s *Series) Scaled(factor float64) *Series {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		out[i] = v * factor
	}
	return &Series{Values: out}
}

// Clipped returns a new series with every value limited to the [lo, hi] range.
func (s *Series) Clipped(lo, hi float64) *Series {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		switch {
		case v < lo:
			out[i] = lo
		case v > hi:
			out[i] = hi
		default:
			out[i] = v
		}
	}
	return &Series{Values: out}
}

// Sum returns the sum of all values.
func (s *Series) Sum() float64 {
	total := 0.0
	for _, v := range s.Values {
		total += v
	}
	return total
}

// Mean returns the arithmetic mean, or zero for an empty series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Sum() / float64(len(s.Values))
}

// checkHorizon verifies a series covers exactly the given snapshot count.
func checkHorizon(s *Series, snapshots int, what string) error {
	if s == nil {
		return nil
	}
	if s.Len() != snapshots {
		return fmt.Errorf("%s series covers %d snapshots, network has %d", what, s.Len(), snapshots)
	}
	return nil
}
