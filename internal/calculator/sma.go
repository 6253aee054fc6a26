// Package calculator provides pure, stateless indicator functions over
// price series snapshots. Every function is deterministic: the same input
// series always yields the same output.
package calculator

import (
	"errors"
	"math"
)

// ErrInsufficientData is returned when a series is too short for the
// requested indicator. Callers treat it as "unknown", not as a failure.
var ErrInsufficientData = errors.New("not enough data points")

// SMA computes the simple moving average series over the given period.
// Positions before period-1 hold NaN. O(n) via a running sum.
func SMA(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]float64, len(closes))
	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= period {
			sum -= closes[i-period]
		}
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(period)
	}
	return out, nil
}

// SMALast returns the simple moving average of the trailing period closes.
func SMALast(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(period), nil
}
