package calculator

import (
	"errors"
	"sort"

	"PriceSentinel/internal/model"
)

// SupportResistance derives support and resistance levels from the trailing
// lookback bars: support is the average of the topK lowest lows, resistance
// the average of the topK highest highs. When fewer than topK bars exist,
// whatever is available is averaged (minimum 1).
func SupportResistance(bars []model.OHLCV, lookback, topK int) (support, resistance float64, err error) {
	if topK <= 0 {
		return 0, 0, errors.New("topK must be positive")
	}
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	window := bars
	if lookback > 0 && len(bars) > lookback {
		window = bars[len(bars)-lookback:]
	}

	lows := make([]float64, len(window))
	highs := make([]float64, len(window))
	for i, b := range window {
		lows[i] = b.Low
		highs[i] = b.High
	}
	sort.Float64s(lows)
	sort.Sort(sort.Reverse(sort.Float64Slice(highs)))

	k := topK
	if len(window) < k {
		k = len(window)
	}
	var lowSum, highSum float64
	for i := 0; i < k; i++ {
		lowSum += lows[i]
		highSum += highs[i]
	}
	return lowSum / float64(k), highSum / float64(k), nil
}
