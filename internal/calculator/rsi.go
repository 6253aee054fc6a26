package calculator

import "errors"

// RSI computes the Wilder-smoothed Relative Strength Index over the given
// period. Requires at least period+1 closes; ok is false when the series is
// too short, or when gains and losses are both zero (a flat series has no
// defined relative strength) — callers must treat the value as
// neutral/unknown. When computable the result is always within [0, 100]; a
// window with gains and no losses saturates at 100.
func RSI(closes []float64, period int) (rsi float64, ok bool, err error) {
	if period <= 0 {
		return 0, false, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return 0, false, nil
	}

	// Initial average gain/loss over the first `period` changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing for remaining closes
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgGain == 0 && avgLoss == 0 {
		return 0, false, nil
	}
	if avgLoss == 0 {
		return 100.0, true, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), true, nil
}
