package calculator

import "errors"

// MACDResult holds the three MACD series, index-aligned with the input.
// Histogram[i] == MACD[i] - Signal[i] at every index.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// EMA computes the exponential moving average series with the given span.
// alpha = 2/(span+1), seeded with the first value.
func EMA(values []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, errors.New("span must be positive")
	}
	if len(values) == 0 {
		return nil, ErrInsufficientData
	}
	alpha := 2.0 / float64(span+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out, nil
}

// MACD computes the Moving Average Convergence Divergence:
// MACD = EMA(fast) - EMA(slow), Signal = EMA(signalSpan) of MACD,
// Histogram = MACD - Signal.
func MACD(closes []float64, fast, slow, signalSpan int) (MACDResult, error) {
	if fast <= 0 || slow <= 0 || signalSpan <= 0 {
		return MACDResult{}, errors.New("spans must be positive")
	}
	if fast >= slow {
		return MACDResult{}, errors.New("fast span must be shorter than slow span")
	}
	if len(closes) == 0 {
		return MACDResult{}, ErrInsufficientData
	}

	emaFast, err := EMA(closes, fast)
	if err != nil {
		return MACDResult{}, err
	}
	emaSlow, err := EMA(closes, slow)
	if err != nil {
		return MACDResult{}, err
	}

	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = emaFast[i] - emaSlow[i]
	}

	signal, err := EMA(macd, signalSpan)
	if err != nil {
		return MACDResult{}, err
	}

	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = macd[i] - signal[i]
	}

	return MACDResult{MACD: macd, Signal: signal, Histogram: hist}, nil
}
