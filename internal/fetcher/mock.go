package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"PriceSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series map[model.Instrument][]model.OHLCV
	// Errs injects a per-symbol failure; the symbol is dropped from results.
	Errs map[model.Instrument]error
	// Err fails the whole batch when set.
	Err error

	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBatch(_ context.Context, symbols []model.Instrument, _, _ string) (map[model.Instrument]model.PriceSeries, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	result := make(map[model.Instrument]model.PriceSeries, len(symbols))
	var errs []error
	for _, sym := range symbols {
		if err, ok := m.Errs[sym]; ok {
			errs = append(errs, fmt.Errorf("%s: %w", sym, err))
			continue
		}
		bars, ok := m.Series[sym]
		if !ok {
			bars = GenerateBars(100, 30)
		}
		result[sym] = model.PriceSeries{Symbol: sym, Bars: bars, FetchedAt: time.Now()}
	}
	if len(result) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return result, errors.Join(errs...)
}

// GenerateBars produces a deterministic slightly-trending series around a
// base price, for mocks and tests.
func GenerateBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
