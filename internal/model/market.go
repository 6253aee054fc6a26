package model

import "time"

// Instrument is the canonical identifier of a tracked symbol.
// Always uppercase with dash-style share-class suffixes (BRK-B, not brk.b).
type Instrument string

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds a bounded recent window of bars for one instrument,
// ordered by time ascending. It is fully replaced on each refresh cycle.
type PriceSeries struct {
	Symbol    Instrument
	Bars      []OHLCV
	FetchedAt time.Time
}

// Closes returns the close prices of all bars in order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// LastClose returns the most recent close, or 0 if the series is empty.
func (s PriceSeries) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// Tail returns the trailing n bars (all bars when fewer exist).
// The returned slice shares backing storage with the series.
func (s PriceSeries) Tail(n int) []OHLCV {
	if n <= 0 || len(s.Bars) == 0 {
		return nil
	}
	if len(s.Bars) <= n {
		return s.Bars
	}
	return s.Bars[len(s.Bars)-n:]
}

// CacheEntry is the cached market state for one instrument.
// LastPrice always equals the last close in Series as of RefreshedAt.
type CacheEntry struct {
	Instrument  Instrument
	LastPrice   float64
	Series      PriceSeries
	RefreshedAt time.Time
}
