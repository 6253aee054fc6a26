// Package fetcher is the boundary to the upstream market data provider.
// The provider is rate-limited and unreliable: callers batch symbols into a
// single call per cycle and must tolerate partial results.
package fetcher

import (
	"context"

	"PriceSentinel/internal/model"
)

// Fetcher retrieves price series for a batch of instruments.
//
// FetchBatch returns a series per successfully fetched instrument. Symbols
// that fail individually are simply absent from the map; in that case the
// returned error (if any) describes the per-symbol failures while the map
// still carries the successful subset. A nil map with a non-nil error means
// the whole call failed. Result ordering and completeness are never
// guaranteed.
type Fetcher interface {
	FetchBatch(ctx context.Context, symbols []model.Instrument, period, interval string) (map[model.Instrument]model.PriceSeries, error)
	Name() string
}
