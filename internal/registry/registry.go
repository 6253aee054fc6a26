// Package registry maintains the set of instruments the engine tracks,
// derived on demand from the external portfolio store.
package registry

import (
	"context"
	"sort"
	"strings"

	"PriceSentinel/internal/model"
)

// Normalize converts a raw ticker to its canonical form: uppercase, trimmed,
// with dot-style share-class suffixes translated to the dash form the quote
// provider expects (BRK.B -> BRK-B). Index symbols such as ^GSPC pass
// through unchanged apart from case.
func Normalize(raw string) model.Instrument {
	sym := strings.ToUpper(strings.TrimSpace(raw))
	if sym == "" {
		return ""
	}
	sym = strings.ReplaceAll(sym, ".", "-")
	return model.Instrument(sym)
}

// InstrumentSource is the subset of the portfolio store the registry needs.
type InstrumentSource interface {
	ListAllInstruments(ctx context.Context) ([]model.Instrument, error)
}

// Registry computes the current instrument set. It holds no state of its
// own; the union is cheap and recomputed once per refresh cycle.
type Registry struct {
	source InstrumentSource
}

// New creates a Registry over the given source.
func New(source InstrumentSource) *Registry {
	return &Registry{source: source}
}

// CurrentInstruments returns the deduplicated, normalized, sorted set of
// instruments referenced by any tracked portfolio.
func (r *Registry) CurrentInstruments(ctx context.Context) ([]model.Instrument, error) {
	raw, err := r.source.ListAllInstruments(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[model.Instrument]struct{}, len(raw))
	out := make([]model.Instrument, 0, len(raw))
	for _, inst := range raw {
		norm := Normalize(string(inst))
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
