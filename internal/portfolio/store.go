// Package portfolio is the read-only boundary to the external portfolio
// store. The cache never mutates portfolios; it only asks which instruments
// are tracked and which alert rules exist.
package portfolio

import (
	"context"

	"PriceSentinel/internal/model"
)

// Store exposes the externally-owned portfolio data the engine consumes.
type Store interface {
	ListAllInstruments(ctx context.Context) ([]model.Instrument, error)
	ListAlertRules(ctx context.Context) ([]model.AlertRule, error)
}
