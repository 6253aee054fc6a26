package calculator

import "PriceSentinel/internal/model"

// IsUp classifies the window's direction: true when the last close is at or
// above the first open. An empty window reads as up.
func IsUp(bars []model.OHLCV) bool {
	if len(bars) == 0 {
		return true
	}
	return bars[len(bars)-1].Close >= bars[0].Open
}
