package recorder

import (
	"time"

	"PriceSentinel/internal/model"
)

// CycleEvent describes one refresh cycle's outcome.
type CycleEvent struct {
	Requested int
	Fetched   int
	Duration  time.Duration
	Err       string
}

// FiringEvent records an alert firing decision.
type FiringEvent struct {
	RuleID     string
	Instrument model.Instrument
	Price      float64
	Threshold  float64
	Day        string
}

// Recorder persists operational history for analysis. Recording failures
// are logged by callers, never fatal.
type Recorder interface {
	RecordCycle(evt *CycleEvent) error
	RecordFiring(evt *FiringEvent) error
	Close() error
}
