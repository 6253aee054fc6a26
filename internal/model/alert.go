package model

// AlertRule is a price threshold sourced from the external portfolio store.
// A Threshold of zero or below means "no alert set".
type AlertRule struct {
	RuleID     string
	Instrument Instrument
	Threshold  float64
}
