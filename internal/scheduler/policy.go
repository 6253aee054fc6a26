package scheduler

import "time"

// MarketHours describes the trading window of the tracked exchange.
type MarketHours struct {
	Location    *time.Location
	OpenHour    int
	OpenMinute  int
	CloseHour   int
	CloseMinute int
}

// IsOpen reports whether t falls within the trading window on a weekday.
func (m MarketHours) IsOpen(t time.Time) bool {
	local := t.In(m.Location)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	minutes := local.Hour()*60 + local.Minute()
	open := m.OpenHour*60 + m.OpenMinute
	close := m.CloseHour*60 + m.CloseMinute
	return minutes >= open && minutes < close
}

// IntervalPolicy maps the current time to the delay before the next refresh
// cycle. It is a standalone function so the schedule is testable without
// running the loop.
type IntervalPolicy func(now time.Time) time.Duration

// NewIntervalPolicy returns a policy that refreshes on the intraday
// interval while the market is open and on the off-hours interval
// otherwise.
func NewIntervalPolicy(hours MarketHours, intraday, offHours time.Duration) IntervalPolicy {
	return func(now time.Time) time.Duration {
		if hours.IsOpen(now) {
			return intraday
		}
		return offHours
	}
}
