package alert

import "sync"

// Ledger is the fired-alert dedup store: one record per (rule, calendar
// day). Days are "2006-01-02" strings, which compare lexicographically.
type Ledger interface {
	WasFired(ruleID, day string) (bool, error)
	MarkFired(ruleID, day string) error
	// Prune discards records for days before the given day.
	Prune(before string) error
}

// MemoryLedger is an in-memory Ledger for tests and single-run usage.
type MemoryLedger struct {
	mu    sync.Mutex
	fired map[string]string // ruleID+day -> day
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{fired: make(map[string]string)}
}

func (l *MemoryLedger) WasFired(ruleID, day string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.fired[ruleID+"|"+day]
	return ok, nil
}

func (l *MemoryLedger) MarkFired(ruleID, day string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fired[ruleID+"|"+day] = day
	return nil
}

func (l *MemoryLedger) Prune(before string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, day := range l.fired {
		if day < before {
			delete(l.fired, k)
		}
	}
	return nil
}
