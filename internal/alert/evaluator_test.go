package alert

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PriceSentinel/internal/cache"
	"PriceSentinel/internal/model"
)

type captureNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (n *captureNotifier) Notify(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return n.err
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func cacheWithPrice(inst model.Instrument, price float64) *cache.Cache {
	c := cache.New(time.Hour)
	setPrice(c, inst, price)
	return c
}

func setPrice(c *cache.Cache, inst model.Instrument, price float64) {
	now := time.Now()
	c.ReplaceAll(map[model.Instrument]model.CacheEntry{
		inst: {
			Instrument: inst,
			LastPrice:  price,
			Series: model.PriceSeries{
				Symbol:    inst,
				Bars:      []model.OHLCV{{Time: now, Close: price}},
				FetchedAt: now,
			},
			RefreshedAt: now,
		},
	})
}

func TestEvaluate_FiresOncePerDayAcrossPasses(t *testing.T) {
	rule := model.AlertRule{RuleID: "r1", Instrument: "NVDA", Threshold: 100}
	c := cache.New(time.Hour)
	n := &captureNotifier{}
	e := NewEvaluator(Config{
		Cache:    c,
		Ledger:   NewMemoryLedger(),
		Notifier: n,
		Log:      zerolog.Nop(),
	})

	// Price dips below the threshold on the second pass, stays below on
	// the third, recovers on the fourth. Exactly one firing, at 98.
	var firings []Firing
	for _, price := range []float64{105, 98, 95, 102} {
		setPrice(c, "NVDA", price)
		firings = append(firings, e.Evaluate(context.Background(), []model.AlertRule{rule})...)
	}

	require.Len(t, firings, 1)
	assert.Equal(t, 98.0, firings[0].Price)
	assert.Equal(t, "r1", firings[0].Rule.RuleID)
	assert.Equal(t, 1, n.count())
}

func TestEvaluate_ZeroThresholdNeverFires(t *testing.T) {
	rule := model.AlertRule{RuleID: "r1", Instrument: "NVDA", Threshold: 0}
	n := &captureNotifier{}
	e := NewEvaluator(Config{
		Cache:    cacheWithPrice("NVDA", 50),
		Ledger:   NewMemoryLedger(),
		Notifier: n,
		Log:      zerolog.Nop(),
	})

	firings := e.Evaluate(context.Background(), []model.AlertRule{rule})
	assert.Empty(t, firings)
	assert.Equal(t, 0, n.count())
}

func TestEvaluate_CacheMissSkipsRule(t *testing.T) {
	rule := model.AlertRule{RuleID: "r1", Instrument: "NVDA", Threshold: 100}
	ledger := NewMemoryLedger()
	e := NewEvaluator(Config{
		Cache:  cache.New(time.Hour),
		Ledger: ledger,
		Log:    zerolog.Nop(),
	})

	firings := e.Evaluate(context.Background(), []model.AlertRule{rule})
	assert.Empty(t, firings, "instrument absent from the cache must be skipped, not fetched")

	fired, err := ledger.WasFired("r1", time.Now().UTC().Format(dayFormat))
	require.NoError(t, err)
	assert.False(t, fired, "a skip must not consume the daily firing")
}

func TestEvaluate_ZeroPriceNeverFires(t *testing.T) {
	rule := model.AlertRule{RuleID: "r1", Instrument: "NVDA", Threshold: 100}
	e := NewEvaluator(Config{
		Cache:  cacheWithPrice("NVDA", 0),
		Ledger: NewMemoryLedger(),
		Log:    zerolog.Nop(),
	})

	firings := e.Evaluate(context.Background(), []model.AlertRule{rule})
	assert.Empty(t, firings)
}

func TestEvaluate_FiresAgainOnANewDay(t *testing.T) {
	rule := model.AlertRule{RuleID: "r1", Instrument: "NVDA", Threshold: 100}
	clock := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	e := NewEvaluator(Config{
		Cache:  cacheWithPrice("NVDA", 90),
		Ledger: NewMemoryLedger(),
		Log:    zerolog.Nop(),
		Now:    func() time.Time { return clock },
	})

	first := e.Evaluate(context.Background(), []model.AlertRule{rule})
	require.Len(t, first, 1)
	assert.Equal(t, "2026-03-02", first[0].Day)

	// Same day, still below threshold: deduped.
	assert.Empty(t, e.Evaluate(context.Background(), []model.AlertRule{rule}))

	// Next day the dedup window resets.
	clock = clock.AddDate(0, 0, 1)
	second := e.Evaluate(context.Background(), []model.AlertRule{rule})
	require.Len(t, second, 1)
	assert.Equal(t, "2026-03-03", second[0].Day)
}

func TestEvaluate_LedgerErrorSuppressesFiring(t *testing.T) {
	rule := model.AlertRule{RuleID: "r1", Instrument: "NVDA", Threshold: 100}
	n := &captureNotifier{}
	e := NewEvaluator(Config{
		Cache:    cacheWithPrice("NVDA", 90),
		Ledger:   &failingLedger{err: errors.New("disk gone")},
		Notifier: n,
		Log:      zerolog.Nop(),
	})

	firings := e.Evaluate(context.Background(), []model.AlertRule{rule})
	assert.Empty(t, firings, "unverifiable dedup state must suppress, not double-fire")
	assert.Equal(t, 0, n.count())
}

func TestEvaluate_NotifyFailureKeepsFiringLedgered(t *testing.T) {
	rule := model.AlertRule{RuleID: "r1", Instrument: "NVDA", Threshold: 100}
	ledger := NewMemoryLedger()
	n := &captureNotifier{err: errors.New("telegram down")}
	clock := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	e := NewEvaluator(Config{
		Cache:    cacheWithPrice("NVDA", 90),
		Ledger:   ledger,
		Notifier: n,
		Log:      zerolog.Nop(),
		Now:      func() time.Time { return clock },
	})

	firings := e.Evaluate(context.Background(), []model.AlertRule{rule})
	require.Len(t, firings, 1)

	fired, err := ledger.WasFired("r1", "2026-03-02")
	require.NoError(t, err)
	assert.True(t, fired, "delivery failure must not re-arm the rule")
}

func TestMemoryLedger_PruneKeepsRecentDays(t *testing.T) {
	l := NewMemoryLedger()
	require.NoError(t, l.MarkFired("r1", "2026-02-27"))
	require.NoError(t, l.MarkFired("r1", "2026-03-01"))
	require.NoError(t, l.MarkFired("r2", "2026-03-02"))

	require.NoError(t, l.Prune("2026-03-01"))

	old, err := l.WasFired("r1", "2026-02-27")
	require.NoError(t, err)
	assert.False(t, old)

	kept, err := l.WasFired("r1", "2026-03-01")
	require.NoError(t, err)
	assert.True(t, kept)

	kept, err = l.WasFired("r2", "2026-03-02")
	require.NoError(t, err)
	assert.True(t, kept)
}

type failingLedger struct {
	err error
}

func (l *failingLedger) WasFired(_, _ string) (bool, error) { return false, l.err }
func (l *failingLedger) MarkFired(_, _ string) error        { return l.err }
func (l *failingLedger) Prune(_ string) error               { return l.err }
