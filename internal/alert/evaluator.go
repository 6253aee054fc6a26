// Package alert evaluates price-alert rules against cache snapshots and
// fires each rule at most once per calendar day.
package alert

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"PriceSentinel/internal/cache"
	"PriceSentinel/internal/model"
	"PriceSentinel/internal/notifier"
	"PriceSentinel/internal/recorder"
)

const dayFormat = "2006-01-02"

// Firing is a decision to notify for one rule.
type Firing struct {
	Rule  model.AlertRule
	Price float64
	Day   string
}

// RuleSource is the subset of the portfolio store the evaluator polls.
type RuleSource interface {
	ListAlertRules(ctx context.Context) ([]model.AlertRule, error)
}

// Evaluator reads the cache and decides which alerts to fire. It never
// fetches: an instrument missing from the cache is skipped, not looked up.
type Evaluator struct {
	cache         *cache.Cache
	ledger        Ledger
	notifier      notifier.Notifier
	recorder      recorder.Recorder
	retentionDays int
	loc           *time.Location
	log           zerolog.Logger
	now           func() time.Time
}

// Config holds the evaluator's collaborators.
type Config struct {
	Cache         *cache.Cache
	Ledger        Ledger
	Notifier      notifier.Notifier
	Recorder      recorder.Recorder
	RetentionDays int
	Location      *time.Location
	Log           zerolog.Logger
	Now           func() time.Time
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(cfg Config) *Evaluator {
	e := &Evaluator{
		cache:         cfg.Cache,
		ledger:        cfg.Ledger,
		notifier:      cfg.Notifier,
		recorder:      cfg.Recorder,
		retentionDays: cfg.RetentionDays,
		loc:           cfg.Location,
		log:           cfg.Log.With().Str("component", "alert_evaluator").Logger(),
		now:           cfg.Now,
	}
	if e.loc == nil {
		e.loc = time.UTC
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.retentionDays < 1 {
		e.retentionDays = 2
	}
	if e.recorder == nil {
		e.recorder = recorder.NewNoopRecorder()
	}
	return e
}

// Evaluate runs one pass over the rules and returns the firing decisions.
// A rule fires when 0 < current price <= threshold and no record exists for
// (rule, today). Rules with a threshold of zero or below are never
// evaluated. The ledger is pruned past the retention window first.
func (e *Evaluator) Evaluate(ctx context.Context, rules []model.AlertRule) []Firing {
	today := e.now().In(e.loc)
	day := today.Format(dayFormat)
	cutoff := today.AddDate(0, 0, -e.retentionDays).Format(dayFormat)
	if err := e.ledger.Prune(cutoff); err != nil {
		e.log.Warn().Err(err).Msg("ledger prune failed")
	}

	var firings []Firing
	for _, rule := range rules {
		if ctx.Err() != nil {
			return firings
		}
		if rule.Threshold <= 0 {
			continue
		}
		entry, _, found := e.cache.Get(rule.Instrument)
		if !found {
			continue
		}
		price := entry.LastPrice
		if price <= 0 || price > rule.Threshold {
			continue
		}

		fired, err := e.ledger.WasFired(rule.RuleID, day)
		if err != nil {
			// Suppress on ledger errors; firing twice is worse than late.
			e.log.Error().Err(err).Str("rule_id", rule.RuleID).Msg("ledger lookup failed")
			continue
		}
		if fired {
			continue
		}
		if err := e.ledger.MarkFired(rule.RuleID, day); err != nil {
			e.log.Error().Err(err).Str("rule_id", rule.RuleID).Msg("ledger insert failed")
			continue
		}

		firings = append(firings, Firing{Rule: rule, Price: price, Day: day})
		e.log.Info().
			Str("instrument", string(rule.Instrument)).
			Float64("price", price).
			Float64("threshold", rule.Threshold).
			Msg("alert fired")

		if err := e.recorder.RecordFiring(&recorder.FiringEvent{
			RuleID:     rule.RuleID,
			Instrument: rule.Instrument,
			Price:      price,
			Threshold:  rule.Threshold,
			Day:        day,
		}); err != nil {
			e.log.Error().Err(err).Msg("record firing")
		}

		if e.notifier != nil {
			msg := notifier.FormatPriceAlert(rule.Instrument, price, rule.Threshold)
			if err := e.notifier.Notify(ctx, msg); err != nil {
				// Best-effort delivery: the firing stays ledgered.
				e.log.Error().Err(err).Str("instrument", string(rule.Instrument)).Msg("notify failed")
			}
		}
	}
	return firings
}

// Run polls the rule source on the given interval until ctx is cancelled.
func (e *Evaluator) Run(ctx context.Context, source RuleSource, pollInterval time.Duration) {
	e.log.Info().Dur("poll_interval", pollInterval).Msg("alert evaluator started")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info().Msg("alert evaluator stopped")
			return
		case <-ticker.C:
			rules, err := source.ListAlertRules(ctx)
			if err != nil {
				e.log.Error().Err(err).Msg("list alert rules")
				continue
			}
			e.Evaluate(ctx, rules)
		}
	}
}
