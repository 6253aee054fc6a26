// Package scheduler drives the background refresh cycle: registry ->
// fetcher -> cache, on a market-hours-adaptive interval. Reads never
// trigger fetches; this loop is the only network path into the cache.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"PriceSentinel/internal/cache"
	"PriceSentinel/internal/fetcher"
	"PriceSentinel/internal/model"
	"PriceSentinel/internal/recorder"
	"PriceSentinel/internal/registry"
)

// Refresher runs the recurring refresh cycle.
type Refresher struct {
	registry      *registry.Registry
	fetcher       fetcher.Fetcher
	cache         *cache.Cache
	recorder      recorder.Recorder
	policy        IntervalPolicy
	fetchPeriod   string
	fetchInterval string
	sparklineBars int
	log           zerolog.Logger
	now           func() time.Time
}

// RefresherConfig holds the refresher's collaborators and tuning.
type RefresherConfig struct {
	Registry      *registry.Registry
	Fetcher       fetcher.Fetcher
	Cache         *cache.Cache
	Recorder      recorder.Recorder
	Policy        IntervalPolicy
	FetchPeriod   string
	FetchInterval string
	SparklineBars int
	Log           zerolog.Logger
	Now           func() time.Time
}

// NewRefresher creates a Refresher.
func NewRefresher(cfg RefresherConfig) *Refresher {
	r := &Refresher{
		registry:      cfg.Registry,
		fetcher:       cfg.Fetcher,
		cache:         cfg.Cache,
		recorder:      cfg.Recorder,
		policy:        cfg.Policy,
		fetchPeriod:   cfg.FetchPeriod,
		fetchInterval: cfg.FetchInterval,
		sparklineBars: cfg.SparklineBars,
		log:           cfg.Log.With().Str("component", "refresher").Logger(),
		now:           cfg.Now,
	}
	if r.recorder == nil {
		r.recorder = recorder.NewNoopRecorder()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Run executes refresh cycles until ctx is cancelled. No single cycle's
// failure (error or panic) stops the loop; the next tick proceeds on the
// policy's schedule.
func (r *Refresher) Run(ctx context.Context) {
	r.log.Info().Str("source", r.fetcher.Name()).Msg("refresher started")
	for {
		r.safeCycle(ctx)

		delay := r.policy(r.now())
		select {
		case <-ctx.Done():
			r.log.Info().Msg("refresher stopped")
			return
		case <-time.After(delay):
		}
	}
}

func (r *Refresher) safeCycle(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Msg("refresh cycle panicked")
		}
	}()
	if err := r.RunCycle(ctx); err != nil && ctx.Err() == nil {
		r.log.Error().Err(err).Msg("refresh cycle failed")
	}
}

// RunCycle performs one refresh pass: ask the registry for the instrument
// set, fetch the whole batch in a single call, build entries, then swap
// them into the cache. The fetch happens without any cache lock held; a
// cancelled cycle skips the swap entirely.
func (r *Refresher) RunCycle(ctx context.Context) error {
	start := r.now()

	instruments, err := r.registry.CurrentInstruments(ctx)
	if err != nil {
		r.record(0, 0, start, err)
		return fmt.Errorf("current instruments: %w", err)
	}
	if len(instruments) == 0 {
		r.log.Debug().Msg("no instruments tracked, skipping cycle")
		return nil
	}

	series, fetchErr := r.fetcher.FetchBatch(ctx, instruments, r.fetchPeriod, r.fetchInterval)
	if len(series) == 0 {
		// Full failure: cache untouched, prior entries stay available.
		r.record(len(instruments), 0, start, fetchErr)
		if fetchErr != nil {
			return fmt.Errorf("fetch batch: %w", fetchErr)
		}
		return nil
	}
	if fetchErr != nil {
		r.log.Warn().Err(fetchErr).
			Int("requested", len(instruments)).
			Int("fetched", len(series)).
			Msg("partial fetch, updating successful subset")
	}

	entries := make(map[model.Instrument]model.CacheEntry, len(series))
	refreshedAt := r.now()
	for inst, s := range series {
		bars := s.Tail(r.sparklineBars)
		trimmed := model.PriceSeries{
			Symbol:    inst,
			Bars:      append([]model.OHLCV(nil), bars...),
			FetchedAt: s.FetchedAt,
		}
		entries[inst] = model.CacheEntry{
			Instrument:  inst,
			LastPrice:   trimmed.LastClose(),
			Series:      trimmed,
			RefreshedAt: refreshedAt,
		}
	}

	// Shutdown between fetch and swap: skip the swap, leave the cache as is.
	if err := ctx.Err(); err != nil {
		return err
	}

	r.cache.ReplaceAll(entries)
	r.cache.Prune(instruments)
	r.record(len(instruments), len(entries), start, fetchErr)

	r.log.Info().
		Int("requested", len(instruments)).
		Int("fetched", len(entries)).
		Dur("took", r.now().Sub(start)).
		Msg("refresh cycle complete")
	return nil
}

func (r *Refresher) record(requested, fetched int, start time.Time, err error) {
	evt := &recorder.CycleEvent{
		Requested: requested,
		Fetched:   fetched,
		Duration:  r.now().Sub(start),
	}
	if err != nil {
		evt.Err = err.Error()
	}
	if recErr := r.recorder.RecordCycle(evt); recErr != nil {
		r.log.Error().Err(recErr).Msg("record cycle")
	}
}
