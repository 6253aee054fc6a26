package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"PriceSentinel/internal/cache"
	"PriceSentinel/internal/notifier"
	"PriceSentinel/internal/portfolio"
)

// AssetSource supplies the holdings the daily report is built from.
type AssetSource interface {
	ListAssets(ctx context.Context) ([]portfolio.Asset, error)
}

// Jobs runs the cron-scheduled side tasks: the daily morning report.
type Jobs struct {
	cron      *cron.Cron
	cache     *cache.Cache
	assets    AssetSource
	notifier  notifier.Notifier
	rsiPeriod int
	log       zerolog.Logger
	ctx       context.Context
}

// JobsConfig holds the cron jobs' collaborators.
type JobsConfig struct {
	Cache     *cache.Cache
	Assets    AssetSource
	Notifier  notifier.Notifier
	RSIPeriod int
	Log       zerolog.Logger
}

// NewJobs creates the cron job runner.
func NewJobs(ctx context.Context, cfg JobsConfig) *Jobs {
	return &Jobs{
		cron:      cron.New(cron.WithSeconds()),
		cache:     cfg.Cache,
		assets:    cfg.Assets,
		notifier:  cfg.Notifier,
		rsiPeriod: cfg.RSIPeriod,
		log:       cfg.Log.With().Str("component", "jobs").Logger(),
		ctx:       ctx,
	}
}

// Register wires the daily report on its cron expression.
func (j *Jobs) Register(dailyReportCron string) error {
	if _, err := j.cron.AddFunc(dailyReportCron, j.dailyReport); err != nil {
		return fmt.Errorf("register daily report: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (j *Jobs) Start() {
	j.cron.Start()
	j.log.Info().Msg("cron jobs started")
}

// Stop stops the cron scheduler gracefully.
func (j *Jobs) Stop() {
	j.cron.Stop()
	j.log.Info().Msg("cron jobs stopped")
}

// RunDailyReportNow sends the report immediately (manual trigger).
func (j *Jobs) RunDailyReportNow() {
	j.dailyReport()
}

func (j *Jobs) dailyReport() {
	assets, err := j.assets.ListAssets(j.ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("daily report: list assets")
		return
	}
	if len(assets) == 0 {
		j.log.Debug().Msg("daily report: empty portfolio, skipping")
		return
	}
	report := notifier.FormatDailyReport(assets, j.cache.Snapshot(), j.rsiPeriod)
	if err := j.notifier.Notify(j.ctx, report); err != nil {
		j.log.Error().Err(err).Msg("daily report: send")
	}
}
