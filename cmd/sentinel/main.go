package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"PriceSentinel/internal/alert"
	"PriceSentinel/internal/cache"
	"PriceSentinel/internal/config"
	"PriceSentinel/internal/fetcher"
	"PriceSentinel/internal/notifier"
	"PriceSentinel/internal/portfolio"
	"PriceSentinel/internal/recorder"
	"PriceSentinel/internal/registry"
	"PriceSentinel/internal/scheduler"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	log.Info().Msg("PriceSentinel starting")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	loc, err := time.LoadLocation(cfg.Market.Timezone)
	if err != nil {
		log.Fatal().Err(err).Msg("load market timezone")
	}

	// External collaborators
	store := portfolio.NewFileStore(cfg.Portfolio.File)
	reg := registry.New(store)
	yahoo := fetcher.NewYahooFetcher(cfg.Proxy)
	log.Info().Str("source", yahoo.Name()).Msg("quote fetcher ready")
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)

	// Recorder and alert ledger share the SQLite file
	var rec recorder.Recorder
	var ledger alert.Ledger
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
		sl, err := alert.NewSQLiteLedger(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite ledger failed, using in-memory")
			ledger = alert.NewMemoryLedger()
		} else {
			ledger = sl
			defer sl.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
		ledger = alert.NewMemoryLedger()
	}

	// Market data cache
	mdc := cache.New(cfg.Cache.StaleThreshold)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Refresh scheduler
	hours := scheduler.MarketHours{
		Location:    loc,
		OpenHour:    cfg.Market.OpenHour,
		OpenMinute:  cfg.Market.OpenMinute,
		CloseHour:   cfg.Market.CloseHour,
		CloseMinute: cfg.Market.CloseMinute,
	}
	policy := scheduler.NewIntervalPolicy(hours, cfg.Refresh.IntradayInterval, cfg.Refresh.OffHoursInterval)
	refresher := scheduler.NewRefresher(scheduler.RefresherConfig{
		Registry:      reg,
		Fetcher:       yahoo,
		Cache:         mdc,
		Recorder:      rec,
		Policy:        policy,
		FetchPeriod:   cfg.Refresh.FetchPeriod,
		FetchInterval: cfg.Refresh.FetchInterval,
		SparklineBars: cfg.Refresh.SparklineBars,
		Log:           log,
	})
	go refresher.Run(ctx)

	// Alert evaluator
	evaluator := alert.NewEvaluator(alert.Config{
		Cache:         mdc,
		Ledger:        ledger,
		Notifier:      tn,
		Recorder:      rec,
		RetentionDays: cfg.Alerts.RetentionDays,
		Location:      loc,
		Log:           log,
	})
	go evaluator.Run(ctx, store, cfg.Alerts.PollInterval)

	// Cron jobs (daily report)
	jobs := scheduler.NewJobs(ctx, scheduler.JobsConfig{
		Cache:     mdc,
		Assets:    store,
		Notifier:  tn,
		RSIPeriod: cfg.Indicators.RSIPeriod,
		Log:       log,
	})
	if err := jobs.Register(cfg.Schedule.DailyReportCron); err != nil {
		log.Fatal().Err(err).Msg("register cron jobs")
	}
	jobs.Start()
	defer jobs.Stop()

	log.Info().Msg("PriceSentinel is running, press Ctrl+C to stop")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	log.Info().Msg("PriceSentinel stopped")
}
