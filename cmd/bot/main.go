package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"FibSentinel/internal/collector"
	"FibSentinel/internal/config"
	"FibSentinel/internal/logger"
	"FibSentinel/internal/metrics"
	"FibSentinel/internal/notifier"
	"FibSentinel/internal/scheduler"
	"FibSentinel/internal/store"
	"FibSentinel/internal/strategy"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Get().Fatalf("load config: %v", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Env); err != nil {
		logger.Get().Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	log := logger.Get()
	log.Infof("FibSentinel starting...")

	if err := cfg.ValidateBot(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	// Candle cache
	var cache store.CandleStore = store.NewNoopStore()
	if cfg.Cache.SQLitePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Cache.SQLitePath), 0o755); err != nil {
			log.Warnf("create cache dir: %v", err)
		}
		s, err := store.NewSQLiteStore(cfg.Cache.SQLitePath, log)
		if err != nil {
			log.Warnf("init sqlite cache failed, caching disabled: %v", err)
		} else {
			cache = s
		}
	}
	defer cache.Close()

	// Fetcher chain
	base, err := collector.NewFetcher(cfg.DataSource.Provider, cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	if err != nil {
		log.Fatalf("init fetcher: %v", err)
	}
	fetcher := collector.Chain(base, cfg.DataSource.Retries, cache, cfg.Cache.TTL, log)
	log.Infof("data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher, cfg.DataSource.Days, log)

	var symbols *collector.SymbolList
	if cfg.DataSource.SymbolsFile != "" {
		if symbols, err = collector.LoadSymbols(cfg.DataSource.SymbolsFile); err != nil {
			log.Warnf("symbol list unavailable: %v", err)
		}
	}

	tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
	if err != nil {
		log.Fatalf("init telegram: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := strategy.Options{
		SMAPeriod:     cfg.Analysis.SMAPeriod,
		SwingLookback: cfg.Analysis.SwingLookback,
		PreviousCount: cfg.Analysis.PreviousCount,
		RSIPeriod:     cfg.Analysis.RSIPeriod,
		Currency:      cfg.Analysis.Currency,
	}
	sched := scheduler.NewScheduler(ctx, col, tn, symbols, cfg.DataSource.Symbol, opts, log)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Metrics endpoint
	var metricsSrv *http.Server
	if cfg.Metrics.ListenAddr != "" {
		metrics.Init()
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("metrics server: %v", err)
			}
		}()
		log.Infof("metrics listening on %s", cfg.Metrics.ListenAddr)
	}

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Infof("telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Infof("RUN_ON_START enabled, executing daily analysis now")
		go sched.RunNow()
	}

	log.Infof("FibSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Infof("shutdown signal received, stopping...")
	cancel()
	if metricsSrv != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("metrics shutdown: %v", err)
		}
	}
	log.Infof("FibSentinel stopped")
}
