package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"priceboard/internal/collector"
	"priceboard/internal/config"
	"priceboard/internal/gateway"
	"priceboard/internal/metrics"
	"priceboard/internal/recorder"
	"priceboard/internal/scheduler"
	"priceboard/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] priceboard starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	loc, err := cfg.LoadLocation()
	if err != nil {
		log.Fatalf("[FATAL] load location: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.Mock {
		fetcher = &collector.MockFetcher{
			Points:      collector.GenerateMockFeed(time.Now(), 288, 6),
			CurrentHour: 6,
			HasCurrent:  true,
		}
	} else {
		fetcher = collector.NewComEdFetcher(cfg.DataSource.BaseURL, cfg.Proxy, cfg.DataSource.Timeout)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		if dir := filepath.Dir(cfg.Database.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Printf("[WARN] create database dir: %v", err)
			}
		}
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	m := metrics.New("priceboard")

	hub := gateway.NewHub(gateway.Config{
		Palettes:      cfg.Theme,
		Location:      loc,
		DefaultHours:  cfg.Chart.DefaultHours,
		BaseFontSize:  cfg.Chart.BaseFontSize,
		Title:         cfg.Chart.Title,
		IdleThreshold: cfg.Schedule.IdleThreshold,
		Metrics:       m,
	})

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, hub, rec, m)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	hub.SetRefresher(sched)
	sched.WarmStart()
	sched.Start()

	srv := server.New(cfg.Server.ListenAddr, hub, m, server.Options{
		Title:    cfg.Chart.Title,
		Location: loc,
		Palettes: cfg.Theme,
	})
	srv.Start()

	log.Println("[INFO] priceboard is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	cancel()
	sched.Stop()
	log.Println("[INFO] priceboard stopped")
}
