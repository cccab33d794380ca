package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"priceboard/internal/calculator"
	"priceboard/internal/collector"
	"priceboard/internal/metrics"
	"priceboard/internal/model"
	"priceboard/internal/recorder"

	"github.com/robfig/cron/v3"
)

// DefaultRefreshCron fires one refresh per minute.
const DefaultRefreshCron = "@every 60s"

// Refresh triggers, used as metric labels.
const (
	TriggerInitial    = "initial"
	TriggerCron       = "cron"
	TriggerVisibility = "visibility"
	TriggerManual     = "manual"
)

// ErrRefreshInFlight is returned by RunNow when another refresh has not
// finished yet.
var ErrRefreshInFlight = errors.New("refresh already in flight")

// Publisher receives every successfully collected snapshot.
type Publisher interface {
	Publish(snap *model.Snapshot) bool
}

// Scheduler drives the periodic refresh of the price window.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Publisher Publisher
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Ctx       context.Context

	running atomic.Bool
	wg      sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, pub Publisher, rec recorder.Recorder, m *metrics.Metrics) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	logger := cron.PrintfLogger(log.Default())
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger)),
		),
		Collector: col,
		Publisher: pub,
		Recorder:  rec,
		Metrics:   m,
		Ctx:       ctx,
	}
}

// Register adds the periodic refresh job.
func (s *Scheduler) Register(refreshCron string) error {
	if refreshCron == "" {
		refreshCron = DefaultRefreshCron
	}
	if _, err := s.Cron.AddFunc(refreshCron, func() { s.Trigger(TriggerCron) }); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// WarmStart publishes the persisted window, if any, so sessions have
// something to draw before the first fetch returns. The stored sequence is
// dropped so live snapshots always win.
func (s *Scheduler) WarmStart() bool {
	snap, err := s.Recorder.LoadWindow()
	if err != nil {
		log.Printf("[WARN] load persisted window: %v", err)
		return false
	}
	if snap.Empty() {
		return false
	}

	cutoff := time.Now().Add(-s.window()).UnixMilli()
	snap.Points = calculator.Since(snap.Points, cutoff)
	if len(snap.Points) == 0 {
		log.Println("[INFO] persisted window is older than 24h, skipping warm start")
		return false
	}
	snap.Seq = 0
	snap.Last24hAverage = calculator.Mean(snap.Points)
	log.Printf("[INFO] warm start with %d persisted samples from %s", len(snap.Points), snap.FetchedAt.Format(time.RFC3339))
	return s.Publisher.Publish(snap)
}

// Start performs the initial load and starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Trigger(TriggerInitial)
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Println("[INFO] scheduler stopped")
}

// Trigger starts a refresh in the background. It returns false when a
// refresh is already running; that trigger is dropped.
func (s *Scheduler) Trigger(trigger string) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.skipped(trigger)
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)
		s.refresh(trigger)
	}()
	return true
}

// RunNow performs a refresh synchronously.
func (s *Scheduler) RunNow(trigger string) error {
	if !s.running.CompareAndSwap(false, true) {
		s.skipped(trigger)
		return ErrRefreshInFlight
	}
	defer s.running.Store(false)
	return s.refresh(trigger)
}

// Running reports whether a refresh is in flight.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

func (s *Scheduler) skipped(trigger string) {
	log.Printf("[INFO] %s refresh skipped, previous refresh still running", trigger)
	if s.Metrics != nil {
		s.Metrics.SkippedRefreshes.Inc()
	}
}

func (s *Scheduler) refresh(trigger string) error {
	start := time.Now()
	snap, err := s.Collector.Collect(s.Ctx)
	s.Metrics.RecordRefresh(trigger, err, time.Since(start).Seconds())
	if err != nil {
		// Failed refreshes leave the last rendered window in place.
		log.Printf("[ERROR] %s refresh: %v", trigger, err)
		return err
	}

	s.Metrics.RecordWindow(len(snap.Points), snap.CurrentHourPrice, snap.FetchedAt.Unix())
	if !s.Publisher.Publish(snap) {
		log.Printf("[INFO] snapshot #%d superseded before publish", snap.Seq)
	}

	if err := s.Recorder.SaveWindow(snap); err != nil {
		log.Printf("[ERROR] persist window: %v", err)
		if s.Metrics != nil {
			s.Metrics.RecorderErrors.Inc()
		}
	}
	return nil
}

func (s *Scheduler) window() time.Duration {
	if s.Collector != nil && s.Collector.Window > 0 {
		return s.Collector.Window
	}
	return collector.DefaultWindow
}
