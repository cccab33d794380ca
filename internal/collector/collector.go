package collector

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"priceboard/internal/calculator"
	"priceboard/internal/model"
)

// DefaultWindow is the trailing span kept from each feed.
const DefaultWindow = 24 * time.Hour

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	mu          sync.Mutex
	Points      []model.PricePoint
	CurrentHour float64
	HasCurrent  bool
	Err         error
	Delay       time.Duration
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchFiveMinuteFeed(ctx context.Context) ([]model.PricePoint, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.PricePoint, len(m.Points))
	copy(out, m.Points)
	return out, nil
}

func (m *MockFetcher) FetchCurrentHourAverage(_ context.Context) (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return math.NaN(), false, m.Err
	}
	if !m.HasCurrent {
		return math.NaN(), false, nil
	}
	return m.CurrentHour, true, nil
}

// Set replaces the mock feed.
func (m *MockFetcher) Set(points []model.PricePoint, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Points = points
	m.Err = err
}

// GenerateMockFeed builds a 5-minute feed ending at end, oldest first.
func GenerateMockFeed(end time.Time, count int, basePrice float64) []model.PricePoint {
	points := make([]model.PricePoint, count)
	end = end.Truncate(5 * time.Minute)
	for i := 0; i < count; i++ {
		ts := end.Add(-time.Duration(count-1-i) * 5 * time.Minute)
		points[i] = model.PricePoint{
			TimestampMillis: ts.UnixMilli(),
			Price:           basePrice + 6*math.Sin(float64(i)/24),
		}
	}
	return points
}

// Collector orchestrates fetching and builds sequenced snapshots.
type Collector struct {
	Fetcher Fetcher
	Window  time.Duration
	Now     func() time.Time

	seq atomic.Uint64
}

// NewCollector creates a new Collector over the trailing 24 hours.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, Window: DefaultWindow, Now: time.Now}
}

// Collect fetches both endpoints concurrently and derives the snapshot.
// The sequence number is taken before any request is issued, so a slow
// response always carries an older number than a request started after it.
func (c *Collector) Collect(ctx context.Context) (*model.Snapshot, error) {
	seq := c.seq.Add(1)

	var (
		feed       []model.PricePoint
		hourPrice  float64
		hasCurrent bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pts, err := c.Fetcher.FetchFiveMinuteFeed(gctx)
		if err != nil {
			return fmt.Errorf("fetch 5-minute feed: %w", err)
		}
		feed = pts
		return nil
	})
	g.Go(func() error {
		p, ok, err := c.Fetcher.FetchCurrentHourAverage(gctx)
		if err != nil {
			return fmt.Errorf("fetch current hour average: %w", err)
		}
		hourPrice, hasCurrent = p, ok
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := c.Now()
	window := c.Window
	if window <= 0 {
		window = DefaultWindow
	}
	last24h := calculator.Since(feed, now.Add(-window).UnixMilli())

	current := math.NaN()
	switch {
	case hasCurrent:
		current = hourPrice
	case len(last24h) > 0:
		current = last24h[len(last24h)-1].Price
	}

	return &model.Snapshot{
		Seq:              seq,
		Points:           last24h,
		CurrentHourPrice: current,
		Last24hAverage:   calculator.Mean(last24h),
		FetchedAt:        now,
	}, nil
}

// LastSeq returns the most recently issued sequence number.
func (c *Collector) LastSeq() uint64 {
	return c.seq.Load()
}
