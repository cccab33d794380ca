package scheduler

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestIdleTracker(t *testing.T) {
	tests := []struct {
		name   string
		hidden time.Duration
		want   bool
	}{
		{"short absence", 10 * time.Second, false},
		{"exactly threshold", 60 * time.Second, false},
		{"long absence", 61 * time.Second, true},
		{"hours away", 3 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := &fakeClock{t: time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)}
			tr := NewIdleTracker(DefaultIdleThreshold, clk.Now)
			clk.Advance(5 * time.Minute)
			tr.Hidden()
			clk.Advance(tt.hidden)
			if got := tr.Visible(); got != tt.want {
				t.Errorf("Visible() after %v = %v, want %v", tt.hidden, got, tt.want)
			}
		})
	}
}

func TestIdleTrackerResetsOnVisible(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)}
	tr := NewIdleTracker(time.Minute, clk.Now)

	clk.Advance(2 * time.Minute)
	if !tr.Visible() {
		t.Fatal("expected first return after 2m to be stale")
	}
	clk.Advance(30 * time.Second)
	if tr.Visible() {
		t.Error("second return 30s later should not be stale")
	}
}

func TestIdleTrackerDefaults(t *testing.T) {
	tr := NewIdleTracker(0, nil)
	if tr.threshold != DefaultIdleThreshold {
		t.Errorf("threshold = %v, want %v", tr.threshold, DefaultIdleThreshold)
	}
	if tr.Visible() {
		t.Error("immediate Visible() should not be stale")
	}
}
