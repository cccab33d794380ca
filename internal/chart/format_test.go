package chart

import (
	"math"
	"testing"
	"time"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{7.25, "7.2¢"},
		{7.26, "7.3¢"},
		{-1, "-1.0¢"},
		{math.NaN(), Unavailable},
		{math.Inf(1), Unavailable},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestFormatRangeLabel(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 04:00Z and 07:30Z on Mar 7 are Mar 6 22:00 and Mar 7 01:30 in Chicago.
	a := time.Date(2026, 3, 7, 4, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 7, 7, 30, 0, 0, time.UTC)

	if got := FormatRangeLabel(a, b, time.UTC); got != "04:00-07:30" {
		t.Errorf("UTC same day: got %q", got)
	}
	if got := FormatRangeLabel(a, b, chicago); got != "Mar 6 22:00–Mar 7 01:30" {
		t.Errorf("Chicago cross day: got %q", got)
	}
	if got := FormatRangeLabel(a, a, chicago); got != "Mar 6 22:00" {
		t.Errorf("single instant: got %q", got)
	}
}

func TestFormatAxisAndCrosshair(t *testing.T) {
	if got := FormatAxisPrice(3); got != "3.0 ¢" {
		t.Errorf("axis: got %q", got)
	}
	if got := FormatCrosshairPrice(2.345); got != "2.3 ¢/kWh" {
		t.Errorf("crosshair: got %q", got)
	}
	if got := FormatCrosshairPrice(math.NaN()); got != "" {
		t.Errorf("crosshair NaN: got %q", got)
	}
}
