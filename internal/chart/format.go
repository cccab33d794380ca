package chart

import (
	"fmt"
	"math"
	"time"
)

// Unavailable is shown in place of a missing price.
const Unavailable = "N/A"

// PriceUnit is the suffix used on cards, tooltips and the value axis.
const PriceUnit = "¢"

// FormatPrice renders a card price: one decimal with the unit, or Unavailable.
func FormatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Unavailable
	}
	return fmt.Sprintf("%.1f%s", v, PriceUnit)
}

// FormatClock renders a 24-hour HH:MM time.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// FormatShortDate renders month abbreviation and day of month, e.g. "Mar 7".
func FormatShortDate(t time.Time) string {
	return t.Format("Jan 2")
}

// FormatAxisPrice renders a value-axis tick.
func FormatAxisPrice(v float64) string {
	return fmt.Sprintf("%.1f %s", v, PriceUnit)
}

// FormatCrosshairPrice renders the value-axis pointer label; non-finite values render empty.
func FormatCrosshairPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return fmt.Sprintf("%.1f %s/kWh", v, PriceUnit)
}

// FormatRangeLabel renders the selected-range title for [start, end] in loc.
// A single instant always carries its short date.
func FormatRangeLabel(start, end time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	start, end = start.In(loc), end.In(loc)
	switch {
	case start.Equal(end):
		return FormatShortDate(start) + " " + FormatClock(start)
	case sameDay(start, end):
		return FormatClock(start) + "-" + FormatClock(end)
	default:
		return FormatShortDate(start) + " " + FormatClock(start) + "–" + FormatShortDate(end) + " " + FormatClock(end)
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
