package model

import (
	"math"
	"time"
)

// PricePoint is a single 5-minute price sample.
type PricePoint struct {
	TimestampMillis int64   // UTC epoch milliseconds
	Price           float64 // cents/kWh, NaN when missing or unparseable
}

// Time returns the sample time in UTC.
func (p PricePoint) Time() time.Time {
	return time.UnixMilli(p.TimestampMillis).UTC()
}

// SeriesType selects how the series is drawn.
type SeriesType int

const (
	SeriesBars SeriesType = iota
	SeriesAreaLine
)

func (t SeriesType) String() string {
	switch t {
	case SeriesBars:
		return "bars"
	case SeriesAreaLine:
		return "areaLine"
	default:
		return "unknown"
	}
}

// ParseSeriesType accepts the names used by the browser controls.
func ParseSeriesType(s string) (SeriesType, bool) {
	switch s {
	case "bars", "bar":
		return SeriesBars, true
	case "areaLine", "line":
		return SeriesAreaLine, true
	default:
		return SeriesBars, false
	}
}

// ZoomState is the percent window currently requested from the renderer.
type ZoomState struct {
	StartPercent   float64
	EndPercent     float64
	RequestedHours float64 // zero until the first accepted request
}

// AggregateResult is the latest "selected range" summary.
type AggregateResult struct {
	Average    float64 // NaN propagates from any NaN sample
	RangeLabel string
	StartTime  time.Time
	EndTime    time.Time
}

// ThemeTokens are the resolved design tokens used for drawing.
type ThemeTokens struct {
	TextColor         string
	GridLineColor     string
	TooltipBackground string
	TooltipBorder     string
	PriceColorLow     string
	PriceColorMedium  string
	PriceColorHigh    string
	PriceColorDefault string
}

// Snapshot is the result of one refresh cycle.
type Snapshot struct {
	Seq              uint64
	Points           []PricePoint
	CurrentHourPrice float64
	Last24hAverage   float64
	FetchedAt        time.Time
}

// Empty reports whether the snapshot carries no samples.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Points) == 0
}

// IsPrice reports whether v is a usable finite price.
func IsPrice(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
