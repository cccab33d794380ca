// Package export renders the trailing price window as a static image for
// clients that cannot run the interactive page.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"priceboard/internal/calculator"
	board "priceboard/internal/chart"
	"priceboard/internal/model"
	"priceboard/internal/theme"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNotEnoughData is returned when fewer than two usable samples remain in
// the requested window.
var ErrNotEnoughData = errors.New("not enough samples to draw")

// Format is an output image format.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// ParseFormat accepts "svg" and "png"; anything else is SVG.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(PNG)) {
		return PNG
	}
	return SVG
}

// Options control one rendering.
type Options struct {
	Hours    float64
	Series   model.SeriesType
	Palette  theme.Palette
	Title    string
	Width    int
	Height   int
	Location *time.Location
	Format   Format
}

func (o Options) withDefaults() Options {
	if !(o.Hours > 0 && o.Hours <= board.MaxWindowHours) {
		o.Hours = board.DefaultWindowHours
	}
	if o.Palette == nil {
		o.Palette = theme.DefaultPalettes().Light
	}
	if o.Title == "" {
		o.Title = board.DefaultTitle
	}
	if o.Width <= 0 {
		o.Width = 1024
	}
	if o.Height <= 0 {
		o.Height = 400
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Format == "" {
		o.Format = SVG
	}
	return o
}

// Window returns the finite samples in the trailing hours of points.
func Window(points []model.PricePoint, hours float64) []model.PricePoint {
	_, maxMillis, ok := calculator.Bounds(points)
	if !ok {
		return nil
	}
	from := maxMillis - int64(hours*float64(time.Hour/time.Millisecond))
	var out []model.PricePoint
	for _, p := range calculator.FilterRange(points, from, maxMillis) {
		if model.IsPrice(p.Price) {
			out = append(out, p)
		}
	}
	return out
}

// Render draws the trailing window of points to w.
func Render(w io.Writer, points []model.PricePoint, opts Options) error {
	opts = opts.withDefaults()
	visible := Window(points, opts.Hours)
	if len(visible) < 2 {
		return ErrNotEnoughData
	}

	tokens := board.ResolveTokens(theme.Fixed{Palette: opts.Palette})
	xs := make([]time.Time, len(visible))
	ys := make([]float64, len(visible))
	for i, p := range visible {
		xs[i] = p.Time()
		ys[i] = p.Price
	}

	ch := chart.Chart{
		Title:  fmt.Sprintf("%s · %s", opts.Title, board.FormatRangeLabel(xs[0], xs[len(xs)-1], opts.Location)),
		Width:  opts.Width,
		Height: opts.Height,
		TitleStyle: chart.Style{
			FontColor: hex(tokens.TextColor),
		},
		Background: chart.Style{
			FillColor: hex(tokens.TooltipBackground),
			Padding:   chart.Box{Top: 40, Left: 16, Right: 24, Bottom: 16},
		},
		Canvas: chart.Style{
			FillColor: hex(tokens.TooltipBackground),
		},
		XAxis: chart.XAxis{
			Style:          axisStyle(tokens),
			ValueFormatter: clockFormatter(opts.Location),
			GridMajorStyle: gridStyle(tokens),
		},
		YAxis: chart.YAxis{
			Name:           board.PriceUnit + "/kWh",
			NameStyle:      chart.Style{FontColor: hex(tokens.TextColor)},
			Style:          axisStyle(tokens),
			ValueFormatter: priceFormatter,
			GridMajorStyle: gridStyle(tokens),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Price",
				XValues: xs,
				YValues: ys,
				Style:   seriesStyle(opts.Series, tokens),
			},
			latestMarker(visible[len(visible)-1], tokens),
		},
	}

	format := chart.SVG
	if opts.Format == PNG {
		format = chart.PNG
	}
	if err := ch.Render(format, w); err != nil {
		return fmt.Errorf("render %s: %w", opts.Format, err)
	}
	return nil
}

// seriesStyle colors every sample by its price band. Bars render as
// banded columns of dots; the area line is filled below the stroke.
func seriesStyle(t model.SeriesType, tokens model.ThemeTokens) chart.Style {
	bands := func(_, _ chart.Range, _ int, _, y float64) drawing.Color {
		c, ok := board.PriceColor(tokens, y)
		if !ok {
			c = tokens.PriceColorDefault
		}
		return hex(c)
	}
	if t == model.SeriesAreaLine {
		return chart.Style{
			StrokeColor:      hex(tokens.PriceColorLow),
			StrokeWidth:      board.SeriesLineWidth,
			FillColor:        hex(tokens.PriceColorLow).WithAlpha(64),
			DotWidth:         1.5,
			DotColorProvider: bands,
		}
	}
	return chart.Style{
		StrokeWidth:      chart.Disabled,
		DotWidth:         3,
		DotColorProvider: bands,
	}
}

// latestMarker labels the newest sample with its price, the same text the
// page shows on the value-axis pointer.
func latestMarker(p model.PricePoint, tokens model.ThemeTokens) chart.AnnotationSeries {
	bg, ok := board.PriceColor(tokens, p.Price)
	if !ok {
		bg = tokens.PriceColorDefault
	}
	return chart.AnnotationSeries{
		Name: "Latest",
		Annotations: []chart.Value2{{
			XValue: chart.TimeToFloat64(p.Time()),
			YValue: p.Price,
			Label:  board.FormatCrosshairPrice(p.Price),
			Style: chart.Style{
				FillColor:   hex(tokens.TooltipBackground),
				StrokeColor: hex(bg),
				FontColor:   hex(tokens.TextColor),
			},
		}},
	}
}

func axisStyle(tokens model.ThemeTokens) chart.Style {
	return chart.Style{
		FontColor:   hex(tokens.TextColor),
		StrokeColor: hex(tokens.GridLineColor),
	}
}

func gridStyle(tokens model.ThemeTokens) chart.Style {
	return chart.Style{
		StrokeColor: hex(tokens.GridLineColor),
		StrokeWidth: 1,
	}
}

func clockFormatter(loc *time.Location) chart.ValueFormatter {
	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok || math.IsNaN(f) {
			return ""
		}
		return board.FormatClock(time.Unix(0, int64(f)).In(loc))
	}
}

func priceFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return board.FormatAxisPrice(f)
	}
	return ""
}

func hex(c string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(c, "#"))
}
