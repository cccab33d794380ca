package chart

import (
	"math"

	"priceboard/internal/calculator"
	"priceboard/internal/model"
)

// fakeRenderer keeps percent zoom over the data extent the way the browser
// engine does; tests may pin the extent explicitly.
type fakeRenderer struct {
	options    []Options
	nonMerging []bool
	zooms      [][2]float64
	resizes    int
	callback   func()

	points      []model.PricePoint
	start, end  float64
	pinned      *Extent
	unavailable bool
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{start: 0, end: 100}
}

func (f *fakeRenderer) SetOptions(opts Options, nonMerging bool) {
	f.options = append(f.options, opts)
	f.nonMerging = append(f.nonMerging, nonMerging)
	if nonMerging {
		f.start, f.end = 0, 100
		f.pinned = nil
	}
	if len(opts.Series) > 0 {
		f.points = []model.PricePoint(opts.Series[0].Data)
	}
}

func (f *fakeRenderer) DispatchZoom(start, end float64) {
	f.zooms = append(f.zooms, [2]float64{start, end})
	f.start, f.end = start, end
	f.pinned = nil
}

func (f *fakeRenderer) VisibleAxisExtent() (Extent, bool) {
	if f.unavailable {
		return Extent{}, false
	}
	if f.pinned != nil {
		return *f.pinned, true
	}
	lo, hi, ok := calculator.Bounds(f.points)
	if !ok {
		return Extent{}, false
	}
	return Extent{MinMillis: calculator.ExtentAt(lo, hi, f.start), MaxMillis: calculator.ExtentAt(lo, hi, f.end)}, true
}

func (f *fakeRenderer) OnVisibleRangeChanged(cb func()) { f.callback = cb }
func (f *fakeRenderer) Resize()                         { f.resizes++ }

func (f *fakeRenderer) pin(min, max int64) { f.pinned = &Extent{MinMillis: min, MaxMillis: max} }

func (f *fakeRenderer) lastOptions() Options { return f.options[len(f.options)-1] }

// fakeCard records every mutation.
type fakeCard struct {
	titles    []string
	prices    []float64
	refreshes int
}

func (c *fakeCard) SetTitle(text string)    { c.titles = append(c.titles, text) }
func (c *fakeCard) SetPrice(v float64)      { c.prices = append(c.prices, v) }
func (c *fakeCard) RefreshThemeBackground() { c.refreshes++ }

func (c *fakeCard) mutations() int { return len(c.titles) + len(c.prices) }

func (c *fakeCard) lastPrice() float64 {
	if len(c.prices) == 0 {
		return math.Inf(-1)
	}
	return c.prices[len(c.prices)-1]
}

func (c *fakeCard) lastTitle() string {
	if len(c.titles) == 0 {
		return ""
	}
	return c.titles[len(c.titles)-1]
}

// mapTokens is a TokenSource over a map; it counts lookups.
type mapTokens struct {
	values  map[string]string
	lookups int
}

func (m *mapTokens) Lookup(name string) string {
	m.lookups++
	return m.values[name]
}
