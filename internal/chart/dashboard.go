package chart

import (
	"sync"
	"time"

	"priceboard/internal/model"
)

// Cards are the summary widgets of one dashboard. Any of them may be nil.
type Cards struct {
	CurrentHour   SummaryCard
	SelectedRange SummaryCard
	Last24Hours   SummaryCard
}

func (c Cards) each(fn func(SummaryCard)) {
	for _, card := range []SummaryCard{c.CurrentHour, c.SelectedRange, c.Last24Hours} {
		if card != nil {
			fn(card)
		}
	}
}

// Config wires a Dashboard.
type Config struct {
	Renderer     Renderer
	Tokens       TokenSource
	Cards        Cards
	Location     *time.Location
	DefaultHours float64
	Size         SizeContext
	Title        string
}

// Dashboard ties the series, zoom, aggregate and style components of one
// chart together. Every exported method is serialized on one mutex, so
// timer, input and renderer events never interleave.
type Dashboard struct {
	mu sync.Mutex

	renderer   Renderer
	cards      Cards
	size       SizeContext
	store      *SeriesStore
	zoom       *ZoomController
	aggregator *RangeAggregator
	types      *SeriesTypeSwitch
	style      *StyleResolver

	lastSeq uint64
	loaded  bool
}

// NewDashboard builds the components. Call Start to render the first frame.
func NewDashboard(cfg Config) *Dashboard {
	store := &SeriesStore{}
	zoom := NewZoomController(cfg.Renderer, cfg.DefaultHours)
	types := NewSeriesTypeSwitch(cfg.Renderer, store)
	style := NewStyleResolver(cfg.Tokens, cfg.Renderer, store, types, zoom)
	if cfg.Title != "" {
		style.Title = cfg.Title
	}
	return &Dashboard{
		renderer:   cfg.Renderer,
		cards:      cfg.Cards,
		size:       cfg.Size,
		store:      store,
		zoom:       zoom,
		aggregator: NewRangeAggregator(cfg.Renderer, store, cfg.Cards.SelectedRange, cfg.Location),
		types:      types,
		style:      style,
	}
}

// Start pushes the initial options and subscribes to visible-range changes.
func (d *Dashboard) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.renderer.SetOptions(d.style.ComputeOptions(d.size), false)
	d.renderer.OnVisibleRangeChanged(d.VisibleRangeChanged)
	d.renderer.Resize()
}

// ApplySnapshot replaces the series with snap unless an equal or newer
// snapshot was already applied. It reports whether snap was applied.
func (d *Dashboard) ApplySnapshot(snap *model.Snapshot) bool {
	if snap == nil {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded && snap.Seq <= d.lastSeq {
		return false
	}
	d.lastSeq, d.loaded = snap.Seq, true

	d.store.Replace(snap.Points)
	d.renderer.SetOptions(Options{Series: []SeriesOption{BuildSeries(d.types.Current(), d.store.All())}}, false)
	d.zoom.SeriesReplaced(d.store.Len())
	d.aggregator.Recompute()

	if d.cards.CurrentHour != nil {
		d.cards.CurrentHour.SetPrice(snap.CurrentHourPrice)
	}
	if d.cards.Last24Hours != nil {
		d.cards.Last24Hours.SetPrice(snap.Last24hAverage)
	}
	d.renderer.Resize()
	return true
}

// SetWindow requests a visible window of the trailing hours.
func (d *Dashboard) SetWindow(hours float64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.zoom.SetWindow(hours) {
		return false
	}
	d.aggregator.Recompute()
	return true
}

// SetSeriesType switches between bars and the area line.
func (d *Dashboard) SetSeriesType(t model.SeriesType) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.types.SetType(t)
}

// RefreshTheme re-renders everything with freshly resolved tokens.
func (d *Dashboard) RefreshTheme() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fullRefresh()
	d.cards.each(func(c SummaryCard) {
		if ta, ok := c.(ThemeAware); ok {
			ta.RefreshThemeBackground()
		}
	})
}

// SetBaseFontSize updates the size context. A changed size re-renders
// everything; an unchanged one only resizes.
func (d *Dashboard) SetBaseFontSize(px float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	next := SizeContext{BaseFontSize: px}
	if next.base() == d.size.base() {
		d.renderer.Resize()
		return
	}
	d.size = next
	d.fullRefresh()
}

func (d *Dashboard) fullRefresh() {
	d.style.ApplyFullRefresh(d.size)
	d.renderer.Resize()
	d.aggregator.Recompute()
}

// Resize forwards a container size change.
func (d *Dashboard) Resize() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.renderer.Resize()
}

// VisibleRangeChanged recomputes the selected-range summary.
func (d *Dashboard) VisibleRangeChanged() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.aggregator.Recompute()
}

// ZoomState returns the current zoom state.
func (d *Dashboard) ZoomState() model.ZoomState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.zoom.State()
}

// SeriesType returns the active representation.
func (d *Dashboard) SeriesType() model.SeriesType {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.types.Current()
}

// Aggregate returns the last selected-range result.
func (d *Dashboard) Aggregate() (model.AggregateResult, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.aggregator.Last()
}

// Options returns the full configuration as it would be rendered now.
func (d *Dashboard) Options() Options {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.style.ComputeOptions(d.size)
}

// LastSeq returns the sequence number of the applied snapshot.
func (d *Dashboard) LastSeq() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastSeq
}
