package chart

import (
	"time"

	"priceboard/internal/calculator"
	"priceboard/internal/model"
)

// RangeAggregator summarizes the samples inside the visible axis extent.
type RangeAggregator struct {
	renderer Renderer
	store    *SeriesStore
	card     SummaryCard
	loc      *time.Location

	last  model.AggregateResult
	valid bool
}

// NewRangeAggregator reads the extent from r and pushes results to card.
// Labels are rendered in loc.
func NewRangeAggregator(r Renderer, store *SeriesStore, card SummaryCard, loc *time.Location) *RangeAggregator {
	if loc == nil {
		loc = time.Local
	}
	return &RangeAggregator{renderer: r, store: store, card: card, loc: loc}
}

// Recompute updates the card from the current extent. When the store is
// empty, the extent is unavailable, or no sample falls inside it, nothing
// is pushed and the previous result stays displayed.
func (a *RangeAggregator) Recompute() (model.AggregateResult, bool) {
	points := a.store.All()
	if len(points) == 0 {
		return a.last, false
	}
	ext, ok := a.renderer.VisibleAxisExtent()
	if !ok {
		return a.last, false
	}
	visible := calculator.FilterRange(points, ext.MinMillis, ext.MaxMillis)
	if len(visible) == 0 {
		return a.last, false
	}

	start := time.UnixMilli(ext.MinMillis)
	end := time.UnixMilli(ext.MaxMillis)
	res := model.AggregateResult{
		Average:    calculator.Mean(visible),
		RangeLabel: FormatRangeLabel(start, end, a.loc),
		StartTime:  start.UTC(),
		EndTime:    end.UTC(),
	}
	if a.card != nil {
		a.card.SetPrice(res.Average)
		a.card.SetTitle(res.RangeLabel)
	}
	a.last, a.valid = res, true
	return res, true
}

// Last returns the most recent result and whether one exists.
func (a *RangeAggregator) Last() (model.AggregateResult, bool) {
	return a.last, a.valid
}
