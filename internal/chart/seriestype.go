package chart

import "priceboard/internal/model"

// SeriesTypeSwitch owns the series representation.
type SeriesTypeSwitch struct {
	renderer Renderer
	store    *SeriesStore
	current  model.SeriesType
}

// NewSeriesTypeSwitch starts with bars.
func NewSeriesTypeSwitch(r Renderer, store *SeriesStore) *SeriesTypeSwitch {
	return &SeriesTypeSwitch{renderer: r, store: store, current: model.SeriesBars}
}

// SetType patches only the series portion of the options. It reports
// whether anything changed.
func (s *SeriesTypeSwitch) SetType(t model.SeriesType) bool {
	if t == s.current {
		return false
	}
	s.current = t
	s.renderer.SetOptions(Options{Series: []SeriesOption{BuildSeries(t, s.store.All())}}, false)
	return true
}

// Current returns the active representation.
func (s *SeriesTypeSwitch) Current() model.SeriesType {
	return s.current
}
