package chart

import "priceboard/internal/model"

// SeriesStore holds the samples of the trailing 24-hour window.
type SeriesStore struct {
	points []model.PricePoint
}

// Replace discards the current sequence and keeps points in its place.
func (s *SeriesStore) Replace(points []model.PricePoint) {
	next := make([]model.PricePoint, len(points))
	copy(next, points)
	s.points = next
}

// All returns the current sequence. Callers must treat it as read-only.
func (s *SeriesStore) All() []model.PricePoint {
	return s.points
}

// Len returns the number of samples held.
func (s *SeriesStore) Len() int {
	return len(s.points)
}
