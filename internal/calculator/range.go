package calculator

import "priceboard/internal/model"

// FilterRange returns the points with minMillis <= timestamp <= maxMillis, in input order.
func FilterRange(points []model.PricePoint, minMillis, maxMillis int64) []model.PricePoint {
	var out []model.PricePoint
	for _, p := range points {
		if p.TimestampMillis >= minMillis && p.TimestampMillis <= maxMillis {
			out = append(out, p)
		}
	}
	return out
}

// Since returns the points strictly newer than cutoffMillis, in input order.
func Since(points []model.PricePoint, cutoffMillis int64) []model.PricePoint {
	out := make([]model.PricePoint, 0, len(points))
	for _, p := range points {
		if p.TimestampMillis > cutoffMillis {
			out = append(out, p)
		}
	}
	return out
}

// Bounds scans the points and returns the earliest and latest timestamps.
// ok is false for an empty slice.
func Bounds(points []model.PricePoint) (minMillis, maxMillis int64, ok bool) {
	if len(points) == 0 {
		return 0, 0, false
	}
	minMillis = points[0].TimestampMillis
	maxMillis = points[0].TimestampMillis
	for _, p := range points[1:] {
		if p.TimestampMillis < minMillis {
			minMillis = p.TimestampMillis
		}
		if p.TimestampMillis > maxMillis {
			maxMillis = p.TimestampMillis
		}
	}
	return minMillis, maxMillis, true
}

// ExtentAt maps a zoom percent onto the [minMillis, maxMillis] data extent.
func ExtentAt(minMillis, maxMillis int64, percent float64) int64 {
	if percent <= 0 {
		return minMillis
	}
	if percent >= 100 {
		return maxMillis
	}
	span := float64(maxMillis - minMillis)
	return minMillis + int64(span*percent/100)
}
