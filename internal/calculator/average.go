package calculator

import (
	"math"

	"priceboard/internal/model"
)

// Mean returns the arithmetic mean of the sample prices.
// A NaN sample makes the result NaN; an empty slice yields NaN.
func Mean(points []model.PricePoint) float64 {
	if len(points) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, p := range points {
		sum += p.Price
	}
	return sum / float64(len(points))
}
