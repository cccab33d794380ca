package collector

import (
	"context"

	"priceboard/internal/model"
)

// Fetcher defines the interface for retrieving raw price samples.
type Fetcher interface {
	// FetchFiveMinuteFeed returns recent 5-minute samples in source order.
	FetchFiveMinuteFeed(ctx context.Context) ([]model.PricePoint, error)
	// FetchCurrentHourAverage returns the settled current-hour price.
	// present is false when the source returned no entry or a null price.
	FetchCurrentHourAverage(ctx context.Context) (price float64, present bool, err error)
	Name() string
}
