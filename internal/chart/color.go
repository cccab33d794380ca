package chart

import "priceboard/internal/model"

// Price band thresholds in cents/kWh.
const (
	PriceThresholdLow  = 8.0
	PriceThresholdHigh = 15.0
)

// PriceBand classifies a price.
type PriceBand int

const (
	BandNone PriceBand = iota
	BandLow
	BandMedium
	BandHigh
)

// BandFor returns the band of price; NaN and infinities have no band.
func BandFor(price float64) PriceBand {
	switch {
	case !model.IsPrice(price):
		return BandNone
	case price < PriceThresholdLow:
		return BandLow
	case price < PriceThresholdHigh:
		return BandMedium
	default:
		return BandHigh
	}
}

// PriceColor returns the color override for price. ok is false when the
// override must be removed so the caller falls back to its neutral default.
func PriceColor(tokens model.ThemeTokens, price float64) (color string, ok bool) {
	switch BandFor(price) {
	case BandLow:
		return tokens.PriceColorLow, true
	case BandMedium:
		return tokens.PriceColorMedium, true
	case BandHigh:
		return tokens.PriceColorHigh, true
	default:
		return "", false
	}
}
