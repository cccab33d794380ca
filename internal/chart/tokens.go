package chart

import "priceboard/internal/model"

// Design token names.
const (
	TokenTextColor         = "--chart-text-color"
	TokenGridLineColor     = "--chart-grid-line-color"
	TokenTooltipBackground = "--chart-tooltip-background-color"
	TokenTooltipBorder     = "--chart-tooltip-border-color"
	TokenPriceColorLow     = "--price-color-low"
	TokenPriceColorMedium  = "--price-color-medium"
	TokenPriceColorHigh    = "--price-color-high"
	TokenPriceColorDefault = "--price-color-default"
)

// Fallback literals used when a token is empty or absent.
const (
	FallbackTextColor         = "#333333"
	FallbackGridLineColor     = "#cccccc"
	FallbackTooltipBackground = "#ffffff"
	FallbackTooltipBorder     = "#999999"
	FallbackPriceColorLow     = "#2f4b7c"
	FallbackPriceColorMedium  = "#ff7c43"
	FallbackPriceColorHigh    = "#d45087"
)

// ResolveTokens reads every token from src. It is never cached.
func ResolveTokens(src TokenSource) model.ThemeTokens {
	get := func(name, fallback string) string {
		if src != nil {
			if v := src.Lookup(name); v != "" {
				return v
			}
		}
		return fallback
	}
	low := get(TokenPriceColorLow, FallbackPriceColorLow)
	return model.ThemeTokens{
		TextColor:         get(TokenTextColor, FallbackTextColor),
		GridLineColor:     get(TokenGridLineColor, FallbackGridLineColor),
		TooltipBackground: get(TokenTooltipBackground, FallbackTooltipBackground),
		TooltipBorder:     get(TokenTooltipBorder, FallbackTooltipBorder),
		PriceColorLow:     low,
		PriceColorMedium:  get(TokenPriceColorMedium, FallbackPriceColorMedium),
		PriceColorHigh:    get(TokenPriceColorHigh, FallbackPriceColorHigh),
		PriceColorDefault: get(TokenPriceColorDefault, low),
	}
}
