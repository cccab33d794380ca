// Package chart keeps the price series, the zoom window, the selected-range
// summary and the draw options of one dashboard in step with each other.
//
// None of the components in this package are safe for concurrent use on
// their own; Dashboard serializes every entry point.
package chart

// Extent is the visible time-axis range in UTC epoch milliseconds.
type Extent struct {
	MinMillis int64
	MaxMillis int64
}

// Renderer is the chart-rendering engine capability.
// Implementations must not invoke the visible-range callback synchronously
// from inside any of these methods.
type Renderer interface {
	SetOptions(opts Options, nonMerging bool)
	DispatchZoom(startPercent, endPercent float64)
	VisibleAxisExtent() (Extent, bool)
	OnVisibleRangeChanged(callback func())
	Resize()
}

// SummaryCard is the price summary widget capability. NaN prices render as
// a fixed "unavailable" marker.
type SummaryCard interface {
	SetTitle(text string)
	SetPrice(value float64)
}

// ThemeAware cards re-resolve their background color after a theme change.
type ThemeAware interface {
	RefreshThemeBackground()
}

// TokenSource resolves a named design token; empty means absent.
type TokenSource interface {
	Lookup(name string) string
}
