package chart

import (
	"math"

	"priceboard/internal/model"
)

const (
	// MaxWindowHours is the widest accepted visible window.
	MaxWindowHours = 24.0
	// DefaultWindowHours is applied once, on the first non-empty load.
	DefaultWindowHours = 3.0
)

// ZoomController turns a window width in hours into a percent zoom range.
type ZoomController struct {
	renderer     Renderer
	state        model.ZoomState
	defaultHours float64
	defaulted    bool
}

// NewZoomController creates a controller issuing zoom commands to r.
// A non-positive defaultHours falls back to DefaultWindowHours.
func NewZoomController(r Renderer, defaultHours float64) *ZoomController {
	if !validHours(defaultHours) {
		defaultHours = DefaultWindowHours
	}
	return &ZoomController{
		renderer:     r,
		defaultHours: defaultHours,
		state:        model.ZoomState{StartPercent: 0, EndPercent: 100},
	}
}

func validHours(hours float64) bool {
	return hours > 0 && hours <= MaxWindowHours
}

// SetWindow shows the trailing hours of the axis. Values outside (0, 24],
// including NaN, are ignored. It reports whether the request was accepted.
func (z *ZoomController) SetWindow(hours float64) bool {
	if !validHours(hours) {
		return false
	}
	start := math.Max(0, 100-(hours/MaxWindowHours)*100)
	z.renderer.DispatchZoom(start, 100)
	z.state = model.ZoomState{StartPercent: start, EndPercent: 100, RequestedHours: hours}
	return true
}

// Reapply reissues the last requested window, if any.
func (z *ZoomController) Reapply() bool {
	if z.state.RequestedHours == 0 {
		return false
	}
	return z.SetWindow(z.state.RequestedHours)
}

// SeriesReplaced applies the one-shot default window on the first
// non-empty replacement and reports whether it fired.
func (z *ZoomController) SeriesReplaced(count int) bool {
	if z.defaulted || count == 0 {
		return false
	}
	z.defaulted = true
	return z.SetWindow(z.defaultHours)
}

// State returns the current zoom state.
func (z *ZoomController) State() model.ZoomState {
	return z.state
}
