package gateway

import (
	"sync"

	"priceboard/internal/calculator"
	"priceboard/internal/chart"
)

// wsRenderer forwards chart commands to the browser. The browser reports
// the real axis extent after every zoom; until that report arrives the
// extent is estimated from the data bounds and the last zoom percentages,
// the same way the axis maps percent to time.
//
// Every options and zoom message carries a generation number that the
// browser echoes in its reports. Reports from an older generation describe
// a chart the browser no longer shows and are dropped.
type wsRenderer struct {
	mu   sync.Mutex
	emit func(v any)

	dataMin, dataMax int64
	hasData          bool
	start, end       float64
	reported         *chart.Extent
	gen              uint64
	onChange         func()
}

func newWSRenderer(emit func(v any)) *wsRenderer {
	return &wsRenderer{emit: emit, start: 0, end: 100}
}

func (r *wsRenderer) SetOptions(opts chart.Options, nonMerging bool) {
	r.mu.Lock()
	if len(opts.Series) > 0 {
		r.dataMin, r.dataMax, r.hasData = calculator.Bounds(opts.Series[0].Data)
		r.reported = nil
	}
	if nonMerging {
		r.start, r.end = 0, 100
		r.reported = nil
	}
	r.gen++
	gen := r.gen
	r.mu.Unlock()
	r.emit(optionsMsg{Type: OutOptions, Gen: gen, NotMerge: nonMerging, Options: opts})
}

func (r *wsRenderer) DispatchZoom(startPercent, endPercent float64) {
	r.mu.Lock()
	r.start, r.end = startPercent, endPercent
	r.reported = nil
	r.gen++
	gen := r.gen
	r.mu.Unlock()
	r.emit(zoomMsg{Type: OutZoom, Gen: gen, Start: startPercent, End: endPercent})
}

func (r *wsRenderer) VisibleAxisExtent() (chart.Extent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reported != nil {
		return *r.reported, true
	}
	if !r.hasData {
		return chart.Extent{}, false
	}
	return chart.Extent{
		MinMillis: calculator.ExtentAt(r.dataMin, r.dataMax, r.start),
		MaxMillis: calculator.ExtentAt(r.dataMin, r.dataMax, r.end),
	}, true
}

func (r *wsRenderer) OnVisibleRangeChanged(callback func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = callback
}

func (r *wsRenderer) Resize() {
	r.emit(resizeMsg{Type: OutResize})
}

// generation returns the number stamped on the latest outbound message.
func (r *wsRenderer) generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// report records the extent the browser actually shows and fires the
// visible-range callback. It returns false when gen is older than the
// latest outbound message. It must be called from outside any Dashboard
// method.
func (r *wsRenderer) report(gen uint64, startPercent, endPercent float64, minMillis, maxMillis int64) bool {
	r.mu.Lock()
	if gen < r.gen {
		r.mu.Unlock()
		return false
	}
	r.start, r.end = startPercent, endPercent
	if minMillis > 0 && maxMillis >= minMillis {
		r.reported = &chart.Extent{MinMillis: minMillis, MaxMillis: maxMillis}
	} else {
		r.reported = nil
	}
	cb := r.onChange
	r.mu.Unlock()
	if cb != nil {
		cb()
	}
	return true
}
