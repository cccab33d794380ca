package gateway

import (
	"priceboard/internal/chart"
	"priceboard/internal/theme"
)

// Inbound message types sent by the browser.
const (
	MsgHello       = "hello"
	MsgSetZoom     = "setZoom"
	MsgSetType     = "setType"
	MsgToggleTheme = "toggleTheme"
	MsgScheme      = "scheme"
	MsgResize      = "resize"
	MsgDataZoom    = "dataZoom"
	MsgVisibility  = "visibility"
	MsgReload      = "reload"
)

// MsgUnknown labels metrics for message types the page should never send.
const MsgUnknown = "unknown"

var inboundTypes = map[string]bool{
	MsgHello:       true,
	MsgSetZoom:     true,
	MsgSetType:     true,
	MsgToggleTheme: true,
	MsgScheme:      true,
	MsgResize:      true,
	MsgDataZoom:    true,
	MsgVisibility:  true,
	MsgReload:      true,
}

// messageLabel bounds the metric label set to the known inbound types.
func messageLabel(t string) string {
	if inboundTypes[t] {
		return t
	}
	return MsgUnknown
}

// Outbound message types sent to the browser.
const (
	OutOptions = "options"
	OutZoom    = "dispatchZoom"
	OutResize  = "resize"
	OutCard    = "card"
	OutTheme   = "theme"
	OutError   = "error"
)

// inbound carries every field any browser message may set.
type inbound struct {
	Type string `json:"type"`

	// hello, resize
	FontSize float64 `json:"fontSize,omitempty"`
	// hello, scheme
	Dark bool `json:"dark,omitempty"`
	// hello
	TZ string `json:"tz,omitempty"`
	// setZoom
	Hours float64 `json:"hours,omitempty"`
	// setType
	Series string `json:"series,omitempty"`
	// dataZoom
	Gen   uint64  `json:"gen,omitempty"`
	Start float64 `json:"start,omitempty"`
	End   float64 `json:"end,omitempty"`
	Min   int64   `json:"min,omitempty"`
	Max   int64   `json:"max,omitempty"`
	// visibility
	Visible bool `json:"visible,omitempty"`
}

type optionsMsg struct {
	Type     string        `json:"type"`
	Gen      uint64        `json:"gen"`
	NotMerge bool          `json:"notMerge"`
	Options  chart.Options `json:"options"`
}

type zoomMsg struct {
	Type  string  `json:"type"`
	Gen   uint64  `json:"gen"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type resizeMsg struct {
	Type string `json:"type"`
}

// cardMsg always carries the full card state. An empty Background removes
// the price color.
type cardMsg struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	Background string `json:"background"`
}

type themeMsg struct {
	Type    string        `json:"type"`
	Mode    string        `json:"mode"`
	Palette theme.Palette `json:"palette"`
}

type errorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
