package chart

import (
	"encoding/json"
	"math"
	"strconv"

	"priceboard/internal/model"
)

// DefaultTitle is the chart heading.
const DefaultTitle = "Comed 5-Minute Electricity Prices (¢/kWh)"

// Named formatters resolved by the browser shim. Their Go counterparts are in format.go.
const (
	FormatterTime24         = "time24"
	FormatterPriceUnit      = "priceUnit"
	FormatterPriceCrosshair = "priceCrosshair"
	FormatterTooltipPrice   = "tooltipPrice"
)

// Options is a declarative chart configuration. A zero field is omitted,
// which makes partial Options usable as a merge patch.
type Options struct {
	Title     *TitleOption     `json:"title,omitempty"`
	Toolbox   *ToolboxOption   `json:"toolbox,omitempty"`
	Tooltip   *TooltipOption   `json:"tooltip,omitempty"`
	Grid      *GridOption      `json:"grid,omitempty"`
	XAxis     *AxisOption      `json:"xAxis,omitempty"`
	YAxis     *AxisOption      `json:"yAxis,omitempty"`
	DataZoom  []DataZoomOption `json:"dataZoom,omitempty"`
	VisualMap *VisualMapOption `json:"visualMap,omitempty"`
	Series    []SeriesOption   `json:"series,omitempty"`
}

type TextStyle struct {
	FontSize float64 `json:"fontSize,omitempty"`
	Color    string  `json:"color,omitempty"`
}

type LineStyle struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

type AreaStyle struct {
	Color string `json:"color,omitempty"`
}

type TitleOption struct {
	Text      string    `json:"text"`
	Left      string    `json:"left"`
	Top       int       `json:"top"`
	TextStyle TextStyle `json:"textStyle"`
}

type ToolboxOption struct {
	Right   int            `json:"right"`
	Top     int            `json:"top"`
	Feature ToolboxFeature `json:"feature"`
}

type ToolboxFeature struct {
	SaveAsImage SaveAsImage `json:"saveAsImage"`
}

type SaveAsImage struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

type PointerLabel struct {
	Show            bool   `json:"show"`
	Color           string `json:"color,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	Formatter       string `json:"formatter,omitempty"`
}

type AxisPointer struct {
	Type       string       `json:"type,omitempty"`
	LineStyle  *LineStyle   `json:"lineStyle,omitempty"`
	CrossStyle *LineStyle   `json:"crossStyle,omitempty"`
	Label      PointerLabel `json:"label"`
}

type TooltipOption struct {
	Trigger         string      `json:"trigger"`
	BackgroundColor string      `json:"backgroundColor"`
	BorderColor     string      `json:"borderColor"`
	BorderWidth     int         `json:"borderWidth"`
	AxisPointer     AxisPointer `json:"axisPointer"`
	TextStyle       TextStyle   `json:"textStyle"`
	Formatter       string      `json:"formatter"`
}

// GridOption margins; the bottom leaves room for the range slider.
type GridOption struct {
	Left   string `json:"left"`
	Right  string `json:"right"`
	Top    string `json:"top"`
	Bottom string `json:"bottom"`
}

type AxisLabel struct {
	FontSize  float64 `json:"fontSize"`
	Color     string  `json:"color"`
	Formatter string  `json:"formatter"`
}

type AxisLine struct {
	LineStyle LineStyle `json:"lineStyle"`
}

type SplitLine struct {
	Show      bool      `json:"show"`
	LineStyle LineStyle `json:"lineStyle"`
}

type AxisOption struct {
	Type          string       `json:"type"`
	NameLocation  string       `json:"nameLocation"`
	NameGap       int          `json:"nameGap"`
	NameTextStyle TextStyle    `json:"nameTextStyle"`
	AxisLine      AxisLine     `json:"axisLine"`
	SplitLine     *SplitLine   `json:"splitLine,omitempty"`
	AxisLabel     AxisLabel    `json:"axisLabel"`
	AxisPointer   *AxisPointer `json:"axisPointer,omitempty"`
}

type DataBackground struct {
	AreaStyle AreaStyle `json:"areaStyle"`
	LineStyle LineStyle `json:"lineStyle"`
}

type DataZoomOption struct {
	Type                   string          `json:"type"`
	Orient                 string          `json:"orient,omitempty"`
	XAxisIndex             int             `json:"xAxisIndex"`
	Height                 int             `json:"height,omitempty"`
	Bottom                 *int            `json:"bottom,omitempty"`
	HandleSize             string          `json:"handleSize,omitempty"`
	BorderColor            string          `json:"borderColor,omitempty"`
	DataBackground         *DataBackground `json:"dataBackground,omitempty"`
	SelectedDataBackground *DataBackground `json:"selectedDataBackground,omitempty"`
}

type VisualPiece struct {
	Lt    *float64 `json:"lt,omitempty"`
	Gte   *float64 `json:"gte,omitempty"`
	Color string   `json:"color"`
}

type VisualMapOption struct {
	Type       string        `json:"type"`
	Show       bool          `json:"show"`
	Dimension  int           `json:"dimension"`
	Pieces     []VisualPiece `json:"pieces"`
	OutOfRange struct {
		Color string `json:"color"`
	} `json:"outOfRange"`
}

type SeriesOption struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Data       SeriesData `json:"data"`
	Smooth     bool       `json:"smooth,omitempty"`
	ShowSymbol *bool      `json:"showSymbol,omitempty"`
	LineStyle  *LineStyle `json:"lineStyle,omitempty"`
	AreaStyle  *AreaStyle `json:"areaStyle,omitempty"`
}

// SeriesData encodes samples as [millis, price] pairs, with "-" for a missing price.
type SeriesData []model.PricePoint

func (d SeriesData) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, len(d)*24+2)
	buf = append(buf, '[')
	for i, p := range d {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '[')
		buf = strconv.AppendInt(buf, p.TimestampMillis, 10)
		buf = append(buf, ',')
		if model.IsPrice(p.Price) {
			buf = strconv.AppendFloat(buf, p.Price, 'f', -1, 64)
		} else {
			buf = append(buf, `"-"`...)
		}
		buf = append(buf, ']')
	}
	buf = append(buf, ']')
	return buf, nil
}

// SeriesLineWidth is the stroke width of the area-line representation.
const SeriesLineWidth = 3.0

// BuildSeries returns the series option for t over points.
func BuildSeries(t model.SeriesType, points []model.PricePoint) SeriesOption {
	data := make(SeriesData, len(points))
	copy(data, points)
	s := SeriesOption{Name: "Price", Type: "bar", Data: data}
	if t == model.SeriesAreaLine {
		noSymbol := false
		s.Type = "line"
		s.Smooth = true
		s.ShowSymbol = &noSymbol
		s.LineStyle = &LineStyle{Width: SeriesLineWidth}
		s.AreaStyle = &AreaStyle{}
	}
	return s
}

// SizeContext carries the responsive inputs of the style computation.
type SizeContext struct {
	BaseFontSize float64 // root font size in px
}

// DefaultBaseFontSize is the browser default root font size.
const DefaultBaseFontSize = 16.0

func (s SizeContext) base() float64 {
	if s.BaseFontSize <= 0 || math.IsNaN(s.BaseFontSize) || math.IsInf(s.BaseFontSize, 0) {
		return DefaultBaseFontSize
	}
	return s.BaseFontSize
}

// TitleFontSize, NameFontSize and LabelFontSize scale off the base font size.
func (s SizeContext) TitleFontSize() float64 { return 1.4 * s.base() }
func (s SizeContext) NameFontSize() float64  { return 0.875 * s.base() }
func (s SizeContext) LabelFontSize() float64 { return 0.75 * s.base() }

func ptr[T any](v T) *T { return &v }

// BuildOptions is the full configuration for the given inputs. It has no
// side effects and shares no memory with its arguments.
func BuildOptions(title string, tokens model.ThemeTokens, size SizeContext, t model.SeriesType, points []model.PricePoint) Options {
	if title == "" {
		title = DefaultTitle
	}
	label := size.LabelFontSize()
	name := size.NameFontSize()

	pointerLabel := PointerLabel{Show: true, Color: tokens.TextColor, BackgroundColor: tokens.TooltipBackground}
	hiddenBackground := func(width float64) *DataBackground {
		return &DataBackground{AreaStyle: AreaStyle{Color: "#00000000"}, LineStyle: LineStyle{Width: width}}
	}

	vm := &VisualMapOption{
		Type:      "piecewise",
		Show:      false,
		Dimension: 1,
		Pieces: []VisualPiece{
			{Lt: ptr(PriceThresholdLow), Color: tokens.PriceColorLow},
			{Gte: ptr(PriceThresholdLow), Lt: ptr(PriceThresholdHigh), Color: tokens.PriceColorMedium},
			{Gte: ptr(PriceThresholdHigh), Color: tokens.PriceColorHigh},
		},
	}
	vm.OutOfRange.Color = tokens.PriceColorDefault

	return Options{
		Title: &TitleOption{
			Text:      title,
			Left:      "center",
			Top:       0,
			TextStyle: TextStyle{FontSize: size.TitleFontSize(), Color: tokens.TextColor},
		},
		Toolbox: &ToolboxOption{
			Right: 5,
			Top:   0,
			Feature: ToolboxFeature{SaveAsImage: SaveAsImage{
				Type: "svg", Name: "comed-5-minute-prices", Title: "Save",
			}},
		},
		Tooltip: &TooltipOption{
			Trigger:         "axis",
			BackgroundColor: tokens.TooltipBackground,
			BorderColor:     tokens.TooltipBorder,
			BorderWidth:     1,
			AxisPointer: AxisPointer{
				Type:       "cross",
				LineStyle:  &LineStyle{Color: tokens.TooltipBorder},
				CrossStyle: &LineStyle{Color: tokens.TooltipBorder},
				Label:      PointerLabel{Color: tokens.TextColor, BackgroundColor: tokens.TooltipBackground},
			},
			TextStyle: TextStyle{FontSize: label, Color: tokens.TextColor},
			Formatter: FormatterTooltipPrice,
		},
		Grid: &GridOption{Left: "50px", Right: "1%", Top: "40px", Bottom: "130px"},
		XAxis: &AxisOption{
			Type:          "time",
			NameLocation:  "middle",
			NameGap:       30,
			NameTextStyle: TextStyle{FontSize: name, Color: tokens.TextColor},
			AxisLine:      AxisLine{LineStyle: LineStyle{Color: tokens.GridLineColor}},
			AxisLabel:     AxisLabel{FontSize: label, Color: tokens.TextColor, Formatter: FormatterTime24},
			AxisPointer:   &AxisPointer{Label: withFormatter(pointerLabel, FormatterTime24)},
		},
		YAxis: &AxisOption{
			Type:          "value",
			NameLocation:  "middle",
			NameGap:       0,
			NameTextStyle: TextStyle{FontSize: name, Color: tokens.TextColor},
			AxisLine:      AxisLine{LineStyle: LineStyle{Color: tokens.GridLineColor}},
			SplitLine:     &SplitLine{Show: true, LineStyle: LineStyle{Color: tokens.GridLineColor}},
			AxisLabel:     AxisLabel{FontSize: label, Color: tokens.TextColor, Formatter: FormatterPriceUnit},
			AxisPointer:   &AxisPointer{Label: withFormatter(pointerLabel, FormatterPriceCrosshair)},
		},
		DataZoom: []DataZoomOption{
			{Type: "inside", Orient: "horizontal", XAxisIndex: 0},
			{
				Type:                   "slider",
				XAxisIndex:             0,
				Height:                 100,
				Bottom:                 ptr(0),
				HandleSize:             "40%",
				BorderColor:            "#00000000",
				DataBackground:         hiddenBackground(0.5),
				SelectedDataBackground: hiddenBackground(2),
			},
		},
		VisualMap: vm,
		Series:    []SeriesOption{BuildSeries(t, points)},
	}
}

func withFormatter(l PointerLabel, formatter string) PointerLabel {
	l.Formatter = formatter
	return l
}

// JSON encodes the options for the wire.
func (o Options) JSON() ([]byte, error) {
	return json.Marshal(o)
}
