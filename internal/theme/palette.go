package theme

// Palette maps design-token names to values.
type Palette map[string]string

// Palettes holds one palette per mode.
type Palettes struct {
	Light Palette `yaml:"light"`
	Dark  Palette `yaml:"dark"`
}

// DefaultPalettes mirror the stock dashboard stylesheet.
func DefaultPalettes() Palettes {
	return Palettes{
		Light: Palette{
			"--chart-text-color":               "#333333",
			"--chart-grid-line-color":          "#dddddd",
			"--chart-tooltip-background-color": "#ffffff",
			"--chart-tooltip-border-color":     "#999999",
			"--price-color-low":                "#2f4b7c",
			"--price-color-medium":             "#ff7c43",
			"--price-color-high":               "#d45087",
		},
		Dark: Palette{
			"--chart-text-color":               "#e0e0e0",
			"--chart-grid-line-color":          "#444444",
			"--chart-tooltip-background-color": "#222222",
			"--chart-tooltip-border-color":     "#666666",
			"--price-color-low":                "#5a7fbf",
			"--price-color-medium":             "#ff9a6b",
			"--price-color-high":               "#e07aa5",
		},
	}
}

// Merge overlays non-empty entries of o on a copy of p.
func (p Palettes) Merge(o Palettes) Palettes {
	return Palettes{Light: p.Light.merge(o.Light), Dark: p.Dark.merge(o.Dark)}
}

func (p Palette) merge(o Palette) Palette {
	out := make(Palette, len(p)+len(o))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range o {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Source is a token source bound to a Signal; each lookup reads the
// signal's current mode.
type Source struct {
	Signal   *Signal
	Palettes Palettes
}

// NewSource creates a token source for sig.
func NewSource(sig *Signal, palettes Palettes) *Source {
	return &Source{Signal: sig, Palettes: palettes}
}

// Lookup returns the token value for the active mode, or "" if absent.
func (s *Source) Lookup(name string) string {
	return s.PaletteFor(s.Signal.Mode())[name]
}

// PaletteFor returns the palette of mode m.
func (s *Source) PaletteFor(m Mode) Palette {
	if m == Dark {
		return s.Palettes.Dark
	}
	return s.Palettes.Light
}

// Fixed is a token source pinned to one mode.
type Fixed struct {
	Palette Palette
}

func (f Fixed) Lookup(name string) string { return f.Palette[name] }
