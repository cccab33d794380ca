package gateway

import (
	"math"
	"sync"

	"priceboard/internal/chart"
)

// Card IDs shared with the page.
const (
	CardCurrentHour   = "currentHour"
	CardSelectedRange = "selectedRange"
	CardLast24Hours   = "last24Hours"
)

// wsCard mirrors one price card in the browser.
type wsCard struct {
	mu     sync.Mutex
	id     string
	title  string
	price  float64
	tokens chart.TokenSource
	emit   func(v any)
}

func newWSCard(id, title string, tokens chart.TokenSource, emit func(v any)) *wsCard {
	return &wsCard{id: id, title: title, price: math.NaN(), tokens: tokens, emit: emit}
}

func (c *wsCard) SetTitle(text string) {
	c.mu.Lock()
	c.title = text
	msg := c.stateLocked()
	c.mu.Unlock()
	c.emit(msg)
}

func (c *wsCard) SetPrice(value float64) {
	c.mu.Lock()
	c.price = value
	msg := c.stateLocked()
	c.mu.Unlock()
	c.emit(msg)
}

// RefreshThemeBackground re-resolves the background from the stored price.
func (c *wsCard) RefreshThemeBackground() {
	c.mu.Lock()
	msg := c.stateLocked()
	c.mu.Unlock()
	c.emit(msg)
}

func (c *wsCard) stateLocked() cardMsg {
	bg, _ := chart.PriceColor(chart.ResolveTokens(c.tokens), c.price)
	return cardMsg{
		Type:       OutCard,
		ID:         c.id,
		Title:      c.title,
		Text:       chart.FormatPrice(c.price),
		Background: bg,
	}
}
