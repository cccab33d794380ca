package gateway

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"priceboard/internal/chart"
	"priceboard/internal/model"
	"priceboard/internal/scheduler"
	"priceboard/internal/theme"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	readLimit    = 4096
	sendBuffer   = 256
)

// Session is one connected dashboard page.
type Session struct {
	ID string

	conn *websocket.Conn
	hub  *Hub
	send chan []byte
	done chan struct{}
	once sync.Once

	signal   *theme.Signal
	tokens   *theme.Source
	idle     *scheduler.IdleTracker
	renderer *wsRenderer
	dash     atomic.Pointer[chart.Dashboard]
}

func newSession(id string, conn *websocket.Conn, hub *Hub) *Session {
	sig := theme.NewSignal(false)
	return &Session{
		ID:     id,
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		signal: sig,
		tokens: theme.NewSource(sig, hub.cfg.Palettes),
		idle:   scheduler.NewIdleTracker(hub.cfg.IdleThreshold, hub.cfg.Now),
	}
}

// Dashboard returns the session's dashboard, or nil before the hello.
func (s *Session) Dashboard() *chart.Dashboard {
	return s.dash.Load()
}

// ThemeMode returns the session's effective theme.
func (s *Session) ThemeMode() theme.Mode {
	return s.signal.Mode()
}

func (s *Session) emit(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[ERROR] session %s marshal %T: %v", s.ID, v, err)
		return
	}
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case s.send <- data:
	default:
		log.Printf("[WARN] session %s send buffer full, dropping %T", s.ID, v)
	}
}

func (s *Session) close() {
	s.once.Do(func() { close(s.done) })
}

// apply forwards snap to the dashboard, if the page has said hello.
func (s *Session) apply(snap *model.Snapshot) bool {
	d := s.dash.Load()
	if d == nil {
		return false
	}
	return d.ApplySnapshot(snap)
}

func (s *Session) handle(raw []byte) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.emit(errorMsg{Type: OutError, Message: "invalid message: " + err.Error()})
		return
	}
	if m := s.hub.cfg.Metrics; m != nil {
		m.SessionMessages.WithLabelValues(messageLabel(msg.Type)).Inc()
	}

	if msg.Type == MsgHello {
		s.hello(msg)
		return
	}
	d := s.dash.Load()
	if d == nil {
		s.emit(errorMsg{Type: OutError, Message: "hello required before " + msg.Type})
		return
	}

	switch msg.Type {
	case MsgSetZoom:
		if !d.SetWindow(msg.Hours) {
			log.Printf("[WARN] session %s ignored zoom to %v hours", s.ID, msg.Hours)
		}
	case MsgSetType:
		t, ok := model.ParseSeriesType(msg.Series)
		if !ok {
			s.emit(errorMsg{Type: OutError, Message: "unknown series type " + msg.Series})
			return
		}
		d.SetSeriesType(t)
	case MsgToggleTheme:
		s.signal.Toggle()
		s.themeChanged(d)
	case MsgScheme:
		if s.signal.SetSystem(msg.Dark) {
			s.themeChanged(d)
		}
	case MsgResize:
		d.SetBaseFontSize(s.hub.fontSize(msg.FontSize))
	case MsgDataZoom:
		if !s.renderer.report(msg.Gen, msg.Start, msg.End, msg.Min, msg.Max) {
			log.Printf("[INFO] session %s dropped dataZoom from generation %d", s.ID, msg.Gen)
		}
	case MsgVisibility:
		s.visibility(msg.Visible)
	case MsgReload:
		s.hub.refresh(scheduler.TriggerManual)
	default:
		s.emit(errorMsg{Type: OutError, Message: "unknown message type " + msg.Type})
	}
}

// hello builds the dashboard from the page's environment. Repeated hellos
// only update the theme and size.
func (s *Session) hello(msg inbound) {
	if d := s.dash.Load(); d != nil {
		if s.signal.SetSystem(msg.Dark) {
			s.themeChanged(d)
		}
		d.SetBaseFontSize(s.hub.fontSize(msg.FontSize))
		return
	}

	s.signal.SetSystem(msg.Dark)
	s.renderer = newWSRenderer(s.emit)
	current := newWSCard(CardCurrentHour, "Current Hour", s.tokens, s.emit)
	selected := newWSCard(CardSelectedRange, "Selected Range", s.tokens, s.emit)
	last24h := newWSCard(CardLast24Hours, "Last 24 Hours", s.tokens, s.emit)
	cards := chart.Cards{CurrentHour: current, SelectedRange: selected, Last24Hours: last24h}
	d := chart.NewDashboard(chart.Config{
		Renderer:     s.renderer,
		Tokens:       s.tokens,
		Cards:        cards,
		Location:     s.hub.location(msg.TZ),
		DefaultHours: s.hub.cfg.DefaultHours,
		Size:         chart.SizeContext{BaseFontSize: s.hub.fontSize(msg.FontSize)},
		Title:        s.hub.cfg.Title,
	})

	s.sendTheme()
	for _, c := range []*wsCard{current, selected, last24h} {
		c.RefreshThemeBackground()
	}
	d.Start()
	s.dash.Store(d)

	if snap := s.hub.Latest(); snap != nil {
		d.ApplySnapshot(snap)
	}
	log.Printf("[INFO] session %s ready (theme=%s)", s.ID, s.signal.Mode())
}

func (s *Session) themeChanged(d *chart.Dashboard) {
	s.sendTheme()
	d.RefreshTheme()
}

func (s *Session) sendTheme() {
	m := s.signal.Mode()
	s.emit(themeMsg{Type: OutTheme, Mode: m.String(), Palette: s.tokens.PaletteFor(m)})
}

// visibility runs a catch-up refresh when the page returns after being
// hidden longer than the idle threshold.
func (s *Session) visibility(visible bool) {
	if !visible {
		s.idle.Hidden()
		return
	}
	if s.idle.Visible() {
		log.Printf("[INFO] session %s reactivated, refreshing", s.ID)
		s.hub.refresh(scheduler.TriggerVisibility)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))

			// Queued messages are coalesced into one frame, newline separated.
			w, err := s.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(msg)
			n := len(s.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-s.send)
			}
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Session) readPump() {
	defer func() {
		s.hub.remove(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(readLimit)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WARN] session %s read: %v", s.ID, err)
			}
			return
		}
		s.handle(msg)
	}
}
