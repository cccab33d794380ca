package gateway

import (
	"log"
	"net/http"
	"sync"
	"time"

	"priceboard/internal/chart"
	"priceboard/internal/metrics"
	"priceboard/internal/model"
	"priceboard/internal/scheduler"
	"priceboard/internal/theme"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:    1024,
	WriteBufferSize:   4096,
	EnableCompression: true,
}

// Refresher starts a background refresh; it returns false when one is
// already running.
type Refresher interface {
	Trigger(trigger string) bool
}

// Config holds the per-session defaults of a Hub.
type Config struct {
	Palettes      theme.Palettes
	Location      *time.Location
	DefaultHours  float64
	BaseFontSize  float64
	Title         string
	IdleThreshold time.Duration
	Metrics       *metrics.Metrics
	Now           func() time.Time
}

// Hub tracks dashboard sessions and fans snapshots out to them.
type Hub struct {
	cfg Config

	mu        sync.RWMutex
	sessions  map[string]*Session
	latest    *model.Snapshot
	refresher Refresher
}

// NewHub creates a hub with no sessions.
func NewHub(cfg Config) *Hub {
	if len(cfg.Palettes.Light) == 0 && len(cfg.Palettes.Dark) == 0 {
		cfg.Palettes = theme.DefaultPalettes()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.DefaultHours <= 0 {
		cfg.DefaultHours = chart.DefaultWindowHours
	}
	if cfg.BaseFontSize <= 0 {
		cfg.BaseFontSize = chart.DefaultBaseFontSize
	}
	if cfg.IdleThreshold <= 0 {
		cfg.IdleThreshold = scheduler.DefaultIdleThreshold
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Hub{cfg: cfg, sessions: make(map[string]*Session)}
}

// SetRefresher attaches the refresh trigger used for page catch-up.
func (h *Hub) SetRefresher(r Refresher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.refresher = r
}

// Publish records snap as the latest window and applies it to every
// session. Snapshots not newer than the latest one are discarded.
func (h *Hub) Publish(snap *model.Snapshot) bool {
	if snap == nil {
		return false
	}
	h.mu.Lock()
	if h.latest != nil && snap.Seq <= h.latest.Seq {
		h.mu.Unlock()
		log.Printf("[INFO] discarding stale snapshot #%d (latest #%d)", snap.Seq, h.latest.Seq)
		if h.cfg.Metrics != nil {
			h.cfg.Metrics.StaleSnapshots.Inc()
		}
		return false
	}
	h.latest = snap
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.apply(snap)
	}
	return true
}

// Latest returns the most recent published snapshot, or nil.
func (h *Hub) Latest() *model.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// SessionCount returns the number of connected sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Session returns the session with id, or nil.
func (h *Hub) Session(id string) *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[id]
}

// ServeHTTP upgrades the request and starts a session.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WARN] ws upgrade: %v", err)
		return
	}
	h.HandleConn(conn)
}

// HandleConn registers a session for conn and starts its pumps.
func (h *Hub) HandleConn(conn *websocket.Conn) *Session {
	s := h.add(conn)
	go s.writePump()
	go s.readPump()
	return s
}

func (h *Hub) add(conn *websocket.Conn) *Session {
	s := newSession(uuid.NewString(), conn, h)

	h.mu.Lock()
	h.sessions[s.ID] = s
	count := len(h.sessions)
	h.mu.Unlock()

	if h.cfg.Metrics != nil {
		h.cfg.Metrics.ActiveSessions.Set(float64(count))
	}
	log.Printf("[INFO] session %s connected (%d total)", s.ID, count)
	return s
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	_, ok := h.sessions[s.ID]
	delete(h.sessions, s.ID)
	count := len(h.sessions)
	h.mu.Unlock()

	s.close()
	if !ok {
		return
	}
	if h.cfg.Metrics != nil {
		h.cfg.Metrics.ActiveSessions.Set(float64(count))
	}
	log.Printf("[INFO] session %s disconnected (%d total)", s.ID, count)
}

// Close ends every session.
func (h *Hub) Close() {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		h.remove(s)
	}
}

func (h *Hub) refresh(trigger string) {
	h.mu.RLock()
	r := h.refresher
	h.mu.RUnlock()
	if r == nil {
		return
	}
	if !r.Trigger(trigger) {
		log.Printf("[INFO] %s refresh already in flight", trigger)
	}
}

// fontSize falls back to the configured base size when the page sends none.
func (h *Hub) fontSize(px float64) float64 {
	if px > 0 {
		return px
	}
	return h.cfg.BaseFontSize
}

// location resolves the page's IANA zone, falling back to the hub default.
func (h *Hub) location(tz string) *time.Location {
	if tz == "" {
		return h.cfg.Location
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("[WARN] unknown time zone %q, using %s", tz, h.cfg.Location)
		return h.cfg.Location
	}
	return loc
}
