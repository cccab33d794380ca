// Package server exposes the dashboard page, its websocket and the
// read-only window endpoints over HTTP.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"priceboard/internal/chart"
	"priceboard/internal/export"
	"priceboard/internal/gateway"
	"priceboard/internal/metrics"
	"priceboard/internal/model"
	"priceboard/internal/theme"
)

//go:embed static
var staticFS embed.FS

// Options configure the image and JSON endpoints.
type Options struct {
	Title    string
	Location *time.Location
	Palettes theme.Palettes
}

// Server is the HTTP front of the price board.
type Server struct {
	hub     *gateway.Hub
	metrics *metrics.Metrics
	opts    Options
	http    *http.Server
}

// New creates a server listening on addr. m may be nil.
func New(addr string, hub *gateway.Hub, m *metrics.Metrics, opts Options) *Server {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if len(opts.Palettes.Light) == 0 {
		opts.Palettes = theme.DefaultPalettes()
	}
	s := &Server{hub: hub, metrics: m, opts: opts}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, static, "index.html")
	})
	mux.Handle("GET /ws", s.hub)
	mux.HandleFunc("GET /chart.svg", s.handleChart(export.SVG))
	mux.HandleFunc("GET /chart.png", s.handleChart(export.PNG))
	mux.HandleFunc("GET /api/window", s.handleWindow)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return mux
}

// Start serves in the background. Listen errors other than a clean
// shutdown are logged.
func (s *Server) Start() {
	go func() {
		log.Printf("[INFO] http server listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[ERROR] http server: %v", err)
		}
	}()
}

// Shutdown closes every session and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.http.Shutdown(ctx)
}

func (s *Server) handleChart(format export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		opts := export.Options{
			Series:   model.SeriesBars,
			Palette:  s.opts.Palettes.Light,
			Title:    s.opts.Title,
			Location: s.opts.Location,
			Format:   format,
		}
		if v := q.Get("hours"); v != "" {
			h, err := strconv.ParseFloat(v, 64)
			if err != nil || !(h > 0 && h <= chart.MaxWindowHours) {
				http.Error(w, "hours must be in (0, 24]", http.StatusBadRequest)
				return
			}
			opts.Hours = h
		}
		if v := q.Get("type"); v != "" {
			t, ok := model.ParseSeriesType(v)
			if !ok {
				http.Error(w, "unknown type "+v, http.StatusBadRequest)
				return
			}
			opts.Series = t
		}
		if v := q.Get("theme"); v != "" {
			m, ok := theme.ParseMode(v)
			if !ok {
				http.Error(w, "unknown theme "+v, http.StatusBadRequest)
				return
			}
			if m == theme.Dark {
				opts.Palette = s.opts.Palettes.Dark
			}
		}
		if v := q.Get("w"); v != "" {
			opts.Width, _ = strconv.Atoi(v)
		}
		if v := q.Get("h"); v != "" {
			opts.Height, _ = strconv.Atoi(v)
		}

		snap := s.hub.Latest()
		if snap.Empty() {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Cache-Control", "no-cache")
		if err := export.Render(w, snap.Points, opts); err != nil {
			if errors.Is(err, export.ErrNotEnoughData) {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			log.Printf("[ERROR] render chart: %v", err)
		}
	}
}

// windowResponse is the JSON view of the latest snapshot.
type windowResponse struct {
	Seq              uint64           `json:"seq"`
	FetchedAt        time.Time        `json:"fetchedAt"`
	CurrentHourPrice *float64         `json:"currentHourPrice"`
	Last24hAverage   *float64         `json:"last24hAverage"`
	Points           chart.SeriesData `json:"points"`
}

func price(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request) {
	snap := s.hub.Latest()
	if snap == nil {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(windowResponse{
		Seq:              snap.Seq,
		FetchedAt:        snap.FetchedAt,
		CurrentHourPrice: price(snap.CurrentHourPrice),
		Last24hAverage:   price(snap.Last24hAverage),
		Points:           chart.SeriesData(snap.Points),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
		HasData  bool   `json:"hasData"`
	}{Status: "ok", Sessions: s.hub.SessionCount(), HasData: !s.hub.Latest().Empty()}
	json.NewEncoder(w).Encode(status)
}
