package server

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"priceboard/internal/gateway"
	"priceboard/internal/metrics"
	"priceboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedEnd = time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)

func feed(n int) []model.PricePoint {
	out := make([]model.PricePoint, n)
	for i := range out {
		out[i] = model.PricePoint{
			TimestampMillis: feedEnd.Add(-time.Duration(n-1-i) * 5 * time.Minute).UnixMilli(),
			Price:           4 + float64(i%5),
		}
	}
	return out
}

func newTestServer(t *testing.T) (*httptest.Server, *gateway.Hub) {
	t.Helper()
	hub := gateway.NewHub(gateway.Config{Location: time.UTC})
	s := New(":0", hub, metrics.New("test"), Options{Location: time.UTC})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv, hub
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	var sb strings.Builder
	_, err = io.Copy(&sb, resp.Body)
	require.NoError(t, err)
	return resp, sb.String()
}

func TestIndexAndStatic(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="price-chart"`)

	resp, body = get(t, srv.URL+"/static/app.js")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "tooltipPrice")

	resp, _ = get(t, srv.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestShimTooltipAndZoomReports(t *testing.T) {
	srv, _ := newTestServer(t)
	_, body := get(t, srv.URL+"/static/app.js")

	// Tooltip is "Mar 7, 10:05<br/><strong>4.6 ¢</strong>".
	assert.Contains(t, body, "shortDate(ms) + ', ' + clock(ms) + '<br/><strong>' + v + ' ¢</strong>'")
	assert.Contains(t, body, "toFixed(1)")
	assert.NotContains(t, body, "¢/kWh';")

	// dataZoom reports echo the generation of the last applied options or zoom.
	assert.Contains(t, body, "options: (m) => { gen = m.gen;")
	assert.Contains(t, body, "dispatchZoom: (m) => { gen = m.gen;")
	assert.Contains(t, body, "type: 'dataZoom', gen,")
}

func TestHealthz(t *testing.T) {
	srv, hub := newTestServer(t)

	_, body := get(t, srv.URL+"/healthz")
	assert.JSONEq(t, `{"status":"ok","sessions":0,"hasData":false}`, body)

	hub.Publish(&model.Snapshot{Seq: 1, Points: feed(3)})
	_, body = get(t, srv.URL+"/healthz")
	assert.JSONEq(t, `{"status":"ok","sessions":0,"hasData":true}`, body)
}

func TestWindowEndpoint(t *testing.T) {
	srv, hub := newTestServer(t)

	resp, _ := get(t, srv.URL+"/api/window")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	points := feed(2)
	points[0].Price = math.NaN()
	hub.Publish(&model.Snapshot{
		Seq:              4,
		Points:           points,
		CurrentHourPrice: math.NaN(),
		Last24hAverage:   5,
		FetchedAt:        feedEnd,
	})

	resp, body := get(t, srv.URL+"/api/window")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		Seq              uint64            `json:"seq"`
		CurrentHourPrice *float64          `json:"currentHourPrice"`
		Last24hAverage   *float64          `json:"last24hAverage"`
		Points           []json.RawMessage `json:"points"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, uint64(4), got.Seq)
	assert.Nil(t, got.CurrentHourPrice)
	require.NotNil(t, got.Last24hAverage)
	assert.Equal(t, 5.0, *got.Last24hAverage)
	require.Len(t, got.Points, 2)
	assert.Contains(t, string(got.Points[0]), `"-"`)
}

func TestChartEndpoint(t *testing.T) {
	srv, hub := newTestServer(t)

	resp, _ := get(t, srv.URL+"/chart.svg")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	hub.Publish(&model.Snapshot{Seq: 1, Points: feed(289)})

	resp, body := get(t, srv.URL+"/chart.svg?hours=6&type=line&theme=dark")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, "<svg")

	resp, _ = get(t, srv.URL+"/chart.png")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	for _, q := range []string{"hours=0", "hours=25", "hours=x", "type=pie", "theme=sepia"} {
		resp, _ = get(t, srv.URL+"/chart.svg?"+q)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "test_gateway_active_sessions")
}
