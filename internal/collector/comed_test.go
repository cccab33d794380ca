package collector

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newComEdServer(t *testing.T, feed, hour string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		switch r.URL.Query().Get("type") {
		case "5minutefeed":
			w.Write([]byte(feed))
		case "currenthouraverage":
			w.Write([]byte(hour))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestComEdFetcher_FiveMinuteFeed(t *testing.T) {
	feed := `[
		{"millisUTC":"1700000600000","price":"3.4"},
		{"millisUTC":"1700000300000","price":"bogus"},
		{"millisUTC":"not-a-number","price":"2.0"},
		{"millisUTC":1700000000000,"price":-0.5}
	]`
	srv := newComEdServer(t, feed, `[]`, http.StatusOK)
	f := NewComEdFetcher(srv.URL, "", time.Second)

	pts, err := f.FetchFiveMinuteFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, pts, 3)
	assert.Equal(t, int64(1700000600000), pts[0].TimestampMillis)
	assert.Equal(t, 3.4, pts[0].Price)
	assert.True(t, math.IsNaN(pts[1].Price))
	assert.Equal(t, -0.5, pts[2].Price)
}

func TestComEdFetcher_CurrentHourAverage(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    float64
		present bool
	}{
		{"numeric", `[{"millisUTC":"1700000000000","price":4.1}]`, 4.1, true},
		{"string", `[{"price":"2.5"}]`, 2.5, true},
		{"empty", `[]`, math.NaN(), false},
		{"null", `[{"price":null}]`, math.NaN(), false},
		{"malformed", `[{"price":"x"}]`, math.NaN(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newComEdServer(t, `[]`, tt.body, http.StatusOK)
			f := NewComEdFetcher(srv.URL, "", time.Second)
			got, present, err := f.FetchCurrentHourAverage(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.present, present)
			if math.IsNaN(tt.want) {
				assert.True(t, math.IsNaN(got))
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestComEdFetcher_StatusError(t *testing.T) {
	srv := newComEdServer(t, "", "", http.StatusBadGateway)
	f := NewComEdFetcher(srv.URL, "", time.Second)
	_, err := f.FetchFiveMinuteFeed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestComEdFetcher_DecodeError(t *testing.T) {
	srv := newComEdServer(t, `{"not":"an array"}`, `[]`, http.StatusOK)
	f := NewComEdFetcher(srv.URL, "", time.Second)
	_, err := f.FetchFiveMinuteFeed(context.Background())
	require.Error(t, err)
}
