package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"priceboard/internal/model"
)

// ComEdFetcher implements Fetcher against the ComEd hourly pricing API.
type ComEdFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewComEdFetcher creates a fetcher for baseURL, optionally through an HTTP proxy.
func NewComEdFetcher(baseURL, proxyURL string, timeout time.Duration) *ComEdFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ComEdFetcher{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		BaseURL: baseURL,
	}
}

func (f *ComEdFetcher) Name() string { return "comed" }

// feedEntry fields are parsed one by one.
type feedEntry map[string]json.RawMessage

func (f *ComEdFetcher) fetch(ctx context.Context, feedType string) ([]feedEntry, error) {
	u, err := url.Parse(f.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("comed base url: %w", err)
	}
	q := u.Query()
	q.Set("type", feedType)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("comed fetch %s: %w", feedType, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("comed read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("comed %s: status %d, body: %s", feedType, resp.StatusCode, string(body))
	}

	var entries []feedEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("comed decode %s: %w", feedType, err)
	}
	return entries, nil
}

// FetchFiveMinuteFeed returns samples in the order the API delivers them.
// Entries without a usable timestamp are dropped; unusable prices become NaN.
func (f *ComEdFetcher) FetchFiveMinuteFeed(ctx context.Context) ([]model.PricePoint, error) {
	entries, err := f.fetch(ctx, "5minutefeed")
	if err != nil {
		return nil, err
	}
	points := make([]model.PricePoint, 0, len(entries))
	for _, e := range entries {
		ms, ok := parseMillis(e["millisUTC"])
		if !ok {
			continue
		}
		points = append(points, model.PricePoint{
			TimestampMillis: ms,
			Price:           parsePrice(e["price"]),
		})
	}
	return points, nil
}

func (f *ComEdFetcher) FetchCurrentHourAverage(ctx context.Context) (float64, bool, error) {
	entries, err := f.fetch(ctx, "currenthouraverage")
	if err != nil {
		return math.NaN(), false, err
	}
	if len(entries) == 0 {
		return math.NaN(), false, nil
	}
	raw, ok := entries[0]["price"]
	if !ok || isNull(raw) {
		return math.NaN(), false, nil
	}
	return parsePrice(raw), true, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

// unquote accepts both `"12.3"` and `12.3`.
func unquote(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

func parsePrice(raw json.RawMessage) float64 {
	s, ok := unquote(raw)
	if !ok {
		return math.NaN()
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return math.NaN()
	}
	v, _ := d.Float64()
	return v
}

func parseMillis(raw json.RawMessage) (int64, bool) {
	s, ok := unquote(raw)
	if !ok {
		return 0, false
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}
