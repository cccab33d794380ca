package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"priceboard/internal/model"
)

type harness struct {
	d        *Dashboard
	r        *fakeRenderer
	tokens   *mapTokens
	current  *fakeCard
	selected *fakeCard
	last24   *fakeCard
}

func newHarness() *harness {
	h := &harness{
		r:        newFakeRenderer(),
		tokens:   &mapTokens{values: map[string]string{}},
		current:  &fakeCard{},
		selected: &fakeCard{},
		last24:   &fakeCard{},
	}
	h.d = NewDashboard(Config{
		Renderer:     h.r,
		Tokens:       h.tokens,
		Cards:        Cards{CurrentHour: h.current, SelectedRange: h.selected, Last24Hours: h.last24},
		Location:     time.UTC,
		DefaultHours: 3,
		Size:         SizeContext{BaseFontSize: 16},
	})
	h.d.Start()
	return h
}

// dayFeed is 24 hours of 5-minute samples ending at end.
func dayFeed(end time.Time, price float64) []model.PricePoint {
	const n = 24 * 12
	pts := make([]model.PricePoint, n)
	for i := range pts {
		pts[i] = model.PricePoint{
			TimestampMillis: end.Add(-time.Duration(n-1-i) * 5 * time.Minute).UnixMilli(),
			Price:           price,
		}
	}
	return pts
}

var feedEnd = time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)

func snapshot(seq uint64, pts []model.PricePoint) *model.Snapshot {
	return &model.Snapshot{Seq: seq, Points: pts, CurrentHourPrice: 4, Last24hAverage: 6}
}

func TestDashboard_StartRendersFullOptions(t *testing.T) {
	h := newHarness()
	require.Len(t, h.r.options, 1)
	assert.False(t, h.r.nonMerging[0])
	assert.NotNil(t, h.r.options[0].Title)
	assert.NotNil(t, h.r.callback)
}

func TestDashboard_FirstLoadAppliesDefaultOnce(t *testing.T) {
	h := newHarness()

	require.True(t, h.d.ApplySnapshot(snapshot(1, dayFeed(feedEnd, 5))))
	assert.Equal(t, 3.0, h.d.ZoomState().RequestedHours)

	require.True(t, h.d.SetWindow(12))
	require.True(t, h.d.ApplySnapshot(snapshot(2, dayFeed(feedEnd.Add(5*time.Minute), 5))))
	assert.Equal(t, 12.0, h.d.ZoomState().RequestedHours)
	assert.Len(t, h.r.zooms, 2)
}

func TestDashboard_EmptyFirstLoadDefersDefault(t *testing.T) {
	h := newHarness()
	require.True(t, h.d.ApplySnapshot(snapshot(1, nil)))
	assert.Zero(t, h.d.ZoomState().RequestedHours)
	assert.Zero(t, h.selected.mutations())

	require.True(t, h.d.ApplySnapshot(snapshot(2, dayFeed(feedEnd, 5))))
	assert.Equal(t, 3.0, h.d.ZoomState().RequestedHours)
}

func TestDashboard_SnapshotOrdering(t *testing.T) {
	h := newHarness()
	require.True(t, h.d.ApplySnapshot(snapshot(5, dayFeed(feedEnd, 5))))

	assert.False(t, h.d.ApplySnapshot(snapshot(4, dayFeed(feedEnd, 99))), "older response is discarded")
	assert.False(t, h.d.ApplySnapshot(snapshot(5, dayFeed(feedEnd, 99))), "duplicate is discarded")
	assert.Equal(t, uint64(5), h.d.LastSeq())
	assert.Equal(t, 5.0, h.selected.lastPrice())
}

func TestDashboard_SnapshotUpdatesCards(t *testing.T) {
	h := newHarness()
	h.d.ApplySnapshot(snapshot(1, dayFeed(feedEnd, 5)))

	assert.Equal(t, 4.0, h.current.lastPrice())
	assert.Equal(t, 6.0, h.last24.lastPrice())
	assert.Equal(t, 5.0, h.selected.lastPrice())
	assert.Equal(t, "15:00-18:00", h.selected.lastTitle())
	assert.Positive(t, h.r.resizes)
}

func TestDashboard_SnapshotRefreshesAggregateAgainstShiftedWindow(t *testing.T) {
	h := newHarness()
	h.d.ApplySnapshot(snapshot(1, dayFeed(feedEnd, 5)))
	h.d.ApplySnapshot(snapshot(2, dayFeed(feedEnd.Add(time.Hour), 9)))

	assert.Equal(t, 9.0, h.selected.lastPrice())
	assert.Equal(t, "16:00-19:00", h.selected.lastTitle())
}

func TestDashboard_VisibleRangeCallback(t *testing.T) {
	h := newHarness()
	pts := dayFeed(feedEnd, 5)
	pts[len(pts)-1].Price = 17
	h.d.ApplySnapshot(snapshot(1, pts))

	last := pts[len(pts)-1].TimestampMillis
	h.r.pin(last, last)
	h.r.callback()
	assert.Equal(t, 17.0, h.selected.lastPrice())
	assert.Equal(t, "Mar 7 18:00", h.selected.lastTitle())
}

func TestDashboard_SeriesTypeSwitchPatchesSeriesOnly(t *testing.T) {
	h := newHarness()
	h.d.ApplySnapshot(snapshot(1, dayFeed(feedEnd, 5)))
	zoomBefore := h.d.ZoomState()
	zoomsBefore := len(h.r.zooms)

	assert.False(t, h.d.SetSeriesType(model.SeriesBars), "unchanged type is a no-op")
	n := len(h.r.options)
	require.True(t, h.d.SetSeriesType(model.SeriesAreaLine))
	require.Len(t, h.r.options, n+1)

	patch := h.r.lastOptions()
	assert.False(t, h.r.nonMerging[n])
	assert.Nil(t, patch.Title)
	assert.Nil(t, patch.XAxis)
	require.Len(t, patch.Series, 1)
	assert.Equal(t, "line", patch.Series[0].Type)
	assert.Len(t, patch.Series[0].Data, 288)
	assert.Equal(t, zoomBefore, h.d.ZoomState())
	assert.Len(t, h.r.zooms, zoomsBefore)
	assert.Equal(t, model.SeriesAreaLine, h.d.SeriesType())
}

func TestDashboard_RefreshThemeKeepsWindow(t *testing.T) {
	h := newHarness()
	h.d.ApplySnapshot(snapshot(1, dayFeed(feedEnd, 5)))
	require.True(t, h.d.SetWindow(6))
	h.d.SetSeriesType(model.SeriesAreaLine)
	before := h.d.ZoomState()

	h.tokens.values[TokenTextColor] = "#abcdef"
	h.d.RefreshTheme()

	last := len(h.r.options) - 1
	assert.True(t, h.r.nonMerging[last])
	assert.Equal(t, "#abcdef", h.r.options[last].Title.TextStyle.Color)
	assert.Equal(t, "line", h.r.options[last].Series[0].Type)

	assert.Equal(t, before, h.d.ZoomState())
	assert.Equal(t, [2]float64{before.StartPercent, 100}, h.r.zooms[len(h.r.zooms)-1])
	assert.Equal(t, [2]float64{h.r.start, h.r.end}, [2]float64{75, 100}, "renderer window matches the requested 6 hours")

	assert.Equal(t, 1, h.current.refreshes)
	assert.Equal(t, 1, h.selected.refreshes)
	assert.Equal(t, 1, h.last24.refreshes)
}

func TestDashboard_BaseFontSize(t *testing.T) {
	h := newHarness()
	n := len(h.r.options)

	h.d.SetBaseFontSize(16)
	assert.Len(t, h.r.options, n, "unchanged size only resizes")

	h.d.SetBaseFontSize(20)
	require.Len(t, h.r.options, n+1)
	assert.True(t, h.r.nonMerging[n])
	assert.InDelta(t, 28.0, h.r.lastOptions().Title.TextStyle.FontSize, 1e-9)
}

func TestDashboard_TokensReadFreshEveryRender(t *testing.T) {
	h := newHarness()
	before := h.tokens.lookups
	h.d.RefreshTheme()
	h.d.RefreshTheme()
	assert.Equal(t, before+16, h.tokens.lookups)
}
