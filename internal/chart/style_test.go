package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleResolver_ApplyFullRefreshReissuesWindow(t *testing.T) {
	r := newFakeRenderer()
	store := &SeriesStore{}
	store.Replace(threeSamples())
	zoom := NewZoomController(r, 3)
	types := NewSeriesTypeSwitch(r, store)
	s := NewStyleResolver(&mapTokens{}, r, store, types, zoom)

	require.True(t, zoom.SetWindow(8))
	s.ApplyFullRefresh(SizeContext{BaseFontSize: 16})

	require.Len(t, r.options, 1)
	assert.True(t, r.nonMerging[0])
	require.Len(t, r.zooms, 2)
	assert.Equal(t, r.zooms[0], r.zooms[1])
	assert.InDelta(t, 100*(1-8.0/24), r.start, 1e-9)
	assert.Equal(t, 8.0, zoom.State().RequestedHours)
}

func TestStyleResolver_NoWindowRequested(t *testing.T) {
	r := newFakeRenderer()
	store := &SeriesStore{}
	zoom := NewZoomController(r, 3)
	s := NewStyleResolver(nil, r, store, NewSeriesTypeSwitch(r, store), zoom)

	s.ApplyFullRefresh(SizeContext{})
	assert.Empty(t, r.zooms)
	assert.Equal(t, 0.0, r.start)
}

func TestSeriesStore_ReplaceIsWholesale(t *testing.T) {
	s := &SeriesStore{}
	in := threeSamples()
	s.Replace(in)
	in[0].Price = 42
	assert.Equal(t, 5.0, s.All()[0].Price)

	s.Replace(nil)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.All())
}
