package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ph-robles/site-radar/internal/models"
)

var (
	origin = models.Coordinate{Lat: -22.9, Lon: -43.2}
	dests  = []models.Coordinate{
		{Lat: -22.91, Lon: -43.21},
		{Lat: -22.92, Lon: -43.22},
	}
)

func TestTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// lon,lat pairs with the origin first.
		assert.True(t, strings.HasPrefix(r.URL.Path, "/table/v1/driving/-43.2,-22.9;"), r.URL.Path)
		assert.Equal(t, "duration,distance", r.URL.Query().Get("annotations"))
		w.Write([]byte(`{"durations":[[0,600,1230]],"distances":[[0,4321,10987]]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	legs := c.Table(context.Background(), origin, dests)
	require.Len(t, legs, 2)
	assert.Equal(t, models.RouteLeg{DistanceKm: 4.32, DurationMin: 10}, legs[0])
	assert.Equal(t, models.RouteLeg{DistanceKm: 10.99, DurationMin: 21}, legs[1])
}

func TestTableServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	assert.Nil(t, c.Table(context.Background(), origin, dests))
}

func TestTableMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"durations": "oops"`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	assert.Nil(t, c.Table(context.Background(), origin, dests))
}

func TestTableLengthMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only one destination answered for two requested.
		w.Write([]byte(`{"durations":[[0,600]],"distances":[[0,4321]]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	assert.Nil(t, c.Table(context.Background(), origin, dests))
}

func TestTableMemoizesSuccess(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"durations":[[0,60,120]],"distances":[[0,1000,2000]]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0)
	first := c.Table(context.Background(), origin, dests)
	second := c.Table(context.Background(), origin, dests)
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestTableNoDestinations(t *testing.T) {
	c := New("http://127.0.0.1:0", 0)
	assert.Nil(t, c.Table(context.Background(), origin, nil))
}
