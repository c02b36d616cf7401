package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverviewFetchAggregates(t *testing.T) {
	backend := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/charge-points/":
			w.Write([]byte(`[{"id":1,"status":"Available"},{"id":2,"status":"Charging"}]`))
		case "/api/sessions/":
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			w.Write([]byte(`{"count":1,"results":[{"id":11,"charge_point":1}]}`))
		case "/api/admin/charge-points/stats/":
			w.Write([]byte(`{"totals":{"available":1,"charging":1}}`))
		case "/api/sessions/revenue/":
			w.Write([]byte(`{"lifetime":1234.5,"month":99.5,"month_label":"August 2026"}`))
		default:
			t.Fatalf("unexpected call to %s", r.URL.Path)
		}
	}))

	svc := NewOverviewService(OverviewServiceOptions{Backend: backend})

	data, err := svc.Fetch(context.Background(), "tok")
	require.NoError(t, err)
	assert.Len(t, data.ChargePoints, 2)
	require.Len(t, data.Sessions, 1)
	assert.Equal(t, 11, data.Sessions[0].ID)
	assert.Equal(t, 1, data.Stats.Totals.Available)
	assert.Equal(t, 1234.5, data.Revenue.Lifetime)
	assert.False(t, data.FetchedAt.IsZero())

	snap, ok := svc.Snapshot()
	require.True(t, ok)
	assert.Equal(t, data.Revenue, snap.Revenue)
}

func TestOverviewFetchFailurePropagates(t *testing.T) {
	backend := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/sessions/revenue/" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("revenue unavailable"))
			return
		}
		w.Write([]byte(`[]`))
	}))

	svc := NewOverviewService(OverviewServiceOptions{Backend: backend})

	_, err := svc.Fetch(context.Background(), "tok")
	require.Error(t, err)

	_, ok := svc.Snapshot()
	assert.False(t, ok, "a failed fetch must not produce a snapshot")
}
