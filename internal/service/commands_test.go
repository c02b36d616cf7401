package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltfleet/cpconsole/internal/adapters/memory"
	"github.com/voltfleet/cpconsole/internal/domain/ocpp"
)

func TestDispatchSuccess(t *testing.T) {
	backend := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/charge-points/7/command/", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req struct {
			Action string         `json:"action"`
			Params map[string]any `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Reset", req.Action)
		assert.Equal(t, "Soft", req.Params["type"])

		json.NewEncoder(w).Encode(map[string]string{"detail": "accepted"})
	}))

	log := memory.NewCommandLog(10)
	svc := NewCommandService(CommandServiceOptions{Backend: backend, Log: log})

	res, err := svc.Dispatch(context.Background(), "tok", "u1", 7, "Reset", map[string]any{"type": "Soft"})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "Reset command sent successfully: accepted", res.Message)

	entries, err := svc.History(context.Background(), "u1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ocpp.StatusSuccess, entries[0].Status)
	assert.Equal(t, "accepted", entries[0].Response)
}

func TestDispatchDefaultsQueuedMessage(t *testing.T) {
	backend := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	svc := NewCommandService(CommandServiceOptions{Backend: backend, Log: memory.NewCommandLog(10)})
	res, err := svc.Dispatch(context.Background(), "tok", "u1", 3, "GetLocalListVersion", nil)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "GetLocalListVersion command sent successfully: queued", res.Message)
}

func TestDispatchBackendFailureMarksEntry(t *testing.T) {
	backend := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"detail":"charge point offline"}`))
	}))

	log := memory.NewCommandLog(10)
	svc := NewCommandService(CommandServiceOptions{Backend: backend, Log: log})

	res, err := svc.Dispatch(context.Background(), "tok", "u1", 7, "Reset", nil)
	require.NoError(t, err, "a failed dispatch is an outcome, not a service error")
	assert.False(t, res.OK)
	assert.Equal(t, "Error: charge point offline", res.Message)

	entries, err := svc.History(context.Background(), "u1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ocpp.StatusError, entries[0].Status)
	assert.Equal(t, "charge point offline", entries[0].Error)
}

func TestDispatchRejectsUnknownAction(t *testing.T) {
	svc := NewCommandService(CommandServiceOptions{Log: memory.NewCommandLog(10)})
	_, err := svc.Dispatch(context.Background(), "tok", "u1", 7, "Detonate", nil)
	require.Error(t, err)

	entries, _ := svc.History(context.Background(), "u1", 10)
	assert.Empty(t, entries, "rejected actions must not pollute the history")
}
