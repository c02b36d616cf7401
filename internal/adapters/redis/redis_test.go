package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/voltfleet/cpconsole/internal/domain/auth"
	"github.com/voltfleet/cpconsole/internal/domain/ocpp"
	"github.com/voltfleet/cpconsole/internal/ports"
	"github.com/voltfleet/cpconsole/internal/testutil"
)

func TestSessionStoreSaveAndGet(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	sess := domainauth.Session{
		ID:        "sess-1",
		UserID:    "42",
		Username:  "ops",
		Email:     "ops@example.com",
		Role:      domainauth.RoleSuperAdmin,
		Token:     "bearer-token",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Role, got.Role)
	assert.Equal(t, sess.Token, got.Token)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestSessionStoreRejectsExpiredSave(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	sess := domainauth.Session{ID: "dead", ExpiresAt: time.Now().Add(-time.Minute)}
	assert.Error(t, store.Save(context.Background(), sess))
}

func TestSessionStoreGetMissing(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStoreDelete(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	sess := domainauth.Session{ID: "sess-2", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Delete(ctx, "sess-2"))

	_, err := store.Get(ctx, "sess-2")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	assert.NoError(t, store.Delete(ctx, "missing"))
}

func TestCommandLogRoundTrip(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	log := NewCommandLog(client, 3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		entry := ocpp.HistoryEntry{
			ID:          fmt.Sprint(i),
			ChargePoint: 7,
			Action:      "Reset",
			Status:      ocpp.StatusPending,
			CreatedAt:   time.Now(),
		}
		require.NoError(t, log.Append(ctx, "u1", entry))
	}

	entries, err := log.Recent(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 3, "log must trim past its cap")
	assert.Equal(t, "5", entries[0].ID)

	updated := entries[0]
	updated.Status = ocpp.StatusError
	updated.Error = "timeout"
	require.NoError(t, log.Update(ctx, "u1", updated))

	entries, err = log.Recent(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ocpp.StatusError, entries[0].Status)
	assert.Equal(t, "timeout", entries[0].Error)
}
