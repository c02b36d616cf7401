package gate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitReady(t *testing.T, g *Gate, within time.Duration) {
	t.Helper()
	select {
	case <-g.Ready():
	case <-time.After(within):
		t.Fatal("gate did not become ready in time")
	}
}

func TestTimerThenResolve(t *testing.T) {
	g := New(20 * time.Millisecond)
	g.Start(context.Background())

	assert.Equal(t, StateSplashing, g.State())

	// Timer fires first; without resolution the gate sits in resolving.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, StateResolving, g.State())
	assert.False(t, g.IsReady())

	g.ResolveAuth()
	waitReady(t, g, time.Second)
	assert.Equal(t, StateReady, g.State())
}

func TestResolveThenTimer(t *testing.T) {
	g := New(50 * time.Millisecond)
	g.Start(context.Background())

	// Resolution before the timer keeps the splash screen up.
	g.ResolveAuth()
	assert.Equal(t, StateSplashing, g.State())
	assert.False(t, g.IsReady())

	waitReady(t, g, time.Second)
	assert.Equal(t, StateReady, g.State())
}

func TestNoEarlyReady(t *testing.T) {
	g := New(80 * time.Millisecond)
	g.Start(context.Background())
	g.ResolveAuth()

	select {
	case <-g.Ready():
		t.Fatal("gate became ready before the splash timer elapsed")
	case <-time.After(30 * time.Millisecond):
	}
}

func TestResolveIdempotent(t *testing.T) {
	g := New(10 * time.Millisecond)
	g.Start(context.Background())

	for i := 0; i < 5; i++ {
		g.ResolveAuth()
	}
	waitReady(t, g, time.Second)

	// Further resolutions after ready must not panic or regress state.
	g.ResolveAuth()
	assert.Equal(t, StateReady, g.State())
}

func TestCancelBeforeTimer(t *testing.T) {
	g := New(50 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	g.Start(ctx)
	cancel()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, StateSplashing, g.State(), "cancelled gate must not mutate state")
	assert.False(t, g.IsReady())

	// Late resolution after teardown is ignored.
	g.ResolveAuth()
	assert.False(t, g.IsReady())
}

func TestDefaultDuration(t *testing.T) {
	g := New(0)
	require.Equal(t, DefaultSplashDuration, g.splash)
}
