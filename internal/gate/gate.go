// Package gate implements the startup gate that holds the UI on the
// splash screen until both the minimum splash duration has elapsed and
// the backend bootstrap probe has resolved. The two conditions complete
// in either order; the gate converges to ready exactly once.
package gate

import (
	"context"
	"sync"
	"time"
)

// State is the gate's lifecycle phase.
type State int

const (
	// StateSplashing is the initial phase, before the splash timer fires.
	StateSplashing State = iota
	// StateResolving means the timer fired but the bootstrap probe has
	// not resolved yet.
	StateResolving
	// StateReady means both conditions completed.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateSplashing:
		return "splashing"
	case StateResolving:
		return "resolving"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// DefaultSplashDuration matches the splash screen's minimum display time.
const DefaultSplashDuration = 2500 * time.Millisecond

// Gate tracks the two startup conditions. The zero value is not usable;
// construct with New and call Start once.
type Gate struct {
	splash time.Duration

	mu       sync.Mutex
	state    State
	timerHit bool
	resolved bool
	stopped  bool
	ready    chan struct{}
}

// New creates a gate with the given minimum splash duration; zero or
// negative means the default.
func New(splash time.Duration) *Gate {
	if splash <= 0 {
		splash = DefaultSplashDuration
	}
	return &Gate{
		splash: splash,
		ready:  make(chan struct{}),
	}
}

// Start arms the splash timer. Cancelling ctx before the timer fires
// stops it; the gate then never mutates state again.
func (g *Gate) Start(ctx context.Context) {
	timer := time.NewTimer(g.splash)
	go func() {
		defer timer.Stop()
		select {
		case <-timer.C:
			g.timerElapsed()
		case <-ctx.Done():
			g.mu.Lock()
			g.stopped = true
			g.mu.Unlock()
		}
	}()
}

// ResolveAuth marks the bootstrap probe as settled. Resolving is
// idempotent and valid in any phase; it does not by itself leave the
// splash screen.
func (g *Gate) ResolveAuth() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stopped || g.resolved {
		return
	}
	g.resolved = true
	g.converge()
}

func (g *Gate) timerElapsed() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stopped || g.timerHit {
		return
	}
	g.timerHit = true
	if g.state == StateSplashing && !g.resolved {
		g.state = StateResolving
	}
	g.converge()
}

// converge moves to ready when both conditions hold. Caller holds mu.
func (g *Gate) converge() {
	if g.state == StateReady {
		return
	}
	if g.timerHit && g.resolved {
		g.state = StateReady
		close(g.ready)
	}
}

// State reports the current phase.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Ready returns a channel closed when the gate reaches StateReady.
func (g *Gate) Ready() <-chan struct{} {
	return g.ready
}

// IsReady reports whether the gate has converged.
func (g *Gate) IsReady() bool {
	select {
	case <-g.ready:
		return true
	default:
		return false
	}
}
