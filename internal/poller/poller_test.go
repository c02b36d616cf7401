package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerRequiresTick(t *testing.T) {
	_, err := NewRunner(Options{})
	require.Error(t, err)
}

func TestRunnerTicksAndStops(t *testing.T) {
	var ticks atomic.Int64
	r, err := NewRunner(Options{
		Name:     "test",
		Interval: 10 * time.Millisecond,
		Tick: func(ctx context.Context) error {
			ticks.Add(1)
			return nil
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is a clean stop")
	case <-time.After(time.Second):
		t.Fatal("runner did not stop on cancel")
	}
}

func TestRunnerSurvivesTickErrors(t *testing.T) {
	var ticks atomic.Int64
	r, err := NewRunner(Options{
		Interval: 10 * time.Millisecond,
		Tick: func(ctx context.Context) error {
			ticks.Add(1)
			return errors.New("backend down")
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, 5*time.Millisecond,
		"tick errors must not stop the loop")
}
