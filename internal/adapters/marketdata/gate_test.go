package marketdata

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalGate_FirstCallerPassesImmediately(t *testing.T) {
	gate := newIntervalGate(100 * time.Millisecond)

	start := time.Now()
	require.NoError(t, gate.wait(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestIntervalGate_SecondCallerWaitsOutTheInterval(t *testing.T) {
	interval := 60 * time.Millisecond
	gate := newIntervalGate(interval)

	require.NoError(t, gate.wait(context.Background()))

	start := time.Now()
	require.NoError(t, gate.wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), interval)
}

func TestIntervalGate_ConcurrentCallersAreSerialized(t *testing.T) {
	interval := 40 * time.Millisecond
	gate := newIntervalGate(interval)

	var mu sync.Mutex
	var passed []time.Time

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, gate.wait(context.Background()))
			mu.Lock()
			passed = append(passed, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, passed, 3)
	// Three callers, two intervals between the first and last slot.
	first, last := passed[0], passed[0]
	for _, ts := range passed[1:] {
		if ts.Before(first) {
			first = ts
		}
		if ts.After(last) {
			last = ts
		}
	}
	assert.GreaterOrEqual(t, last.Sub(first), 2*interval-10*time.Millisecond)
}

func TestIntervalGate_ContextCancellationUnblocks(t *testing.T) {
	gate := newIntervalGate(10 * time.Second)
	require.NoError(t, gate.wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := gate.wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
