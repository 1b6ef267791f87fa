package marketdata

import (
	"context"
	"sync"
	"time"
)

// intervalGate enforces a minimum interval between upstream requests for a
// metered free-tier provider. The gate is shared by all concurrent callers of
// one client: each caller reserves the next available slot under the mutex,
// so two callers can never both measure their delay against a stale
// last-request time and both proceed.
type intervalGate struct {
	mu          sync.Mutex
	minInterval time.Duration
	next        time.Time
	now         func() time.Time
}

func newIntervalGate(minInterval time.Duration) *intervalGate {
	return &intervalGate{minInterval: minInterval, now: time.Now}
}

// wait blocks until this caller's reserved slot arrives or ctx is done.
func (g *intervalGate) wait(ctx context.Context) error {
	g.mu.Lock()
	now := g.now()
	slot := g.next
	if slot.Before(now) {
		slot = now
	}
	g.next = slot.Add(g.minInterval)
	g.mu.Unlock()

	delay := slot.Sub(now)
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
