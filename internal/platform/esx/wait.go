package esx

import (
	"context"
	"fmt"
	"time"
)

// Reachability defaults. Waiting is bounded so an unbootable node fails
// the run with a timeout error instead of hanging it forever.
const (
	DefaultWaitInterval = 60 * time.Second
	DefaultWaitTimeout  = 45 * time.Minute
)

// WaitReachable polls the node at address until an authenticated session
// can be established, then returns that session. The check is an API
// handshake, not a ping; lab networks routinely filter ICMP. An immediate
// first attempt is made before any interval wait.
func WaitReachable(ctx context.Context, dial Dialer, address, username, password string, interval, timeout time.Duration) (API, error) {
	if interval <= 0 {
		interval = DefaultWaitInterval
	}
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		api, err := dial(ctx, address, username, password)
		if err == nil {
			return api, nil
		}
		lastErr = err

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("node %s not responsive after %v: %w", address, timeout, lastErr)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
