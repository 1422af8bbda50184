package session

import (
	"context"
	"time"
)

const defaultPollInterval = time.Second

// Watcher derives a boolean "logged in" signal by sampling the store on a
// fixed period. Session mutation can originate anywhere (another flow,
// another process sharing the backend), so polling keeps observers honest
// without a cross-component event bus. Staleness of up to one interval is
// part of the contract.
type Watcher struct {
	store    *Store
	interval time.Duration
}

// NewWatcher returns a watcher polling store every interval. A non-positive
// interval falls back to one second.
func NewWatcher(store *Store, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Watcher{store: store, interval: interval}
}

// Watch starts sampling and returns a channel carrying the current state
// followed by every transition. Sampling stops and the channel closes when
// ctx is done. The channel is unbuffered on transitions only, so a slow
// receiver delays sampling rather than dropping a transition.
func (w *Watcher) Watch(ctx context.Context) <-chan bool {
	ch := make(chan bool, 1)

	go func() {
		defer close(ch)

		last := w.store.LoggedIn(ctx)
		select {
		case ch <- last:
		case <-ctx.Done():
			return
		}

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cur := w.store.LoggedIn(ctx)
				if cur == last {
					continue
				}
				last = cur
				select {
				case ch <- cur:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch
}
