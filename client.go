package hrpauth

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hrpnet/hrpauth/captcha"
	"github.com/hrpnet/hrpauth/session"
)

// Client talks to the HRPAuth backend. Build one through [Builder] and
// share it; all methods are safe for concurrent use.
type Client struct {
	config   Config
	baseURL  string
	http     *http.Client
	sessions *session.Store
	events   *eventDispatcher
	metrics  *Metrics
	now      func() time.Time

	loginGate    submitGate
	registerGate submitGate
	sendGate     submitGate
	confirmGate  submitGate

	resendMu    sync.Mutex
	resendUntil time.Time
}

// Sessions exposes the typed session accessor backing this client.
func (c *Client) Sessions() *session.Store {
	if c == nil {
		return nil
	}
	return c.sessions
}

// Watcher returns an auth-state watcher over this client's session store,
// polling at the configured interval.
func (c *Client) Watcher() *session.Watcher {
	return session.NewWatcher(c.sessions, c.config.Watcher.PollInterval)
}

// NewChallenge creates a captcha challenge sized by the client
// configuration. The challenge belongs to one registration form.
func (c *Client) NewChallenge() (*captcha.Challenge, error) {
	return captcha.New(captcha.Config{
		Length:  c.config.Captcha.Length,
		Width:   c.config.Captcha.Width,
		Height:  c.config.Captcha.Height,
		Strokes: c.config.Captcha.Strokes,
	})
}

// Logout clears the persisted session. Clearing an absent session is not
// an error.
func (c *Client) Logout(ctx context.Context) error {
	if c == nil {
		return ErrClientNotReady
	}
	err := c.sessions.ClearSession(ctx)
	c.emit(flowLogout, err == nil, err, nil)
	return err
}

// MetricsSnapshot copies the client counters.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return c.metrics.Snapshot()
}

// EventsDropped reports events dropped under dispatcher backpressure.
func (c *Client) EventsDropped() uint64 {
	if c == nil {
		return 0
	}
	return c.events.Dropped()
}

// Close drains and stops the event dispatcher. The client must not be used
// afterwards.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.events != nil {
		c.events.Close()
	}
}

func (c *Client) metricInc(id MetricID) {
	if c == nil {
		return
	}
	c.metrics.Inc(id)
}

// submitGate is the per-flow mutual exclusion for submissions: the SDK
// analogue of a disabled submit control.
type submitGate struct {
	busy atomic.Bool
}

func (g *submitGate) begin() bool {
	return g.busy.CompareAndSwap(false, true)
}

func (g *submitGate) end() {
	g.busy.Store(false)
}
