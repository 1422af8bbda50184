package hrpauth

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/hrpnet/hrpauth/session"
)

// Config is the full client configuration. Construct it once at startup
// (defaults via [New], overrides via [Builder.WithConfig]) and treat it as
// immutable afterwards; Build resolves the backend base URL exactly once.
type Config struct {
	Backend      BackendConfig
	Session      SessionConfig
	Captcha      CaptchaConfig
	Verification VerificationConfig
	Watcher      WatcherConfig
	Events       EventsConfig
	Metrics      MetricsConfig
}

/*
====================================
BACKEND CONFIG
====================================
*/

// BackendConfig locates the identity endpoint.
type BackendConfig struct {
	// BaseURL is the backend origin, e.g. "https://auth.example.com".
	// A trailing slash is stripped at Build.
	BaseURL string
	// LoginTimeout bounds the login exchange client-side. The request is
	// aborted when it elapses and the failure is reported as a timeout,
	// distinct from a generic network failure.
	LoginTimeout time.Duration
	UserAgent    string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig shapes the persisted session records. The secure flag is
// not configured here: it is derived at Build from the backend scheme.
type SessionConfig struct {
	EmailRecord string
	TokenRecord string
	TTL         time.Duration
	Domain      string
	Path        string
	SameSite    session.SameSite
}

/*
====================================
CAPTCHA CONFIG
====================================
*/

// CaptchaConfig sizes challenges created by Client.NewChallenge.
type CaptchaConfig struct {
	Length  int
	Width   int
	Height  int
	Strokes int
}

/*
====================================
VERIFICATION CONFIG
====================================
*/

// VerificationConfig tunes the email-verification flow.
type VerificationConfig struct {
	// ResendCooldown gates repeated send-code requests after a successful
	// send.
	ResendCooldown time.Duration
}

/*
====================================
WATCHER / EVENTS / METRICS
====================================
*/

// WatcherConfig tunes the auth-state watcher.
type WatcherConfig struct {
	PollInterval time.Duration
}

// EventsConfig tunes the async event dispatcher.
type EventsConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events under backpressure instead of blocking the
	// flow that emitted them.
	DropIfFull bool
}

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the configuration a bare [New] starts from:
// 15s login timeout, 60s resend cooldown, 1s watcher poll, ten-year
// session TTL.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			LoginTimeout: 15 * time.Second,
			UserAgent:    "hrpauth-client/1",
		},
		Session: SessionConfig{
			TTL:      10 * 365 * 24 * time.Hour,
			Path:     "/",
			SameSite: session.SameSiteLax,
		},
		Captcha: CaptchaConfig{
			Length:  4,
			Width:   120,
			Height:  40,
			Strokes: 3,
		},
		Verification: VerificationConfig{
			ResendCooldown: 60 * time.Second,
		},
		Watcher: WatcherConfig{
			PollInterval: time.Second,
		},
		Events: EventsConfig{
			Enabled:    true,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func validateConfig(cfg Config) error {
	var errs []error

	if cfg.Backend.BaseURL == "" {
		errs = append(errs, errors.New("backend base URL required"))
	} else {
		u, err := url.Parse(cfg.Backend.BaseURL)
		if err != nil {
			errs = append(errs, fmt.Errorf("backend base URL invalid: %v", err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs = append(errs, fmt.Errorf("backend base URL scheme %q unsupported", u.Scheme))
		} else if u.Host == "" {
			errs = append(errs, errors.New("backend base URL has no host"))
		}
	}
	if cfg.Backend.LoginTimeout <= 0 {
		errs = append(errs, errors.New("login timeout must be positive"))
	}
	if cfg.Session.TTL <= 0 {
		errs = append(errs, errors.New("session TTL must be positive"))
	}
	if cfg.Verification.ResendCooldown < 0 {
		errs = append(errs, errors.New("resend cooldown must not be negative"))
	}
	if cfg.Watcher.PollInterval <= 0 {
		errs = append(errs, errors.New("watcher poll interval must be positive"))
	}
	if cfg.Events.Enabled && cfg.Events.BufferSize <= 0 {
		errs = append(errs, errors.New("event buffer size must be positive"))
	}
	if cfg.Captcha.Length <= 0 || cfg.Captcha.Width <= 0 || cfg.Captcha.Height <= 0 {
		errs = append(errs, errors.New("captcha dimensions must be positive"))
	}

	return errors.Join(errs...)
}
