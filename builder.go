package hrpauth

import (
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/hrpnet/hrpauth/session"
)

// Builder assembles a Client. Construction is allocation-only; no request
// is issued until a flow method runs.
type Builder struct {
	config     Config
	backend    session.Backend
	httpClient *http.Client
	sink       EventSink

	built bool
}

// New returns a Builder carrying the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBaseURL sets the backend origin without touching the rest of the
// configuration.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.Backend.BaseURL = baseURL
	return b
}

// WithSessionBackend sets the durable store behind the session accessor.
// Defaults to an in-memory backend, which does not survive the process.
func (b *Builder) WithSessionBackend(backend session.Backend) *Builder {
	b.backend = backend
	return b
}

// WithHTTPClient replaces the transport. The supplied client's cookie jar,
// if any, is kept; without one a fresh jar is attached so server-set
// cookies accompany every exchange.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithEventSink sets the sink receiving flow events.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.sink = sink
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, resolves the backend base URL once,
// and returns the Client. A Builder builds at most one Client.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(b.config.Backend.BaseURL, "/")
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	secure := parsed.Scheme == "https"

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		httpClient.Jar = jar
	}

	backend := b.backend
	if backend == nil {
		backend = session.NewMemoryBackend()
	}

	sessions := session.NewStore(backend, session.Options{
		EmailRecord: b.config.Session.EmailRecord,
		TokenRecord: b.config.Session.TokenRecord,
		TTL:         b.config.Session.TTL,
		Domain:      b.config.Session.Domain,
		Path:        b.config.Session.Path,
		SameSite:    b.config.Session.SameSite,
		Secure:      secure,
	})

	b.built = true

	return &Client{
		config:   b.config,
		baseURL:  baseURL,
		http:     httpClient,
		sessions: sessions,
		events:   newEventDispatcher(b.config.Events, b.sink),
		metrics:  newMetrics(b.config.Metrics),
		now:      time.Now,
	}, nil
}
