package session

import (
	"context"
	"errors"
	"time"
)

const (
	defaultEmailRecord = "user_email"
	defaultTokenRecord = "auth_token"
	defaultTTL         = 10 * 365 * 24 * time.Hour
	defaultPath        = "/"
)

// Session is the durable authenticated identity. Both fields are present or
// the session does not exist; a partial pair reads as "not logged in".
type Session struct {
	Email string
	Token string
}

// Options configures the attributes stamped on session records.
type Options struct {
	// EmailRecord and TokenRecord name the two durable entries. Empty values
	// fall back to the backend contract names user_email and auth_token.
	EmailRecord string
	TokenRecord string

	// TTL is the record lifetime. Zero falls back to ten years.
	TTL time.Duration

	Domain   string
	Path     string
	SameSite SameSite

	// Secure marks records as transport-protected. Callers derive it from
	// whether the backend endpoint is reached over encrypted transport.
	Secure bool
}

// Store is the typed accessor over a Backend for the session pair.
type Store struct {
	backend Backend
	opts    Options
	now     func() time.Time
}

// NewStore wraps backend with the given options.
func NewStore(backend Backend, opts Options) *Store {
	if opts.EmailRecord == "" {
		opts.EmailRecord = defaultEmailRecord
	}
	if opts.TokenRecord == "" {
		opts.TokenRecord = defaultTokenRecord
	}
	if opts.TTL == 0 {
		opts.TTL = defaultTTL
	}
	if opts.Path == "" {
		opts.Path = defaultPath
	}
	if opts.SameSite == "" {
		opts.SameSite = SameSiteLax
	}
	return &Store{backend: backend, opts: opts, now: time.Now}
}

func (s *Store) record(name, value string) Record {
	return Record{
		Name:     name,
		Value:    value,
		Expires:  s.now().Add(s.opts.TTL),
		Domain:   s.opts.Domain,
		Path:     s.opts.Path,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	}
}

// SetSession writes the email and token records. Backends implementing
// PairWriter get both in one transactional step; otherwise the two writes
// happen in immediate succession and a reader between them sees a partial
// pair, which Current treats as "not logged in".
func (s *Store) SetSession(ctx context.Context, email, token string) error {
	emailRec := s.record(s.opts.EmailRecord, email)
	tokenRec := s.record(s.opts.TokenRecord, token)

	if pw, ok := s.backend.(PairWriter); ok {
		return pw.PutPair(ctx, emailRec, tokenRec)
	}
	if err := s.backend.Put(ctx, emailRec); err != nil {
		return err
	}
	return s.backend.Put(ctx, tokenRec)
}

// ClearSession deletes both records unconditionally. A missing record is
// not an error.
func (s *Store) ClearSession(ctx context.Context) error {
	err := s.backend.Delete(ctx, s.opts.EmailRecord)
	if derr := s.backend.Delete(ctx, s.opts.TokenRecord); derr != nil && err == nil {
		err = derr
	}
	return err
}

// Email returns the stored identity email, or "" with ErrNotFound.
func (s *Store) Email(ctx context.Context) (string, error) {
	rec, err := s.backend.Get(ctx, s.opts.EmailRecord)
	if err != nil {
		return "", err
	}
	return rec.Value, nil
}

// Token returns the stored auth token, or "" with ErrNotFound.
func (s *Store) Token(ctx context.Context) (string, error) {
	rec, err := s.backend.Get(ctx, s.opts.TokenRecord)
	if err != nil {
		return "", err
	}
	return rec.Value, nil
}

// Current returns the session when both fields are present. A partial pair
// or any backend failure reads as "not logged in".
func (s *Store) Current(ctx context.Context) (Session, bool) {
	email, err := s.Email(ctx)
	if err != nil || email == "" {
		return Session{}, false
	}
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return Session{}, false
	}
	return Session{Email: email, Token: token}, true
}

// LoggedIn reports whether a token is currently stored.
func (s *Store) LoggedIn(ctx context.Context) bool {
	_, err := s.Token(ctx)
	return err == nil
}

// IsNotFound reports whether err means the record was absent rather than
// the backend failing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
