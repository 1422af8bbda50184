package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by backends when a record is absent or expired.
var ErrNotFound = errors.New("session record not found")

// SameSite mirrors the cookie same-site policy carried on stored records.
type SameSite string

const (
	// SameSiteLax is the default policy for session records.
	SameSiteLax SameSite = "lax"
	// SameSiteStrict restricts records to same-site navigation.
	SameSiteStrict SameSite = "strict"
	// SameSiteNone disables same-site restrictions.
	SameSiteNone SameSite = "none"
)

// Record is one durable key/value entry with cookie-shaped attributes.
// A zero Expires means the record does not expire.
type Record struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Expires  time.Time `json:"expires,omitzero"`
	Domain   string    `json:"domain,omitempty"`
	Path     string    `json:"path,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	SameSite SameSite  `json:"same_site,omitempty"`
}

func (r Record) expired(now time.Time) bool {
	return !r.Expires.IsZero() && !now.Before(r.Expires)
}

// Backend is the persistence contract for session records.
//
// Get must return ErrNotFound for absent and for expired records. Delete is
// idempotent; deleting a missing record is not an error.
type Backend interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, name string) (Record, error)
	Delete(ctx context.Context, name string) error
}

// PairWriter is implemented by backends that can write two records in a
// single transactional step. Store.SetSession prefers it when available so
// a reader never observes a half-written session pair.
type PairWriter interface {
	PutPair(ctx context.Context, a, b Record) error
}
