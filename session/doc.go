// Package session provides the durable client-side session state for the
// HRPAuth client: cookie-shaped records with expiry and scoping attributes,
// a typed accessor for the (email, token) pair, and a polling watcher that
// derives a "logged in" signal from the stored token.
//
// The store is the only durable state in the client. Every other component
// holds at most a transient, derived copy of what it reads here.
package session
