// Package hrpauth is the client SDK for the HRPAuth backend: credential
// exchange (login, registration, email verification), durable session
// persistence, a client-held captcha gate, and a polling auth-state watcher.
//
// The package is the public surface. It exposes [Client], [Builder],
// [Config], and value types (FlowResult, UserProfile, Event, etc.). Session
// persistence lives in [github.com/hrpnet/hrpauth/session] and the challenge
// gate in [github.com/hrpnet/hrpauth/captcha]; both are usable on their own.
//
// # Architecture boundaries
//
//   - The backend is opaque. The SDK speaks its JSON envelope ({success,
//     message, ...}) and classifies every exchange into a terminal
//     [FlowResult]; no server error escapes as a panic or an unclassified
//     failure.
//   - The captcha code is held by [captcha.Challenge] and never crosses into
//     this package; flows see only the boolean verdict.
//   - Credentials pass through flow methods and are never stored, logged, or
//     attached to events.
//
// # Concurrency
//
// Client methods are safe for concurrent use after [Builder.Build]. Each
// flow admits one in-flight submission at a time; a second submit while one
// is pending fails fast with [ErrSubmitInFlight] rather than queueing.
package hrpauth
