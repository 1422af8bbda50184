package hrpauth

import (
	"context"
	"time"
)

// FlowState is the lifecycle position of one credential-exchange
// submission.
type FlowState uint8

const (
	// FlowIdle means no submission has been attempted.
	FlowIdle FlowState = iota
	// FlowPending means a submission is in flight.
	FlowPending
	// FlowSuccess is the terminal success state.
	FlowSuccess
	// FlowFailure is the terminal failure state; the flow may be
	// resubmitted.
	FlowFailure
)

func (s FlowState) String() string {
	switch s {
	case FlowIdle:
		return "idle"
	case FlowPending:
		return "pending"
	case FlowSuccess:
		return "success"
	case FlowFailure:
		return "failure"
	}
	return "unknown"
}

// FlowResult is the terminal outcome of one submission. Message is the
// user-facing string; Err wraps the package sentinel that classified the
// outcome and is nil on success.
type FlowResult struct {
	State   FlowState
	Message string
	Err     error
}

// Failed reports whether the result is a failure.
func (r FlowResult) Failed() bool {
	return r.State == FlowFailure
}

func flowSuccess(msg string) FlowResult {
	return FlowResult{State: FlowSuccess, Message: msg}
}

func flowFailure(err error, msg string) FlowResult {
	return FlowResult{State: FlowFailure, Message: msg, Err: err}
}

// LoginResult carries the backend-issued identity on a successful login.
type LoginResult struct {
	Token string
	UID   string
}

// RegisterInput is the registration form. CaptchaGuess is validated against
// the live challenge before any request is issued.
type RegisterInput struct {
	Email        string
	Nickname     string
	Password     string
	Password2    string
	CaptchaGuess string
}

// UserProfile is the authenticated account as reported by the backend, or
// derived locally from the session when the backend is unavailable.
type UserProfile struct {
	Email      string
	Nickname   string
	Avatar     string
	IsVerified bool
	// Derived is set when the profile was built from the stored email
	// rather than a backend response.
	Derived bool
}

// TokenInfo is a best-effort, unverified view of the stored auth token.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
	Claims    map[string]any
}

// Event is one flow outcome emitted to the configured EventSink.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	Flow      string            `json:"flow"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// EventSink receives flow events. Emit must not block for long; the
// dispatcher delivers from a single goroutine and drops under backpressure
// when configured to.
type EventSink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink discards all events.
type NoOpSink struct{}

// Emit implements EventSink.
func (NoOpSink) Emit(context.Context, Event) {}

const (
	flowLogin         = "login"
	flowRegister      = "register"
	flowVerifySend    = "verify_send"
	flowVerifyConfirm = "verify_confirm"
	flowProfile       = "profile"
	flowLogout        = "logout"
)
