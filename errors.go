package hrpauth

import "errors"

var (
	// ErrClientNotReady is returned when a Client method is called on a nil
	// or unbuilt client.
	ErrClientNotReady = errors.New("client not ready")
	// ErrSubmitInFlight is returned when a flow already has a pending
	// submission; submissions are never queued.
	ErrSubmitInFlight = errors.New("submission already in flight")
	// ErrInvalidInput flags a submission rejected by local validation
	// before any request was issued.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCaptchaMismatch flags a captcha guess that did not match the live
	// challenge code.
	ErrCaptchaMismatch = errors.New("captcha mismatch")
	// ErrTimeout flags a login request cancelled by the client-side
	// deadline.
	ErrTimeout = errors.New("request timed out")
	// ErrNetwork flags a transport-level failure reaching the backend.
	ErrNetwork = errors.New("network unreachable")
	// ErrServerRejected flags a well-formed backend response with
	// success=false or a non-2xx status.
	ErrServerRejected = errors.New("server rejected request")
	// ErrUnparsableResponse flags a response body that is not valid JSON.
	ErrUnparsableResponse = errors.New("unparsable server response")
	// ErrUnknownResponse flags a body that parses but matches neither the
	// success nor the failure shape.
	ErrUnknownResponse = errors.New("unknown response shape")
	// ErrResendCooldown is returned while the verification-code resend
	// countdown is nonzero.
	ErrResendCooldown = errors.New("resend cooldown active")
	// ErrNotAuthenticated is returned when an operation needs a stored
	// session and none exists.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrTokenOpaque is returned by InspectToken when the stored token does
	// not decode as a JWT.
	ErrTokenOpaque = errors.New("token is opaque")
)
