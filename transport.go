package hrpauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Backend endpoint paths, fixed by the identity service.
const (
	pathLogin         = "/login.php"
	pathRegister      = "/register.php"
	pathUser          = "/user.php"
	pathSendCode      = "/send-verification-code.php"
	pathVerifyCode    = "/verify-code.php"
	headerRequestID   = "X-Request-ID"
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// Shared user-facing failure strings. The backend speaks to a bilingual
// audience; the strings are part of its client contract.
const (
	msgNetworkError  = "网络错误：无法连接到后端。"
	msgUnparsable    = "服务器返回无法解析的响应"
	msgUnknownShape  = "未知响应"
	msgSubmitPending = "请稍候，正在提交。"
)

// envelope is the minimal response contract: every backend reply carries
// success and, on failure, message. Success is a pointer so a body that
// parses but omits the field classifies as an unknown shape.
type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

type httpResult struct {
	status int
	body   []byte
}

func (r httpResult) ok() bool {
	return r.status >= 200 && r.status < 300
}

// do issues one request against the backend. payload, when non-nil, is
// sent as a JSON body. Transport failures map to ErrTimeout when the
// context deadline was the cause, ErrNetwork otherwise.
func (c *Client) do(ctx context.Context, method, path string, payload any) (httpResult, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return httpResult{}, fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return httpResult{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if payload != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}
	req.Header.Set(headerRequestID, uuid.NewString())
	if c.config.Backend.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.Backend.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return httpResult{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return httpResult{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return httpResult{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return httpResult{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	return httpResult{status: resp.StatusCode, body: raw}, nil
}

// classify maps a completed exchange onto the success/failure contract:
// success iff the status is 2xx, the body parses as JSON, and success is
// true. fallback is the flow's generic rejection message, used when the
// backend supplies none.
func classify(res httpResult, fallback string) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(res.body, &env); err != nil {
		return envelope{}, fmt.Errorf("%w: %s", ErrUnparsableResponse, strings.TrimSpace(string(res.body)))
	}

	if !res.ok() || (env.Success != nil && !*env.Success) {
		msg := env.Message
		if msg == "" {
			msg = fallback
		}
		return env, fmt.Errorf("%w: %s", ErrServerRejected, msg)
	}

	if env.Success == nil {
		return env, fmt.Errorf("%w: %s", ErrUnknownResponse, msgUnknownShape)
	}

	return env, nil
}

// rejectionMessage extracts the user-facing part of a classify error.
func rejectionMessage(err error, fallback string) string {
	var sentinel error
	switch {
	case errors.Is(err, ErrServerRejected):
		sentinel = ErrServerRejected
	case errors.Is(err, ErrUnknownResponse):
		return msgUnknownShape
	default:
		return fallback
	}
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return fallback
	}
	return msg
}
