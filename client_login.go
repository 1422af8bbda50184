package hrpauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	msgEmailInvalid     = "Please input valid email address 请输入有效的邮箱地址。"
	msgPasswordRequired = "Please input password 请输入密码。"
	msgLoginRejected    = "Please login again 请重新登录"
	msgLoginTimeout     = "请求超时，请稍后重试。"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	UID   string `json:"uid"`
}

// Login exchanges credentials for a session token and persists the
// (email, token) pair on success. The exchange is bounded by the
// configured login timeout; expiry aborts the request and reports a
// timeout failure, distinct from a network failure and from a server
// rejection.
//
// Local validation failures produce a FlowFailure without any request.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, FlowResult) {
	if c == nil {
		return LoginResult{}, flowFailure(ErrClientNotReady, msgNetworkError)
	}

	if !ValidEmail(email) {
		return LoginResult{}, flowFailure(fmt.Errorf("%w: email", ErrInvalidInput), msgEmailInvalid)
	}
	if password == "" {
		return LoginResult{}, flowFailure(fmt.Errorf("%w: password", ErrInvalidInput), msgPasswordRequired)
	}

	if !c.loginGate.begin() {
		return LoginResult{}, flowFailure(ErrSubmitInFlight, msgSubmitPending)
	}
	defer c.loginGate.end()

	ctx, cancel := context.WithTimeout(ctx, c.config.Backend.LoginTimeout)
	defer cancel()

	res, err := c.do(ctx, http.MethodPost, pathLogin, loginRequest{Email: email, Password: password})
	if err != nil {
		c.metricInc(MetricLoginFailure)
		c.emit(flowLogin, false, err, nil)
		if errors.Is(err, ErrTimeout) {
			c.metricInc(MetricLoginTimeout)
			return LoginResult{}, flowFailure(err, msgLoginTimeout)
		}
		return LoginResult{}, flowFailure(err, msgNetworkError)
	}

	if _, err := classify(res, msgLoginRejected); err != nil {
		c.metricInc(MetricLoginFailure)
		c.emit(flowLogin, false, err, nil)
		if errors.Is(err, ErrUnparsableResponse) {
			return LoginResult{}, flowFailure(err, msgUnparsable)
		}
		return LoginResult{}, flowFailure(err, rejectionMessage(err, msgLoginRejected))
	}

	var payload loginResponse
	if err := json.Unmarshal(res.body, &payload); err != nil || payload.Token == "" {
		err = fmt.Errorf("%w: login payload", ErrUnknownResponse)
		c.metricInc(MetricLoginFailure)
		c.emit(flowLogin, false, err, nil)
		return LoginResult{}, flowFailure(err, msgUnknownShape)
	}

	if err := c.sessions.SetSession(ctx, email, payload.Token); err != nil {
		c.metricInc(MetricLoginFailure)
		c.emit(flowLogin, false, err, nil)
		return LoginResult{}, flowFailure(err, msgLoginRejected)
	}

	c.metricInc(MetricLoginSuccess)
	c.emit(flowLogin, true, nil, map[string]string{"uid": payload.UID})
	return LoginResult{Token: payload.Token, UID: payload.UID}, flowSuccess("登录成功")
}
