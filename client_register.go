package hrpauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hrpnet/hrpauth/captcha"
)

const (
	msgNicknameTooShort = "Gamename too short, at least 3 characters 游戏名太短，至少 3 个字符。"
	msgPasswordTooShort = "Password too short, at least 6 characters 密码太短，至少 6 个字符。"
	msgPasswordMismatch = "Passwords do not match 两次输入的密码不匹配。"
	msgCaptchaRequired  = "请输入验证码 Please enter the captcha."
	msgCaptchaMismatch  = "验证码错误 Captcha incorrect."
	msgRegisterRejected = "注册失败"
)

type registerRequest struct {
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// Register submits a new account. The captcha guess is checked against ch
// before any request is issued; a mismatch is a local failure with no
// network attempt. On a captcha mismatch and on every post-submit failure
// the challenge is refreshed, so a code that reached the backend (or was
// displayed alongside a rejected submission) is never accepted again. The
// server re-validates the password pair.
func (c *Client) Register(ctx context.Context, in RegisterInput, ch *captcha.Challenge) FlowResult {
	if c == nil {
		return flowFailure(ErrClientNotReady, msgNetworkError)
	}

	if !ValidEmail(in.Email) {
		return flowFailure(fmt.Errorf("%w: email", ErrInvalidInput), msgEmailInvalid)
	}
	if !validNickname(in.Nickname) {
		return flowFailure(fmt.Errorf("%w: nickname", ErrInvalidInput), msgNicknameTooShort)
	}
	if len(in.Password) < minPasswordLen {
		return flowFailure(fmt.Errorf("%w: password", ErrInvalidInput), msgPasswordTooShort)
	}
	if in.Password != in.Password2 {
		return flowFailure(fmt.Errorf("%w: password2", ErrInvalidInput), msgPasswordMismatch)
	}
	if ch == nil || in.CaptchaGuess == "" {
		return flowFailure(fmt.Errorf("%w: captcha", ErrInvalidInput), msgCaptchaRequired)
	}
	if !ch.Validate(in.CaptchaGuess) {
		c.metricInc(MetricCaptchaMismatch)
		_ = ch.Refresh()
		return flowFailure(ErrCaptchaMismatch, msgCaptchaMismatch)
	}

	if !c.registerGate.begin() {
		return flowFailure(ErrSubmitInFlight, msgSubmitPending)
	}
	defer c.registerGate.end()

	res, err := c.do(ctx, http.MethodPost, pathRegister, registerRequest{
		Email:     in.Email,
		Nickname:  in.Nickname,
		Password:  in.Password,
		Password2: in.Password2,
	})
	if err != nil {
		return c.registerFailure(ch, err, msgNetworkError)
	}

	if _, err := classify(res, msgRegisterRejected); err != nil {
		if errors.Is(err, ErrUnparsableResponse) {
			return c.registerFailure(ch, err, msgUnparsable)
		}
		return c.registerFailure(ch, err, rejectionMessage(err, msgRegisterRejected))
	}

	c.metricInc(MetricRegisterSuccess)
	c.emit(flowRegister, true, nil, nil)
	return flowSuccess("注册成功")
}

// registerFailure records the failure and burns the displayed challenge:
// the backend may have consumed captcha state server-side, so the code on
// screen must not be replayable.
func (c *Client) registerFailure(ch *captcha.Challenge, err error, msg string) FlowResult {
	c.metricInc(MetricRegisterFailure)
	c.emit(flowRegister, false, err, nil)
	if ch != nil {
		_ = ch.Refresh()
	}
	return flowFailure(err, msg)
}
