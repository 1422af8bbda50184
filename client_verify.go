package hrpauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	msgCodeRequired  = "请输入邮箱验证码 Please enter email verification code"
	msgCodeSent      = "验证码已发送，请查收邮件"
	msgCodeRejected  = "验证码错误或已过期"
	msgSendRejected  = "发送验证码失败"
	msgResendTooSoon = "发送过于频繁，请等待倒计时结束。"
	msgEmailVerified = "邮箱验证成功！"
)

type sendCodeRequest struct {
	Email string `json:"email"`
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// RequestVerificationCode asks the backend to mail a verification code.
// After a successful send a resend cooldown starts; until it reaches zero
// further calls fail fast with ErrResendCooldown and no request is issued.
//
// A response body that is not JSON is surfaced verbatim as the failure
// message.
func (c *Client) RequestVerificationCode(ctx context.Context, email string) FlowResult {
	if c == nil {
		return flowFailure(ErrClientNotReady, msgNetworkError)
	}

	if !ValidEmail(email) {
		return flowFailure(fmt.Errorf("%w: email", ErrInvalidInput), msgEmailInvalid)
	}

	if remaining := c.ResendRemaining(); remaining > 0 {
		c.metricInc(MetricResendBlocked)
		return flowFailure(
			fmt.Errorf("%w: %ds", ErrResendCooldown, remaining),
			msgResendTooSoon,
		)
	}

	if !c.sendGate.begin() {
		return flowFailure(ErrSubmitInFlight, msgSubmitPending)
	}
	defer c.sendGate.end()

	res, err := c.do(ctx, http.MethodPost, pathSendCode, sendCodeRequest{Email: email})
	if err != nil {
		c.metricInc(MetricVerifySendFailure)
		c.emit(flowVerifySend, false, err, nil)
		return flowFailure(err, msgNetworkError+" "+trimSentinel(err))
	}

	if _, err := classify(res, msgSendRejected); err != nil {
		c.metricInc(MetricVerifySendFailure)
		c.emit(flowVerifySend, false, err, nil)
		if errors.Is(err, ErrUnparsableResponse) {
			// The send endpoint may answer with plain text; show it as-is.
			return flowFailure(err, strings.TrimSpace(string(res.body)))
		}
		return flowFailure(err, rejectionMessage(err, msgSendRejected))
	}

	c.startResendCooldown()
	c.metricInc(MetricVerifySendSuccess)
	c.emit(flowVerifySend, true, nil, nil)
	return flowSuccess(msgCodeSent)
}

// ConfirmVerificationCode submits the mailed code. Success implies the
// session is verified; the caller decides what view to move to.
func (c *Client) ConfirmVerificationCode(ctx context.Context, email, code string) FlowResult {
	if c == nil {
		return flowFailure(ErrClientNotReady, msgNetworkError)
	}

	if !ValidEmail(email) {
		return flowFailure(fmt.Errorf("%w: email", ErrInvalidInput), msgEmailInvalid)
	}
	if strings.TrimSpace(code) == "" {
		return flowFailure(fmt.Errorf("%w: code", ErrInvalidInput), msgCodeRequired)
	}

	if !c.confirmGate.begin() {
		return flowFailure(ErrSubmitInFlight, msgSubmitPending)
	}
	defer c.confirmGate.end()

	res, err := c.do(ctx, http.MethodPost, pathVerifyCode, verifyCodeRequest{Email: email, Code: code})
	if err != nil {
		c.metricInc(MetricVerifyConfirmFailure)
		c.emit(flowVerifyConfirm, false, err, nil)
		return flowFailure(err, msgNetworkError+" "+trimSentinel(err))
	}

	if _, err := classify(res, msgCodeRejected); err != nil {
		c.metricInc(MetricVerifyConfirmFailure)
		c.emit(flowVerifyConfirm, false, err, nil)
		if errors.Is(err, ErrUnparsableResponse) {
			return flowFailure(err, strings.TrimSpace(string(res.body)))
		}
		return flowFailure(err, rejectionMessage(err, msgCodeRejected))
	}

	c.metricInc(MetricVerifyConfirmSuccess)
	c.emit(flowVerifyConfirm, true, nil, nil)
	return flowSuccess(msgEmailVerified)
}

// ResendRemaining reports the whole seconds left on the resend cooldown,
// zero when the resend action is available again.
func (c *Client) ResendRemaining() int {
	if c == nil {
		return 0
	}
	c.resendMu.Lock()
	defer c.resendMu.Unlock()

	remaining := c.resendUntil.Sub(c.now())
	if remaining <= 0 {
		return 0
	}
	// Ceil to whole seconds so the countdown reads 60..1 and re-enables
	// exactly at zero.
	return int((remaining + time.Second - 1) / time.Second)
}

func (c *Client) startResendCooldown() {
	c.resendMu.Lock()
	defer c.resendMu.Unlock()
	c.resendUntil = c.now().Add(c.config.Verification.ResendCooldown)
}

func trimSentinel(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}
