package hrpauth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type userResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Email      string `json:"email"`
		Nickname   string `json:"nickname"`
		Avatar     string `json:"avatar"`
		IsVerified bool   `json:"is_verified"`
	} `json:"data"`
}

// Profile fetches the authenticated account from the backend. Any failure
// past the session check (network, rejection, bad body) degrades to a
// profile derived from the stored email, so a reachable backend is not a
// precondition for showing who is logged in. ErrNotAuthenticated is
// returned only when no session exists at all.
func (c *Client) Profile(ctx context.Context) (UserProfile, error) {
	if c == nil {
		return UserProfile{}, ErrClientNotReady
	}

	sess, ok := c.sessions.Current(ctx)
	if !ok {
		return UserProfile{}, ErrNotAuthenticated
	}

	res, err := c.do(ctx, http.MethodGet, pathUser, nil)
	if err != nil {
		return c.derivedProfile(sess.Email, err), nil
	}

	var payload userResponse
	if err := json.Unmarshal(res.body, &payload); err != nil {
		return c.derivedProfile(sess.Email, err), nil
	}
	if !res.ok() || payload.Success == nil || !*payload.Success || payload.Data.Email == "" && payload.Data.Nickname == "" {
		return c.derivedProfile(sess.Email, ErrServerRejected), nil
	}

	profile := UserProfile{
		Email:      payload.Data.Email,
		Nickname:   payload.Data.Nickname,
		Avatar:     payload.Data.Avatar,
		IsVerified: payload.Data.IsVerified,
	}
	if profile.Email == "" {
		profile.Email = sess.Email
	}
	if profile.Nickname == "" {
		profile.Nickname = localPart(sess.Email)
	}

	c.emit(flowProfile, true, nil, nil)
	return profile, nil
}

func (c *Client) derivedProfile(email string, cause error) UserProfile {
	c.metricInc(MetricProfileFallback)
	c.emit(flowProfile, false, cause, nil)
	return UserProfile{
		Email:    email,
		Nickname: localPart(email),
		Derived:  true,
	}
}

func localPart(email string) string {
	if idx := strings.IndexByte(email, '@'); idx > 0 {
		return email[:idx]
	}
	return email
}
