package hrpauth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// InspectToken decodes the stored auth token as a JWT without verifying
// its signature, for display purposes only. The backend treats the token
// as opaque; when it does not decode, ErrTokenOpaque is returned and the
// session stays valid regardless.
func (c *Client) InspectToken(ctx context.Context) (TokenInfo, error) {
	if c == nil {
		return TokenInfo{}, ErrClientNotReady
	}

	token, err := c.sessions.Token(ctx)
	if err != nil {
		return TokenInfo{}, ErrNotAuthenticated
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("%w: %v", ErrTokenOpaque, err)
	}

	info := TokenInfo{Claims: claims}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
