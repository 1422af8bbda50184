package hrpauth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestInspectTokenRequiresSession(t *testing.T) {
	client, _, _ := newTestClient(t, jsonHandler(http.StatusOK, `{"success":true}`))

	_, err := client.InspectToken(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
}

func TestInspectTokenDecodesJWT(t *testing.T) {
	client, _, _ := newTestClient(t, jsonHandler(http.StatusOK, `{"success":true}`))
	ctx := context.Background()

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "uid-1",
		"exp": expires.Unix(),
	}).SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if err := client.Sessions().SetSession(ctx, "u@x.com", signed); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	info, err := client.InspectToken(ctx)
	if err != nil {
		t.Fatalf("InspectToken failed: %v", err)
	}
	if info.Subject != "uid-1" {
		t.Fatalf("subject = %q", info.Subject)
	}
	if !info.ExpiresAt.Equal(expires) {
		t.Fatalf("expires = %v, want %v", info.ExpiresAt, expires)
	}
	if info.Claims["sub"] != "uid-1" {
		t.Fatalf("claims = %v", info.Claims)
	}
}

func TestInspectTokenOpaque(t *testing.T) {
	client, _, _ := newTestClient(t, jsonHandler(http.StatusOK, `{"success":true}`))
	ctx := context.Background()

	if err := client.Sessions().SetSession(ctx, "u@x.com", "not-a-jwt"); err != nil {
		t.Fatalf("SetSession failed: %v", err)
	}

	_, err := client.InspectToken(ctx)
	if !errors.Is(err, ErrTokenOpaque) {
		t.Fatalf("err = %v, want ErrTokenOpaque", err)
	}

	// An opaque token does not invalidate the session.
	if !client.Sessions().LoggedIn(ctx) {
		t.Fatal("session must survive an opaque token")
	}
}
