package hrpauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hrpnet/hrpauth/session"
)

func TestLoginSuccessPersistsSession(t *testing.T) {
	handler := &countingHandler{handler: jsonHandler(http.StatusOK, `{"success":true,"token":"T1","uid":"1"}`)}
	client, _, _ := newTestClient(t, handler)
	ctx := context.Background()

	result, flow := client.Login(ctx, "u@x.com", "secret")
	if flow.State != FlowSuccess {
		t.Fatalf("state = %v, want success (message %q)", flow.State, flow.Message)
	}
	if result.Token != "T1" || result.UID != "1" {
		t.Fatalf("result = %+v", result)
	}

	email, err := client.Sessions().Email(ctx)
	if err != nil || email != "u@x.com" {
		t.Fatalf("Email = %q, %v", email, err)
	}
	token, err := client.Sessions().Token(ctx)
	if err != nil || token != "T1" {
		t.Fatalf("Token = %q, %v", token, err)
	}

	if got := client.MetricsSnapshot().Counters[MetricLoginSuccess]; got != 1 {
		t.Fatalf("login success counter = %d", got)
	}
}

func TestLoginLocalValidationSkipsNetwork(t *testing.T) {
	handler := &countingHandler{handler: jsonHandler(http.StatusOK, `{"success":true,"token":"T1","uid":"1"}`)}
	client, _, _ := newTestClient(t, handler)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
		message  string
	}{
		{"empty email", "", "secret", msgEmailInvalid},
		{"no domain", "a@b", "secret", msgEmailInvalid},
		{"no local part", "@b.co", "secret", msgEmailInvalid},
		{"empty label", "a@.co", "secret", msgEmailInvalid},
		{"whitespace", "a b@c.co", "secret", msgEmailInvalid},
		{"empty password", "a@b.co", "", msgPasswordRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, flow := client.Login(ctx, tc.email, tc.password)
			if flow.State != FlowFailure {
				t.Fatalf("state = %v, want failure", flow.State)
			}
			if !errors.Is(flow.Err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", flow.Err)
			}
			if flow.Message != tc.message {
				t.Fatalf("message = %q, want %q", flow.Message, tc.message)
			}
		})
	}

	if hits := handler.hits.Load(); hits != 0 {
		t.Fatalf("expected no requests, got %d", hits)
	}
}

func TestLoginServerRejection(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"rejection with message", http.StatusOK, `{"success":false,"message":"密码错误"}`, ErrServerRejected, "密码错误"},
		{"rejection without message", http.StatusUnauthorized, `{"success":false}`, ErrServerRejected, msgLoginRejected},
		{"non-2xx with parsable body", http.StatusBadGateway, `{"success":true,"token":"T1"}`, ErrServerRejected, msgLoginRejected},
		{"unparsable body", http.StatusOK, `<html>mysql down</html>`, ErrUnparsableResponse, msgUnparsable},
		{"unknown shape", http.StatusOK, `{"ok":true}`, ErrUnknownResponse, msgUnknownShape},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _, _ := newTestClient(t, jsonHandler(tc.status, tc.body))
			_, flow := client.Login(context.Background(), "u@x.com", "secret")
			if flow.State != FlowFailure {
				t.Fatalf("state = %v, want failure", flow.State)
			}
			if !errors.Is(flow.Err, tc.sentinel) {
				t.Fatalf("err = %v, want %v", flow.Err, tc.sentinel)
			}
			if flow.Message != tc.message {
				t.Fatalf("message = %q, want %q", flow.Message, tc.message)
			}
			if _, ok := client.Sessions().Current(context.Background()); ok {
				t.Fatal("no session must be persisted on failure")
			}
		})
	}
}

func TestLoginNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, `{}`))
	srv.Close() // unreachable host

	client, err := New().
		WithBaseURL(srv.URL).
		WithSessionBackend(session.NewMemoryBackend()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer client.Close()

	_, flow := client.Login(context.Background(), "u@x.com", "secret")
	if !errors.Is(flow.Err, ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", flow.Err)
	}
	if flow.Message != msgNetworkError {
		t.Fatalf("message = %q", flow.Message)
	}
}

func TestLoginTimeout(t *testing.T) {
	release := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`{"success":false}`))
	})

	srv := httptest.NewServer(handler)
	defer srv.Close()
	// Unblock the parked handler before Close waits on its connection.
	defer close(release)

	cfg := DefaultConfig()
	cfg.Backend.BaseURL = srv.URL
	cfg.Backend.LoginTimeout = 50 * time.Millisecond

	client, err := New().
		WithConfig(cfg).
		WithSessionBackend(session.NewMemoryBackend()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer client.Close()

	start := time.Now()
	_, flow := client.Login(context.Background(), "u@x.com", "secret")
	elapsed := time.Since(start)

	if !errors.Is(flow.Err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", flow.Err)
	}
	if flow.Message != msgLoginTimeout {
		t.Fatalf("message = %q, want %q", flow.Message, msgLoginTimeout)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("login did not abort on deadline (took %s)", elapsed)
	}
	if got := client.MetricsSnapshot().Counters[MetricLoginTimeout]; got != 1 {
		t.Fatalf("timeout counter = %d", got)
	}
}

func TestLoginSingleInFlightSubmission(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var enteredOnce sync.Once
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		enteredOnce.Do(func() { close(entered) })
		<-release
		_, _ = w.Write([]byte(`{"success":true,"token":"T1","uid":"1"}`))
	})

	client, _, _ := newTestClient(t, handler)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, flow := client.Login(context.Background(), "u@x.com", "secret")
		if flow.State != FlowSuccess {
			t.Errorf("first login: state = %v (%s)", flow.State, flow.Message)
		}
	}()

	<-entered
	_, flow := client.Login(context.Background(), "u@x.com", "secret")
	if !errors.Is(flow.Err, ErrSubmitInFlight) {
		t.Fatalf("second login err = %v, want ErrSubmitInFlight", flow.Err)
	}

	close(release)
	wg.Wait()

	// The gate reopens once the pending submission settles.
	_, flow = client.Login(context.Background(), "u@x.com", "secret")
	if flow.State != FlowSuccess {
		t.Fatalf("third login: state = %v (%s)", flow.State, flow.Message)
	}
}
