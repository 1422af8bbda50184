package hrpauth

import (
	"context"
	"net/http"
	"testing"
)

func TestMetricsDisabledStaysZero(t *testing.T) {
	m := newMetrics(MetricsConfig{Enabled: false})
	m.Inc(MetricLoginSuccess)
	if m.Value(MetricLoginSuccess) != 0 {
		t.Fatal("disabled metrics must not count")
	}
	if len(m.Snapshot().Counters) != 0 {
		t.Fatal("disabled snapshot must be empty")
	}
}

func TestMetricsCountAndSnapshot(t *testing.T) {
	m := newMetrics(MetricsConfig{Enabled: true})
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricCaptchaMismatch)

	if got := m.Value(MetricLoginSuccess); got != 2 {
		t.Fatalf("login success = %d, want 2", got)
	}

	snap := m.Snapshot()
	if snap.Counters[MetricLoginSuccess] != 2 || snap.Counters[MetricCaptchaMismatch] != 1 {
		t.Fatalf("snapshot = %v", snap.Counters)
	}
	if snap.Counters[MetricLoginFailure] != 0 {
		t.Fatalf("snapshot = %v", snap.Counters)
	}

	// Out of range IDs are ignored.
	m.Inc(metricCount)
	if m.Value(metricCount) != 0 {
		t.Fatal("out of range id must read zero")
	}
}

func TestClientMetricsTrackLoginOutcomes(t *testing.T) {
	client, srv, _ := newTestClient(t, jsonHandler(http.StatusOK, `{"success":true,"token":"T1","uid":"1"}`))
	ctx := context.Background()

	if _, flow := client.Login(ctx, "u@x.com", "secret"); flow.Failed() {
		t.Fatalf("Login failed: %s", flow.Message)
	}
	srv.Close()
	if _, flow := client.Login(ctx, "u@x.com", "secret"); !flow.Failed() {
		t.Fatal("expected Login to fail with the server gone")
	}

	snap := client.MetricsSnapshot()
	if snap.Counters[MetricLoginSuccess] != 1 {
		t.Fatalf("login success = %d, want 1", snap.Counters[MetricLoginSuccess])
	}
	if snap.Counters[MetricLoginFailure] != 1 {
		t.Fatalf("login failure = %d, want 1", snap.Counters[MetricLoginFailure])
	}
}
