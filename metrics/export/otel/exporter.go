// Package otel bridges the client's counters into an OpenTelemetry meter
// as observable counters read from MetricsSnapshot on each collection.
package otel

import (
	"context"
	"errors"
	"fmt"

	hrpauth "github.com/hrpnet/hrpauth"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrNilMeter is returned when no meter is supplied.
	ErrNilMeter = errors.New("nil meter")
	// ErrNilSource is returned when no metrics source is supplied.
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() hrpauth.MetricsSnapshot
	EventsDropped() uint64
}

type counterDef struct {
	id   hrpauth.MetricID
	name string
	help string
}

var counterDefs = []counterDef{
	{hrpauth.MetricLoginSuccess, "hrpauth_login_success_total", "Successful login exchanges."},
	{hrpauth.MetricLoginFailure, "hrpauth_login_failure_total", "Failed login exchanges."},
	{hrpauth.MetricLoginTimeout, "hrpauth_login_timeout_total", "Logins aborted by the client deadline."},
	{hrpauth.MetricRegisterSuccess, "hrpauth_register_success_total", "Successful registrations."},
	{hrpauth.MetricRegisterFailure, "hrpauth_register_failure_total", "Failed registrations."},
	{hrpauth.MetricCaptchaMismatch, "hrpauth_captcha_mismatch_total", "Captcha guesses rejected locally."},
	{hrpauth.MetricVerifySendSuccess, "hrpauth_verify_send_success_total", "Verification codes sent."},
	{hrpauth.MetricVerifySendFailure, "hrpauth_verify_send_failure_total", "Failed send-code requests."},
	{hrpauth.MetricVerifyConfirmSuccess, "hrpauth_verify_confirm_success_total", "Verification codes confirmed."},
	{hrpauth.MetricVerifyConfirmFailure, "hrpauth_verify_confirm_failure_total", "Verification codes rejected."},
	{hrpauth.MetricResendBlocked, "hrpauth_resend_blocked_total", "Send-code attempts refused by the cooldown."},
	{hrpauth.MetricProfileFallback, "hrpauth_profile_fallback_total", "Profile reads served from the derived profile."},
}

type observedCounter struct {
	id         hrpauth.MetricID
	instrument metric.Int64ObservableCounter
}

// Exporter registers the client counters on a meter and unregisters them
// on Close.
type Exporter struct {
	source       metricsSource
	registration metric.Registration
	counters     []observedCounter
	dropped      metric.Int64ObservableCounter
}

// NewExporter registers observable counters for every client metric plus
// the dropped-events counter.
func NewExporter(meter metric.Meter, source metricsSource) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &Exporter{
		source:   source,
		counters: make([]observedCounter, 0, len(counterDefs)),
	}

	observables := make([]metric.Observable, 0, len(counterDefs)+1)
	for _, def := range counterDefs {
		ins, err := meter.Int64ObservableCounter(def.name, metric.WithDescription(def.help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.id, instrument: ins})
		observables = append(observables, ins)
	}

	dropped, err := meter.Int64ObservableCounter(
		"hrpauth_events_dropped_total",
		metric.WithDescription("Flow events dropped under dispatcher backpressure."),
	)
	if err != nil {
		return nil, fmt.Errorf("create dropped events counter: %w", err)
	}
	exporter.dropped = dropped
	observables = append(observables, dropped)

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := exporter.source.MetricsSnapshot()
		for _, c := range exporter.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
		}
		observer.ObserveInt64(exporter.dropped, int64(exporter.source.EventsDropped()))
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close unregisters the collection callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
