package hrpauth

import "sync/atomic"

// MetricID identifies one client counter.
type MetricID uint16

const (
	// MetricLoginSuccess counts logins classified as success.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts logins classified as failure, timeouts
	// included.
	MetricLoginFailure
	// MetricLoginTimeout counts logins aborted by the client deadline.
	MetricLoginTimeout
	// MetricRegisterSuccess counts successful registrations.
	MetricRegisterSuccess
	// MetricRegisterFailure counts failed registrations.
	MetricRegisterFailure
	// MetricCaptchaMismatch counts captcha guesses rejected locally.
	MetricCaptchaMismatch
	// MetricVerifySendSuccess counts verification codes sent.
	MetricVerifySendSuccess
	// MetricVerifySendFailure counts failed send-code requests.
	MetricVerifySendFailure
	// MetricVerifyConfirmSuccess counts confirmed verification codes.
	MetricVerifyConfirmSuccess
	// MetricVerifyConfirmFailure counts rejected verification codes.
	MetricVerifyConfirmFailure
	// MetricResendBlocked counts send-code attempts refused by the
	// cooldown, no request issued.
	MetricResendBlocked
	// MetricProfileFallback counts profile reads that fell back to the
	// locally derived profile.
	MetricProfileFallback

	metricCount
)

// Metrics is a fixed set of atomic counters. A nil or disabled Metrics
// accepts Inc calls and stays at zero.
type Metrics struct {
	enabled  bool
	counters [metricCount]atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

func newMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether counters are being recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	if !m.Enabled() || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// Value returns the current counter value.
func (m *Metrics) Value(id MetricID) uint64 {
	if !m.Enabled() || id >= metricCount {
		return 0
	}
	return m.counters[id].Load()
}

// Snapshot copies every counter. The copy is not atomic across counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if !m.Enabled() {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
