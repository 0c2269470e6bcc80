package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the bot's prometheus collectors.
type Metrics struct {
	ticketsOpened      prometheus.Counter
	ticketsClosed      *prometheus.CounterVec
	cooldownRejections prometheus.Counter
	sweepRuns          prometheus.Counter
	sweepFailures      prometheus.Counter
	feedbackOutcomes   *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpErrors   *prometheus.CounterVec
}

// NewMetrics initializes and registers collectors on the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticketsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ticketbot_tickets_opened_total",
			Help: "Tickets successfully opened.",
		}),
		ticketsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticketbot_tickets_closed_total",
			Help: "Tickets closed, by reason.",
		}, []string{"reason"}),
		cooldownRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ticketbot_cooldown_rejections_total",
			Help: "Open requests rejected by an active cooldown.",
		}),
		sweepRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ticketbot_sweep_runs_total",
			Help: "Auto-close sweep executions.",
		}),
		sweepFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ticketbot_sweep_item_failures_total",
			Help: "Individual channels a sweep failed to close.",
		}),
		feedbackOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticketbot_feedback_total",
			Help: "Feedback prompt outcomes.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticketbot_http_requests_total",
			Help: "HTTP requests served.",
		}, []string{"path", "method", "status"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ticketbot_http_errors_total",
			Help: "HTTP requests that resolved to an error code.",
		}, []string{"path", "method", "code"}),
	}

	reg.MustRegister(
		m.ticketsOpened,
		m.ticketsClosed,
		m.cooldownRejections,
		m.sweepRuns,
		m.sweepFailures,
		m.feedbackOutcomes,
		m.httpRequests,
		m.httpErrors,
	)
	return m
}

// RecordTicketOpened increments the open counter.
func (m *Metrics) RecordTicketOpened() {
	if m == nil {
		return
	}
	m.ticketsOpened.Inc()
}

// RecordTicketClosed increments the close counter for a reason label.
func (m *Metrics) RecordTicketClosed(reason string) {
	if m == nil {
		return
	}
	m.ticketsClosed.WithLabelValues(reason).Inc()
}

// RecordCooldownRejection increments the cooldown rejection counter.
func (m *Metrics) RecordCooldownRejection() {
	if m == nil {
		return
	}
	m.cooldownRejections.Inc()
}

// RecordSweep counts one sweep run and its per-item failures.
func (m *Metrics) RecordSweep(failures int) {
	if m == nil {
		return
	}
	m.sweepRuns.Inc()
	m.sweepFailures.Add(float64(failures))
}

// RecordFeedback increments the feedback outcome counter.
func (m *Metrics) RecordFeedback(outcome string) {
	if m == nil {
		return
	}
	m.feedbackOutcomes.WithLabelValues(outcome).Inc()
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.httpErrors.WithLabelValues(path, method, code).Inc()
}
