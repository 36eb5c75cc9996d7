package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the auth and audit pipeline.
type Metrics struct {
	AuthSuccesses       prometheus.Counter
	AuthFailures        prometheus.Counter
	ForbiddenDecisions  prometheus.Counter
	AuditRecordsWritten prometheus.Counter
	AuditWriteFailures  prometheus.Counter
	AuditRecordsDropped prometheus.Counter
}

// New creates and registers all Prometheus metrics. Call once per process.
func New() *Metrics {
	return &Metrics{
		AuthSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "society360_auth_success_total",
			Help: "Total number of successfully verified requests",
		}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "society360_auth_failure_total",
			Help: "Total number of requests rejected as unauthenticated",
		}),
		ForbiddenDecisions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "society360_forbidden_total",
			Help: "Total number of requests rejected by role-based access control",
		}),
		AuditRecordsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Name: "society360_audit_records_written_total",
			Help: "Total number of audit records persisted",
		}),
		AuditWriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "society360_audit_write_failures_total",
			Help: "Total number of audit writes that failed and were swallowed",
		}),
		AuditRecordsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "society360_audit_records_dropped_total",
			Help: "Total number of audit records dropped due to a full queue",
		}),
	}
}

// The methods below satisfy audit.Counters and middleware auth.AuthCounters.

func (m *Metrics) AuditRecordWritten() { m.AuditRecordsWritten.Inc() }
func (m *Metrics) AuditWriteFailed()   { m.AuditWriteFailures.Inc() }
func (m *Metrics) AuditRecordDropped() { m.AuditRecordsDropped.Inc() }

func (m *Metrics) AuthSuccess() { m.AuthSuccesses.Inc() }
func (m *Metrics) AuthFailure() { m.AuthFailures.Inc() }
func (m *Metrics) Forbidden()   { m.ForbiddenDecisions.Inc() }
