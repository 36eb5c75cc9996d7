package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"society360/pkg/requestcontext"
)

// Counters is the slice of process metrics the recorder reports into.
// internal/platform/metrics satisfies it; tests pass nil or a fake.
type Counters interface {
	AuditRecordWritten()
	AuditWriteFailed()
	AuditRecordDropped()
}

// Recorder appends audit records as a best-effort side channel.
//
// Record never returns an error to its caller: a persistence failure is
// logged and surfaced as a nil result so observability can never become a
// source of outages. In the default synchronous mode the append happens on
// the caller's goroutine, which keeps tests deterministic. WithAsyncBuffer
// decouples write latency from the caller through a bounded queue drained by
// a background worker; a full queue drops the record rather than blocking.
type Recorder struct {
	store    Store
	logger   *slog.Logger
	counters Counters
	testMode bool

	inbox  chan Record
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

type Option func(*Recorder)

// WithAsyncBuffer switches the recorder to asynchronous mode with a bounded
// queue of the given size.
func WithAsyncBuffer(size int) Option {
	return func(r *Recorder) {
		r.inbox = make(chan Record, size)
	}
}

// WithCounters wires process metrics.
func WithCounters(counters Counters) Option {
	return func(r *Recorder) {
		r.counters = counters
	}
}

// WithTestMode makes every Record call an immediate no-op returning nil,
// keeping test fixtures deterministic when the recorder itself is not under
// test.
func WithTestMode() Option {
	return func(r *Recorder) {
		r.testMode = true
	}
}

func NewRecorder(store Store, logger *slog.Logger, opts ...Option) *Recorder {
	r := &Recorder{
		store:  store,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.inbox != nil {
		r.done = make(chan struct{})
		go r.drain()
	}
	return r
}

// Record appends one audit record for a completed or attempted privileged
// action. Client IP and User-Agent are read from ctx. Returns the record on
// success (or on enqueue in async mode) and nil on any failure; it never
// returns an error and never aborts the caller's operation.
func (r *Recorder) Record(ctx context.Context, entry Entry) *Record {
	if r.testMode {
		return nil
	}

	record := Record{
		ID:           uuid.New(),
		ActorID:      entry.ActorID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		IPAddress:    requestcontext.ClientIP(ctx),
		UserAgent:    requestcontext.UserAgent(ctx),
		Details:      entry.Details,
		CreatedAt:    time.Now(),
	}

	if r.inbox != nil {
		if r.enqueue(record) {
			return &record
		}
		r.logger.WarnContext(ctx, "audit record dropped",
			"action", record.Action,
			"request_id", requestcontext.RequestID(ctx),
		)
		if r.counters != nil {
			r.counters.AuditRecordDropped()
		}
		return nil
	}

	if !r.persist(ctx, record) {
		return nil
	}
	return &record
}

// enqueue attempts a non-blocking send. The lock orders the send against
// Close so a record arriving during or after shutdown becomes a drop instead
// of a send on a closed channel.
func (r *Recorder) enqueue(record Record) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return false
	}
	select {
	case r.inbox <- record:
		return true
	default:
		return false
	}
}

// Close stops the background worker after draining queued records. Safe to
// call multiple times; a no-op in synchronous mode. Records arriving after
// Close are dropped, not persisted.
func (r *Recorder) Close() {
	if r.inbox == nil {
		return
	}
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.inbox)
	}
	r.mu.Unlock()
	<-r.done
}

func (r *Recorder) drain() {
	defer close(r.done)
	// The request context may already be cancelled by the time the worker
	// picks a record up, so persistence runs on a background context.
	for record := range r.inbox {
		r.persist(context.Background(), record)
	}
}

func (r *Recorder) persist(ctx context.Context, record Record) bool {
	if err := r.store.Append(ctx, record); err != nil {
		r.logger.ErrorContext(ctx, "audit write failed",
			"error", err,
			"action", record.Action,
			"request_id", requestcontext.RequestID(ctx),
		)
		if r.counters != nil {
			r.counters.AuditWriteFailed()
		}
		return false
	}
	if r.counters != nil {
		r.counters.AuditRecordWritten()
	}
	return true
}
