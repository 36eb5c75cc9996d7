package audit

import "context"

// Store is the append-only persistence boundary for audit records.
// Implementations must treat records as immutable once appended.
type Store interface {
	Append(ctx context.Context, record Record) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}
