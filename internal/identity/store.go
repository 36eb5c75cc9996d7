package identity

import (
	"context"

	"github.com/google/uuid"
)

// Store is interface-driven to keep the auth pipeline testable and to allow
// swapping in-memory and PostgreSQL implementations without rewiring
// business code. Lookups return sentinel.ErrNotFound when no identity exists.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Identity, error)
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	Save(ctx context.Context, ident *Identity) error
}
