package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"society360/pkg/platform/sentinel"
)

// PostgresStore resolves identities from the users table, joining the roles
// relation so the returned role is always the current one. Every lookup is a
// fresh round trip; the verifier relies on that for immediate role changes.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const identityColumns = `
	u.id, u.full_name, u.email, COALESCE(u.phone_number, ''), r.name,
	u.password_hash, u.active
`

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Identity, error) {
	query := `
		SELECT ` + identityColumns + `
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1
	`
	return s.scanIdentity(s.db.QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	query := `
		SELECT ` + identityColumns + `
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE lower(u.email) = lower($1)
	`
	return s.scanIdentity(s.db.QueryRowContext(ctx, query, email))
}

func (s *PostgresStore) Save(ctx context.Context, ident *Identity) error {
	query := `
		INSERT INTO users (id, full_name, email, phone_number, role_id, password_hash, active)
		VALUES ($1, $2, $3, NULLIF($4, ''), (SELECT id FROM roles WHERE name = $5), $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			phone_number = EXCLUDED.phone_number,
			role_id = EXCLUDED.role_id,
			password_hash = EXCLUDED.password_hash,
			active = EXCLUDED.active
	`
	_, err := s.db.ExecContext(ctx, query,
		ident.ID,
		ident.FullName,
		ident.Email,
		ident.PhoneNumber,
		string(ident.Role),
		ident.PasswordHash,
		ident.Active,
	)
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

func (s *PostgresStore) scanIdentity(row *sql.Row) (*Identity, error) {
	var (
		ident   Identity
		rawRole string
	)
	err := row.Scan(
		&ident.ID,
		&ident.FullName,
		&ident.Email,
		&ident.PhoneNumber,
		&rawRole,
		&ident.PasswordHash,
		&ident.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan identity: %w", err)
	}

	// Normalize once at the store boundary so the rest of the pipeline
	// compares roles with plain equality.
	role, err := ParseRole(rawRole)
	if err != nil {
		return nil, fmt.Errorf("identity %s: %w", ident.ID, err)
	}
	ident.Role = role

	return &ident, nil
}
