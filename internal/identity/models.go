package identity

import (
	"strings"

	"github.com/google/uuid"

	dErrors "society360/pkg/domain-errors"
)

// Role is the closed set of principal roles. Values are normalized once at
// the store boundary via ParseRole; comparisons elsewhere are plain equality.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleStaff         Role = "staff"
	RoleResident      Role = "resident"
)

// ParseRole normalizes a raw role string into the closed enum. The role store
// has historically carried inconsistent casing ("Admin", "STAFF"), so parsing
// is case-insensitive and accepts the short admin alias.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "administrator", "admin":
		return RoleAdministrator, nil
	case "staff":
		return RoleStaff, nil
	case "resident":
		return RoleResident, nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown role %q", raw)
	}
}

// Identity is the authoritative, storage-resolved representation of a
// principal. It is read-only within a request; user management writes it
// outside this core.
type Identity struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	PhoneNumber  string
	Role         Role
	PasswordHash string
	Active       bool
}

// Authorized reports whether the identity's role is in the allowed set.
// Roles are already normalized, so membership is a plain comparison.
func (i *Identity) Authorized(allowed ...Role) bool {
	for _, role := range allowed {
		if i.Role == role {
			return true
		}
	}
	return false
}
