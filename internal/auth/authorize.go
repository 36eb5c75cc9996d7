package auth

import (
	"society360/internal/identity"
	dErrors "society360/pkg/domain-errors"
)

// Authorize decides whether the resolved identity's role is in the allowed
// set for a guarded operation. Pure and stateless; call it per route with
// that route's allow-list.
//
// A denial names the caller's actual role. The caller has already proven
// their identity, so this is an auditable rejection, not an information leak.
func Authorize(ident *identity.Identity, allowed ...identity.Role) error {
	if ident == nil {
		return dErrors.New(dErrors.CodeUnauthorized, "no authenticated identity")
	}
	if ident.Authorized(allowed...) {
		return nil
	}
	return dErrors.Newf(dErrors.CodeForbidden, "role %s is not permitted to perform this action", ident.Role)
}
