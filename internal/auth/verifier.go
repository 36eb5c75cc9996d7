package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"society360/internal/identity"
	jwttoken "society360/internal/jwt_token"
	dErrors "society360/pkg/domain-errors"
	"society360/pkg/platform/sentinel"
	"society360/pkg/requestcontext"
)

// TokenValidator is the credential crypto seam; jwt_token.Service satisfies it.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

// IdentityReader is the single lookup the verifier needs per request.
type IdentityReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.Identity, error)
}

var errUnauthorized = dErrors.New(dErrors.CodeUnauthorized, "invalid or missing credential")

// Verifier resolves a raw bearer credential to a canonical identity.
//
// The token's embedded role is advisory only: every verification re-reads the
// identity from the store, so a role change or deactivation takes effect on
// the next request even with an unexpired token. There is no caching.
type Verifier struct {
	tokens     TokenValidator
	identities IdentityReader
	logger     *slog.Logger
}

func NewVerifier(tokens TokenValidator, identities IdentityReader, logger *slog.Logger) *Verifier {
	return &Verifier{
		tokens:     tokens,
		identities: identities,
		logger:     logger,
	}
}

// Verify validates the credential and resolves its subject. Every failure
// mode collapses to the same unauthorized error externally; the distinction
// between a bad token, an unknown subject, and an unreachable identity store
// is preserved only in the logs.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*identity.Identity, error) {
	if rawToken == "" {
		return nil, errUnauthorized
	}

	claims, err := v.tokens.ValidateToken(rawToken)
	if err != nil {
		return nil, errUnauthorized
	}

	subjectID, err := claims.SubjectID()
	if err != nil {
		return nil, errUnauthorized
	}

	ident, err := v.identities.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Account deleted after issuance. Indistinguishable from an
			// invalid token to the caller.
			v.logger.WarnContext(ctx, "credential subject no longer exists",
				"subject_id", subjectID,
				"request_id", requestcontext.RequestID(ctx),
			)
			return nil, errUnauthorized
		}
		// Infrastructure failure, not a security event. The HTTP response
		// stays uniform but the log severity does not.
		v.logger.ErrorContext(ctx, "identity lookup failed during verification",
			"error", err,
			"subject_id", subjectID,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, errUnauthorized
	}

	if !ident.Active {
		v.logger.WarnContext(ctx, "credential presented for deactivated account",
			"subject_id", subjectID,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, errUnauthorized
	}

	return ident, nil
}
