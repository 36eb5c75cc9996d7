package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"society360/internal/audit"
	"society360/internal/identity"
	jwttoken "society360/internal/jwt_token"
	dErrors "society360/pkg/domain-errors"
	"society360/pkg/platform/sentinel"
)

// TokenIssuer mints signed credentials; jwt_token.Service satisfies it.
type TokenIssuer interface {
	IssueToken(userID uuid.UUID, role identity.Role, expiresIn time.Duration) (string, error)
}

// Service handles login and logout. Password verification lives here, at the
// edge of the core: everything past it deals only in bearer credentials.
type Service struct {
	identities identity.Store
	tokens     TokenIssuer
	recorder   *audit.Recorder
	logger     *slog.Logger
	tokenTTL   time.Duration
}

func NewService(identities identity.Store, tokens TokenIssuer, recorder *audit.Recorder, logger *slog.Logger, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = jwttoken.DefaultTokenTTL
	}
	return &Service{
		identities: identities,
		tokens:     tokens,
		recorder:   recorder,
		logger:     logger,
		tokenTTL:   tokenTTL,
	}
}

// LoginResult carries the minted credential and the resolved identity.
type LoginResult struct {
	Token    string
	Identity *identity.Identity
}

var errInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")

// Login authenticates by email and password and issues a bearer credential.
// Unknown email, wrong password, and deactivated account all return the same
// error so the endpoint cannot be used to probe account existence.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "email and password are required")
	}

	ident, err := s.identities.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.ErrorContext(ctx, "identity lookup failed during login", "error", err)
		}
		s.recordAuthFailure(ctx, "unknown account")
		return nil, errInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(password)); err != nil {
		s.recordAuthFailure(ctx, "password mismatch")
		return nil, errInvalidCredentials
	}

	if !ident.Active {
		s.recordAuthFailure(ctx, "account deactivated")
		return nil, errInvalidCredentials
	}

	token, err := s.tokens.IssueToken(ident.ID, ident.Role, s.tokenTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "token issuance failed", "error", err, "subject_id", ident.ID)
		return nil, dErrors.New(dErrors.CodeInternal, "could not issue credential")
	}

	s.recorder.Record(ctx, audit.Entry{
		ActorID: &ident.ID,
		Action:  audit.ActionUserLogin,
	})

	return &LoginResult{Token: token, Identity: ident}, nil
}

// Logout records the logout action. Credentials are stateless and have no
// revocation mechanism, so there is nothing to invalidate server-side; the
// token remains valid until natural expiry.
func (s *Service) Logout(ctx context.Context, ident *identity.Identity) {
	s.recorder.Record(ctx, audit.Entry{
		ActorID: &ident.ID,
		Action:  audit.ActionUserLogout,
	})
}

func (s *Service) recordAuthFailure(ctx context.Context, reason string) {
	// Actor is nil: the caller never proved an identity.
	s.recorder.Record(ctx, audit.Entry{
		Action:  audit.ActionAuthFailed,
		Details: map[string]any{"reason": reason},
	})
}
