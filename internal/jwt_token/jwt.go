package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"society360/internal/identity"
	dErrors "society360/pkg/domain-errors"
)

// DefaultTokenTTL is how long issued credentials stay valid unless the
// configuration overrides it.
const DefaultTokenTTL = 30 * 24 * time.Hour

// Claims represents the JWT claims for access tokens. The embedded role is
// advisory only: the verifier re-resolves the authoritative role from the
// identity store on every request.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service handles JWT creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
}

// NewService builds a token service. An empty signing key is a configuration
// fault and is rejected here so the process fails at start, not per request.
func NewService(signingKey string, issuer string) (*Service, error) {
	if signingKey == "" {
		return nil, errors.New("jwt signing key must not be empty")
	}
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}, nil
}

func (s *Service) IssueToken(userID uuid.UUID, role identity.Role, expiresIn time.Duration) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// ValidateToken checks signature and expiry. Malformed, tampered, and expired
// tokens all collapse to the same unauthorized error so callers cannot probe
// validation internals.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
	}

	return claims, nil
}

// SubjectID extracts the subject identifier from validated claims.
func (c *Claims) SubjectID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token")
	}
	return id, nil
}
