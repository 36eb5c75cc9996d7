package jwttoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"society360/internal/identity"
	dErrors "society360/pkg/domain-errors"
)

var (
	userID    = uuid.New()
	expiresIn = time.Hour
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService("test-signing-key", "society360-test")
	require.NoError(t, err)
	return svc
}

func Test_NewService_RequiresSigningKey(t *testing.T) {
	_, err := NewService("", "society360-test")
	require.Error(t, err)
}

func Test_IssueToken(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.IssueToken(userID, identity.RoleResident, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, string(identity.RoleResident), claims.Role)
	assert.WithinDuration(t, time.Now().Add(expiresIn), claims.ExpiresAt.Time, time.Minute)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Minute)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ValidateToken("invalid-token-string")
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.IssueToken(userID, identity.RoleStaff, -time.Hour)
	require.NoError(t, err)

	// Expired and malformed tokens are deliberately indistinguishable.
	_, err = svc.ValidateToken(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	svc := newTestService(t)
	other, err := NewService("another-signing-key", "society360-test")
	require.NoError(t, err)

	token, err := other.IssueToken(userID, identity.RoleAdministrator, expiresIn)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_SubjectID(t *testing.T) {
	t.Run("parses valid subject", func(t *testing.T) {
		claims := &Claims{UserID: userID.String()}
		id, err := claims.SubjectID()
		require.NoError(t, err)
		assert.Equal(t, userID, id)
	})

	t.Run("rejects malformed subject", func(t *testing.T) {
		claims := &Claims{UserID: "not-a-uuid"}
		_, err := claims.SubjectID()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
