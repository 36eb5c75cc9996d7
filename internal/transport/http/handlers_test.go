package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"society360/internal/audit"
	"society360/internal/auth"
	"society360/internal/identity"
	jwttoken "society360/internal/jwt_token"
	"society360/pkg/testutil"
)

type fixture struct {
	router     http.Handler
	identities *identity.InMemoryStore
	auditStore *audit.InMemoryStore
	tokens     *jwttoken.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := slog.New(slog.DiscardHandler)
	tokens, err := jwttoken.NewService("handler-test-key", "society360-test")
	require.NoError(t, err)

	identities := identity.NewInMemoryStore()
	auditStore := audit.NewInMemoryStore()
	recorder := audit.NewRecorder(auditStore, log)

	authSvc := auth.NewService(identities, tokens, recorder, log, time.Hour)
	verifier := auth.NewVerifier(tokens, identities, log)
	handler := NewHandler(authSvc, auditStore, log)

	return &fixture{
		router:     NewRouter(handler, verifier, nil, log),
		identities: identities,
		auditStore: auditStore,
		tokens:     tokens,
	}
}

const fixturePassword = "handlers-test-password"

func (f *fixture) seedUser(t *testing.T, role identity.Role) *identity.Identity {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(fixturePassword), bcrypt.MinCost)
	require.NoError(t, err)

	ident := &identity.Identity{
		ID:           uuid.New(),
		FullName:     "Robin Example",
		Email:        uuid.NewString() + "@example.com",
		Role:         role,
		PasswordHash: string(hash),
		Active:       true,
	}
	require.NoError(t, f.identities.Save(context.Background(), ident))
	return ident
}

func (f *fixture) login(t *testing.T, email, password string) string {
	t.Helper()

	req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	rec := testutil.DoRequest(f.router, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLoginEndpoint(t *testing.T) {
	f := newFixture(t)
	ident := f.seedUser(t, identity.RoleResident)

	t.Run("success returns token and user", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
			"email":    ident.Email,
			"password": fixturePassword,
		})
		rec := testutil.DoRequest(f.router, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Token string `json:"token"`
			User  struct {
				ID   uuid.UUID `json:"id"`
				Role string    `json:"role"`
			} `json:"user"`
		}
		testutil.DecodeJSON(t, rec, &resp)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, ident.ID, resp.User.ID)
		assert.Equal(t, "resident", resp.User.Role)
	})

	t.Run("bad password is generic 401", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
			"email":    ident.Email,
			"password": "wrong",
		})
		rec := testutil.DoRequest(f.router, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid email or password")
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodPost, "/auth/login")
		rec := testutil.DoRequest(f.router, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMeEndpoint(t *testing.T) {
	f := newFixture(t)
	ident := f.seedUser(t, identity.RoleStaff)
	token := f.login(t, ident.Email, fixturePassword)

	t.Run("returns resolved identity", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/me")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := testutil.DoRequest(f.router, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			ID   uuid.UUID `json:"id"`
			Role string    `json:"role"`
		}
		testutil.DecodeJSON(t, rec, &resp)
		assert.Equal(t, ident.ID, resp.ID)
		assert.Equal(t, "staff", resp.Role)
	})

	t.Run("role change visible on next request with same token", func(t *testing.T) {
		ident.Role = identity.RoleAdministrator
		require.NoError(t, f.identities.Save(context.Background(), ident))

		req := testutil.NewRequest(t, http.MethodGet, "/me")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := testutil.DoRequest(f.router, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Role string `json:"role"`
		}
		testutil.DecodeJSON(t, rec, &resp)
		assert.Equal(t, "administrator", resp.Role)
	})

	t.Run("no token is 401", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/me")
		rec := testutil.DoRequest(f.router, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAdminAuditEndpoint(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, identity.RoleAdministrator)
	staff := f.seedUser(t, identity.RoleStaff)

	adminToken := f.login(t, admin.Email, fixturePassword)
	staffToken := f.login(t, staff.Email, fixturePassword)

	t.Run("administrator sees recent records", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/admin/audit")
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rec := testutil.DoRequest(f.router, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Records []struct {
				Action string `json:"action"`
			} `json:"records"`
		}
		testutil.DecodeJSON(t, rec, &resp)
		// Both logins above were audited.
		require.Len(t, resp.Records, 2)
		assert.Equal(t, "user_login", resp.Records[0].Action)
	})

	t.Run("staff is forbidden with role named", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/admin/audit")
		req.Header.Set("Authorization", "Bearer "+staffToken)
		rec := testutil.DoRequest(f.router, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "staff")
	})
}

func TestLogoutEndpoint(t *testing.T) {
	f := newFixture(t)
	ident := f.seedUser(t, identity.RoleResident)
	token := f.login(t, ident.Email, fixturePassword)

	req := testutil.NewRequest(t, http.MethodPost, "/auth/logout")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", "logout-test/1.0")
	rec := testutil.DoRequest(f.router, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)

	records := f.auditStore.All()
	require.Len(t, records, 2)
	logout := records[1]
	assert.Equal(t, audit.ActionUserLogout, logout.Action)
	require.NotNil(t, logout.ActorID)
	assert.Equal(t, ident.ID, *logout.ActorID)
	assert.Equal(t, "logout-test/1.0", logout.UserAgent)
	assert.NotEmpty(t, logout.IPAddress)

	// Stateless credentials stay valid until expiry; logout is audit-only.
	again := testutil.NewRequest(t, http.MethodGet, "/me")
	again.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, testutil.DoRequest(f.router, again).Code)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
