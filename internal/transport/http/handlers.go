package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"society360/internal/audit"
	"society360/internal/auth"
	"society360/internal/identity"
	dErrors "society360/pkg/domain-errors"
	authmw "society360/pkg/platform/middleware/auth"
)

// AuditReader lists persisted audit records for the admin endpoint.
type AuditReader interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Record, error)
}

// Handler is the thin HTTP layer. It delegates to domain services so
// transport concerns stay isolated from business logic.
type Handler struct {
	auth     *auth.Service
	auditLog AuditReader
	logger   *slog.Logger
}

func NewHandler(authSvc *auth.Service, auditLog AuditReader, logger *slog.Logger) *Handler {
	return &Handler{
		auth:     authSvc,
		auditLog: auditLog,
		logger:   logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Role        string    `json:"role"`
}

func toIdentityResponse(ident *identity.Identity) identityResponse {
	return identityResponse{
		ID:          ident.ID,
		FullName:    ident.FullName,
		Email:       ident.Email,
		PhoneNumber: ident.PhoneNumber,
		Role:        string(ident.Role),
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": result.Token,
		"user":  toIdentityResponse(result.Identity),
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ident := authmw.GetIdentity(r.Context())
	h.auth.Logout(r.Context(), ident)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ident := authmw.GetIdentity(r.Context())
	writeJSON(w, http.StatusOK, toIdentityResponse(ident))
}

const auditListLimit = 100

func (h *Handler) handleAuditList(w http.ResponseWriter, r *http.Request) {
	records, err := h.auditLog.ListRecent(r.Context(), auditListLimit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "audit list failed", "error", err)
		writeError(w, dErrors.New(dErrors.CodeInternal, "could not list audit records"))
		return
	}
	if records == nil {
		records = []audit.Record{}
	}

	type auditRecordResponse struct {
		ID           uuid.UUID      `json:"id"`
		ActorID      *uuid.UUID     `json:"actor_id,omitempty"`
		Action       string         `json:"action"`
		ResourceType string         `json:"resource_type,omitempty"`
		ResourceID   *string        `json:"resource_id,omitempty"`
		IPAddress    string         `json:"ip_address,omitempty"`
		UserAgent    string         `json:"user_agent,omitempty"`
		Details      map[string]any `json:"details,omitempty"`
		CreatedAt    string         `json:"created_at"`
	}

	resp := make([]auditRecordResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, auditRecordResponse{
			ID:           rec.ID,
			ActorID:      rec.ActorID,
			Action:       string(rec.Action),
			ResourceType: rec.ResourceType,
			ResourceID:   rec.ResourceID,
			IPAddress:    rec.IPAddress,
			UserAgent:    rec.UserAgent,
			Details:      rec.Details,
			CreatedAt:    rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": resp})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError centralizes domain error translation to HTTP responses so all
// handlers share one JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := string(dErrors.CodeInternal)
	message := "internal error"

	var de dErrors.Error
	if errors.As(err, &de) {
		status = dErrors.ToHTTPStatus(de.Code)
		code = string(de.Code)
		message = de.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             code,
		"error_description": message,
	})
}
