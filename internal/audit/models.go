package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action is the closed taxonomy of auditable action codes. The recorder does
// not validate membership, but downstream reporting assumes this set.
type Action string

const (
	// Identity lifecycle
	ActionUserLogin         Action = "user_login"
	ActionUserLogout        Action = "user_logout"
	ActionUserCreated       Action = "user_created"
	ActionUserUpdated       Action = "user_updated"
	ActionUserDeleted       Action = "user_deleted"
	ActionUserStatusChanged Action = "user_status_changed"
	ActionUserRoleChanged   Action = "user_role_changed"
	ActionAuthFailed        Action = "auth_failed"

	// Unit and block lifecycle
	ActionUnitCreated      Action = "unit_created"
	ActionUnitUpdated      Action = "unit_updated"
	ActionUnitDeleted      Action = "unit_deleted"
	ActionResidentAssigned Action = "unit_resident_assigned"
	ActionResidentRemoved  Action = "unit_resident_removed"
	ActionBlockCreated     Action = "block_created"
	ActionBlockUpdated     Action = "block_updated"
	ActionBlockDeleted     Action = "block_deleted"

	// Configuration lifecycle
	ActionConfigCreated Action = "config_created"
	ActionConfigUpdated Action = "config_updated"
	ActionConfigDeleted Action = "config_deleted"

	// Maintenance workflow
	ActionTicketCreated  Action = "maintenance_ticket_created"
	ActionTicketUpdated  Action = "maintenance_ticket_updated"
	ActionTicketAssigned Action = "maintenance_ticket_assigned"
	ActionTicketResolved Action = "maintenance_ticket_resolved"

	// Finance events
	ActionBillCreated     Action = "bill_created"
	ActionPaymentRecorded Action = "payment_recorded"

	// Visitor workflow
	ActionVisitorApproved   Action = "visitor_approved"
	ActionVisitorDenied     Action = "visitor_denied"
	ActionVisitorCheckedIn  Action = "visitor_checked_in"
	ActionVisitorCheckedOut Action = "visitor_checked_out"

	// Communication events
	ActionAnnouncementCreated Action = "announcement_created"
	ActionAnnouncementUpdated Action = "announcement_updated"
	ActionAnnouncementDeleted Action = "announcement_deleted"
	ActionMessagePosted       Action = "message_posted"
	ActionMessageDeleted      Action = "message_deleted"
)

// Entry is what callers submit to the recorder. Client metadata (IP,
// User-Agent) is read from the request context, not from the entry.
type Entry struct {
	// ActorID is nil for system-initiated actions.
	ActorID      *uuid.UUID
	Action       Action
	ResourceType string
	ResourceID   *string
	Details      map[string]any
}

// Record is an immutable append-only log entry. Once written it is never
// mutated or deleted by this core; CreatedAt is assigned at write time.
type Record struct {
	ID           uuid.UUID
	ActorID      *uuid.UUID
	Action       Action
	ResourceType string
	ResourceID   *string
	IPAddress    string
	UserAgent    string
	Details      map[string]any
	CreatedAt    time.Time
}
