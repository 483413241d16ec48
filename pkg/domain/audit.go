package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit action names.
const (
	AuditActionAccountCreated = "ACCOUNT_CREATED"
	AuditActionDeposit        = "DEPOSIT"
	AuditActionWithdrawal     = "WITHDRAWAL"
	AuditActionTransfer       = "TRANSFER"
)

// Actor identifies who performed a state-changing action and from where.
type Actor struct {
	PerformedBy string
	IPAddress   string
}

// AuditEntry is one append-only audit record. Entries are never updated or
// deleted by the engine.
type AuditEntry struct {
	ID          uuid.UUID
	Action      string
	PerformedBy string
	Details     string
	IPAddress   string
	CreatedAt   time.Time
}

// NewAuditEntry builds an audit record with a server-assigned timestamp.
func NewAuditEntry(action, performedBy, details, ipAddress string, at time.Time) *AuditEntry {
	return &AuditEntry{
		ID:          uuid.New(),
		Action:      action,
		PerformedBy: performedBy,
		Details:     details,
		IPAddress:   ipAddress,
		CreatedAt:   at,
	}
}
