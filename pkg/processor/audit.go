package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/repository"
)

// auditRecorder appends one immutable audit record per committed ledger
// entry. Audit is not best-effort: a failed append fails the whole unit.
type auditRecorder struct {
	logs repository.AuditLogRepository
}

func newAuditRecorder(logs repository.AuditLogRepository) *auditRecorder {
	return &auditRecorder{logs: logs}
}

func (r *auditRecorder) record(
	ctx context.Context,
	action string,
	actor domain.Actor,
	tx *domain.Transaction,
	at time.Time,
) error {
	details := fmt.Sprintf("transaction %s: %s %s on account %s, balance %s -> %s",
		tx.Code, tx.Type, tx.Amount.Abs(), tx.AccountNumber, tx.BalanceBefore, tx.BalanceAfter)
	if tx.RelatedAccountNumber != "" {
		details += fmt.Sprintf(", related account %s", tx.RelatedAccountNumber)
	}

	performedBy := actor.PerformedBy
	if performedBy == "" {
		performedBy = tx.AccountNumber
	}
	return r.logs.Create(ctx, domain.NewAuditEntry(action, performedBy, details, actor.IPAddress, at))
}
