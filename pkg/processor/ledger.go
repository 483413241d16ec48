package processor

import (
	"context"
	"time"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/money"
	"github.com/corebank/corebank/pkg/repository"
)

// ledger is the account balance view: it applies signed deltas and returns
// the before/after snapshots that go on the ledger entry. It never commits
// on its own; durability belongs to the enclosing unit of work.
type ledger struct {
	accounts repository.AccountRepository
}

func newLedger(accounts repository.AccountRepository) *ledger {
	return &ledger{accounts: accounts}
}

// applyDelta moves the account balance by the signed amount. The caller
// must hold the account exclusively. A delta that would take the balance
// below zero is rejected; no account type carries a negative balance.
func (l *ledger) applyDelta(
	ctx context.Context,
	acct *domain.Account,
	delta money.Amount,
	at time.Time,
) (before, after money.Amount, err error) {
	before = acct.Balance
	after = before.Add(delta)

	if after.IsNegative() {
		return money.Amount{}, money.Amount{}, &domain.InsufficientFundsError{
			AccountNumber: acct.Number,
			Requested:     delta.Abs(),
			Available:     before,
		}
	}

	if err := l.accounts.UpdateBalance(ctx, acct.ID, after, at); err != nil {
		return money.Amount{}, money.Amount{}, err
	}
	acct.Balance = after
	acct.UpdatedAt = at
	return before, after, nil
}
