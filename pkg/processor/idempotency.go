package processor

import (
	"context"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/repository"
)

// idempotencyGuard maps a caller-supplied key to a previously committed
// result. Registration is the transaction rows' own unique index on
// (idempotency_key, transaction_type): it commits atomically with the
// operation it guards, so a crash can never leave a committed transaction
// without a registered key or vice versa.
type idempotencyGuard struct {
	transactions repository.TransactionRepository
}

func newIdempotencyGuard(transactions repository.TransactionRepository) *idempotencyGuard {
	return &idempotencyGuard{transactions: transactions}
}

// lookup returns the committed legs recorded under key, TRANSFER_OUT before
// TRANSFER_IN, or an empty slice when the key is unused.
func (g *idempotencyGuard) lookup(ctx context.Context, key string) ([]*domain.Transaction, error) {
	return g.transactions.ListByIdempotencyKey(ctx, key)
}
