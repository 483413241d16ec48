// Package repository defines the storage contracts the engine composes:
// per-entity repositories plus the UnitOfWork that binds them to one atomic
// commit. Implementations live in infra (postgres) and internal/fixtures
// (in-memory, for tests).
package repository

import (
	"context"
	"time"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/dto"
	"github.com/corebank/corebank/pkg/money"
	"github.com/google/uuid"
)

// AccountRepository is the data access contract for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)

	// GetByNumberForUpdate fetches the account and acquires exclusive
	// access to it for the remainder of the enclosing unit of work.
	// This is the engine's only blocking point.
	GetByNumberForUpdate(ctx context.Context, number string) (*domain.Account, error)

	// UpdateBalance writes a new balance for the account. Callers must hold
	// the account via GetByNumberForUpdate.
	UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Amount, at time.Time) error
}

// TransactionRepository is the data access contract for ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByCode(ctx context.Context, code string) (*domain.Transaction, error)

	// ListByIdempotencyKey returns every committed leg recorded under the
	// key, TRANSFER_OUT before TRANSFER_IN. Empty result means the key is
	// unused.
	ListByIdempotencyKey(ctx context.Context, key string) ([]*domain.Transaction, error)

	// ListByAccount returns a filtered page of the account's history,
	// newest first.
	ListByAccount(ctx context.Context, accountID uuid.UUID, filter dto.TransactionFilter) (*dto.TransactionPage, error)
}

// DailyUsageRepository is the data access contract for per-account-day
// running totals.
type DailyUsageRepository interface {
	// GetForUpdate fetches the usage row for the account-date pair with
	// exclusive access, or (nil, nil) when no transaction has been
	// committed for that pair yet.
	GetForUpdate(ctx context.Context, accountID uuid.UUID, date string) (*domain.DailyUsage, error)
	Create(ctx context.Context, usage *domain.DailyUsage) error
	Update(ctx context.Context, usage *domain.DailyUsage) error
}

// AuditLogRepository appends audit records. There is no read contract;
// audit rows are write-only for the engine.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
}

// UnitOfWork runs a function against repositories bound to a single atomic
// commit: every mutation made through the provided repositories is durable
// if and only if fn returns nil.
type UnitOfWork interface {
	// Do executes fn inside a transaction boundary. A non-nil return rolls
	// back everything fn did through the unit's repositories.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	Accounts() AccountRepository
	Transactions() TransactionRepository
	DailyUsage() DailyUsageRepository
	AuditLogs() AuditLogRepository
}
