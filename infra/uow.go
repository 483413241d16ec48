package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/corebank/corebank/pkg/repository"
	"gorm.io/gorm"
)

// UnitOfWork binds the repositories to a gorm database. Do opens a database
// transaction; repositories obtained outside Do run each call on its own
// connection.
type UnitOfWork struct {
	db          *gorm.DB
	scale       int32
	lockTimeout time.Duration
}

// NewUnitOfWork creates a postgres-backed unit of work. scale is the number
// of decimal places amounts are hydrated with; lockTimeout bounds how long a
// transaction waits on a contended account row before failing with
// ErrLockTimeout (zero disables the bound).
func NewUnitOfWork(db *gorm.DB, scale int32, lockTimeout time.Duration) *UnitOfWork {
	return &UnitOfWork{db: db, scale: scale, lockTimeout: lockTimeout}
}

// Do runs fn inside one database transaction. The lock timeout is scoped to
// the transaction via SET LOCAL, so a timed-out wait aborts only this unit.
func (u *UnitOfWork) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if u.lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return translateError(err)
			}
		}
		return fn(&txUnit{db: tx, scale: u.scale})
	})
}

// Accounts returns an account repository outside any transaction.
func (u *UnitOfWork) Accounts() repository.AccountRepository {
	return &accountRepository{db: u.db, scale: u.scale}
}

// Transactions returns a transaction repository outside any transaction.
func (u *UnitOfWork) Transactions() repository.TransactionRepository {
	return &transactionRepository{db: u.db, scale: u.scale}
}

// DailyUsage returns a daily usage repository outside any transaction.
func (u *UnitOfWork) DailyUsage() repository.DailyUsageRepository {
	return &usageRepository{db: u.db, scale: u.scale}
}

// AuditLogs returns an audit log repository outside any transaction.
func (u *UnitOfWork) AuditLogs() repository.AuditLogRepository {
	return &auditRepository{db: u.db}
}

// txUnit binds the repositories to one open transaction. A nested Do joins
// the enclosing transaction rather than opening a second one.
type txUnit struct {
	db    *gorm.DB
	scale int32
}

func (u *txUnit) Do(_ context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(u)
}

func (u *txUnit) Accounts() repository.AccountRepository {
	return &accountRepository{db: u.db, scale: u.scale}
}

func (u *txUnit) Transactions() repository.TransactionRepository {
	return &transactionRepository{db: u.db, scale: u.scale}
}

func (u *txUnit) DailyUsage() repository.DailyUsageRepository {
	return &usageRepository{db: u.db, scale: u.scale}
}

func (u *txUnit) AuditLogs() repository.AuditLogRepository {
	return &auditRepository{db: u.db}
}
