package infra

import (
	"time"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is the persisted form of a customer account.
type Account struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number    string          `gorm:"size:10;not null;uniqueIndex:idx_accounts_number"`
	Type      string          `gorm:"type:varchar(16);not null"`
	Status    string          `gorm:"type:varchar(16);not null;default:'ACTIVE'"`
	Balance   decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Transaction is the persisted form of a ledger entry. The composite unique
// index on (idempotency_key, type) lets a transfer record both of its legs
// under one idempotency key while still rejecting duplicate submissions.
type Transaction struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code                 string          `gorm:"size:32;not null;uniqueIndex:idx_transactions_code"`
	AccountID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountNumber        string          `gorm:"size:10;not null"`
	Type                 string          `gorm:"type:varchar(16);not null;uniqueIndex:idx_transactions_idempotency,priority:2"`
	Amount               decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	BalanceBefore        decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	BalanceAfter         decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	Description          string          `gorm:"type:text"`
	RelatedAccountNumber string          `gorm:"size:10"`
	IdempotencyKey       string          `gorm:"size:64;not null;uniqueIndex:idx_transactions_idempotency,priority:1"`
	CreatedAt            time.Time       `gorm:"index"`
}

// DailyUsage is the persisted per-account-day running total.
type DailyUsage struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_daily_usage_account_date,priority:1"`
	Date        string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_usage_account_date,priority:2"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(19,4);not null"`
	Count       int             `gorm:"not null"`
	UpdatedAt   time.Time
}

// TableName keeps the table singular; "daily_usages" reads wrong.
func (DailyUsage) TableName() string { return "daily_usage" }

// AuditLog is one append-only audit record. Rows are never updated.
type AuditLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Action      string    `gorm:"type:varchar(32);not null;index"`
	PerformedBy string    `gorm:"size:64;not null"`
	Details     string    `gorm:"type:text"`
	IPAddress   string    `gorm:"size:45"`
	CreatedAt   time.Time `gorm:"index"`
}

func accountToModel(a *domain.Account) Account {
	return Account{
		ID:        a.ID,
		Number:    a.Number,
		Type:      string(a.Type),
		Status:    string(a.Status),
		Balance:   a.Balance.Decimal(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func accountFromModel(m *Account, scale int32) *domain.Account {
	return &domain.Account{
		ID:        m.ID,
		Number:    m.Number,
		Type:      domain.AccountType(m.Type),
		Status:    domain.AccountStatus(m.Status),
		Balance:   money.FromDecimal(m.Balance, scale),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func transactionToModel(tx *domain.Transaction) Transaction {
	return Transaction{
		ID:                   tx.ID,
		Code:                 tx.Code,
		AccountID:            tx.AccountID,
		AccountNumber:        tx.AccountNumber,
		Type:                 string(tx.Type),
		Amount:               tx.Amount.Decimal(),
		BalanceBefore:        tx.BalanceBefore.Decimal(),
		BalanceAfter:         tx.BalanceAfter.Decimal(),
		Description:          tx.Description,
		RelatedAccountNumber: tx.RelatedAccountNumber,
		IdempotencyKey:       tx.IdempotencyKey,
		CreatedAt:            tx.CreatedAt,
	}
}

func transactionFromModel(m *Transaction, scale int32) *domain.Transaction {
	return &domain.Transaction{
		ID:                   m.ID,
		Code:                 m.Code,
		AccountID:            m.AccountID,
		AccountNumber:        m.AccountNumber,
		Type:                 domain.TransactionType(m.Type),
		Amount:               money.FromDecimal(m.Amount, scale),
		BalanceBefore:        money.FromDecimal(m.BalanceBefore, scale),
		BalanceAfter:         money.FromDecimal(m.BalanceAfter, scale),
		Description:          m.Description,
		RelatedAccountNumber: m.RelatedAccountNumber,
		IdempotencyKey:       m.IdempotencyKey,
		CreatedAt:            m.CreatedAt,
	}
}

func usageToModel(u *domain.DailyUsage) DailyUsage {
	return DailyUsage{
		ID:          u.ID,
		AccountID:   u.AccountID,
		Date:        u.Date,
		TotalAmount: u.TotalAmount.Decimal(),
		Count:       u.Count,
	}
}

func usageFromModel(m *DailyUsage, scale int32) *domain.DailyUsage {
	return &domain.DailyUsage{
		ID:          m.ID,
		AccountID:   m.AccountID,
		Date:        m.Date,
		TotalAmount: money.FromDecimal(m.TotalAmount, scale),
		Count:       m.Count,
	}
}

func auditToModel(e *domain.AuditEntry) AuditLog {
	return AuditLog{
		ID:          e.ID,
		Action:      e.Action,
		PerformedBy: e.PerformedBy,
		Details:     e.Details,
		IPAddress:   e.IPAddress,
		CreatedAt:   e.CreatedAt,
	}
}
