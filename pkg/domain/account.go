// Package domain holds the entities and error taxonomy of the ledger engine:
// accounts, transactions, daily usage counters and audit entries, together
// with the constructors that stamp identifiers and timestamps from injected
// sources so tests can control both.
package domain

import (
	"fmt"
	"time"

	"github.com/corebank/corebank/pkg/money"
	"github.com/google/uuid"
)

// AccountType classifies an account.
type AccountType string

// Supported account types.
const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	return t == AccountTypeChecking || t == AccountTypeSavings
}

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

// Account lifecycle states. Only active accounts may transact.
const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusFrozen AccountStatus = "FROZEN"
	AccountStatusClosed AccountStatus = "CLOSED"
)

// Account is a customer account. The engine consumes accounts; it creates
// them only through the account service and mutates nothing but the balance.
type Account struct {
	ID        uuid.UUID
	Number    string
	Type      AccountType
	Status    AccountStatus
	Balance   money.Amount
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount creates an active account with a zero balance.
func NewAccount(number string, accountType AccountType, scale int32, at time.Time) *Account {
	return &Account{
		ID:        uuid.New(),
		Number:    number,
		Type:      accountType,
		Status:    AccountStatusActive,
		Balance:   money.Zero(scale),
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// IsActive reports whether the account may take part in transactions.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// AccountNumberDigits is the length of a generated account number.
const AccountNumberDigits = 10

// NewAccountNumber renders a human-facing account number from a random
// value in [0, 10^10). Uniqueness is enforced by the store, not here.
func NewAccountNumber(n int64) string {
	return fmt.Sprintf("%0*d", AccountNumberDigits, n)
}
