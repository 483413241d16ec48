package domain

import (
	"errors"
	"fmt"

	"github.com/corebank/corebank/pkg/money"
)

var (
	// ErrInvalidAmount is returned when an amount is non-positive or
	// carries more decimal places than the configured scale.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAccountNotFound is returned when an account number resolves to nothing.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountNotActive is returned when a frozen or closed account is
	// named in an operation.
	ErrAccountNotActive = errors.New("account is not active")

	// ErrInsufficientFunds is returned when a debit would take the balance
	// below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDailyLimitExceeded is returned when an operation would push the
	// account's daily total amount or count past the configured ceiling.
	ErrDailyLimitExceeded = errors.New("daily transaction limit exceeded")

	// ErrDuplicateIdempotencyKey is returned when the idempotency guard is
	// configured to reject rather than replay a duplicate key.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

	// ErrTransactionCodeCollision signals a generated transaction code that
	// already exists. The processor retries this internally; callers only
	// see it after the retries are exhausted.
	ErrTransactionCodeCollision = errors.New("transaction code collision")

	// ErrDuplicateAccountNumber signals a generated account number that
	// already exists. The account service retries generation.
	ErrDuplicateAccountNumber = errors.New("duplicate account number")

	// ErrLockTimeout is returned when per-account exclusivity could not be
	// acquired within the configured bound. The atomic unit did not commit.
	ErrLockTimeout = errors.New("timed out waiting for account lock")
)

// InvalidAmountError reports a rejected amount with its raw value.
type InvalidAmountError struct {
	Value string
	Cause error
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %q: %v", e.Value, e.Cause)
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }

// AccountNotFoundError reports which account number missed.
type AccountNotFoundError struct {
	AccountNumber string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %s not found", e.AccountNumber)
}

func (e *AccountNotFoundError) Unwrap() error { return ErrAccountNotFound }

// AccountNotActiveError reports the offending account and its status.
type AccountNotActiveError struct {
	AccountNumber string
	Status        AccountStatus
}

func (e *AccountNotActiveError) Error() string {
	return fmt.Sprintf("account %s is %s", e.AccountNumber, e.Status)
}

func (e *AccountNotActiveError) Unwrap() error { return ErrAccountNotActive }

// InsufficientFundsError reports the attempted debit against the balance
// that was actually available.
type InsufficientFundsError struct {
	AccountNumber string
	Requested     money.Amount
	Available     money.Amount
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("account %s has %s, cannot debit %s",
		e.AccountNumber, e.Available, e.Requested)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// DailyLimitExceededError reports which ceiling would be crossed.
type DailyLimitExceededError struct {
	AccountNumber string
	Date          string
	Attempted     money.Amount
	UsedAmount    money.Amount
	AmountCeiling money.Amount
	UsedCount     int
	CountCeiling  int
}

func (e *DailyLimitExceededError) Error() string {
	return fmt.Sprintf(
		"account %s daily limit on %s: attempted %s with %s of %s used and %d of %d transactions",
		e.AccountNumber, e.Date, e.Attempted,
		e.UsedAmount, e.AmountCeiling, e.UsedCount, e.CountCeiling)
}

func (e *DailyLimitExceededError) Unwrap() error { return ErrDailyLimitExceeded }
