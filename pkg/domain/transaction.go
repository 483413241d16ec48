package domain

import (
	"fmt"
	"time"

	"github.com/corebank/corebank/pkg/money"
	"github.com/google/uuid"
)

// TransactionType classifies a ledger entry.
type TransactionType string

// Ledger entry types. Transfers produce a linked pair: TRANSFER_OUT on the
// source account and TRANSFER_IN on the destination.
const (
	TransactionTypeDeposit     TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal  TransactionType = "WITHDRAWAL"
	TransactionTypeTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTypeTransferOut TransactionType = "TRANSFER_OUT"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal,
		TransactionTypeTransferIn, TransactionTypeTransferOut:
		return true
	}
	return false
}

// Transaction is one immutable ledger entry. Amount is signed: positive for
// DEPOSIT and TRANSFER_IN, negative for WITHDRAWAL and TRANSFER_OUT, so that
// BalanceAfter = BalanceBefore + Amount always holds.
type Transaction struct {
	ID                   uuid.UUID
	Code                 string
	AccountID            uuid.UUID
	AccountNumber        string
	Type                 TransactionType
	Amount               money.Amount
	BalanceBefore        money.Amount
	BalanceAfter         money.Amount
	Description          string
	RelatedAccountNumber string
	IdempotencyKey       string
	CreatedAt            time.Time
}

// NewTransactionParams carries everything a committed ledger entry needs.
type NewTransactionParams struct {
	Code                 string
	AccountID            uuid.UUID
	AccountNumber        string
	Type                 TransactionType
	Amount               money.Amount
	BalanceBefore        money.Amount
	BalanceAfter         money.Amount
	Description          string
	RelatedAccountNumber string
	IdempotencyKey       string
	At                   time.Time
}

// NewTransaction builds a ledger entry. The timestamp comes from the
// caller's clock, never from the wire.
func NewTransaction(p NewTransactionParams) *Transaction {
	return &Transaction{
		ID:                   uuid.New(),
		Code:                 p.Code,
		AccountID:            p.AccountID,
		AccountNumber:        p.AccountNumber,
		Type:                 p.Type,
		Amount:               p.Amount,
		BalanceBefore:        p.BalanceBefore,
		BalanceAfter:         p.BalanceAfter,
		Description:          p.Description,
		RelatedAccountNumber: p.RelatedAccountNumber,
		IdempotencyKey:       p.IdempotencyKey,
		CreatedAt:            p.At,
	}
}

// CodeSuffixBound is the exclusive upper bound of the random code suffix.
const CodeSuffixBound = 1_000_000

// NewTransactionCode renders the externally visible transaction code:
// prefix, millisecond epoch timestamp, 6-digit zero-padded suffix.
// Collisions are possible and are handled by the store's unique index
// together with the processor's retry.
func NewTransactionCode(prefix string, at time.Time, suffix int) string {
	return fmt.Sprintf("%s%d%06d", prefix, at.UnixMilli(), suffix%CodeSuffixBound)
}
