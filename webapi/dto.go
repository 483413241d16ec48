package webapi

import (
	"time"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/dto"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest opens a new account.
type CreateAccountRequest struct {
	AccountType string `json:"accountType" validate:"required,oneof=CHECKING SAVINGS"`
}

// DepositRequest credits an account. Amounts travel as JSON strings or
// numbers; shopspring/decimal accepts both without losing precision.
type DepositRequest struct {
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	Description    string          `json:"description" validate:"max=255"`
	IdempotencyKey string          `json:"idempotencyKey" validate:"required,max=64"`
}

// WithdrawRequest debits an account.
type WithdrawRequest struct {
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	Description    string          `json:"description" validate:"max=255"`
	IdempotencyKey string          `json:"idempotencyKey" validate:"required,max=64"`
}

// TransferRequest moves funds between two accounts.
type TransferRequest struct {
	FromAccountNumber string          `json:"fromAccountNumber" validate:"required,len=10,numeric"`
	ToAccountNumber   string          `json:"toAccountNumber" validate:"required,len=10,numeric"`
	Amount            decimal.Decimal `json:"amount" validate:"required"`
	Description       string          `json:"description" validate:"max=255"`
	IdempotencyKey    string          `json:"idempotencyKey" validate:"required,max=64"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"accountNumber"`
	AccountType   string    `json:"accountType"`
	Status        string    `json:"status"`
	Balance       string    `json:"balance"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TransactionResponse is the API representation of a ledger entry. Amounts
// render as fixed-scale strings; the signed amount keeps
// balanceAfter = balanceBefore + amount visible to clients.
type TransactionResponse struct {
	ID                   string    `json:"id"`
	TransactionID        string    `json:"transactionId"`
	AccountNumber        string    `json:"accountNumber"`
	TransactionType      string    `json:"transactionType"`
	Amount               string    `json:"amount"`
	BalanceBefore        string    `json:"balanceBefore"`
	BalanceAfter         string    `json:"balanceAfter"`
	Description          string    `json:"description,omitempty"`
	RelatedAccountNumber string    `json:"relatedAccountNumber,omitempty"`
	TransactionDate      time.Time `json:"transactionDate"`
}

// TransferResponse carries both legs of a committed transfer, the
// TRANSFER_OUT leg first.
type TransferResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
}

// TransactionPageResponse is one page of account history, newest first.
type TransactionPageResponse struct {
	Items    []*TransactionResponse `json:"items"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"pageSize"`
	Total    int64                  `json:"total"`
}

// ToAccountResponse maps a domain account to its API form.
func ToAccountResponse(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID.String(),
		AccountNumber: a.Number,
		AccountType:   string(a.Type),
		Status:        string(a.Status),
		Balance:       a.Balance.String(),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// ToTransactionResponse maps a domain transaction to its API form.
func ToTransactionResponse(tx *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                   tx.ID.String(),
		TransactionID:        tx.Code,
		AccountNumber:        tx.AccountNumber,
		TransactionType:      string(tx.Type),
		Amount:               tx.Amount.String(),
		BalanceBefore:        tx.BalanceBefore.String(),
		BalanceAfter:         tx.BalanceAfter.String(),
		Description:          tx.Description,
		RelatedAccountNumber: tx.RelatedAccountNumber,
		TransactionDate:      tx.CreatedAt,
	}
}

// ToTransactionPageResponse maps a history page to its API form.
func ToTransactionPageResponse(page *dto.TransactionPage) *TransactionPageResponse {
	items := make([]*TransactionResponse, 0, len(page.Items))
	for _, tx := range page.Items {
		items = append(items, ToTransactionResponse(tx))
	}
	return &TransactionPageResponse{
		Items:    items,
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    page.Total,
	}
}
