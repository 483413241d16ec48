package fixtures

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/dto"
	"github.com/corebank/corebank/pkg/money"
	"github.com/google/uuid"
)

type accountRepo struct {
	store *Store
	st    *state
}

func (r *accountRepo) Create(_ context.Context, account *domain.Account) error {
	return withState(r.store, r.st, func(st *state) error {
		if _, ok := st.accounts[account.Number]; ok {
			return duplicateKeyError(domain.ErrDuplicateAccountNumber, "account number "+account.Number)
		}
		cp := *account
		st.accounts[account.Number] = &cp
		st.accountIDs[account.ID] = account.Number
		return nil
	})
}

func (r *accountRepo) GetByNumber(_ context.Context, number string) (*domain.Account, error) {
	var out *domain.Account
	err := withState(r.store, r.st, func(st *state) error {
		a, ok := st.accounts[number]
		if !ok {
			return &domain.AccountNotFoundError{AccountNumber: number}
		}
		cp := *a
		out = &cp
		return nil
	})
	return out, err
}

// GetByNumberForUpdate behaves like GetByNumber; exclusivity comes from the
// store serializing units of work.
func (r *accountRepo) GetByNumberForUpdate(ctx context.Context, number string) (*domain.Account, error) {
	return r.GetByNumber(ctx, number)
}

func (r *accountRepo) UpdateBalance(_ context.Context, id uuid.UUID, balance money.Amount, at time.Time) error {
	return withState(r.store, r.st, func(st *state) error {
		number, ok := st.accountIDs[id]
		if !ok {
			return &domain.AccountNotFoundError{AccountNumber: id.String()}
		}
		acct := st.accounts[number]
		acct.Balance = balance
		acct.UpdatedAt = at
		return nil
	})
}

type transactionRepo struct {
	store *Store
	st    *state
}

func (r *transactionRepo) Create(_ context.Context, tx *domain.Transaction) error {
	return withState(r.store, r.st, func(st *state) error {
		for _, existing := range st.transactions {
			if existing.Code == tx.Code {
				return duplicateKeyError(domain.ErrTransactionCodeCollision, "code "+tx.Code)
			}
			if existing.IdempotencyKey == tx.IdempotencyKey && existing.Type == tx.Type {
				return duplicateKeyError(domain.ErrDuplicateIdempotencyKey, "key "+tx.IdempotencyKey)
			}
		}
		cp := *tx
		st.transactions = append(st.transactions, &cp)
		return nil
	})
}

func (r *transactionRepo) GetByCode(_ context.Context, code string) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := withState(r.store, r.st, func(st *state) error {
		for _, tx := range st.transactions {
			if tx.Code == code {
				cp := *tx
				out = &cp
				return nil
			}
		}
		return fmt.Errorf("transaction %s not found", code)
	})
	return out, err
}

func (r *transactionRepo) ListByIdempotencyKey(_ context.Context, key string) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	err := withState(r.store, r.st, func(st *state) error {
		for _, tx := range st.transactions {
			if tx.IdempotencyKey == key {
				cp := *tx
				out = append(out, &cp)
			}
		}
		// Commit order already places TRANSFER_OUT before TRANSFER_IN;
		// make it explicit for callers that rely on it.
		sort.SliceStable(out, func(i, j int) bool {
			return typeRank(out[i].Type) < typeRank(out[j].Type)
		})
		return nil
	})
	return out, err
}

func typeRank(t domain.TransactionType) int {
	if t == domain.TransactionTypeTransferIn {
		return 1
	}
	return 0
}

func (r *transactionRepo) ListByAccount(
	_ context.Context,
	accountID uuid.UUID,
	filter dto.TransactionFilter,
) (*dto.TransactionPage, error) {
	filter.Normalize()
	page := &dto.TransactionPage{Page: filter.Page, PageSize: filter.PageSize}
	err := withState(r.store, r.st, func(st *state) error {
		var matched []*domain.Transaction
		// Walk backwards: commit order reversed is newest-first.
		for i := len(st.transactions) - 1; i >= 0; i-- {
			tx := st.transactions[i]
			if tx.AccountID != accountID || !matchesFilter(tx, filter) {
				continue
			}
			cp := *tx
			matched = append(matched, &cp)
		}
		page.Total = int64(len(matched))
		start := (filter.Page - 1) * filter.PageSize
		if start >= len(matched) {
			return nil
		}
		end := start + filter.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		page.Items = matched[start:end]
		return nil
	})
	return page, err
}

func matchesFilter(tx *domain.Transaction, f dto.TransactionFilter) bool {
	if f.Type != nil && tx.Type != *f.Type {
		return false
	}
	if f.StartDate != nil && tx.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && tx.CreatedAt.After(*f.EndDate) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(tx.Description), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

type usageRepo struct {
	store *Store
	st    *state
}

func (r *usageRepo) GetForUpdate(_ context.Context, accountID uuid.UUID, date string) (*domain.DailyUsage, error) {
	var out *domain.DailyUsage
	err := withState(r.store, r.st, func(st *state) error {
		if u, ok := st.usage[usageKey(accountID, date)]; ok {
			cp := *u
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *usageRepo) Create(_ context.Context, usage *domain.DailyUsage) error {
	return withState(r.store, r.st, func(st *state) error {
		key := usageKey(usage.AccountID, usage.Date)
		if _, ok := st.usage[key]; ok {
			return fmt.Errorf("daily usage row %s already exists", key)
		}
		cp := *usage
		st.usage[key] = &cp
		return nil
	})
}

func (r *usageRepo) Update(_ context.Context, usage *domain.DailyUsage) error {
	return withState(r.store, r.st, func(st *state) error {
		cp := *usage
		st.usage[usageKey(usage.AccountID, usage.Date)] = &cp
		return nil
	})
}

type auditRepo struct {
	store *Store
	st    *state
}

func (r *auditRepo) Create(_ context.Context, entry *domain.AuditEntry) error {
	return withState(r.store, r.st, func(st *state) error {
		cp := *entry
		st.audits = append(st.audits, &cp)
		return nil
	})
}
