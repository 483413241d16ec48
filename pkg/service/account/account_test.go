package account_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/corebank/corebank/internal/fixtures"
	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/dto"
	"github.com/corebank/corebank/pkg/money"
	"github.com/corebank/corebank/pkg/service/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, opts ...account.Option) (*account.Service, *fixtures.Store) {
	t.Helper()
	store := fixtures.NewStore()
	return account.NewService(store, 2, slog.Default(), opts...), store
}

func TestCreateAccount(t *testing.T) {
	t.Parallel()
	svc, store := newService(t,
		account.WithNumberSource(func() int64 { return 42 }),
	)

	acct, err := svc.CreateAccount(context.Background(), domain.AccountTypeChecking, domain.Actor{
		PerformedBy: "onboarding",
		IPAddress:   "192.0.2.10",
	})
	require.NoError(t, err)
	assert.Equal(t, "0000000042", acct.Number)
	assert.Equal(t, domain.AccountTypeChecking, acct.Type)
	assert.Equal(t, domain.AccountStatusActive, acct.Status)
	assert.Equal(t, "0.00", acct.Balance.String())

	audits := store.AuditEntries()
	require.Len(t, audits, 1)
	assert.Equal(t, domain.AuditActionAccountCreated, audits[0].Action)
	assert.Equal(t, "onboarding", audits[0].PerformedBy)
	assert.Equal(t, "192.0.2.10", audits[0].IPAddress)
	assert.Contains(t, audits[0].Details, acct.Number)
}

func TestCreateAccountInvalidType(t *testing.T) {
	t.Parallel()
	svc, store := newService(t)

	_, err := svc.CreateAccount(context.Background(), domain.AccountType("MONEY_MARKET"), domain.Actor{})
	require.ErrorIs(t, err, account.ErrInvalidAccountType)
	assert.Empty(t, store.AuditEntries())
}

func TestCreateAccountNumberCollisionRetried(t *testing.T) {
	t.Parallel()
	numbers := []int64{42, 42, 77}
	var calls int
	svc, _ := newService(t,
		account.WithNumberSource(func() int64 {
			n := numbers[calls%len(numbers)]
			calls++
			return n
		}),
	)
	ctx := context.Background()

	first, err := svc.CreateAccount(ctx, domain.AccountTypeChecking, domain.Actor{})
	require.NoError(t, err)
	assert.Equal(t, "0000000042", first.Number)

	second, err := svc.CreateAccount(ctx, domain.AccountTypeSavings, domain.Actor{})
	require.NoError(t, err)
	assert.Equal(t, "0000000077", second.Number)
}

func TestGetAccount(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, account.WithNumberSource(func() int64 { return 7 }))
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, domain.AccountTypeSavings, domain.Actor{})
	require.NoError(t, err)

	got, err := svc.GetAccount(ctx, created.Number)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, domain.AccountTypeSavings, got.Type)

	_, err = svc.GetAccount(ctx, "9999999999")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func seedHistory(t *testing.T, store *fixtures.Store, acct *domain.Account) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []struct {
		typ    domain.TransactionType
		amount string
		desc   string
		offset time.Duration
	}{
		{domain.TransactionTypeDeposit, "100.00", "salary june", 0},
		{domain.TransactionTypeWithdrawal, "-20.00", "coffee", time.Hour},
		{domain.TransactionTypeDeposit, "50.00", "refund", 2 * time.Hour},
		{domain.TransactionTypeWithdrawal, "-10.00", "snack", 26 * time.Hour},
	}
	balance, err := money.Parse("0.00", 2)
	require.NoError(t, err)
	for i, e := range entries {
		amt, err := money.Parse(e.amount, 2)
		require.NoError(t, err)
		at := base.Add(e.offset)
		tx := domain.NewTransaction(domain.NewTransactionParams{
			Code:           domain.NewTransactionCode("TXN", at, i),
			AccountID:      acct.ID,
			AccountNumber:  acct.Number,
			Type:           e.typ,
			Amount:         amt,
			BalanceBefore:  balance,
			BalanceAfter:   balance.Add(amt),
			Description:    e.desc,
			IdempotencyKey: e.desc,
			At:             at,
		})
		balance = balance.Add(amt)
		require.NoError(t, store.Transactions().Create(ctx, tx))
	}
}

func TestListTransactions(t *testing.T) {
	t.Parallel()
	svc, store := newService(t, account.WithNumberSource(func() int64 { return 7 }))
	ctx := context.Background()

	acct, err := svc.CreateAccount(ctx, domain.AccountTypeChecking, domain.Actor{})
	require.NoError(t, err)
	seedHistory(t, store, acct)

	t.Run("newest first", func(t *testing.T) {
		page, err := svc.ListTransactions(ctx, acct.Number, dto.TransactionFilter{})
		require.NoError(t, err)
		require.Len(t, page.Items, 4)
		assert.EqualValues(t, 4, page.Total)
		assert.Equal(t, "snack", page.Items[0].Description)
		assert.Equal(t, "salary june", page.Items[3].Description)
	})

	t.Run("type filter", func(t *testing.T) {
		typ := domain.TransactionTypeDeposit
		page, err := svc.ListTransactions(ctx, acct.Number, dto.TransactionFilter{Type: &typ})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		for _, tx := range page.Items {
			assert.Equal(t, domain.TransactionTypeDeposit, tx.Type)
		}
	})

	t.Run("date range", func(t *testing.T) {
		start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 6, 1, 23, 59, 59, 0, time.UTC)
		page, err := svc.ListTransactions(ctx, acct.Number, dto.TransactionFilter{
			StartDate: &start,
			EndDate:   &end,
		})
		require.NoError(t, err)
		assert.Len(t, page.Items, 3)
	})

	t.Run("description search", func(t *testing.T) {
		page, err := svc.ListTransactions(ctx, acct.Number, dto.TransactionFilter{Search: "SALARY"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "salary june", page.Items[0].Description)
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := svc.ListTransactions(ctx, acct.Number, dto.TransactionFilter{Page: 2, PageSize: 3})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.EqualValues(t, 4, page.Total)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, "salary june", page.Items[0].Description)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := svc.ListTransactions(ctx, "9999999999", dto.TransactionFilter{})
		require.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}
