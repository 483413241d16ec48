// Package processor implements the transaction engine: it turns a validated
// intent (deposit, withdraw, transfer) into a durable ledger entry plus
// updated balances, daily usage counters and an audit trail, all inside one
// atomic unit of work. The collaborating pieces live alongside it in this
// package: the account ledger, the daily limit tracker, the idempotency
// guard and the audit recorder.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/money"
	"github.com/corebank/corebank/pkg/repository"
	"github.com/shopspring/decimal"
)

// IdempotencyPolicy decides what a caller sees when its key collides with a
// concurrently committed first attempt.
type IdempotencyPolicy string

const (
	// PolicyReplay re-reads and returns the stored result.
	PolicyReplay IdempotencyPolicy = "replay"
	// PolicyReject surfaces ErrDuplicateIdempotencyKey and lets the caller retry.
	PolicyReject IdempotencyPolicy = "reject"
)

// ParsePolicy validates a configured policy value. The empty string means
// the default, PolicyReplay; anything else unrecognized is a configuration
// error and should fail startup rather than silently replay.
func ParsePolicy(raw string) (IdempotencyPolicy, error) {
	switch policy := IdempotencyPolicy(raw); policy {
	case "":
		return PolicyReplay, nil
	case PolicyReplay, PolicyReject:
		return policy, nil
	default:
		return "", fmt.Errorf("unknown idempotency policy %q", raw)
	}
}

var (
	// ErrIdempotencyKeyRequired is returned when an operation arrives
	// without an idempotency key.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")

	// ErrTransferSameAccount is returned when a transfer names the same
	// account on both sides.
	ErrTransferSameAccount = errors.New("transfer source and destination must differ")
)

// Config holds the engine's tunables. Ceilings and precision are
// configuration, never data.
type Config struct {
	Scale              int32
	CodePrefix         string
	CodeMaxAttempts    int
	DailyAmountCeiling money.Amount
	DailyCountCeiling  int
	IdempotencyPolicy  IdempotencyPolicy
}

// Deposit is the intent to credit an account.
type Deposit struct {
	AccountNumber  string
	Amount         decimal.Decimal
	Description    string
	IdempotencyKey string
	Actor          domain.Actor
}

// Withdraw is the intent to debit an account.
type Withdraw struct {
	AccountNumber  string
	Amount         decimal.Decimal
	Description    string
	IdempotencyKey string
	Actor          domain.Actor
}

// Transfer is the intent to move funds between two accounts.
type Transfer struct {
	FromAccountNumber string
	ToAccountNumber   string
	Amount            decimal.Decimal
	Description       string
	IdempotencyKey    string
	Actor             domain.Actor
}

// Processor orchestrates the engine. All public operations are safe for
// concurrent use; operations on the same account serialize behind the
// store's row locks.
type Processor struct {
	uow    repository.UnitOfWork
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
	suffix func() int
}

// Option customizes a Processor.
type Option func(*Processor)

// WithClock injects the time source used for timestamps and transaction codes.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithSuffixSource injects the random source for transaction code suffixes.
func WithSuffixSource(suffix func() int) Option {
	return func(p *Processor) { p.suffix = suffix }
}

// New creates a Processor.
func New(uow repository.UnitOfWork, cfg Config, logger *slog.Logger, opts ...Option) *Processor {
	if cfg.CodeMaxAttempts < 1 {
		cfg.CodeMaxAttempts = 3
	}
	if cfg.IdempotencyPolicy == "" {
		cfg.IdempotencyPolicy = PolicyReplay
	}
	p := &Processor{
		uow:    uow,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		suffix: func() int { return rand.Intn(domain.CodeSuffixBound) },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// leg is one balance-affecting side of an operation.
type leg struct {
	accountNumber string
	typ           domain.TransactionType
	magnitude     money.Amount // always positive; sign comes from typ
	related       string
}

func (l leg) signed() money.Amount {
	switch l.typ {
	case domain.TransactionTypeWithdrawal, domain.TransactionTypeTransferOut:
		return l.magnitude.Neg()
	}
	return l.magnitude
}

// legsMatch reports whether the stored legs were committed by an operation
// of the same shape: one entry per leg with matching type and account, in
// the same order lookup returns them (TRANSFER_OUT before TRANSFER_IN).
func legsMatch(txs []*domain.Transaction, legs []leg) bool {
	if len(txs) != len(legs) {
		return false
	}
	for i, l := range legs {
		if txs[i].Type != l.typ || txs[i].AccountNumber != l.accountNumber {
			return false
		}
	}
	return true
}

// errKeyReused flags an idempotency key that maps to a committed operation
// of a different shape. Replaying it would hand the caller a result for an
// operation they did not request, so it is rejected under either policy.
func errKeyReused(key string) error {
	return fmt.Errorf("idempotency key %q was already used by a different operation: %w",
		key, domain.ErrDuplicateIdempotencyKey)
}

// Deposit credits the account and returns the committed ledger entry.
func (p *Processor) Deposit(ctx context.Context, cmd Deposit) (*domain.Transaction, error) {
	amount, err := p.validAmount(cmd.Amount)
	if err != nil {
		return nil, err
	}
	txs, err := p.execute(ctx, cmd.IdempotencyKey, cmd.Actor, domain.AuditActionDeposit, cmd.Description, []leg{
		{accountNumber: cmd.AccountNumber, typ: domain.TransactionTypeDeposit, magnitude: amount},
	})
	if err != nil {
		return nil, err
	}
	return txs[0], nil
}

// Withdraw debits the account and returns the committed ledger entry.
func (p *Processor) Withdraw(ctx context.Context, cmd Withdraw) (*domain.Transaction, error) {
	amount, err := p.validAmount(cmd.Amount)
	if err != nil {
		return nil, err
	}
	txs, err := p.execute(ctx, cmd.IdempotencyKey, cmd.Actor, domain.AuditActionWithdrawal, cmd.Description, []leg{
		{accountNumber: cmd.AccountNumber, typ: domain.TransactionTypeWithdrawal, magnitude: amount},
	})
	if err != nil {
		return nil, err
	}
	return txs[0], nil
}

// Transfer moves funds from one account to another as a withdraw-then-deposit
// pair inside a single atomic unit. It returns the TRANSFER_OUT entry
// followed by the TRANSFER_IN entry.
func (p *Processor) Transfer(ctx context.Context, cmd Transfer) ([]*domain.Transaction, error) {
	if cmd.FromAccountNumber == cmd.ToAccountNumber {
		return nil, ErrTransferSameAccount
	}
	amount, err := p.validAmount(cmd.Amount)
	if err != nil {
		return nil, err
	}
	return p.execute(ctx, cmd.IdempotencyKey, cmd.Actor, domain.AuditActionTransfer, cmd.Description, []leg{
		{
			accountNumber: cmd.FromAccountNumber,
			typ:           domain.TransactionTypeTransferOut,
			magnitude:     amount,
			related:       cmd.ToAccountNumber,
		},
		{
			accountNumber: cmd.ToAccountNumber,
			typ:           domain.TransactionTypeTransferIn,
			magnitude:     amount,
			related:       cmd.FromAccountNumber,
		},
	})
}

func (p *Processor) validAmount(raw decimal.Decimal) (money.Amount, error) {
	amount, err := money.NewPositive(raw, p.cfg.Scale)
	if err != nil {
		return money.Amount{}, &domain.InvalidAmountError{Value: raw.String(), Cause: err}
	}
	return amount, nil
}

// execute runs one operation to durable commit. Transaction code collisions
// are retried with fresh codes up to the configured attempts; a duplicate
// idempotency key observed at commit time is resolved per policy.
func (p *Processor) execute(
	ctx context.Context,
	key string,
	actor domain.Actor,
	action string,
	description string,
	legs []leg,
) ([]*domain.Transaction, error) {
	if key == "" {
		return nil, ErrIdempotencyKeyRequired
	}

	logger := p.logger.With("action", action, "idempotency_key", key)

	for attempt := 1; ; attempt++ {
		txs, replayed, err := p.attempt(ctx, key, actor, action, description, legs)
		switch {
		case err == nil:
			if replayed {
				logger.Info("operation replayed from idempotency record")
			} else {
				logger.Info("operation committed", "transactions", len(txs))
			}
			return txs, nil

		case errors.Is(err, domain.ErrTransactionCodeCollision):
			if attempt >= p.cfg.CodeMaxAttempts {
				logger.Error("transaction code collision retries exhausted", "attempts", attempt)
				return nil, err
			}
			logger.Warn("transaction code collision, regenerating", "attempt", attempt)

		case errors.Is(err, domain.ErrDuplicateIdempotencyKey):
			if p.cfg.IdempotencyPolicy == PolicyReject {
				return nil, err
			}
			// A concurrent first attempt won the commit; hand back its result.
			return p.replay(ctx, key, legs)

		default:
			return nil, err
		}
	}
}

// attempt runs one execution of the operation inside one unit of work.
func (p *Processor) attempt(
	ctx context.Context,
	key string,
	actor domain.Actor,
	action string,
	description string,
	legs []leg,
) (txs []*domain.Transaction, replayed bool, err error) {
	err = p.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		guard := newIdempotencyGuard(uow.Transactions())
		prior, err := guard.lookup(ctx, key)
		if err != nil {
			return err
		}
		if len(prior) > 0 {
			if !legsMatch(prior, legs) {
				return errKeyReused(key)
			}
			txs, replayed = prior, true
			return nil
		}

		accounts, err := p.lockAccounts(ctx, uow, legs)
		if err != nil {
			return err
		}

		ledger := newLedger(uow.Accounts())
		tracker := newLimitTracker(uow.DailyUsage(), p.cfg.DailyAmountCeiling, p.cfg.DailyCountCeiling, p.cfg.Scale)
		recorder := newAuditRecorder(uow.AuditLogs())

		now := p.now().UTC()
		date := domain.UsageDate(now)

		for _, l := range legs {
			acct := accounts[l.accountNumber]

			signed := l.signed()
			if signed.IsNegative() && acct.Balance.LessThan(l.magnitude) {
				return &domain.InsufficientFundsError{
					AccountNumber: acct.Number,
					Requested:     l.magnitude,
					Available:     acct.Balance,
				}
			}

			if err := tracker.consume(ctx, acct, l.magnitude, date); err != nil {
				return err
			}

			before, after, err := ledger.applyDelta(ctx, acct, signed, now)
			if err != nil {
				return err
			}

			tx := domain.NewTransaction(domain.NewTransactionParams{
				Code:                 domain.NewTransactionCode(p.cfg.CodePrefix, now, p.suffix()),
				AccountID:            acct.ID,
				AccountNumber:        acct.Number,
				Type:                 l.typ,
				Amount:               signed,
				BalanceBefore:        before,
				BalanceAfter:         after,
				Description:          description,
				RelatedAccountNumber: l.related,
				IdempotencyKey:       key,
				At:                   now,
			})
			if err := uow.Transactions().Create(ctx, tx); err != nil {
				return err
			}

			if err := recorder.record(ctx, action, actor, tx, now); err != nil {
				return err
			}
			txs = append(txs, tx)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return txs, replayed, nil
}

// lockAccounts acquires exclusive access to every involved account in
// ascending account-number order, so two transfers over the same pair in
// opposite directions can never wait on each other in a cycle.
func (p *Processor) lockAccounts(
	ctx context.Context,
	uow repository.UnitOfWork,
	legs []leg,
) (map[string]*domain.Account, error) {
	numbers := make([]string, 0, len(legs))
	seen := make(map[string]bool, len(legs))
	for _, l := range legs {
		if !seen[l.accountNumber] {
			seen[l.accountNumber] = true
			numbers = append(numbers, l.accountNumber)
		}
	}
	sort.Strings(numbers)

	accounts := make(map[string]*domain.Account, len(numbers))
	for _, number := range numbers {
		acct, err := uow.Accounts().GetByNumberForUpdate(ctx, number)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return nil, &domain.AccountNotFoundError{AccountNumber: number}
			}
			return nil, err
		}
		if !acct.IsActive() {
			return nil, &domain.AccountNotActiveError{AccountNumber: acct.Number, Status: acct.Status}
		}
		accounts[number] = acct
	}
	return accounts, nil
}

// replay re-reads the result committed under key after a duplicate-key
// conflict. An empty read here means the store lost the record between the
// conflict and the re-read, which is not survivable as a replay.
func (p *Processor) replay(ctx context.Context, key string, legs []leg) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	err := p.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		txs, err = newIdempotencyGuard(uow.Transactions()).lookup(ctx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("idempotency record for key %q vanished: %w", key, domain.ErrDuplicateIdempotencyKey)
	}
	if !legsMatch(txs, legs) {
		return nil, errKeyReused(key)
	}
	return txs, nil
}
