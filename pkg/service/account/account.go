// Package account provides the account-facing services around the engine:
// opening accounts and querying balances and transaction history. Balance
// mutation is the processor's job; nothing here writes to a balance.
package account

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/repository"
)

// ErrInvalidAccountType is returned when an unknown account type is requested.
var ErrInvalidAccountType = errors.New("invalid account type")

const defaultNumberAttempts = 5

// Service opens accounts and serves read-only queries.
type Service struct {
	uow            repository.UnitOfWork
	logger         *slog.Logger
	scale          int32
	now            func() time.Time
	number         func() int64
	numberAttempts int
}

// Option customizes a Service.
type Option func(*Service)

// WithClock injects the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNumberSource injects the random source for account numbers.
func WithNumberSource(number func() int64) Option {
	return func(s *Service) { s.number = number }
}

// NewService creates a Service.
func NewService(uow repository.UnitOfWork, scale int32, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		uow:            uow,
		logger:         logger,
		scale:          scale,
		now:            time.Now,
		number:         func() int64 { return rand.Int63n(1e10) },
		numberAttempts: defaultNumberAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAccount opens an active account with a zero balance and a generated
// account number. Number collisions are resolved by regenerating; the
// store's unique index is the arbiter.
func (s *Service) CreateAccount(
	ctx context.Context,
	accountType domain.AccountType,
	actor domain.Actor,
) (*domain.Account, error) {
	if !accountType.Valid() {
		return nil, ErrInvalidAccountType
	}

	logger := s.logger.With("account_type", accountType)
	var acct *domain.Account
	for attempt := 1; ; attempt++ {
		number := domain.NewAccountNumber(s.number())
		err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			acct = domain.NewAccount(number, accountType, s.scale, s.now().UTC())
			if err := uow.Accounts().Create(ctx, acct); err != nil {
				return err
			}
			entry := domain.NewAuditEntry(
				domain.AuditActionAccountCreated,
				actorName(actor, acct.Number),
				"account "+acct.Number+" opened as "+string(accountType),
				actor.IPAddress,
				acct.CreatedAt,
			)
			return uow.AuditLogs().Create(ctx, entry)
		})
		if err == nil {
			logger.Info("account created", "account_number", acct.Number)
			return acct, nil
		}
		if errors.Is(err, domain.ErrDuplicateAccountNumber) && attempt < s.numberAttempts {
			logger.Warn("account number collision, regenerating", "attempt", attempt)
			continue
		}
		return nil, err
	}
}

// GetAccount returns the account with the given number.
func (s *Service) GetAccount(ctx context.Context, number string) (*domain.Account, error) {
	var acct *domain.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		acct, err = uow.Accounts().GetByNumber(ctx, number)
		return err
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

func actorName(actor domain.Actor, fallback string) string {
	if actor.PerformedBy != "" {
		return actor.PerformedBy
	}
	return fallback
}
