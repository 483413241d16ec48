// Package fixtures provides an in-memory implementation of the repository
// contracts for tests. Do stages every mutation on a copy of the state and
// swaps it in only when the unit of work succeeds, giving the same
// commit-or-nothing and serialization guarantees tests need to exercise the
// engine without a database.
package fixtures

import (
	"context"
	"fmt"
	"sync"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/repository"
	"github.com/google/uuid"
)

// Store is an in-memory transactional store.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{state: newState()}
}

type state struct {
	accounts     map[string]*domain.Account // keyed by account number
	accountIDs   map[uuid.UUID]string
	transactions []*domain.Transaction // insertion order == commit order
	usage        map[string]*domain.DailyUsage
	audits       []*domain.AuditEntry
}

func newState() *state {
	return &state{
		accounts:   make(map[string]*domain.Account),
		accountIDs: make(map[uuid.UUID]string),
		usage:      make(map[string]*domain.DailyUsage),
	}
}

func usageKey(accountID uuid.UUID, date string) string {
	return accountID.String() + "/" + date
}

func (st *state) clone() *state {
	next := &state{
		accounts:     make(map[string]*domain.Account, len(st.accounts)),
		accountIDs:   make(map[uuid.UUID]string, len(st.accountIDs)),
		transactions: make([]*domain.Transaction, len(st.transactions)),
		usage:        make(map[string]*domain.DailyUsage, len(st.usage)),
		audits:       make([]*domain.AuditEntry, len(st.audits)),
	}
	for k, a := range st.accounts {
		cp := *a
		next.accounts[k] = &cp
	}
	for k, v := range st.accountIDs {
		next.accountIDs[k] = v
	}
	copy(next.transactions, st.transactions)
	for k, u := range st.usage {
		cp := *u
		next.usage[k] = &cp
	}
	copy(next.audits, st.audits)
	return next
}

// Do runs fn against repositories bound to a staged copy of the state. The
// copy replaces the live state only when fn succeeds. Units of work are
// serialized, which subsumes the per-account serialization the engine needs.
func (s *Store) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.state.clone()
	if err := fn(&session{st: staged}); err != nil {
		return err
	}
	s.state = staged
	return nil
}

// Accounts returns an auto-committing account repository for use outside Do.
func (s *Store) Accounts() repository.AccountRepository { return &accountRepo{store: s} }

// Transactions returns an auto-committing transaction repository.
func (s *Store) Transactions() repository.TransactionRepository { return &transactionRepo{store: s} }

// DailyUsage returns an auto-committing daily usage repository.
func (s *Store) DailyUsage() repository.DailyUsageRepository { return &usageRepo{store: s} }

// AuditLogs returns an auto-committing audit log repository.
func (s *Store) AuditLogs() repository.AuditLogRepository { return &auditRepo{store: s} }

// AuditEntries returns a snapshot of all committed audit records, in commit
// order. Test helper.
func (s *Store) AuditEntries() []*domain.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.AuditEntry, len(s.state.audits))
	copy(out, s.state.audits)
	return out
}

// CommittedTransactions returns a snapshot of all committed ledger entries,
// in commit order. Test helper.
func (s *Store) CommittedTransactions() []*domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Transaction, len(s.state.transactions))
	copy(out, s.state.transactions)
	return out
}

// session binds the repositories to one staged state. Nested Do calls join
// the enclosing unit.
type session struct {
	st *state
}

func (u *session) Do(_ context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(u)
}

func (u *session) Accounts() repository.AccountRepository { return &accountRepo{st: u.st} }

func (u *session) Transactions() repository.TransactionRepository {
	return &transactionRepo{st: u.st}
}

func (u *session) DailyUsage() repository.DailyUsageRepository { return &usageRepo{st: u.st} }

func (u *session) AuditLogs() repository.AuditLogRepository { return &auditRepo{st: u.st} }

// withState runs fn against either the session's staged state or, for
// repositories handed out by the Store directly, the live state under lock.
func withState(store *Store, st *state, fn func(st *state) error) error {
	if st != nil {
		return fn(st)
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	return fn(store.state)
}

func duplicateKeyError(kind error, detail string) error {
	return fmt.Errorf("%s: %w", detail, kind)
}
