package infra

import (
	"errors"
	"fmt"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes the engine dispatches on.
const (
	pgUniqueViolation  = "23505"
	pgLockNotAvailable = "55P03"
)

// Index names doubling as constraint names in unique-violation errors.
const (
	constraintAccountNumber   = "idx_accounts_number"
	constraintTransactionCode = "idx_transactions_code"
	constraintIdempotency     = "idx_transactions_idempotency"
)

// translateError converts driver errors into domain errors. Unique
// violations are dispatched on the constraint name, so a transaction code
// collision (retry with a fresh code) is distinguishable from a duplicate
// idempotency key (replay or reject) and from an account number collision
// (regenerate the number). Everything else passes through untouched.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintTransactionCode:
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, domain.ErrTransactionCodeCollision)
		case constraintIdempotency:
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, domain.ErrDuplicateIdempotencyKey)
		case constraintAccountNumber:
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, domain.ErrDuplicateAccountNumber)
		}
	case pgLockNotAvailable:
		return fmt.Errorf("%s: %w", pgErr.Message, domain.ErrLockTimeout)
	}
	return err
}
