package account

import (
	"context"

	"github.com/corebank/corebank/pkg/dto"
	"github.com/corebank/corebank/pkg/repository"
)

// ListTransactions returns a filtered page of the account's history, newest
// first. Reads take no account locks.
func (s *Service) ListTransactions(
	ctx context.Context,
	accountNumber string,
	filter dto.TransactionFilter,
) (*dto.TransactionPage, error) {
	var page *dto.TransactionPage
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		acct, err := uow.Accounts().GetByNumber(ctx, accountNumber)
		if err != nil {
			return err
		}
		page, err = uow.Transactions().ListByAccount(ctx, acct.ID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}
