package infra

import (
	"context"
	"errors"
	"time"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db    *gorm.DB
	scale int32
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	m := accountToModel(account)
	return translateError(r.db.WithContext(ctx).Create(&m).Error)
}

func (r *accountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).First(&m, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.AccountNotFoundError{AccountNumber: number}
	}
	if err != nil {
		return nil, translateError(err)
	}
	return accountFromModel(&m, r.scale), nil
}

func (r *accountRepository) GetByNumberForUpdate(ctx context.Context, number string) (*domain.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.AccountNotFoundError{AccountNumber: number}
	}
	if err != nil {
		return nil, translateError(err)
	}
	return accountFromModel(&m, r.scale), nil
}

func (r *accountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance money.Amount, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"balance":    balance.Decimal(),
			"updated_at": at,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return &domain.AccountNotFoundError{AccountNumber: id.String()}
	}
	return nil
}
