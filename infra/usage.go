package infra

import (
	"context"
	"errors"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type usageRepository struct {
	db    *gorm.DB
	scale int32
}

// GetForUpdate returns (nil, nil) when the account has no usage row for the
// date yet; the limit tracker creates one lazily.
func (r *usageRepository) GetForUpdate(ctx context.Context, accountID uuid.UUID, date string) (*domain.DailyUsage, error) {
	var m DailyUsage
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "account_id = ? AND date = ?", accountID, date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translateError(err)
	}
	return usageFromModel(&m, r.scale), nil
}

func (r *usageRepository) Create(ctx context.Context, usage *domain.DailyUsage) error {
	m := usageToModel(usage)
	return translateError(r.db.WithContext(ctx).Create(&m).Error)
}

func (r *usageRepository) Update(ctx context.Context, usage *domain.DailyUsage) error {
	return translateError(r.db.WithContext(ctx).Model(&DailyUsage{}).
		Where("id = ?", usage.ID).
		Updates(map[string]any{
			"total_amount": usage.TotalAmount.Decimal(),
			"count":        usage.Count,
		}).Error)
}
