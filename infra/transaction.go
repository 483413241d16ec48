package infra

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/corebank/corebank/pkg/domain"
	"github.com/corebank/corebank/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db    *gorm.DB
	scale int32
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	m := transactionToModel(tx)
	return translateError(r.db.WithContext(ctx).Create(&m).Error)
}

func (r *transactionRepository) GetByCode(ctx context.Context, code string) (*domain.Transaction, error) {
	var m Transaction
	err := r.db.WithContext(ctx).First(&m, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("transaction %s not found", code)
	}
	if err != nil {
		return nil, translateError(err)
	}
	return transactionFromModel(&m, r.scale), nil
}

func (r *transactionRepository) ListByIdempotencyKey(ctx context.Context, key string) ([]*domain.Transaction, error) {
	var models []Transaction
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, translateError(err)
	}

	out := make([]*domain.Transaction, 0, len(models))
	for i := range models {
		out = append(out, transactionFromModel(&models[i], r.scale))
	}
	// A transfer pair shares a timestamp; present TRANSFER_OUT first.
	sort.SliceStable(out, func(i, j int) bool {
		return typeRank(out[i].Type) < typeRank(out[j].Type)
	})
	return out, nil
}

func typeRank(t domain.TransactionType) int {
	if t == domain.TransactionTypeTransferIn {
		return 1
	}
	return 0
}

func (r *transactionRepository) ListByAccount(
	ctx context.Context,
	accountID uuid.UUID,
	filter dto.TransactionFilter,
) (*dto.TransactionPage, error) {
	filter.Normalize()

	query := r.db.WithContext(ctx).Model(&Transaction{}).Where("account_id = ?", accountID)
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}
	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Search+"%")
	}

	page := &dto.TransactionPage{Page: filter.Page, PageSize: filter.PageSize}
	if err := query.Count(&page.Total).Error; err != nil {
		return nil, translateError(err)
	}

	var models []Transaction
	err := query.
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&models).Error
	if err != nil {
		return nil, translateError(err)
	}

	page.Items = make([]*domain.Transaction, 0, len(models))
	for i := range models {
		page.Items = append(page.Items, transactionFromModel(&models[i], r.scale))
	}
	return page, nil
}
