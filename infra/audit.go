package infra

import (
	"context"

	"github.com/corebank/corebank/pkg/domain"
	"gorm.io/gorm"
)

type auditRepository struct {
	db *gorm.DB
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	m := auditToModel(entry)
	return translateError(r.db.WithContext(ctx).Create(&m).Error)
}
