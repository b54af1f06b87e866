package mysql

import (
	"context"

	"gorm.io/gorm"

	settlementDomain "github.com/Theodorio/ajo-api/internal/domain/settlement"
)

type ReceiptRepository struct{ db *gorm.DB }

func NewReceiptRepository(db *gorm.DB) *ReceiptRepository { return &ReceiptRepository{db: db} }

func (r *ReceiptRepository) Create(ctx context.Context, rc *settlementDomain.Receipt) error {
	return r.db.WithContext(ctx).Create(rc).Error
}

func (r *ReceiptRepository) ListByCircleID(ctx context.Context, circleID string) ([]settlementDomain.Receipt, error) {
	var out []settlementDomain.Receipt
	res := r.db.WithContext(ctx).
		Where("circle_id = ?", circleID).
		Order("id DESC").
		Find(&out)
	return out, res.Error
}
