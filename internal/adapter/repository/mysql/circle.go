package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	circleDomain "github.com/Theodorio/ajo-api/internal/domain/circle"
)

type CircleRepository struct{ db *gorm.DB }

func NewCircleRepository(db *gorm.DB) *CircleRepository { return &CircleRepository{db: db} }

func (r *CircleRepository) Create(ctx context.Context, c *circleDomain.Circle) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Save persists the circle row and all member rows in one go.
func (r *CircleRepository) Save(ctx context.Context, c *circleDomain.Circle) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(c).Error
}

func (r *CircleRepository) GetByCircleID(ctx context.Context, circleID string) (*circleDomain.Circle, error) {
	var out circleDomain.Circle
	res := r.db.WithContext(ctx).
		Preload("Members").
		Where("circle_id = ?", circleID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, circleDomain.ErrNotFound
	}
	return &out, res.Error
}

// GetByCircleIDForUpdate locks the circle row up-front; member rows are
// loaded after the lock is held.
func (r *CircleRepository) GetByCircleIDForUpdate(ctx context.Context, circleID string) (*circleDomain.Circle, error) {
	var out circleDomain.Circle
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("circle_id = ?", circleID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, circleDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	if err := r.db.WithContext(ctx).
		Where("circle_ref = ?", out.ID).
		Order("id ASC").
		Find(&out.Members).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CircleRepository) ListDueForPayout(ctx context.Context, now time.Time) ([]string, error) {
	var ids []string
	res := r.db.WithContext(ctx).
		Model(&circleDomain.Circle{}).
		Where("status = ? AND next_payout_at IS NOT NULL AND next_payout_at <= ?", circleDomain.StatusActive, now.UTC()).
		Order("next_payout_at ASC").
		Pluck("circle_id", &ids)
	return ids, res.Error
}
