package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Theodorio/ajo-api/internal/domain/circle"
	"github.com/Theodorio/ajo-api/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func bindRepos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Wallets:     &WalletRepository{db: tx},
		Reputations: &ReputationRepository{db: tx},
		Circles:     &CircleRepository{db: tx},
		Reserve:     &BackstopRepository{db: tx},
		Receipts:    &ReceiptRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(bindRepos(tx))
	})
}

func (u *GormUoW) WithinCircleTx(ctx context.Context, circleID string, fn func(r uow.Repos, c *circle.Circle) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := bindRepos(tx)
		// lock the circle row up-front: one in-flight settlement per circle
		c, err := r.Circles.GetByCircleIDForUpdate(ctx, circleID)
		if err != nil {
			return err
		}
		return fn(r, c)
	})
}
