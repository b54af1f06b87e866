package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	walletDomain "github.com/Theodorio/ajo-api/internal/domain/wallet"
)

type WalletRepository struct{ db *gorm.DB }

func NewWalletRepository(db *gorm.DB) *WalletRepository { return &WalletRepository{db: db} }

func (r *WalletRepository) Create(ctx context.Context, w *walletDomain.Wallet) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WalletRepository) Save(ctx context.Context, w *walletDomain.Wallet) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *WalletRepository) GetByParticipantID(ctx context.Context, participantID string) (*walletDomain.Wallet, error) {
	var out walletDomain.Wallet
	res := r.db.WithContext(ctx).Where("participant_id = ?", participantID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, walletDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *WalletRepository) GetByParticipantIDForUpdate(ctx context.Context, participantID string) (*walletDomain.Wallet, error) {
	var out walletDomain.Wallet
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("participant_id = ?", participantID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, walletDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *WalletRepository) ListDebtors(ctx context.Context, min decimal.Decimal) ([]walletDomain.Wallet, error) {
	var out []walletDomain.Wallet
	res := r.db.WithContext(ctx).
		Where("debt > ?", min).
		Order("debt DESC, id ASC").
		Find(&out)
	return out, res.Error
}
