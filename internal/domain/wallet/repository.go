package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, w *Wallet) error
	GetByParticipantID(ctx context.Context, participantID string) (*Wallet, error)
	// GetByParticipantIDForUpdate locks the row for the transaction.
	GetByParticipantIDForUpdate(ctx context.Context, participantID string) (*Wallet, error)
	Save(ctx context.Context, w *Wallet) error
	// ListDebtors returns wallets with debt strictly greater than min,
	// largest debt first. Feeds the collections workflow.
	ListDebtors(ctx context.Context, min decimal.Decimal) ([]Wallet, error)
}
