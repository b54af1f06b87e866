package settlement

import (
	"time"

	"github.com/shopspring/decimal"

	domainSettlement "github.com/Theodorio/ajo-api/internal/domain/settlement"
)

// ReceiptDTO is the settlement receipt returned to the caller and persisted
// as the audit record of the round.
type ReceiptDTO struct {
	ReceiptID        string          `json:"receipt_id"`
	CircleID         string          `json:"circle_id"`
	CycleNumber      int             `json:"cycle_number"`
	RecipientID      string          `json:"recipient_id"`
	GrossAmount      decimal.Decimal `json:"gross_amount"`
	Fee              decimal.Decimal `json:"fee"`
	NetPayout        decimal.Decimal `json:"net_payout"`
	VaultPortion     decimal.Decimal `json:"vault_portion"`
	AvailablePortion decimal.Decimal `json:"available_portion"`
	DefaultsCovered  int             `json:"defaults_covered"`
	BackstopDrawn    decimal.Decimal `json:"backstop_drawn"`
	NextTurn         int             `json:"next_turn"`
	CircleCompleted  bool            `json:"circle_completed"`
	CreatedAt        time.Time       `json:"created_at"`
}

func toDTO(r *domainSettlement.Receipt, completed bool) *ReceiptDTO {
	return &ReceiptDTO{
		ReceiptID:        r.ReceiptID,
		CircleID:         r.CircleID,
		CycleNumber:      r.CycleNumber,
		RecipientID:      r.RecipientID,
		GrossAmount:      r.GrossAmount,
		Fee:              r.Fee,
		NetPayout:        r.NetPayout,
		VaultPortion:     r.VaultPortion,
		AvailablePortion: r.AvailableAmount,
		DefaultsCovered:  r.DefaultsCovered,
		BackstopDrawn:    r.BackstopDrawn,
		NextTurn:         r.NextTurn,
		CircleCompleted:  completed,
		CreatedAt:        r.CreatedAt,
	}
}
