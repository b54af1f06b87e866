package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is the persisted audit record of one payout round, written in the
// same transaction that moved the money.
type Receipt struct {
	ID              uint64          `gorm:"primaryKey;column:id" json:"-"`
	ReceiptID       string          `gorm:"size:36;uniqueIndex:ux_receipts_receipt_id" json:"receipt_id"`
	CircleID        string          `gorm:"size:32;index" json:"circle_id"`
	CycleNumber     int             `gorm:"not null" json:"cycle_number"`
	RecipientID     string          `gorm:"size:32;index" json:"recipient_id"`
	GrossAmount     decimal.Decimal `gorm:"type:decimal(18,2)" json:"gross_amount"`
	Fee             decimal.Decimal `gorm:"type:decimal(18,2)" json:"fee"`
	NetPayout       decimal.Decimal `gorm:"type:decimal(18,2)" json:"net_payout"`
	VaultPortion    decimal.Decimal `gorm:"type:decimal(18,2)" json:"vault_portion"`
	AvailableAmount decimal.Decimal `gorm:"type:decimal(18,2)" json:"available_amount"`
	DefaultsCovered int             `gorm:"not null" json:"defaults_covered"`
	BackstopDrawn   decimal.Decimal `gorm:"type:decimal(18,2)" json:"backstop_drawn"`
	NextTurn        int             `gorm:"not null" json:"next_turn"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Receipt) TableName() string { return "settlement_receipts" }
