package backstop

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("backstop reserve not bootstrapped")
	ErrLoanNotFound        = errors.New("backstop loan not found")
	ErrReserveInsufficient = errors.New("backstop reserve insufficient")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
)

// ReserveRowID pins the reserve to a single row: the reserve is
// process-wide singleton state, created once at startup.
const ReserveRowID = 1

// Reserve is the platform-wide insurance pool. Fees flow in from every
// settlement; shortfall coverage flows out as per-defaulter loans.
type Reserve struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,2)" json:"balance"`
	TotalDeployed decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_deployed"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Reserve) TableName() string { return "backstop_reserve" }

// Loan records one defaulting participant's draw in one payout round.
// Recovery is tracked per individual, not per circle.
type Loan struct {
	ID                     uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID                 string          `gorm:"size:36;uniqueIndex:ux_backstop_loans_loan_id" json:"loan_id"`
	CircleID               string          `gorm:"size:32;index" json:"circle_id"`
	DefaultedParticipantID string          `gorm:"size:32;index" json:"defaulted_participant_id"`
	Amount                 decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	Recovered              bool            `gorm:"not null;default:false" json:"recovered"`
	CreatedAt              time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Loan) TableName() string { return "backstop_loans" }

// Draw takes amount out of the pool for shortfall coverage. Refusal is
// fatal to the settlement that asked: the caller must abort without any
// partial commit.
func (r *Reserve) Draw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if r.Balance.LessThan(amount) {
		return ErrReserveInsufficient
	}
	r.Balance = r.Balance.Sub(amount)
	r.TotalDeployed = r.TotalDeployed.Add(amount)
	return nil
}

// DepositFee credits the pool. Unconditional.
func (r *Reserve) DepositFee(amount decimal.Decimal) {
	r.Balance = r.Balance.Add(amount)
}
