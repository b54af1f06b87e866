package wallet

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Theodorio/ajo-api/internal/domain/money"
)

var (
	ErrNotFound             = errors.New("wallet not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrOverpaymentRejected  = errors.New("repayment exceeds outstanding debt")
	ErrNonPositiveAmount    = errors.New("amount must be positive")
)

// Wallet is the per-participant triple ledger: unencumbered funds, locked
// circle collateral, and outstanding defaulted obligations. All three stay
// non-negative; every mutator validates before touching a field.
type Wallet struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	WalletID      string          `gorm:"size:32;uniqueIndex:ux_wallets_wallet_id" json:"wallet_id"`
	ParticipantID string          `gorm:"size:32;uniqueIndex:ux_wallets_participant" json:"participant_id"`
	Available     decimal.Decimal `gorm:"type:decimal(18,2)" json:"available"`
	Vault         decimal.Decimal `gorm:"type:decimal(18,2)" json:"vault"`
	Debt          decimal.Decimal `gorm:"type:decimal(18,2)" json:"debt"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Wallet) TableName() string { return "wallets" }

// Deposit tops up the available balance.
func (w *Wallet) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	w.Available = w.Available.Add(amount)
	return nil
}

// Withdraw takes from the available balance only.
func (w *Wallet) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if w.Available.LessThan(amount) {
		return ErrInsufficientFunds
	}
	w.Available = w.Available.Sub(amount)
	return nil
}

// EscrowToVault locks amount of available funds as circle collateral.
func (w *Wallet) EscrowToVault(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if w.Available.LessThan(amount) {
		return ErrInsufficientFunds
	}
	w.Available = w.Available.Sub(amount)
	w.Vault = w.Vault.Add(amount)
	return nil
}

// ApplyDefaultPenalty books a missed contribution plus the 5% penalty as
// debt. Unconditional: default handling must never fail, so debt may exceed
// liquid funds.
func (w *Wallet) ApplyDefaultPenalty(base decimal.Decimal) decimal.Decimal {
	penalized := money.Penalty(base)
	w.Debt = w.Debt.Add(penalized)
	return penalized
}

// RepayDebt moves amount from available against outstanding debt.
func (w *Wallet) RepayDebt(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if w.Available.LessThan(amount) {
		return ErrInsufficientFunds
	}
	if w.Debt.LessThan(amount) {
		return ErrOverpaymentRejected
	}
	w.Available = w.Available.Sub(amount)
	w.Debt = w.Debt.Sub(amount)
	return nil
}

// CreditPayout lands a settlement payout: the immediately spendable part and
// the tier-withheld part, in one mutation.
func (w *Wallet) CreditPayout(availableDelta, vaultDelta decimal.Decimal) {
	w.Available = w.Available.Add(availableDelta)
	w.Vault = w.Vault.Add(vaultDelta)
}

// ReleaseVault unlocks all collateral back to available. Used when a circle
// completes its rotation.
func (w *Wallet) ReleaseVault() decimal.Decimal {
	released := w.Vault
	w.Available = w.Available.Add(released)
	w.Vault = decimal.Zero
	return released
}

// NetWorth is available + vault - debt, computed on read.
func (w *Wallet) NetWorth() decimal.Decimal {
	return w.Available.Add(w.Vault).Sub(w.Debt)
}

// AtRisk reports the monitored anomaly state where debt exceeds the
// participant's liquid funds. Not forbidden, but flagged for reconciliation.
func (w *Wallet) AtRisk() bool {
	return w.Available.Add(w.Vault).LessThan(w.Debt)
}

// HasDebt reports any outstanding defaulted obligation.
func (w *Wallet) HasDebt() bool { return w.Debt.IsPositive() }
