package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateParticipantInput struct {
	ParticipantID string `json:"participant_id"`
}

type MoveFundsInput struct {
	ParticipantID string
	Amount        decimal.Decimal
}

type WalletDTO struct {
	WalletID      string          `json:"wallet_id"`
	ParticipantID string          `json:"participant_id"`
	Available     decimal.Decimal `json:"available"`
	Vault         decimal.Decimal `json:"vault"`
	Debt          decimal.Decimal `json:"debt"`
	NetWorth      decimal.Decimal `json:"net_worth"`
	AtRisk        bool            `json:"at_risk"`
	TrustScore    int             `json:"trust_score"`
	Tier          string          `json:"tier"`
	AccountStatus string          `json:"account_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type DebtorDTO struct {
	ParticipantID string          `json:"participant_id"`
	Debt          decimal.Decimal `json:"debt"`
	Available     decimal.Decimal `json:"available"`
	AtRisk        bool            `json:"at_risk"`
}
