package circle

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domainCircle "github.com/Theodorio/ajo-api/internal/domain/circle"
	domainRep "github.com/Theodorio/ajo-api/internal/domain/reputation"
)

type CreateCircleInput struct {
	Name               string
	ContributionAmount decimal.Decimal
	CycleDays          int
}

type JoinInput struct {
	CircleID      string
	ParticipantID string
}

type ContributeInput struct {
	CircleID      string
	ParticipantID string
}

// JoinDeniedError carries the first policy reason a join was refused.
type JoinDeniedError struct {
	Reason domainRep.DenyReason
}

func (e *JoinDeniedError) Error() string {
	return fmt.Sprintf("join denied: %s", e.Reason)
}

type MemberDTO struct {
	ParticipantID      string          `json:"participant_id"`
	PaymentStatus      string          `json:"payment_status"`
	LastPaymentDate    *time.Time      `json:"last_payment_date,omitempty"`
	TotalContributions decimal.Decimal `json:"total_contributions"`
}

type CircleDTO struct {
	CircleID            string          `json:"circle_id"`
	Name                string          `json:"name"`
	Status              string          `json:"status"`
	ContributionAmount  decimal.Decimal `json:"contribution_amount"`
	TotalPot            decimal.Decimal `json:"total_pot"`
	PayoutOrder         []string        `json:"payout_order"`
	CurrentTurn         int             `json:"current_turn"`
	CurrentRecipient    string          `json:"current_recipient,omitempty"`
	CycleCount          int             `json:"cycle_count"`
	CollectionRate      decimal.Decimal `json:"collection_rate"`
	BackstopContributed decimal.Decimal `json:"backstop_contributed"`
	TotalFeesCollected  decimal.Decimal `json:"total_fees_collected"`
	CycleDays           int             `json:"cycle_days"`
	NextPayoutAt        *time.Time      `json:"next_payout_at,omitempty"`
	Members             []MemberDTO     `json:"members"`
	CreatedAt           time.Time       `json:"created_at"`
}

func toDTO(c *domainCircle.Circle) *CircleDTO {
	recipient, _ := c.CurrentRecipient()
	members := make([]MemberDTO, 0, len(c.Members))
	for i := range c.Members {
		m := &c.Members[i]
		members = append(members, MemberDTO{
			ParticipantID:      m.ParticipantID,
			PaymentStatus:      string(m.PaymentStatus),
			LastPaymentDate:    m.LastPaymentDate,
			TotalContributions: m.TotalContributions,
		})
	}
	return &CircleDTO{
		CircleID:            c.CircleID,
		Name:                c.Name,
		Status:              string(c.Status),
		ContributionAmount:  c.ContributionAmount,
		TotalPot:            c.TotalPot,
		PayoutOrder:         c.PayoutOrder,
		CurrentTurn:         c.CurrentTurn,
		CurrentRecipient:    recipient,
		CycleCount:          c.CycleCount,
		CollectionRate:      c.CollectionRate(),
		BackstopContributed: c.BackstopContributed,
		TotalFeesCollected:  c.TotalFeesCollected,
		CycleDays:           c.CycleDays,
		NextPayoutAt:        c.NextPayoutAt,
		Members:             members,
		CreatedAt:           c.CreatedAt,
	}
}
