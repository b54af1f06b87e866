package reputation

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("reputation not found")

type Tier string

const (
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

type AccountStatus string

const (
	StatusActive      AccountStatus = "active"
	StatusFrozen      AccountStatus = "frozen"
	StatusBlacklisted AccountStatus = "blacklisted"
)

const (
	ScoreFloor   = 300
	ScoreCeiling = 850
	// NewMemberScore is where a freshly onboarded participant starts.
	NewMemberScore = 500

	ReasonExcessiveDebt = "EXCESSIVE_DEBT"
)

// Reputation tracks a participant's trust score, the tier derived from it,
// and the account standing. The tier is recomputed on every score change,
// never stored independently of the score.
type Reputation struct {
	ID              uint64         `gorm:"primaryKey;column:id" json:"-"`
	ParticipantID   string         `gorm:"size:32;uniqueIndex:ux_reputations_participant" json:"participant_id"`
	TrustScore      int            `gorm:"not null" json:"trust_score"`
	Tier            Tier           `gorm:"size:16" json:"tier"`
	AccountStatus   AccountStatus  `gorm:"size:16" json:"account_status"`
	BlacklistReason string         `gorm:"size:32" json:"blacklist_reason,omitempty"`
	BlacklistedAt   *time.Time     `json:"blacklisted_at,omitempty"`
	// ActiveCircleCount is maintained on join and circle completion and
	// gates new joins against the tier limit.
	ActiveCircleCount int            `gorm:"not null;default:0" json:"active_circle_count"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Reputation) TableName() string { return "reputations" }

// New returns the reputation a participant starts with: mid-range Bronze,
// account active.
func New(participantID string) *Reputation {
	r := &Reputation{
		ParticipantID: participantID,
		TrustScore:    NewMemberScore,
		AccountStatus: StatusActive,
	}
	r.Tier = TierFor(r.TrustScore)
	return r
}

// TierFor derives the tier from a trust score. Pure.
func TierFor(score int) Tier {
	switch {
	case score >= 750:
		return TierGold
	case score >= 550:
		return TierSilver
	default:
		return TierBronze
	}
}

func (r *Reputation) adjustScore(delta int) {
	s := r.TrustScore + delta
	if s < ScoreFloor {
		s = ScoreFloor
	}
	if s > ScoreCeiling {
		s = ScoreCeiling
	}
	r.TrustScore = s
	r.Tier = TierFor(s)
}

// RecordDefault applies the -50 hit for a missed contribution.
func (r *Reputation) RecordDefault() { r.adjustScore(-50) }

// RecordRepayment applies the +10 bump for repaying defaulted debt. If the
// repayment cleared the debt entirely and the account was frozen, it thaws.
func (r *Reputation) RecordRepayment(debtCleared bool) {
	r.adjustScore(10)
	if debtCleared && r.AccountStatus == StatusFrozen {
		r.AccountStatus = StatusActive
	}
}

// RecordPayoutReceived applies the +5 bump for receiving a payout on time.
func (r *Reputation) RecordPayoutReceived() { r.adjustScore(5) }

// Blacklist transitions the account into blacklisted, stamping reason and
// time. Idempotent: a second call on an already blacklisted account is a
// no-op and reports false.
func (r *Reputation) Blacklist(reason string, at time.Time) bool {
	if r.AccountStatus == StatusBlacklisted {
		return false
	}
	r.AccountStatus = StatusBlacklisted
	r.BlacklistReason = reason
	t := at.UTC()
	r.BlacklistedAt = &t
	return true
}
