package reputation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Theodorio/ajo-api/internal/domain/money"
)

// Tier policy tables. Withhold rates govern how much of a payout stays
// locked in the recipient's vault; circle limits cap concurrent memberships.
var (
	withholdRate = map[Tier]decimal.Decimal{
		TierBronze: decimal.RequireFromString("0.20"),
		TierSilver: decimal.RequireFromString("0.10"),
		TierGold:   decimal.RequireFromString("0.10"),
	}
	circleLimit = map[Tier]int{
		TierBronze: 2,
		TierSilver: 5,
		TierGold:   10,
	}
)

func WithholdRate(t Tier) decimal.Decimal { return withholdRate[t] }

func CircleLimit(t Tier) int { return circleLimit[t] }

// DenyReason codes surfaced by CanJoin, in the pinned check order.
type DenyReason string

const (
	DenyBlacklisted DenyReason = "BLACKLISTED"
	DenyActiveDebt  DenyReason = "ACTIVE_DEBT"
	DenyFrozen      DenyReason = "FROZEN"
	DenyTierLimit   DenyReason = "TIER_LIMIT"
	DenyLowTrust    DenyReason = "LOW_TRUST"
)

const minJoinScore = 350

// CanJoin decides whether a participant may enter another circle. The check
// order is fixed (blacklisted, active debt, frozen, tier limit, low trust)
// so callers always see the same first reason for a given standing.
func CanJoin(r *Reputation, outstandingDebt decimal.Decimal) (bool, DenyReason) {
	if r.AccountStatus == StatusBlacklisted {
		return false, DenyBlacklisted
	}
	if outstandingDebt.IsPositive() {
		return false, DenyActiveDebt
	}
	if r.AccountStatus == StatusFrozen {
		return false, DenyFrozen
	}
	if r.ActiveCircleCount >= CircleLimit(r.Tier) {
		return false, DenyTierLimit
	}
	if r.TrustScore < minJoinScore {
		return false, DenyLowTrust
	}
	return true, ""
}

// CheckAutoBlacklist runs after every debt-increasing mutation: debt above
// the platform threshold blacklists the account. Returns true when this call
// performed the transition (the caller then emits the user:blacklisted
// event exactly once).
func CheckAutoBlacklist(r *Reputation, debt decimal.Decimal, now time.Time) bool {
	if debt.LessThanOrEqual(money.BlacklistDebtThreshold) {
		return false
	}
	return r.Blacklist(ReasonExcessiveDebt, now)
}
