package circle

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("circle not found")
	ErrNotActive           = errors.New("circle is not active")
	ErrNotForming          = errors.New("circle is no longer forming")
	ErrBelowQuorum         = errors.New("circle has not reached quorum")
	ErrDuplicateMembership = errors.New("participant already a member")
	ErrNotAMember          = errors.New("participant is not a member")
	ErrAlreadyPaid         = errors.New("contribution already recorded this cycle")
	ErrRecipientNotFound   = errors.New("no recipient at current turn")
)

type Status string

const (
	StatusForming   Status = "forming"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	// StatusDefaulted is reserved for administrative action; the settlement
	// path never sets it (reserve exhaustion pauses instead).
	StatusDefaulted Status = "defaulted"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentDefaulted PaymentStatus = "defaulted"
	PaymentExcused   PaymentStatus = "excused"
)

// Quorum is the minimum membership before a circle may activate.
const Quorum = 2

type Member struct {
	ID                 uint64          `gorm:"primaryKey;column:id" json:"-"`
	CircleRef          uint64          `gorm:"column:circle_ref;index;uniqueIndex:ux_members_circle_participant" json:"-"`
	ParticipantID      string          `gorm:"size:32;uniqueIndex:ux_members_circle_participant" json:"participant_id"`
	PaymentStatus      PaymentStatus   `gorm:"size:16" json:"payment_status"`
	LastPaymentDate    *time.Time      `json:"last_payment_date,omitempty"`
	TotalContributions decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_contributions"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"-"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Member) TableName() string { return "circle_members" }

// Circle is the rotation group: fixed contribution, append-only payout
// order, per-cycle payment ledger, and the Forming → Active → {Paused,
// Completed, Defaulted} state machine. Membership and TotalPot freeze once
// the circle activates.
type Circle struct {
	ID                 uint64          `gorm:"primaryKey;column:id" json:"-"`
	CircleID           string          `gorm:"size:32;uniqueIndex:ux_circles_circle_id" json:"circle_id"`
	Name               string          `gorm:"size:64" json:"name"`
	ContributionAmount decimal.Decimal `gorm:"type:decimal(18,2)" json:"contribution_amount"`
	TotalPot           decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_pot"`
	PayoutOrder        []string        `gorm:"serializer:json;type:json" json:"payout_order"`
	CurrentTurn        int             `gorm:"not null;default:0" json:"current_turn"`
	CycleCount         int             `gorm:"not null;default:0" json:"cycle_count"`
	// Circle-local fee accounting, monotonically non-decreasing.
	BackstopContributed decimal.Decimal `gorm:"type:decimal(18,2)" json:"backstop_contributed"`
	TotalFeesCollected  decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_fees_collected"`
	Status              Status          `gorm:"size:16" json:"status"`
	CycleDays           int             `gorm:"not null;default:30" json:"cycle_days"`
	NextPayoutAt        *time.Time      `json:"next_payout_at,omitempty"`
	Members             []Member        `gorm:"foreignKey:CircleRef;references:ID" json:"members"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Circle) TableName() string { return "circles" }

func New(circleID, name string, contribution decimal.Decimal, cycleDays int) *Circle {
	return &Circle{
		CircleID:            circleID,
		Name:                name,
		ContributionAmount:  contribution,
		TotalPot:            decimal.Zero,
		BackstopContributed: decimal.Zero,
		TotalFeesCollected:  decimal.Zero,
		Status:              StatusForming,
		CycleDays:           cycleDays,
	}
}

func (c *Circle) member(participantID string) *Member {
	for i := range c.Members {
		if c.Members[i].ParticipantID == participantID {
			return &c.Members[i]
		}
	}
	return nil
}

// AddMember appends a participant to the membership and the payout order.
// Joins are only legal while the circle is forming; TotalPot is recomputed
// here and nowhere else.
func (c *Circle) AddMember(participantID string) error {
	if c.Status != StatusForming {
		return ErrNotForming
	}
	if c.member(participantID) != nil {
		return ErrDuplicateMembership
	}
	c.Members = append(c.Members, Member{
		ParticipantID:      participantID,
		PaymentStatus:      PaymentPending,
		TotalContributions: decimal.Zero,
	})
	c.PayoutOrder = append(c.PayoutOrder, participantID)
	c.TotalPot = c.ContributionAmount.Mul(decimal.NewFromInt(int64(len(c.Members))))
	return nil
}

// Activate moves the circle into rotation once quorum is met. The pot and
// the payout order are frozen from this point on.
func (c *Circle) Activate(now time.Time) error {
	if c.Status != StatusForming {
		return ErrNotForming
	}
	if len(c.Members) < Quorum {
		return ErrBelowQuorum
	}
	c.Status = StatusActive
	c.scheduleNext(now)
	return nil
}

// MarkPaid records a member's contribution for the current cycle.
func (c *Circle) MarkPaid(participantID string, now time.Time) error {
	if c.Status != StatusActive {
		return ErrNotActive
	}
	m := c.member(participantID)
	if m == nil {
		return ErrNotAMember
	}
	if m.PaymentStatus == PaymentPaid {
		return ErrAlreadyPaid
	}
	m.PaymentStatus = PaymentPaid
	t := now.UTC()
	m.LastPaymentDate = &t
	return nil
}

// MarkDefaulted flags a member who failed to contribute this cycle.
func (c *Circle) MarkDefaulted(participantID string) {
	if m := c.member(participantID); m != nil {
		m.PaymentStatus = PaymentDefaulted
	}
}

// Collected is the amount actually gathered this cycle, computed on read.
func (c *Circle) Collected() decimal.Decimal {
	paid := 0
	for i := range c.Members {
		if c.Members[i].PaymentStatus == PaymentPaid {
			paid++
		}
	}
	return c.ContributionAmount.Mul(decimal.NewFromInt(int64(paid)))
}

// Shortfall is the gap between the frozen pot and what was collected. May
// be zero or negative when everyone paid.
func (c *Circle) Shortfall() decimal.Decimal {
	return c.TotalPot.Sub(c.Collected())
}

// CollectionRate is the paid fraction of the membership, computed on read.
func (c *Circle) CollectionRate() decimal.Decimal {
	if len(c.Members) == 0 || c.TotalPot.IsZero() {
		return decimal.Zero
	}
	return c.Collected().Div(c.TotalPot).Round(4)
}

// CurrentRecipient resolves the payout order at the current turn.
func (c *Circle) CurrentRecipient() (string, error) {
	if len(c.PayoutOrder) == 0 || c.CurrentTurn < 0 || c.CurrentTurn >= len(c.PayoutOrder) {
		return "", ErrRecipientNotFound
	}
	return c.PayoutOrder[c.CurrentTurn], nil
}

// AddFee rolls a platform fee into the circle-local counters.
func (c *Circle) AddFee(fee decimal.Decimal) {
	c.TotalFeesCollected = c.TotalFeesCollected.Add(fee)
	c.BackstopContributed = c.BackstopContributed.Add(fee)
}

// AdvanceRotation is the Active self-loop run at the end of every payout:
// contribution counters roll for members who paid, all statuses reset to
// pending, the turn advances, and a wrap to index 0 closes a full cycle.
// Reports whether the circle has now completed (every member received
// exactly one payout).
func (c *Circle) AdvanceRotation(now time.Time) bool {
	for i := range c.Members {
		if c.Members[i].PaymentStatus == PaymentPaid {
			c.Members[i].TotalContributions = c.Members[i].TotalContributions.Add(c.ContributionAmount)
		}
		c.Members[i].PaymentStatus = PaymentPending
	}
	c.CurrentTurn = (c.CurrentTurn + 1) % len(c.PayoutOrder)
	if c.CurrentTurn == 0 {
		c.CycleCount++
	}
	// a completed full rotation means every member has received a payout
	if c.CycleCount >= 1 {
		return true
	}
	c.scheduleNext(now)
	return false
}

// Complete closes the circle after a full rotation.
func (c *Circle) Complete() {
	c.Status = StatusCompleted
	c.NextPayoutAt = nil
}

// Pause halts the circle pending manual intervention (reserve exhaustion).
func (c *Circle) Pause() {
	c.Status = StatusPaused
	c.NextPayoutAt = nil
}

func (c *Circle) scheduleNext(now time.Time) {
	next := now.UTC().AddDate(0, 0, c.CycleDays)
	c.NextPayoutAt = &next
}
