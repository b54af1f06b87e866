package event

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

// Exchange and routing keys for platform events.
const (
	Exchange                  = "ajo.events"
	RoutingKeyUserBlacklisted = "user.blacklisted"
)

// UserBlacklisted is emitted, fire-and-forget, when a debt-increasing
// operation trips the auto-blacklist threshold.
type UserBlacklisted struct {
	Event         string          `json:"event"`
	ParticipantID string          `json:"participant_id"`
	Reason        string          `json:"reason"`
	Debt          decimal.Decimal `json:"debt"`
	At            time.Time       `json:"at"`
}

// NewUserBlacklisted fills the constant event name.
func NewUserBlacklisted(participantID, reason string, debt decimal.Decimal, at time.Time) UserBlacklisted {
	return UserBlacklisted{
		Event:         "user:blacklisted",
		ParticipantID: participantID,
		Reason:        reason,
		Debt:          debt,
		At:            at.UTC(),
	}
}

// Publisher is the notification collaborator boundary. No acknowledgement
// is required by the core.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
	Close()
}

// NopPublisher logs instead of publishing. Used when the broker is absent
// so the core never fails on notification delivery.
type NopPublisher struct{}

func (NopPublisher) Publish(_ context.Context, routingKey string, body any) error {
	log.Printf("event (no broker): key=%s body=%+v", routingKey, body)
	return nil
}

func (NopPublisher) Close() {}
