package reputation

import "context"

type Repository interface {
	Create(ctx context.Context, r *Reputation) error
	GetByParticipantID(ctx context.Context, participantID string) (*Reputation, error)
	GetByParticipantIDForUpdate(ctx context.Context, participantID string) (*Reputation, error)
	Save(ctx context.Context, r *Reputation) error
}
