package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	repDomain "github.com/Theodorio/ajo-api/internal/domain/reputation"
)

type ReputationRepository struct{ db *gorm.DB }

func NewReputationRepository(db *gorm.DB) *ReputationRepository {
	return &ReputationRepository{db: db}
}

func (r *ReputationRepository) Create(ctx context.Context, rep *repDomain.Reputation) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *ReputationRepository) Save(ctx context.Context, rep *repDomain.Reputation) error {
	return r.db.WithContext(ctx).Save(rep).Error
}

func (r *ReputationRepository) GetByParticipantID(ctx context.Context, participantID string) (*repDomain.Reputation, error) {
	var out repDomain.Reputation
	res := r.db.WithContext(ctx).Where("participant_id = ?", participantID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, repDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *ReputationRepository) GetByParticipantIDForUpdate(ctx context.Context, participantID string) (*repDomain.Reputation, error) {
	var out repDomain.Reputation
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("participant_id = ?", participantID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, repDomain.ErrNotFound
	}
	return &out, res.Error
}
