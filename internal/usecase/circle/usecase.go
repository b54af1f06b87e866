package circle

import (
	"context"
	"errors"
	"time"

	domainCircle "github.com/Theodorio/ajo-api/internal/domain/circle"
	domainRep "github.com/Theodorio/ajo-api/internal/domain/reputation"
	"github.com/Theodorio/ajo-api/internal/domain/uow"
	"github.com/Theodorio/ajo-api/pkg/id"
)

var ErrInvalidInput = errors.New("circle needs a name and a positive contribution amount")

type Usecase struct {
	circles domainCircle.Repository
	uow     uow.UnitOfWork
}

func NewUsecase(circles domainCircle.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{circles: circles, uow: tx}
}

// Create opens a new circle in the forming state.
func (u *Usecase) Create(ctx context.Context, in CreateCircleInput) (*CircleDTO, error) {
	if in.Name == "" || !in.ContributionAmount.IsPositive() {
		return nil, ErrInvalidInput
	}
	if in.CycleDays <= 0 {
		in.CycleDays = 30
	}
	c := domainCircle.New(id.NewID32(), in.Name, in.ContributionAmount.Round(2), in.CycleDays)
	if err := u.circles.Create(ctx, c); err != nil {
		return nil, err
	}
	return toDTO(c), nil
}

// Join admits a participant to a forming circle after the tier policy
// gate. The member's active-circle count is bumped in the same transaction.
func (u *Usecase) Join(ctx context.Context, in JoinInput) (*CircleDTO, error) {
	var dto *CircleDTO
	err := u.uow.WithinCircleTx(ctx, in.CircleID, func(r uow.Repos, c *domainCircle.Circle) error {
		w, err := r.Wallets.GetByParticipantIDForUpdate(ctx, in.ParticipantID)
		if err != nil {
			return err
		}
		rep, err := r.Reputations.GetByParticipantIDForUpdate(ctx, in.ParticipantID)
		if err != nil {
			return err
		}
		if ok, reason := domainRep.CanJoin(rep, w.Debt); !ok {
			return &JoinDeniedError{Reason: reason}
		}
		if err := c.AddMember(in.ParticipantID); err != nil {
			return err
		}
		rep.ActiveCircleCount++
		if err := r.Reputations.Save(ctx, rep); err != nil {
			return err
		}
		if err := r.Circles.Save(ctx, c); err != nil {
			return err
		}
		dto = toDTO(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Activate starts the rotation once the circle has quorum.
func (u *Usecase) Activate(ctx context.Context, circleID string) (*CircleDTO, error) {
	var dto *CircleDTO
	err := u.uow.WithinCircleTx(ctx, circleID, func(r uow.Repos, c *domainCircle.Circle) error {
		if err := c.Activate(time.Now().UTC()); err != nil {
			return err
		}
		if err := r.Circles.Save(ctx, c); err != nil {
			return err
		}
		dto = toDTO(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Contribute escrows one contribution from the member's available balance
// into their vault and marks the cycle slot paid, atomically.
func (u *Usecase) Contribute(ctx context.Context, in ContributeInput) (*CircleDTO, error) {
	var dto *CircleDTO
	err := u.uow.WithinCircleTx(ctx, in.CircleID, func(r uow.Repos, c *domainCircle.Circle) error {
		if err := c.MarkPaid(in.ParticipantID, time.Now().UTC()); err != nil {
			return err
		}
		w, err := r.Wallets.GetByParticipantIDForUpdate(ctx, in.ParticipantID)
		if err != nil {
			return err
		}
		if err := w.EscrowToVault(c.ContributionAmount); err != nil {
			return err
		}
		if err := r.Wallets.Save(ctx, w); err != nil {
			return err
		}
		if err := r.Circles.Save(ctx, c); err != nil {
			return err
		}
		dto = toDTO(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Get reads a circle snapshot with its computed fields.
func (u *Usecase) Get(ctx context.Context, circleID string) (*CircleDTO, error) {
	c, err := u.circles.GetByCircleID(ctx, circleID)
	if err != nil {
		return nil, err
	}
	return toDTO(c), nil
}
