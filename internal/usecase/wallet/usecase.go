package wallet

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	domainRep "github.com/Theodorio/ajo-api/internal/domain/reputation"
	"github.com/Theodorio/ajo-api/internal/domain/uow"
	domainWallet "github.com/Theodorio/ajo-api/internal/domain/wallet"
	"github.com/Theodorio/ajo-api/pkg/id"
)

var (
	ErrInvalidParticipantID = errors.New("invalid participant id")
	ErrDuplicateParticipant = errors.New("participant already has a wallet")
)

type Usecase struct {
	wallets     domainWallet.Repository
	reputations domainRep.Repository
	uow         uow.UnitOfWork
}

func NewUsecase(wallets domainWallet.Repository, reputations domainRep.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{wallets: wallets, reputations: reputations, uow: tx}
}

// CreateParticipant bootstraps the wallet and the starting reputation for a
// KYC-validated participant, atomically.
func (u *Usecase) CreateParticipant(ctx context.Context, in CreateParticipantInput) (*WalletDTO, error) {
	if !id.Valid(in.ParticipantID) {
		return nil, ErrInvalidParticipantID
	}

	var dto *WalletDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Wallets.GetByParticipantID(ctx, in.ParticipantID); err == nil {
			return ErrDuplicateParticipant
		} else if !errors.Is(err, domainWallet.ErrNotFound) {
			return err
		}

		w := &domainWallet.Wallet{
			WalletID:      id.NewID32(),
			ParticipantID: in.ParticipantID,
			Available:     decimal.Zero,
			Vault:         decimal.Zero,
			Debt:          decimal.Zero,
		}
		if err := r.Wallets.Create(ctx, w); err != nil {
			return err
		}
		rep := domainRep.New(in.ParticipantID)
		if err := r.Reputations.Create(ctx, rep); err != nil {
			return err
		}
		dto = toDTO(w, rep)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Deposit tops up a participant's available balance.
func (u *Usecase) Deposit(ctx context.Context, in MoveFundsInput) (*WalletDTO, error) {
	return u.mutate(ctx, in.ParticipantID, func(w *domainWallet.Wallet, _ *domainRep.Reputation) error {
		return w.Deposit(in.Amount)
	})
}

// Withdraw takes from a participant's available balance.
func (u *Usecase) Withdraw(ctx context.Context, in MoveFundsInput) (*WalletDTO, error) {
	return u.mutate(ctx, in.ParticipantID, func(w *domainWallet.Wallet, _ *domainRep.Reputation) error {
		return w.Withdraw(in.Amount)
	})
}

// RepayDebt clears part of a participant's defaulted debt from available
// funds: +10 trust, and a frozen account thaws once the debt hits zero.
func (u *Usecase) RepayDebt(ctx context.Context, in MoveFundsInput) (*WalletDTO, error) {
	return u.mutate(ctx, in.ParticipantID, func(w *domainWallet.Wallet, rep *domainRep.Reputation) error {
		if err := w.RepayDebt(in.Amount); err != nil {
			return err
		}
		rep.RecordRepayment(w.Debt.IsZero())
		return nil
	})
}

// mutate runs fn against the locked wallet+reputation pair and saves both.
func (u *Usecase) mutate(ctx context.Context, participantID string, fn func(w *domainWallet.Wallet, rep *domainRep.Reputation) error) (*WalletDTO, error) {
	var dto *WalletDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		w, err := r.Wallets.GetByParticipantIDForUpdate(ctx, participantID)
		if err != nil {
			return err
		}
		rep, err := r.Reputations.GetByParticipantIDForUpdate(ctx, participantID)
		if err != nil {
			return err
		}
		if err := fn(w, rep); err != nil {
			return err
		}
		if err := r.Wallets.Save(ctx, w); err != nil {
			return err
		}
		if err := r.Reputations.Save(ctx, rep); err != nil {
			return err
		}
		dto = toDTO(w, rep)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Get reads the combined wallet + reputation view.
func (u *Usecase) Get(ctx context.Context, participantID string) (*WalletDTO, error) {
	w, err := u.wallets.GetByParticipantID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	rep, err := u.reputations.GetByParticipantID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	return toDTO(w, rep), nil
}

// Debtors lists participants whose debt exceeds min, for the collections
// workflow.
func (u *Usecase) Debtors(ctx context.Context, min decimal.Decimal) ([]DebtorDTO, error) {
	ws, err := u.wallets.ListDebtors(ctx, min)
	if err != nil {
		return nil, err
	}
	out := make([]DebtorDTO, 0, len(ws))
	for i := range ws {
		out = append(out, DebtorDTO{
			ParticipantID: ws[i].ParticipantID,
			Debt:          ws[i].Debt,
			Available:     ws[i].Available,
			AtRisk:        ws[i].AtRisk(),
		})
	}
	return out, nil
}

func toDTO(w *domainWallet.Wallet, rep *domainRep.Reputation) *WalletDTO {
	return &WalletDTO{
		WalletID:      w.WalletID,
		ParticipantID: w.ParticipantID,
		Available:     w.Available,
		Vault:         w.Vault,
		Debt:          w.Debt,
		NetWorth:      w.NetWorth(),
		AtRisk:        w.AtRisk(),
		TrustScore:    rep.TrustScore,
		Tier:          string(rep.Tier),
		AccountStatus: string(rep.AccountStatus),
		CreatedAt:     w.CreatedAt,
	}
}
