package backstop

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domainBackstop "github.com/Theodorio/ajo-api/internal/domain/backstop"
)

type Usecase struct {
	reserve domainBackstop.Repository
}

func NewUsecase(reserve domainBackstop.Repository) *Usecase {
	return &Usecase{reserve: reserve}
}

type ReserveDTO struct {
	Balance       decimal.Decimal `json:"balance"`
	TotalDeployed decimal.Decimal `json:"total_deployed"`
}

type LoanDTO struct {
	LoanID                 string          `json:"loan_id"`
	CircleID               string          `json:"circle_id"`
	DefaultedParticipantID string          `json:"defaulted_participant_id"`
	Amount                 decimal.Decimal `json:"amount"`
	Recovered              bool            `json:"recovered"`
	CreatedAt              time.Time       `json:"created_at"`
}

// Bootstrap creates the singleton reserve row if it does not exist yet.
// Idempotent; called once at startup.
func (u *Usecase) Bootstrap(ctx context.Context) error {
	return u.reserve.EnsureExists(ctx)
}

// Get reads the reserve balances.
func (u *Usecase) Get(ctx context.Context) (*ReserveDTO, error) {
	r, err := u.reserve.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &ReserveDTO{Balance: r.Balance, TotalDeployed: r.TotalDeployed}, nil
}

// MarkRecovered is the debt-collection collaborator's mutation point: flips
// a backstop loan to recovered once the defaulter has repaid.
func (u *Usecase) MarkRecovered(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.reserve.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !l.Recovered {
		l.Recovered = true
		if err := u.reserve.SaveLoan(ctx, l); err != nil {
			return nil, err
		}
	}
	return toLoanDTO(l), nil
}

// LoansByCircle lists the loans drawn against a circle's defaulters.
func (u *Usecase) LoansByCircle(ctx context.Context, circleID string) ([]LoanDTO, error) {
	ls, err := u.reserve.ListLoansByCircle(ctx, circleID)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toLoanDTO(&ls[i]))
	}
	return out, nil
}

func toLoanDTO(l *domainBackstop.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:                 l.LoanID,
		CircleID:               l.CircleID,
		DefaultedParticipantID: l.DefaultedParticipantID,
		Amount:                 l.Amount,
		Recovered:              l.Recovered,
		CreatedAt:              l.CreatedAt,
	}
}
