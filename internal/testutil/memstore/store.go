// Package memstore is an in-memory persistence fake for usecase tests. It
// implements every aggregate repository and the unit of work. Transactions
// run against a deep copy of the store and are swapped in only on success,
// so tests can assert genuine all-or-nothing behavior.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Theodorio/ajo-api/internal/domain/backstop"
	"github.com/Theodorio/ajo-api/internal/domain/circle"
	"github.com/Theodorio/ajo-api/internal/domain/reputation"
	"github.com/Theodorio/ajo-api/internal/domain/settlement"
	"github.com/Theodorio/ajo-api/internal/domain/uow"
	"github.com/Theodorio/ajo-api/internal/domain/wallet"
)

type state struct {
	wallets  map[string]wallet.Wallet     // by participant id
	reps     map[string]reputation.Reputation // by participant id
	circles  map[string]circle.Circle     // by circle id
	reserve  *backstop.Reserve
	loans    map[string]backstop.Loan // by loan id
	receipts []settlement.Receipt
}

func newState() *state {
	return &state{
		wallets: map[string]wallet.Wallet{},
		reps:    map[string]reputation.Reputation{},
		circles: map[string]circle.Circle{},
		loans:   map[string]backstop.Loan{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.wallets {
		c.wallets[k] = v
	}
	for k, v := range s.reps {
		c.reps[k] = v
	}
	for k, v := range s.circles {
		c.circles[k] = cloneCircle(v)
	}
	if s.reserve != nil {
		r := *s.reserve
		c.reserve = &r
	}
	for k, v := range s.loans {
		c.loans[k] = v
	}
	c.receipts = append([]settlement.Receipt(nil), s.receipts...)
	return c
}

func cloneCircle(c circle.Circle) circle.Circle {
	c.PayoutOrder = append([]string(nil), c.PayoutOrder...)
	c.Members = append([]circle.Member(nil), c.Members...)
	return c
}

// Store is the fake. Zero value is not usable; call New.
type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store { return &Store{st: newState()} }

// ---- seeding and assertion accessors ----

func (s *Store) PutWallet(w wallet.Wallet) { s.st.wallets[w.ParticipantID] = w }

func (s *Store) PutReputation(r reputation.Reputation) { s.st.reps[r.ParticipantID] = r }

func (s *Store) PutCircle(c circle.Circle) { s.st.circles[c.CircleID] = cloneCircle(c) }

func (s *Store) PutReserve(r backstop.Reserve) { s.st.reserve = &r }

func (s *Store) Wallet(participantID string) wallet.Wallet { return s.st.wallets[participantID] }

func (s *Store) Reputation(participantID string) reputation.Reputation {
	return s.st.reps[participantID]
}

func (s *Store) Circle(circleID string) circle.Circle {
	return cloneCircle(s.st.circles[circleID])
}

func (s *Store) Reserve() backstop.Reserve { return *s.st.reserve }

func (s *Store) Loans() []backstop.Loan {
	out := make([]backstop.Loan, 0, len(s.st.loans))
	for _, l := range s.st.loans {
		out = append(out, l)
	}
	return out
}

func (s *Store) Receipts() []settlement.Receipt {
	return append([]settlement.Receipt(nil), s.st.receipts...)
}

// ---- unit of work ----

var _ uow.UnitOfWork = (*Store)(nil)

func (s *Store) repos(get func() *state) uow.Repos {
	return uow.Repos{
		Wallets:     &walletRepo{get: get},
		Reputations: &repRepo{get: get},
		Circles:     &circleRepo{get: get},
		Reserve:     &reserveRepo{get: get},
		Receipts:    &receiptRepo{get: get},
	}
}

// Repos returns repositories for wiring usecases' read paths. They follow
// the live state, so reads after a committed transaction see its writes.
func (s *Store) Repos() uow.Repos { return s.repos(func() *state { return s.st }) }

func (s *Store) WithinTx(_ context.Context, fn func(r uow.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.st.clone()
	if err := fn(s.repos(func() *state { return snap })); err != nil {
		return err
	}
	s.st = snap
	return nil
}

func (s *Store) WithinCircleTx(ctx context.Context, circleID string, fn func(r uow.Repos, c *circle.Circle) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.st.clone()
	r := s.repos(func() *state { return snap })
	c, err := r.Circles.GetByCircleIDForUpdate(ctx, circleID)
	if err != nil {
		return err
	}
	if err := fn(r, c); err != nil {
		return err
	}
	s.st = snap
	return nil
}

// ---- repositories ----

type walletRepo struct{ get func() *state }

func (r *walletRepo) Create(_ context.Context, w *wallet.Wallet) error {
	r.get().wallets[w.ParticipantID] = *w
	return nil
}

func (r *walletRepo) GetByParticipantID(_ context.Context, pid string) (*wallet.Wallet, error) {
	w, ok := r.get().wallets[pid]
	if !ok {
		return nil, wallet.ErrNotFound
	}
	return &w, nil
}

func (r *walletRepo) GetByParticipantIDForUpdate(ctx context.Context, pid string) (*wallet.Wallet, error) {
	return r.GetByParticipantID(ctx, pid)
}

func (r *walletRepo) Save(_ context.Context, w *wallet.Wallet) error {
	r.get().wallets[w.ParticipantID] = *w
	return nil
}

func (r *walletRepo) ListDebtors(_ context.Context, min decimal.Decimal) ([]wallet.Wallet, error) {
	var out []wallet.Wallet
	for _, w := range r.get().wallets {
		if w.Debt.GreaterThan(min) {
			out = append(out, w)
		}
	}
	return out, nil
}

type repRepo struct{ get func() *state }

func (r *repRepo) Create(_ context.Context, rep *reputation.Reputation) error {
	r.get().reps[rep.ParticipantID] = *rep
	return nil
}

func (r *repRepo) GetByParticipantID(_ context.Context, pid string) (*reputation.Reputation, error) {
	rep, ok := r.get().reps[pid]
	if !ok {
		return nil, reputation.ErrNotFound
	}
	return &rep, nil
}

func (r *repRepo) GetByParticipantIDForUpdate(ctx context.Context, pid string) (*reputation.Reputation, error) {
	return r.GetByParticipantID(ctx, pid)
}

func (r *repRepo) Save(_ context.Context, rep *reputation.Reputation) error {
	r.get().reps[rep.ParticipantID] = *rep
	return nil
}

type circleRepo struct{ get func() *state }

func (r *circleRepo) Create(_ context.Context, c *circle.Circle) error {
	r.get().circles[c.CircleID] = cloneCircle(*c)
	return nil
}

func (r *circleRepo) GetByCircleID(_ context.Context, id string) (*circle.Circle, error) {
	c, ok := r.get().circles[id]
	if !ok {
		return nil, circle.ErrNotFound
	}
	out := cloneCircle(c)
	return &out, nil
}

func (r *circleRepo) GetByCircleIDForUpdate(ctx context.Context, id string) (*circle.Circle, error) {
	return r.GetByCircleID(ctx, id)
}

func (r *circleRepo) Save(_ context.Context, c *circle.Circle) error {
	r.get().circles[c.CircleID] = cloneCircle(*c)
	return nil
}

func (r *circleRepo) ListDueForPayout(_ context.Context, now time.Time) ([]string, error) {
	var out []string
	for id, c := range r.get().circles {
		if c.Status == circle.StatusActive && c.NextPayoutAt != nil && !c.NextPayoutAt.After(now) {
			out = append(out, id)
		}
	}
	return out, nil
}

type reserveRepo struct{ get func() *state }

func (r *reserveRepo) EnsureExists(_ context.Context) error {
	st := r.get()
	if st.reserve == nil {
		st.reserve = &backstop.Reserve{ID: backstop.ReserveRowID, Balance: decimal.Zero, TotalDeployed: decimal.Zero}
	}
	return nil
}

func (r *reserveRepo) Get(_ context.Context) (*backstop.Reserve, error) {
	st := r.get()
	if st.reserve == nil {
		return nil, backstop.ErrNotFound
	}
	res := *st.reserve
	return &res, nil
}

func (r *reserveRepo) GetForUpdate(ctx context.Context) (*backstop.Reserve, error) {
	return r.Get(ctx)
}

func (r *reserveRepo) Save(_ context.Context, res *backstop.Reserve) error {
	cp := *res
	r.get().reserve = &cp
	return nil
}

func (r *reserveRepo) CreateLoan(_ context.Context, l *backstop.Loan) error {
	r.get().loans[l.LoanID] = *l
	return nil
}

func (r *reserveRepo) GetLoan(_ context.Context, loanID string) (*backstop.Loan, error) {
	l, ok := r.get().loans[loanID]
	if !ok {
		return nil, backstop.ErrLoanNotFound
	}
	return &l, nil
}

func (r *reserveRepo) SaveLoan(_ context.Context, l *backstop.Loan) error {
	r.get().loans[l.LoanID] = *l
	return nil
}

func (r *reserveRepo) ListLoansByCircle(_ context.Context, circleID string) ([]backstop.Loan, error) {
	var out []backstop.Loan
	for _, l := range r.get().loans {
		if l.CircleID == circleID {
			out = append(out, l)
		}
	}
	return out, nil
}

type receiptRepo struct{ get func() *state }

func (r *receiptRepo) Create(_ context.Context, rc *settlement.Receipt) error {
	st := r.get()
	st.receipts = append(st.receipts, *rc)
	return nil
}

func (r *receiptRepo) ListByCircleID(_ context.Context, circleID string) ([]settlement.Receipt, error) {
	st := r.get()
	var out []settlement.Receipt
	for i := range st.receipts {
		if st.receipts[i].CircleID == circleID {
			out = append(out, st.receipts[i])
		}
	}
	return out, nil
}
