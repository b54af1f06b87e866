package circle

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	domainCircle "github.com/Theodorio/ajo-api/internal/domain/circle"
	domainRep "github.com/Theodorio/ajo-api/internal/domain/reputation"
	domainWallet "github.com/Theodorio/ajo-api/internal/domain/wallet"
	"github.com/Theodorio/ajo-api/internal/testutil/memstore"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var (
	memberA = strings.Repeat("a", 32)
	memberB = strings.Repeat("b", 32)
)

func newUsecase(st *memstore.Store) *Usecase {
	return NewUsecase(st.Repos().Circles, st)
}

func seedParticipant(st *memstore.Store, pid, available string) {
	st.PutWallet(domainWallet.Wallet{
		WalletID:      strings.Repeat("w", 32),
		ParticipantID: pid,
		Available:     dec(available),
		Vault:         decimal.Zero,
		Debt:          decimal.Zero,
	})
	st.PutReputation(*domainRep.New(pid))
}

func mustCreate(t *testing.T, uc *Usecase) *CircleDTO {
	t.Helper()
	dto, err := uc.Create(context.Background(), CreateCircleInput{
		Name:               "osusu-friday",
		ContributionAmount: dec("10000"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return dto
}

func TestCreate(t *testing.T) {
	st := memstore.New()
	uc := newUsecase(st)

	dto := mustCreate(t, uc)
	if len(dto.CircleID) != 32 {
		t.Fatalf("circle id length = %d", len(dto.CircleID))
	}
	if dto.Status != string(domainCircle.StatusForming) {
		t.Fatalf("status = %s", dto.Status)
	}
	if dto.CycleDays != 30 {
		t.Fatalf("cycle days = %d, want default 30", dto.CycleDays)
	}
	if !dto.TotalPot.IsZero() {
		t.Fatalf("pot = %s, want 0 before members", dto.TotalPot)
	}
}

func TestCreate_InvalidInput(t *testing.T) {
	uc := newUsecase(memstore.New())
	if _, err := uc.Create(context.Background(), CreateCircleInput{Name: "", ContributionAmount: dec("1")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty name: err = %v, want ErrInvalidInput", err)
	}
	if _, err := uc.Create(context.Background(), CreateCircleInput{Name: "x", ContributionAmount: decimal.Zero}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero contribution: err = %v, want ErrInvalidInput", err)
	}
}

func TestJoin(t *testing.T) {
	st := memstore.New()
	seedParticipant(st, memberA, "0")
	uc := newUsecase(st)
	created := mustCreate(t, uc)

	dto, err := uc.Join(context.Background(), JoinInput{CircleID: created.CircleID, ParticipantID: memberA})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if len(dto.Members) != 1 || dto.PayoutOrder[0] != memberA {
		t.Fatalf("membership = %+v", dto)
	}
	if !dto.TotalPot.Equal(dec("10000")) {
		t.Fatalf("pot = %s", dto.TotalPot)
	}
	if got := st.Reputation(memberA).ActiveCircleCount; got != 1 {
		t.Fatalf("active circles = %d, want 1", got)
	}
}

func TestJoin_DeniedBlacklisted(t *testing.T) {
	st := memstore.New()
	seedParticipant(st, memberA, "0")
	rep := st.Reputation(memberA)
	rep.AccountStatus = domainRep.StatusBlacklisted
	st.PutReputation(rep)

	uc := newUsecase(st)
	created := mustCreate(t, uc)

	_, err := uc.Join(context.Background(), JoinInput{CircleID: created.CircleID, ParticipantID: memberA})
	var denied *JoinDeniedError
	if !errors.As(err, &denied) || denied.Reason != domainRep.DenyBlacklisted {
		t.Fatalf("err = %v, want JoinDeniedError BLACKLISTED", err)
	}
	// denial must not bump the counter
	if got := st.Reputation(memberA).ActiveCircleCount; got != 0 {
		t.Fatalf("active circles = %d, want 0", got)
	}
}

func TestJoin_DeniedTierLimitThenAllowedAsSilver(t *testing.T) {
	st := memstore.New()
	seedParticipant(st, memberA, "0")
	rep := st.Reputation(memberA)
	rep.ActiveCircleCount = 2 // bronze ceiling
	st.PutReputation(rep)

	uc := newUsecase(st)
	created := mustCreate(t, uc)
	in := JoinInput{CircleID: created.CircleID, ParticipantID: memberA}

	_, err := uc.Join(context.Background(), in)
	var denied *JoinDeniedError
	if !errors.As(err, &denied) || denied.Reason != domainRep.DenyTierLimit {
		t.Fatalf("err = %v, want TIER_LIMIT", err)
	}

	rep = st.Reputation(memberA)
	rep.TrustScore = 550
	rep.Tier = domainRep.TierFor(rep.TrustScore)
	st.PutReputation(rep)

	if _, err := uc.Join(context.Background(), in); err != nil {
		t.Fatalf("silver join: %v", err)
	}
}

func TestJoin_DeniedActiveDebt(t *testing.T) {
	st := memstore.New()
	seedParticipant(st, memberA, "0")
	w := st.Wallet(memberA)
	w.Debt = dec("10500")
	st.PutWallet(w)

	uc := newUsecase(st)
	created := mustCreate(t, uc)

	_, err := uc.Join(context.Background(), JoinInput{CircleID: created.CircleID, ParticipantID: memberA})
	var denied *JoinDeniedError
	if !errors.As(err, &denied) || denied.Reason != domainRep.DenyActiveDebt {
		t.Fatalf("err = %v, want ACTIVE_DEBT", err)
	}
}

func TestActivate(t *testing.T) {
	st := memstore.New()
	seedParticipant(st, memberA, "0")
	seedParticipant(st, memberB, "0")
	uc := newUsecase(st)
	created := mustCreate(t, uc)
	ctx := context.Background()

	if _, err := uc.Activate(ctx, created.CircleID); !errors.Is(err, domainCircle.ErrBelowQuorum) {
		t.Fatalf("err = %v, want ErrBelowQuorum", err)
	}

	for _, pid := range []string{memberA, memberB} {
		if _, err := uc.Join(ctx, JoinInput{CircleID: created.CircleID, ParticipantID: pid}); err != nil {
			t.Fatalf("Join(%s): %v", pid, err)
		}
	}
	dto, err := uc.Activate(ctx, created.CircleID)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if dto.Status != string(domainCircle.StatusActive) || dto.NextPayoutAt == nil {
		t.Fatalf("activated = %+v", dto)
	}

	// membership is frozen now
	late := strings.Repeat("c", 32)
	seedParticipant(st, late, "0")
	if _, err := uc.Join(ctx, JoinInput{CircleID: created.CircleID, ParticipantID: late}); !errors.Is(err, domainCircle.ErrNotForming) {
		t.Fatalf("err = %v, want ErrNotForming", err)
	}
}

func TestContribute(t *testing.T) {
	st := memstore.New()
	seedParticipant(st, memberA, "25000")
	seedParticipant(st, memberB, "5000")
	uc := newUsecase(st)
	created := mustCreate(t, uc)
	ctx := context.Background()

	for _, pid := range []string{memberA, memberB} {
		if _, err := uc.Join(ctx, JoinInput{CircleID: created.CircleID, ParticipantID: pid}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := uc.Activate(ctx, created.CircleID); err != nil {
		t.Fatal(err)
	}

	dto, err := uc.Contribute(ctx, ContributeInput{CircleID: created.CircleID, ParticipantID: memberA})
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if dto.Members[0].PaymentStatus != string(domainCircle.PaymentPaid) {
		t.Fatalf("status = %s", dto.Members[0].PaymentStatus)
	}
	w := st.Wallet(memberA)
	if !w.Available.Equal(dec("15000")) || !w.Vault.Equal(dec("10000")) {
		t.Fatalf("escrow ledger = %s/%s", w.Available, w.Vault)
	}

	if _, err := uc.Contribute(ctx, ContributeInput{CircleID: created.CircleID, ParticipantID: memberA}); !errors.Is(err, domainCircle.ErrAlreadyPaid) {
		t.Fatalf("err = %v, want ErrAlreadyPaid", err)
	}

	// unaffordable contribution leaves both aggregates untouched
	_, err = uc.Contribute(ctx, ContributeInput{CircleID: created.CircleID, ParticipantID: memberB})
	if !errors.Is(err, domainWallet.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	got := st.Circle(created.CircleID)
	for _, m := range got.Members {
		if m.ParticipantID == memberB && m.PaymentStatus != domainCircle.PaymentPending {
			t.Fatalf("failed contribution marked member: %s", m.PaymentStatus)
		}
	}
	if w := st.Wallet(memberB); !w.Available.Equal(dec("5000")) || !w.Vault.IsZero() {
		t.Fatalf("failed contribution moved funds: %s/%s", w.Available, w.Vault)
	}
}
