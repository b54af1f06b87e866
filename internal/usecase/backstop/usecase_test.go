package backstop

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	domainBackstop "github.com/Theodorio/ajo-api/internal/domain/backstop"
	"github.com/Theodorio/ajo-api/internal/testutil/memstore"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBootstrapAndGet(t *testing.T) {
	st := memstore.New()
	uc := NewUsecase(st.Repos().Reserve)
	ctx := context.Background()

	if _, err := uc.Get(ctx); !errors.Is(err, domainBackstop.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound before bootstrap", err)
	}

	if err := uc.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	// second bootstrap is a no-op
	if err := uc.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap again: %v", err)
	}

	dto, err := uc.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !dto.Balance.IsZero() || !dto.TotalDeployed.IsZero() {
		t.Fatalf("fresh reserve = %+v", dto)
	}
}

func TestMarkRecoveredIdempotent(t *testing.T) {
	st := memstore.New()
	uc := NewUsecase(st.Repos().Reserve)
	ctx := context.Background()

	loanID := "3f2c27d2-1f61-4b8e-9f65-0c8f6f3a9b11"
	if err := st.Repos().Reserve.CreateLoan(ctx, &domainBackstop.Loan{
		LoanID:                 loanID,
		CircleID:               strings.Repeat("c", 32),
		DefaultedParticipantID: strings.Repeat("p", 32),
		Amount:                 dec("10000"),
	}); err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}

	dto, err := uc.MarkRecovered(ctx, loanID)
	if err != nil {
		t.Fatalf("MarkRecovered: %v", err)
	}
	if !dto.Recovered {
		t.Fatal("loan not flipped")
	}

	again, err := uc.MarkRecovered(ctx, loanID)
	if err != nil || !again.Recovered {
		t.Fatalf("second MarkRecovered: %+v, %v", again, err)
	}

	if _, err := uc.MarkRecovered(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, domainBackstop.ErrLoanNotFound) {
		t.Fatalf("err = %v, want ErrLoanNotFound", err)
	}
}

func TestLoansByCircle(t *testing.T) {
	st := memstore.New()
	uc := NewUsecase(st.Repos().Reserve)
	ctx := context.Background()

	circleA := strings.Repeat("a", 32)
	circleB := strings.Repeat("b", 32)
	for i, cid := range []string{circleA, circleA, circleB} {
		if err := st.Repos().Reserve.CreateLoan(ctx, &domainBackstop.Loan{
			LoanID:                 "3f2c27d2-1f61-4b8e-9f65-0c8f6f3a9b1" + string(rune('0'+i)),
			CircleID:               cid,
			DefaultedParticipantID: strings.Repeat("p", 32),
			Amount:                 dec("10000"),
		}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := uc.LoansByCircle(ctx, circleA)
	if err != nil {
		t.Fatalf("LoansByCircle: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loans = %d, want 2", len(got))
	}
}
