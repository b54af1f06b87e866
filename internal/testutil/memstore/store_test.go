package memstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	domainSettlement "github.com/Theodorio/ajo-api/internal/domain/settlement"
	"github.com/Theodorio/ajo-api/internal/domain/uow"
	domainWallet "github.com/Theodorio/ajo-api/internal/domain/wallet"
)

// Repositories handed out before a transaction must observe its writes once
// it commits; read paths are wired once at construction time.
func TestReposSeeCommittedWrites(t *testing.T) {
	st := New()
	repos := st.Repos()
	pid := strings.Repeat("a", 32)

	err := st.WithinTx(context.Background(), func(r uow.Repos) error {
		if err := r.Wallets.Create(context.Background(), &domainWallet.Wallet{
			WalletID:      strings.Repeat("1", 32),
			ParticipantID: pid,
			Available:     decimal.RequireFromString("100"),
			Vault:         decimal.Zero,
			Debt:          decimal.Zero,
		}); err != nil {
			return err
		}
		return r.Receipts.Create(context.Background(), &domainSettlement.Receipt{
			ReceiptID: "r-1",
			CircleID:  strings.Repeat("c", 32),
		})
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	w, err := repos.Wallets.GetByParticipantID(context.Background(), pid)
	if err != nil {
		t.Fatalf("committed wallet not visible: %v", err)
	}
	if !w.Available.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("available = %s, want 100", w.Available)
	}

	rcpts, err := repos.Receipts.ListByCircleID(context.Background(), strings.Repeat("c", 32))
	if err != nil {
		t.Fatalf("ListByCircleID: %v", err)
	}
	if len(rcpts) != 1 {
		t.Fatalf("receipts = %d, want 1", len(rcpts))
	}
}

func TestReposUnaffectedByRolledBackWrites(t *testing.T) {
	st := New()
	repos := st.Repos()
	pid := strings.Repeat("b", 32)
	boom := errors.New("boom")

	err := st.WithinTx(context.Background(), func(r uow.Repos) error {
		if err := r.Wallets.Create(context.Background(), &domainWallet.Wallet{
			WalletID:      strings.Repeat("2", 32),
			ParticipantID: pid,
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	if _, err := repos.Wallets.GetByParticipantID(context.Background(), pid); !errors.Is(err, domainWallet.ErrNotFound) {
		t.Fatalf("rolled-back wallet visible: %v", err)
	}
}

// Two sequential transactions through the same handed-out repos: the second
// must start from the first one's committed state.
func TestSequentialTransactionsCompose(t *testing.T) {
	st := New()
	pid := strings.Repeat("d", 32)
	st.PutWallet(domainWallet.Wallet{
		WalletID:      strings.Repeat("3", 32),
		ParticipantID: pid,
		Available:     decimal.Zero,
		Vault:         decimal.Zero,
		Debt:          decimal.Zero,
	})

	add := func(amount string) error {
		return st.WithinTx(context.Background(), func(r uow.Repos) error {
			w, err := r.Wallets.GetByParticipantIDForUpdate(context.Background(), pid)
			if err != nil {
				return err
			}
			w.Available = w.Available.Add(decimal.RequireFromString(amount))
			return r.Wallets.Save(context.Background(), w)
		})
	}
	if err := add("40"); err != nil {
		t.Fatalf("first tx: %v", err)
	}
	if err := add("60"); err != nil {
		t.Fatalf("second tx: %v", err)
	}

	if got := st.Wallet(pid).Available; !got.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("available = %s, want 100", got)
	}
}
