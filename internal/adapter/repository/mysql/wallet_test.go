package mysql

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	backstopDomain "github.com/Theodorio/ajo-api/internal/domain/backstop"
	circleDomain "github.com/Theodorio/ajo-api/internal/domain/circle"
	repDomain "github.com/Theodorio/ajo-api/internal/domain/reputation"
	settlementDomain "github.com/Theodorio/ajo-api/internal/domain/settlement"
	walletDomain "github.com/Theodorio/ajo-api/internal/domain/wallet"
	"github.com/Theodorio/ajo-api/pkg/id"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// openTestDB runs the full schema on in-memory sqlite. The schema carries no
// MySQL-only column types, so the domain models migrate as-is.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&walletDomain.Wallet{},
		&repDomain.Reputation{},
		&circleDomain.Circle{},
		&circleDomain.Member{},
		&backstopDomain.Reserve{},
		&backstopDomain.Loan{},
		&settlementDomain.Receipt{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeWallet(participantID string) *walletDomain.Wallet {
	return &walletDomain.Wallet{
		WalletID:      id.NewID32(),
		ParticipantID: participantID,
		Available:     dec("1000.50"),
		Vault:         dec("200"),
		Debt:          decimal.Zero,
	}
}

func TestWalletCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	participant := id.NewID32()
	w := makeWallet(participant)
	if err := repo.Create(ctx, w); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if w.ID == 0 {
		t.Fatal("Create did not set auto-increment ID")
	}

	got, err := repo.GetByParticipantID(ctx, participant)
	if err != nil {
		t.Fatalf("GetByParticipantID: %v", err)
	}
	if got.WalletID != w.WalletID || !got.Available.Equal(dec("1000.50")) {
		t.Errorf("unexpected wallet: %+v", got)
	}
}

func TestWalletGet_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewWalletRepository(db)

	_, err := repo.GetByParticipantID(context.Background(), strings.Repeat("f", 32))
	if !errors.Is(err, walletDomain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestWalletSaveUpdates(t *testing.T) {
	db := openTestDB(t)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	w := makeWallet(id.NewID32())
	if err := repo.Create(ctx, w); err != nil {
		t.Fatalf("Create: %v", err)
	}

	w.Available = dec("750.25")
	w.Debt = dec("10500")
	if err := repo.Save(ctx, w); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByParticipantID(ctx, w.ParticipantID)
	if err != nil {
		t.Fatalf("GetByParticipantID: %v", err)
	}
	if !got.Available.Equal(dec("750.25")) || !got.Debt.Equal(dec("10500")) {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestWalletListDebtors(t *testing.T) {
	db := openTestDB(t)
	repo := NewWalletRepository(db)
	ctx := context.Background()

	big := makeWallet(id.NewID32())
	big.Debt = dec("10500")
	small := makeWallet(id.NewID32())
	small.Debt = dec("100")
	clean := makeWallet(id.NewID32())
	for _, w := range []*walletDomain.Wallet{big, small, clean} {
		if err := repo.Create(ctx, w); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.ListDebtors(ctx, dec("1000"))
	if err != nil {
		t.Fatalf("ListDebtors: %v", err)
	}
	if len(got) != 1 || got[0].ParticipantID != big.ParticipantID {
		t.Fatalf("debtors = %+v", got)
	}

	all, err := repo.ListDebtors(ctx, decimal.Zero)
	if err != nil {
		t.Fatalf("ListDebtors: %v", err)
	}
	if len(all) != 2 || !all[0].Debt.Equal(dec("10500")) {
		t.Fatalf("debtors should order by debt desc: %+v", all)
	}
}

func TestReputationCreateGetSave(t *testing.T) {
	db := openTestDB(t)
	repo := NewReputationRepository(db)
	ctx := context.Background()

	participant := id.NewID32()
	rep := repDomain.New(participant)
	if err := repo.Create(ctx, rep); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rep.TrustScore = 560
	rep.Tier = repDomain.TierFor(rep.TrustScore)
	rep.ActiveCircleCount = 3
	if err := repo.Save(ctx, rep); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByParticipantID(ctx, participant)
	if err != nil {
		t.Fatalf("GetByParticipantID: %v", err)
	}
	if got.TrustScore != 560 || got.Tier != repDomain.TierSilver || got.ActiveCircleCount != 3 {
		t.Errorf("unexpected reputation: %+v", got)
	}

	if _, err := repo.GetByParticipantID(ctx, strings.Repeat("f", 32)); !errors.Is(err, repDomain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
