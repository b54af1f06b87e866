package mysql

import (
	"context"
	"testing"

	"github.com/google/uuid"

	settlementDomain "github.com/Theodorio/ajo-api/internal/domain/settlement"
	"github.com/Theodorio/ajo-api/pkg/id"
)

func makeReceipt(circleID string, cycle int) *settlementDomain.Receipt {
	return &settlementDomain.Receipt{
		ReceiptID:       uuid.NewString(),
		CircleID:        circleID,
		CycleNumber:     cycle,
		RecipientID:     id.NewID32(),
		GrossAmount:     dec("30000"),
		Fee:             dec("450"),
		NetPayout:       dec("29550"),
		VaultPortion:    dec("5910"),
		AvailableAmount: dec("23640"),
		BackstopDrawn:   dec("0"),
	}
}

func TestReceiptCreateAndList(t *testing.T) {
	db := openTestDB(t)
	repo := NewReceiptRepository(db)
	ctx := context.Background()

	circleID := id.NewID32()
	first := makeReceipt(circleID, 0)
	second := makeReceipt(circleID, 0)
	other := makeReceipt(id.NewID32(), 0)
	for _, r := range []*settlementDomain.Receipt{first, second, other} {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.ListByCircleID(ctx, circleID)
	if err != nil {
		t.Fatalf("ListByCircleID: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("receipts = %d, want 2", len(got))
	}
	// newest first
	if got[0].ReceiptID != second.ReceiptID {
		t.Fatalf("order: got %s first", got[0].ReceiptID)
	}
	if !got[0].NetPayout.Equal(dec("29550")) {
		t.Fatalf("net payout = %s", got[0].NetPayout)
	}
}
