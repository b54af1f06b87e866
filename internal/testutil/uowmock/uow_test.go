package uowmock

import (
	"context"
	"errors"
	"testing"

	"github.com/Theodorio/ajo-api/internal/domain/circle"
	"github.com/Theodorio/ajo-api/internal/domain/uow"
	"github.com/Theodorio/ajo-api/internal/testutil/memstore"
)

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	repos := memstore.New().Repos()

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			if fn == nil {
				t.Fatalf("WithinTx: fn is nil")
			}
			// simulate transaction body
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Wallets != repos.Wallets || r.Circles != repos.Circles {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_WithinTx_PropagatesError(t *testing.T) {
	ctx := context.Background()
	sentinel := errors.New("boom")

	m := &UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error {
			return sentinel
		},
	}
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_Defaults_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := New()
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	err := m.WithinCircleTx(ctx, "c1", func(uow.Repos, *circle.Circle) error { return nil })
	if !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinCircleTx default: want errUnimplemented, got %v", err)
	}
}

func TestUoW_WithinCircleTx_Happy(t *testing.T) {
	ctx := context.Background()

	c := &circle.Circle{CircleID: "c1", Status: circle.StatusForming}
	m := &UoW{
		WithinCircleTxFn: func(_ context.Context, circleID string, fn func(r uow.Repos, c *circle.Circle) error) error {
			if circleID != "c1" {
				t.Fatalf("circle id mismatch: %s", circleID)
			}
			return fn(uow.Repos{}, c)
		},
	}

	err := m.WithinCircleTx(ctx, "c1", func(_ uow.Repos, got *circle.Circle) error {
		if got != c {
			t.Fatalf("WithinCircleTx: circle not forwarded")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinCircleTx: unexpected err: %v", err)
	}
}
