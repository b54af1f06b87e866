package uowmock

import (
	"context"
	"errors"

	"github.com/Theodorio/ajo-api/internal/domain/circle"
	"github.com/Theodorio/ajo-api/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn       func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinCircleTxFn func(ctx context.Context, circleID string, fn func(r uow.Repos, c *circle.Circle) error) error
}

func New() *UoW { return &UoW{} }

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinCircleTx(ctx context.Context, circleID string, fn func(r uow.Repos, c *circle.Circle) error) error {
	if m.WithinCircleTxFn != nil {
		return m.WithinCircleTxFn(ctx, circleID, fn)
	}
	return errUnimplemented
}
