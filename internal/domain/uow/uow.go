package uow

import (
	"context"

	"github.com/Theodorio/ajo-api/internal/domain/backstop"
	"github.com/Theodorio/ajo-api/internal/domain/circle"
	"github.com/Theodorio/ajo-api/internal/domain/reputation"
	"github.com/Theodorio/ajo-api/internal/domain/settlement"
	"github.com/Theodorio/ajo-api/internal/domain/wallet"
)

// Repos bundles every aggregate repository bound to one transaction.
type Repos struct {
	Wallets     wallet.Repository
	Reputations reputation.Repository
	Circles     circle.Repository
	Reserve     backstop.Repository
	Receipts    settlement.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn in a transaction; all repo calls through r commit or
	// roll back together.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinCircleTx locks the circle row first and hands it to fn. The row
	// lock is the at-most-one-in-flight-settlement-per-circle scope.
	WithinCircleTx(ctx context.Context, circleID string, fn func(r Repos, c *circle.Circle) error) error
}
