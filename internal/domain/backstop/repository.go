package backstop

import "context"

type Repository interface {
	// EnsureExists is the idempotent bootstrap: creates the singleton
	// reserve row if absent. Called once at startup.
	EnsureExists(ctx context.Context) error
	Get(ctx context.Context) (*Reserve, error)
	// GetForUpdate locks the reserve row, serializing reserve writes from
	// circles settling concurrently.
	GetForUpdate(ctx context.Context) (*Reserve, error)
	Save(ctx context.Context, r *Reserve) error

	CreateLoan(ctx context.Context, l *Loan) error
	GetLoan(ctx context.Context, loanID string) (*Loan, error)
	SaveLoan(ctx context.Context, l *Loan) error
	ListLoansByCircle(ctx context.Context, circleID string) ([]Loan, error)
}
