package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	backstopDomain "github.com/Theodorio/ajo-api/internal/domain/backstop"
)

type BackstopRepository struct{ db *gorm.DB }

func NewBackstopRepository(db *gorm.DB) *BackstopRepository { return &BackstopRepository{db: db} }

// EnsureExists creates the singleton reserve row if absent. Safe to call on
// every startup.
func (r *BackstopRepository) EnsureExists(ctx context.Context) error {
	reserve := backstopDomain.Reserve{
		ID:            backstopDomain.ReserveRowID,
		Balance:       decimal.Zero,
		TotalDeployed: decimal.Zero,
	}
	return r.db.WithContext(ctx).
		Where("id = ?", backstopDomain.ReserveRowID).
		FirstOrCreate(&reserve).Error
}

func (r *BackstopRepository) Get(ctx context.Context) (*backstopDomain.Reserve, error) {
	var out backstopDomain.Reserve
	res := r.db.WithContext(ctx).Where("id = ?", backstopDomain.ReserveRowID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, backstopDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *BackstopRepository) GetForUpdate(ctx context.Context) (*backstopDomain.Reserve, error) {
	var out backstopDomain.Reserve
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", backstopDomain.ReserveRowID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, backstopDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *BackstopRepository) Save(ctx context.Context, reserve *backstopDomain.Reserve) error {
	return r.db.WithContext(ctx).Save(reserve).Error
}

func (r *BackstopRepository) CreateLoan(ctx context.Context, l *backstopDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *BackstopRepository) GetLoan(ctx context.Context, loanID string) (*backstopDomain.Loan, error) {
	var out backstopDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, backstopDomain.ErrLoanNotFound
	}
	return &out, res.Error
}

func (r *BackstopRepository) SaveLoan(ctx context.Context, l *backstopDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *BackstopRepository) ListLoansByCircle(ctx context.Context, circleID string) ([]backstopDomain.Loan, error) {
	var out []backstopDomain.Loan
	res := r.db.WithContext(ctx).
		Where("circle_id = ?", circleID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
