package vacation

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=vacation_repo.go -destination=mock/vacation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, b *Balance) error
	FindByUserAndYear(ctx context.Context, userID string, year int) (*Balance, error)
	FindAllByYear(ctx context.Context, year int) ([]Balance, error)
	UpdateCarryover(ctx context.Context, userID string, year int, carryover float64) error
	UpdateEntitlement(ctx context.Context, userID string, entitlement float64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds a fresh session to the transaction's connection so every
// statement issued through the returned repository joins that transaction.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, b *Balance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindByUserAndYear(ctx context.Context, userID string, year int) (*Balance, error) {
	var b Balance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("year = ?", year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindAllByYear(ctx context.Context, year int) ([]Balance, error) {
	var balances []Balance
	err := r.db.WithContext(ctx).
		Where("year = ?", year).
		Find(&balances).Error
	return balances, err
}

func (r *repository) UpdateCarryover(ctx context.Context, userID string, year int, carryover float64) error {
	return r.db.WithContext(ctx).
		Model(&Balance{}).
		Where("user_id = ?", userID).
		Where("year = ?", year).
		Update("carryover", carryover).Error
}

func (r *repository) UpdateEntitlement(ctx context.Context, userID string, entitlement float64) error {
	return r.db.WithContext(ctx).
		Model(&Balance{}).
		Where("user_id = ?", userID).
		Update("entitlement", entitlement).Error
}
