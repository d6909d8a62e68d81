package overtime

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// hoursTolerance is the matching window for the idempotency lookup: two
// transactions whose hours differ by less than this are the same business
// event.
const hoursTolerance = 0.01

//go:generate mockgen -source=overtime_repo.go -destination=mock/overtime_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateTransaction(ctx context.Context, t *Transaction) error
	TransactionExists(ctx context.Context, userID string, date time.Time, txType string, hours float64, refType *string, refID *string) (bool, error)
	LatestBalanceAfter(ctx context.Context, userID string) (float64, error)
	TransactionsInRange(ctx context.Context, userID string, from, to time.Time, types []string) ([]Transaction, error)
	DeleteTransactionsInRange(ctx context.Context, userID string, from, to time.Time, types []string) (int64, error)
	DeleteTransactionsByReference(ctx context.Context, refType, refID string) (int64, error)
	SumHoursInRange(ctx context.Context, userID string, from, to time.Time) (float64, error)

	FindMonthlyBalance(ctx context.Context, userID, month string) (*MonthlyBalance, error)
	CreateMonthlyBalance(ctx context.Context, b *MonthlyBalance) error
	DeleteMonthlyBalance(ctx context.Context, userID, month string) error
	DeleteMonthlyBalances(ctx context.Context, userID string) error
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

func (r *repository) CreateTransaction(ctx context.Context, t *Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) TransactionExists(ctx context.Context, userID string, date time.Time, txType string, hours float64, refType *string, refID *string) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("user_id = ?", userID).
		Where("date = ?", date).
		Where("type = ?", txType).
		Where("hours BETWEEN ? AND ?", hours-hoursTolerance, hours+hoursTolerance)

	if refType != nil {
		q = q.Where("reference_type = ?", *refType)
	} else {
		q = q.Where("reference_type IS NULL")
	}
	if refID != nil {
		q = q.Where("reference_id = ?", *refID)
	} else {
		q = q.Where("reference_id IS NULL")
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) LatestBalanceAfter(ctx context.Context, userID string) (float64, error) {
	var t Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return t.BalanceAfter, nil
}

func (r *repository) TransactionsInRange(ctx context.Context, userID string, from, to time.Time, types []string) ([]Transaction, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("date BETWEEN ? AND ?", from, to)
	if len(types) > 0 {
		q = q.Where("type IN ?", types)
	}

	var txs []Transaction
	err := q.Order("date ASC, created_at ASC").Find(&txs).Error
	return txs, err
}

func (r *repository) DeleteTransactionsInRange(ctx context.Context, userID string, from, to time.Time, types []string) (int64, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("date BETWEEN ? AND ?", from, to)
	if len(types) > 0 {
		q = q.Where("type IN ?", types)
	}

	res := q.Delete(&Transaction{})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteTransactionsByReference(ctx context.Context, refType, refID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("reference_type = ?", refType).
		Where("reference_id = ?", refID).
		Delete(&Transaction{})
	return res.RowsAffected, res.Error
}

func (r *repository) SumHoursInRange(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	var total sql.NullFloat64
	err := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Select("COALESCE(SUM(hours), 0)").
		Where("user_id = ?", userID).
		Where("date BETWEEN ? AND ?", from, to).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}

func (r *repository) FindMonthlyBalance(ctx context.Context, userID, month string) (*MonthlyBalance, error) {
	var b MonthlyBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("month = ?", month).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) CreateMonthlyBalance(ctx context.Context, b *MonthlyBalance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) DeleteMonthlyBalance(ctx context.Context, userID, month string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("month = ?", month).
		Delete(&MonthlyBalance{}).Error
}

func (r *repository) DeleteMonthlyBalances(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&MonthlyBalance{}).Error
}
