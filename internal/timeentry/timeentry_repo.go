package timeentry

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=timeentry_repo.go -destination=mock/timeentry_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *TimeEntry) error
	FindByID(ctx context.Context, id string) (*TimeEntry, error)
	FindByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]TimeEntry, error)
	// FindNeighbours returns every entry of the user within the window the
	// compliance checks need: same ISO week as date plus the preceding and
	// following day for rest-period math.
	FindNeighbours(ctx context.Context, userID string, date time.Time) ([]TimeEntry, error)
	SumHoursInRange(ctx context.Context, userID string, from, to time.Time) (float64, error)
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

func (r *repository) Create(ctx context.Context, e *TimeEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*TimeEntry, error) {
	var e TimeEntry
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]TimeEntry, error) {
	var entries []TimeEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("date BETWEEN ? AND ?", from, to).
		Order("date ASC, start_time ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindNeighbours(ctx context.Context, userID string, date time.Time) ([]TimeEntry, error) {
	// One ISO week always fits inside date±7d; over-fetching a little keeps
	// the query trivial.
	return r.FindByUserAndRange(ctx, userID, date.AddDate(0, 0, -7), date.AddDate(0, 0, 7))
}

func (r *repository) SumHoursInRange(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	var total sql.NullFloat64
	err := r.db.WithContext(ctx).
		Model(&TimeEntry{}).
		Select("COALESCE(SUM(hours), 0)").
		Where("user_id = ?", userID).
		Where("date BETWEEN ? AND ?", from, to).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}
