package absence

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=absence_repo.go -destination=mock/absence_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, a *Absence) error
	FindByID(ctx context.Context, id string) (*Absence, error)
	FindAllByUser(ctx context.Context, userID string) ([]Absence, error)
	Update(ctx context.Context, a *Absence) error
	Delete(ctx context.Context, id string) error

	HasOverlapping(ctx context.Context, userID string, start, end time.Time, excludeID *string) (bool, error)
	ApprovedVacationDays(ctx context.Context, userID string, from, to time.Time) (float64, error)
	ApprovedUnpaidDays(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error)
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

func (r *repository) Create(ctx context.Context, a *Absence) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Absence, error) {
	var a Absence
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]Absence, error) {
	var absences []Absence
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&absences).Error
	return absences, err
}

func (r *repository) Update(ctx context.Context, a *Absence) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Absence{}, "id = ?", id).Error
}

// HasOverlapping reports whether any pending or approved absence for the user
// intersects [start, end]. Back-to-back ranges do not overlap.
func (r *repository) HasOverlapping(ctx context.Context, userID string, start, end time.Time, excludeID *string) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&Absence{}).
		Where("user_id = ?", userID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", start, end)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *repository) ApprovedVacationDays(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	var total sql.NullFloat64
	err := r.db.WithContext(ctx).
		Model(&Absence{}).
		Select("COALESCE(SUM(days_required), 0)").
		Where("user_id = ?", userID).
		Where("type = ?", TypeVacation).
		Where("status = ?", StatusApproved).
		Where("NOT (end_date < ? OR start_date > ?)", from, to).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}

// ApprovedUnpaidDays expands approved unpaid absences into the individual
// calendar days falling inside [from, to].
func (r *repository) ApprovedUnpaidDays(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	var absences []Absence
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("type = ?", TypeUnpaid).
		Where("status = ?", StatusApproved).
		Where("NOT (end_date < ? OR start_date > ?)", from, to).
		Find(&absences).Error
	if err != nil {
		return nil, err
	}

	var days []time.Time
	for _, a := range absences {
		for d := a.StartDate; !d.After(a.EndDate); d = d.AddDate(0, 0, 1) {
			if d.Before(from) || d.After(to) {
				continue
			}
			days = append(days, d)
		}
	}
	return days, nil
}
