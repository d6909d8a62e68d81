package vacation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-timetrack/internal/employee"
	vacationerrors "go-timetrack/internal/vacation/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxCarryoverDays caps what rolls from one year into the next.
const maxCarryoverDays = 5.0

// TakenDaysSource is satisfied by the absence repository: taken is always the
// sum of days required by approved vacation absences overlapping the year,
// never an incrementally maintained counter.
type TakenDaysSource interface {
	ApprovedVacationDays(ctx context.Context, userID string, from, to time.Time) (float64, error)
}

//go:generate mockgen -source=vacation_service.go -destination=mock/vacation_service_mock.go -package=mock
type Service interface {
	GetBalance(ctx context.Context, userID string, year int) (BalanceResponse, error)
	OnEntitlementChanged(ctx context.Context, userID string, days float64) error
	EnsureRows(ctx context.Context, userID string, entitlement float64) error
	Rollover(ctx context.Context, year int) (RolloverResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	taken     TakenDaysSource
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, taken TakenDaysSource, logger ...*zap.Logger) Service {
	l := zap.L().Named("vacation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("vacation.service")
	}
	return &service{db: db, repo: repo, employees: employees, taken: taken, logger: l}
}

func (s *service) GetBalance(ctx context.Context, userID string, year int) (BalanceResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return BalanceResponse{}, vacationerrors.ErrInvalidUserID
	}
	if year < 2000 || year > 2100 {
		return BalanceResponse{}, vacationerrors.ErrInvalidYear
	}

	row, err := s.repo.FindByUserAndYear(ctx, userID, year)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, err
		}
		row, err = s.createFromProfile(ctx, userID, year)
		if err != nil {
			return BalanceResponse{}, err
		}
	}

	taken, err := s.takenInYear(ctx, userID, year)
	if err != nil {
		return BalanceResponse{}, err
	}

	return BalanceResponse{
		UserID:      userID,
		Year:        year,
		Entitlement: row.Entitlement,
		Carryover:   row.Carryover,
		Taken:       taken,
		Remaining:   round2(row.Entitlement + row.Carryover - taken),
	}, nil
}

// createFromProfile seeds a missing year row from the employee's entitlement.
func (s *service) createFromProfile(ctx context.Context, userID string, year int) (*Balance, error) {
	emp, err := s.employees.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, vacationerrors.ErrUserNotFound
		}
		return nil, err
	}

	row := &Balance{
		ID:          uuid.New(),
		UserID:      emp.ID,
		Year:        year,
		Entitlement: emp.VacationDaysPerYear,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		// Concurrent first reads race on the unique (user_id, year) index;
		// return whichever row won.
		existing, findErr := s.repo.FindByUserAndYear(ctx, userID, year)
		if findErr != nil {
			return nil, err
		}
		return existing, nil
	}
	return row, nil
}

func (s *service) takenInYear(ctx context.Context, userID string, year int) (float64, error) {
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
	taken, err := s.taken.ApprovedVacationDays(ctx, userID, yearStart, yearEnd)
	if err != nil {
		return 0, err
	}
	return round2(taken), nil
}

func (s *service) OnEntitlementChanged(ctx context.Context, userID string, days float64) error {
	if err := s.repo.UpdateEntitlement(ctx, userID, days); err != nil {
		return err
	}
	s.logger.Info("entitlement propagated to year rows",
		zap.String("user_id", userID),
		zap.Float64("entitlement", days),
	)
	return nil
}

// EnsureRows seeds balance rows for the current and next year, skipping any
// that already exist. Called on onboarding.
func (s *service) EnsureRows(ctx context.Context, userID string, entitlement float64) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return vacationerrors.ErrInvalidUserID
	}

	currentYear := time.Now().UTC().Year()
	for _, year := range []int{currentYear, currentYear + 1} {
		_, err := s.repo.FindByUserAndYear(ctx, userID, year)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := s.repo.Create(ctx, &Balance{
			ID:          uuid.New(),
			UserID:      uid,
			Year:        year,
			Entitlement: entitlement,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Rollover carries each user's unused days of the given year into the next
// year's row, capped at maxCarryoverDays. Negative balances carry nothing.
func (s *service) Rollover(ctx context.Context, year int) (RolloverResponse, error) {
	if year < 2000 || year > 2100 {
		return RolloverResponse{}, vacationerrors.ErrInvalidYear
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("rollover begin tx failed", zap.Error(err))
		return RolloverResponse{}, err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)
	balances, err := txRepo.FindAllByYear(ctx, year)
	if err != nil {
		return RolloverResponse{}, err
	}

	processed := 0
	for _, b := range balances {
		userID := b.UserID.String()
		taken, err := s.takenInYear(ctx, userID, year)
		if err != nil {
			return RolloverResponse{}, err
		}

		carry := round2(b.Entitlement + b.Carryover - taken)
		if carry < 0 {
			carry = 0
		}
		if carry > maxCarryoverDays {
			carry = maxCarryoverDays
		}

		_, err = txRepo.FindByUserAndYear(ctx, userID, year+1)
		switch {
		case err == nil:
			if err := txRepo.UpdateCarryover(ctx, userID, year+1, carry); err != nil {
				return RolloverResponse{}, err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := txRepo.Create(ctx, &Balance{
				ID:          uuid.New(),
				UserID:      b.UserID,
				Year:        year + 1,
				Entitlement: b.Entitlement,
				Carryover:   carry,
			}); err != nil {
				return RolloverResponse{}, err
			}
		default:
			return RolloverResponse{}, err
		}
		processed++
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("rollover commit failed", zap.Error(err))
		return RolloverResponse{}, err
	}

	s.logger.Info("year-end rollover done",
		zap.Int("year", year),
		zap.Int("users_processed", processed),
	)
	return RolloverResponse{Year: year, UsersProcessed: processed}, nil
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
