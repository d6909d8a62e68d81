package overtime

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-timetrack/internal/employee"
	"go-timetrack/internal/holiday"
	overtimeerrors "go-timetrack/internal/overtime/errors"
	"go-timetrack/internal/workingtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// WorkedHoursSource is satisfied by the time-entry repository: raw worked
// hours that are not mirrored as ledger rows still count towards the monthly
// actual.
type WorkedHoursSource interface {
	SumHoursInRange(ctx context.Context, userID string, from, to time.Time) (float64, error)
}

// UnpaidLeaveSource is satisfied by the absence repository. Whether approved
// unpaid days reduce the monthly target is a policy decision
// (unpaidReducesTarget); when enabled those days are excluded from the
// target-hours calculation exactly like holidays.
type UnpaidLeaveSource interface {
	ApprovedUnpaidDays(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error)
}

//go:generate mockgen -source=overtime_service.go -destination=mock/overtime_service_mock.go -package=mock
type Service interface {
	GetMonthlyOvertime(ctx context.Context, userID, month string) (MonthlyOvertimeResponse, error)
	RecalculateForUser(ctx context.Context, userID string) error
	InvalidateMonth(ctx context.Context, userID, month string) error
	CreateCorrection(ctx context.Context, req CreateCorrectionRequest) (CorrectionResponse, error)
	GetHistory(ctx context.Context, userID, from, to string) ([]TransactionResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	ledger    *Ledger
	employees employee.Repository
	worked    WorkedHoursSource
	unpaid    UnpaidLeaveSource
	holidays  holiday.Provider

	unpaidReducesTarget bool
	sf                  singleflight.Group
	logger              *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	worked WorkedHoursSource,
	unpaid UnpaidLeaveSource,
	holidays holiday.Provider,
	unpaidReducesTarget bool,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("overtime.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("overtime.service")
	}
	return &service{
		db:                  db,
		repo:                repo,
		ledger:              NewLedger(repo, l),
		employees:           employees,
		worked:              worked,
		unpaid:              unpaid,
		holidays:            holidays,
		unpaidReducesTarget: unpaidReducesTarget,
		logger:              l,
	}
}

func (s *service) GetMonthlyOvertime(ctx context.Context, userID, month string) (MonthlyOvertimeResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return MonthlyOvertimeResponse{}, overtimeerrors.ErrInvalidUserID
	}
	monthStart, err := time.Parse("2006-01", month)
	if err != nil {
		return MonthlyOvertimeResponse{}, overtimeerrors.ErrInvalidMonth
	}

	row, err := s.repo.FindMonthlyBalance(ctx, userID, month)
	if err == nil {
		return mapToMonthlyResponse(userID, month, *row), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return MonthlyOvertimeResponse{}, err
	}

	// Lazy build: the row does not exist yet.
	row, err = s.computeMonthlyBalance(ctx, userID, month, monthStart)
	if err != nil {
		return MonthlyOvertimeResponse{}, err
	}

	if err := s.repo.CreateMonthlyBalance(ctx, row); err != nil {
		// Two readers may race on the first access; the unique index on
		// (user_id, month) makes one insert lose. Return the winner's row.
		existing, findErr := s.repo.FindMonthlyBalance(ctx, userID, month)
		if findErr != nil {
			return MonthlyOvertimeResponse{}, err
		}
		row = existing
	}

	s.logger.Info("monthly balance computed",
		zap.String("user_id", userID),
		zap.String("month", month),
		zap.Float64("target_hours", row.TargetHours),
		zap.Float64("actual_hours", row.ActualHours),
	)
	return mapToMonthlyResponse(userID, month, *row), nil
}

func (s *service) computeMonthlyBalance(ctx context.Context, userID, month string, monthStart time.Time) (*MonthlyBalance, error) {
	emp, err := s.employees.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, overtimeerrors.ErrUserNotFound
		}
		return nil, err
	}

	monthEnd := monthStart.AddDate(0, 1, -1)

	excluded, err := holiday.FetchDateSet(ctx, s.holidays, emp.Region, monthStart.Year(), monthEnd.Year())
	if err != nil {
		return nil, err
	}

	if s.unpaidReducesTarget && s.unpaid != nil {
		days, err := s.unpaid.ApprovedUnpaidDays(ctx, userID, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
		for _, d := range days {
			excluded[workingtime.DateKey(d)] = struct{}{}
		}
	}

	target := workingtime.TargetHours(emp.Schedule(), monthStart, monthEnd, excluded, emp.HireDate, emp.EndDate)

	workedHours, err := s.worked.SumHoursInRange(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	creditHours, err := s.repo.SumHoursInRange(ctx, userID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	return &MonthlyBalance{
		ID:          uuid.New(),
		UserID:      emp.ID,
		Month:       month,
		TargetHours: round2(target),
		ActualHours: round2(workedHours + creditHours),
	}, nil
}

// RecalculateForUser drops every cached monthly row so subsequent reads
// rebuild against the current contract. Concurrent triggers for the same
// user collapse into one delete.
func (s *service) RecalculateForUser(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return overtimeerrors.ErrInvalidUserID
	}

	_, err, _ := s.sf.Do(userID, func() (interface{}, error) {
		if err := s.repo.DeleteMonthlyBalances(ctx, userID); err != nil {
			return nil, err
		}
		s.logger.Info("monthly balances invalidated", zap.String("user_id", userID))
		return nil, nil
	})
	return err
}

func (s *service) InvalidateMonth(ctx context.Context, userID, month string) error {
	return s.repo.DeleteMonthlyBalance(ctx, userID, month)
}

func (s *service) CreateCorrection(ctx context.Context, req CreateCorrectionRequest) (CorrectionResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return CorrectionResponse{}, overtimeerrors.ErrInvalidUserID
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return CorrectionResponse{}, overtimeerrors.ErrInvalidDateFormat
	}
	if req.Hours == 0 {
		return CorrectionResponse{}, overtimeerrors.ErrInvalidHours
	}

	var createdBy *uuid.UUID
	if req.CreatedBy != "" {
		actor, err := uuid.Parse(req.CreatedBy)
		if err != nil {
			return CorrectionResponse{}, overtimeerrors.ErrInvalidUserID
		}
		createdBy = &actor
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create correction begin tx failed", zap.Error(err))
		return CorrectionResponse{}, err
	}
	defer tx.Rollback()

	refType := RefManual
	id, err := s.ledger.WithTx(tx).Create(ctx, CreateParams{
		UserID:        userID,
		Date:          date,
		Type:          TypeCorrection,
		Hours:         req.Hours,
		Description:   req.Description,
		ReferenceType: &refType,
		CreatedBy:     createdBy,
	})
	if err != nil {
		s.logger.Error("create correction persist failed", zap.Error(err))
		return CorrectionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create correction commit failed", zap.Error(err))
		return CorrectionResponse{}, err
	}

	if id != nil {
		if err := s.InvalidateMonth(ctx, req.UserID, date.Format("2006-01")); err != nil {
			s.logger.Error("invalidate month after correction failed", zap.Error(err))
			return CorrectionResponse{}, err
		}
	}

	resp := CorrectionResponse{Created: id != nil}
	if id != nil {
		v := id.String()
		resp.TransactionID = &v
	}
	s.logger.Info("create correction done",
		zap.String("user_id", req.UserID),
		zap.Bool("created", resp.Created),
	)
	return resp, nil
}

func (s *service) GetHistory(ctx context.Context, userID, from, to string) ([]TransactionResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, overtimeerrors.ErrInvalidUserID
	}
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, overtimeerrors.ErrInvalidDateFormat
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, overtimeerrors.ErrInvalidDateFormat
	}

	txs, err := s.ledger.InRange(ctx, uid, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	resp := make([]TransactionResponse, len(txs))
	for i, t := range txs {
		resp[i] = mapToTransactionResponse(t)
	}
	return resp, nil
}

func mapToMonthlyResponse(userID, month string, b MonthlyBalance) MonthlyOvertimeResponse {
	return MonthlyOvertimeResponse{
		UserID:      userID,
		Month:       month,
		TargetHours: b.TargetHours,
		ActualHours: b.ActualHours,
		Overtime:    round2(b.Overtime()),
	}
}

func mapToTransactionResponse(t Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:            t.ID.String(),
		UserID:        t.UserID.String(),
		Date:          t.Date.Format("2006-01-02"),
		Type:          t.Type,
		Hours:         t.Hours,
		Description:   t.Description,
		ReferenceType: t.ReferenceType,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
	}
	if t.ReferenceID != nil {
		v := t.ReferenceID.String()
		resp.ReferenceID = &v
	}
	return resp
}
