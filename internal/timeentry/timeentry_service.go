package timeentry

import (
	"context"
	"database/sql"
	"time"

	timeentryerrors "go-timetrack/internal/timeentry/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MonthInvalidator is satisfied by the overtime service: a persisted entry
// makes the cached monthly balance for that user/month stale.
type MonthInvalidator interface {
	InvalidateMonth(ctx context.Context, userID string, month string) error
}

//go:generate mockgen -source=timeentry_service.go -destination=mock/timeentry_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, req CreateTimeEntryRequest) (TimeEntryResponse, ValidationResult, error)
	ValidateEntry(ctx context.Context, req CreateTimeEntryRequest) (ValidationResult, error)
	GetForUser(ctx context.Context, userID, from, to string) ([]TimeEntryResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	invalidator MonthInvalidator
	logger      *zap.Logger
}

func NewService(db *sql.DB, repo Repository, invalidator MonthInvalidator, logger ...*zap.Logger) Service {
	l := zap.L().Named("timeentry.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timeentry.service")
	}
	return &service{db: db, repo: repo, invalidator: invalidator, logger: l}
}

func (s *service) Submit(ctx context.Context, req CreateTimeEntryRequest) (TimeEntryResponse, ValidationResult, error) {
	s.logger.Debug("submit time entry requested",
		zap.String("user_id", req.UserID),
		zap.String("date", req.Date),
	)

	entry, err := buildEntry(req)
	if err != nil {
		s.logger.Warn("submit time entry validation failed", zap.Error(err))
		return TimeEntryResponse{}, ValidationResult{}, err
	}

	neighbours, err := s.repo.FindNeighbours(ctx, req.UserID, entry.Date)
	if err != nil {
		s.logger.Error("submit time entry neighbour load failed", zap.Error(err))
		return TimeEntryResponse{}, ValidationResult{}, err
	}

	// Advisory only: warnings are surfaced with the result, never block the
	// write.
	result := Validate(*entry, neighbours)
	for _, w := range result.Warnings {
		s.logger.Warn("time entry compliance warning",
			zap.String("user_id", req.UserID),
			zap.String("date", req.Date),
			zap.String("warning", w),
		)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit time entry begin tx failed", zap.Error(err))
		return TimeEntryResponse{}, ValidationResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, entry); err != nil {
		s.logger.Error("submit time entry persist failed", zap.Error(err))
		return TimeEntryResponse{}, ValidationResult{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("submit time entry commit failed", zap.Error(err))
		return TimeEntryResponse{}, ValidationResult{}, err
	}

	// The monthly balance row for this month is now stale; drop it so the
	// next read rebuilds it.
	month := entry.Date.Format("2006-01")
	if err := s.invalidator.InvalidateMonth(ctx, req.UserID, month); err != nil {
		s.logger.Error("invalidate monthly balance failed",
			zap.String("user_id", req.UserID),
			zap.String("month", month),
			zap.Error(err),
		)
		return TimeEntryResponse{}, ValidationResult{}, err
	}

	s.logger.Info("submit time entry success",
		zap.String("entry_id", entry.ID.String()),
		zap.String("user_id", req.UserID),
		zap.Float64("hours", entry.Hours),
		zap.Int("warnings", len(result.Warnings)),
	)
	return mapToResponse(*entry), result, nil
}

func (s *service) ValidateEntry(ctx context.Context, req CreateTimeEntryRequest) (ValidationResult, error) {
	entry, err := buildEntry(req)
	if err != nil {
		return ValidationResult{}, err
	}

	neighbours, err := s.repo.FindNeighbours(ctx, req.UserID, entry.Date)
	if err != nil {
		return ValidationResult{}, err
	}
	return Validate(*entry, neighbours), nil
}

func (s *service) GetForUser(ctx context.Context, userID, from, to string) ([]TimeEntryResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, timeentryerrors.ErrInvalidUserID
	}
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, timeentryerrors.ErrInvalidDateFormat
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, timeentryerrors.ErrInvalidDateFormat
	}

	rows, err := s.repo.FindByUserAndRange(ctx, userID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	resp := make([]TimeEntryResponse, len(rows))
	for i, e := range rows {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func buildEntry(req CreateTimeEntryRequest) (*TimeEntry, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, timeentryerrors.ErrInvalidUserID
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, timeentryerrors.ErrInvalidDateFormat
	}
	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		return nil, timeentryerrors.ErrInvalidTimeFormat
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		return nil, timeentryerrors.ErrInvalidTimeFormat
	}
	if !end.After(start) {
		return nil, timeentryerrors.ErrEndBeforeStart
	}

	worked := end.Sub(start) - time.Duration(req.BreakMinutes)*time.Minute
	if worked <= 0 {
		return nil, timeentryerrors.ErrBreakExceedsWork
	}

	location := req.Location
	if location == "" {
		location = "office"
	}

	return &TimeEntry{
		ID:           uuid.New(),
		UserID:       userID,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		BreakMinutes: req.BreakMinutes,
		Hours:        worked.Hours(),
		Location:     location,
		Description:  req.Description,
	}, nil
}

func mapToResponse(e TimeEntry) TimeEntryResponse {
	return TimeEntryResponse{
		ID:           e.ID.String(),
		UserID:       e.UserID.String(),
		Date:         e.Date.Format("2006-01-02"),
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		BreakMinutes: e.BreakMinutes,
		Hours:        e.Hours,
		Location:     e.Location,
		Description:  e.Description,
	}
}
