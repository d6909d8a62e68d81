package absence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	absenceerrors "go-timetrack/internal/absence/errors"
	"go-timetrack/internal/employee"
	"go-timetrack/internal/events"
	"go-timetrack/internal/holiday"
	"go-timetrack/internal/messaging/kafka"
	"go-timetrack/internal/overtime"
	"go-timetrack/internal/shared/contextutil"
	"go-timetrack/internal/workingtime"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MonthInvalidator is satisfied by the overtime service: cached monthly rows
// covering an absence are dropped whenever its side effects change.
type MonthInvalidator interface {
	InvalidateMonth(ctx context.Context, userID, month string) error
}

//go:generate mockgen -source=absence_service.go -destination=mock/absence_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, req CreateAbsenceRequest) (AbsenceResponse, error)
	Approve(ctx context.Context, id, approverID string) (AbsenceResponse, error)
	Reject(ctx context.Context, id, approverID, reason string) (AbsenceResponse, error)
	Cancel(ctx context.Context, id string) error
	Update(ctx context.Context, id string, req UpdateAbsenceRequest) (AbsenceResponse, error)
	GetByID(ctx context.Context, id string) (AbsenceResponse, error)
	GetAllByUser(ctx context.Context, userID string) ([]AbsenceResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	ledger    *overtime.Ledger
	holidays  holiday.Provider
	outbox    kafka.OutboxRepository
	months    MonthInvalidator
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	ledger *overtime.Ledger,
	holidays holiday.Provider,
	outbox kafka.OutboxRepository,
	months MonthInvalidator,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("absence.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("absence.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		ledger:    ledger,
		holidays:  holidays,
		outbox:    outbox,
		months:    months,
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, req CreateAbsenceRequest) (AbsenceResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidUserID
	}
	if !validType(req.Type) {
		return AbsenceResponse{}, absenceerrors.ErrInvalidType
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return AbsenceResponse{}, err
	}

	emp, err := s.employees.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AbsenceResponse{}, absenceerrors.ErrUserNotFound
		}
		return AbsenceResponse{}, err
	}

	daysRequired, err := s.workingDays(ctx, emp.Region, start, end)
	if err != nil {
		return AbsenceResponse{}, err
	}
	if daysRequired == 0 {
		return AbsenceResponse{}, absenceerrors.ErrNoWorkingDays
	}

	// The one hard validation in this subsystem: no second pending or
	// approved absence may touch the requested period.
	overlaps, err := s.repo.HasOverlapping(ctx, req.UserID, start, end, nil)
	if err != nil {
		return AbsenceResponse{}, err
	}
	if overlaps {
		return AbsenceResponse{}, absenceerrors.ErrOverlappingAbsence
	}

	a := &Absence{
		ID:           uuid.New(),
		UserID:       userID,
		Type:         req.Type,
		StartDate:    start,
		EndDate:      end,
		DaysRequired: daysRequired,
		Status:       StatusPending,
		Reason:       req.Reason,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit absence begin tx failed", zap.Error(err))
		return AbsenceResponse{}, err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	// Sick leave skips the approval queue.
	if a.Type == TypeSick {
		now := time.Now().UTC()
		a.Status = StatusApproved
		a.ApprovedAt = &now
	}

	if err := txRepo.Create(ctx, a); err != nil {
		s.logger.Error("submit absence persist failed", zap.Error(err))
		return AbsenceResponse{}, err
	}

	if a.Status == StatusApproved {
		if err := s.applyApprovalSideEffects(ctx, tx, a, emp); err != nil {
			return AbsenceResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit absence commit failed", zap.Error(err))
		return AbsenceResponse{}, err
	}

	if a.Status == StatusApproved {
		s.invalidateMonths(ctx, a)
	}

	s.logger.Info("submit absence success",
		zap.String("absence_id", a.ID.String()),
		zap.String("user_id", a.UserID.String()),
		zap.String("type", a.Type),
		zap.String("status", a.Status),
		zap.Float64("days_required", a.DaysRequired),
	)
	return mapToResponse(*a), nil
}

func (s *service) Approve(ctx context.Context, id, approverID string) (AbsenceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidAbsenceID
	}
	approver, err := uuid.Parse(approverID)
	if err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidUserID
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AbsenceResponse{}, absenceerrors.ErrAbsenceNotFound
		}
		return AbsenceResponse{}, err
	}
	if a.Status != StatusPending {
		return AbsenceResponse{}, absenceerrors.ErrNotPending
	}

	emp, err := s.employees.FindByID(ctx, a.UserID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AbsenceResponse{}, absenceerrors.ErrUserNotFound
		}
		return AbsenceResponse{}, err
	}

	now := time.Now().UTC()
	a.Status = StatusApproved
	a.ApprovedBy = &approver
	a.ApprovedAt = &now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve absence begin tx failed", zap.Error(err))
		return AbsenceResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Update(ctx, a); err != nil {
		s.logger.Error("approve absence persist failed", zap.Error(err))
		return AbsenceResponse{}, err
	}
	if err := s.applyApprovalSideEffects(ctx, tx, a, emp); err != nil {
		return AbsenceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("approve absence commit failed", zap.Error(err))
		return AbsenceResponse{}, err
	}

	s.invalidateMonths(ctx, a)

	s.logger.Info("approve absence success",
		zap.String("absence_id", id),
		zap.String("approved_by", approverID),
	)
	return mapToResponse(*a), nil
}

// applyApprovalSideEffects runs inside the caller's transaction: the ledger
// credit and the outbox event commit atomically with the status change.
// Vacation needs no ledger action (the balance recompute picks up the
// approved row), and unpaid leave reduces the target instead of crediting.
func (s *service) applyApprovalSideEffects(ctx context.Context, tx *sql.Tx, a *Absence, emp *employee.Employee) error {
	creditType := ""
	description := ""
	switch a.Type {
	case TypeSick:
		creditType = overtime.TypeSickCredit
		description = "sick leave credit"
	case TypeOvertimeComp:
		creditType = overtime.TypeOvertimeCompCredit
		description = "overtime compensation credit"
	}

	if creditType != "" {
		refType := overtime.RefAbsence
		refID := a.ID
		hours := round2(a.DaysRequired * emp.Schedule().DailyHours())
		if _, err := s.ledger.WithTx(tx).Create(ctx, overtime.CreateParams{
			UserID:        a.UserID,
			Date:          a.StartDate,
			Type:          creditType,
			Hours:         hours,
			Description:   description,
			ReferenceType: &refType,
			ReferenceID:   &refID,
			CreatedBy:     a.ApprovedBy,
		}); err != nil {
			s.logger.Error("absence ledger credit failed",
				zap.String("absence_id", a.ID.String()),
				zap.Error(err),
			)
			return err
		}
	}

	return s.enqueueEvent(ctx, tx, a, events.EventTypeAbsenceApproved)
}

func (s *service) Reject(ctx context.Context, id, approverID, reason string) (AbsenceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidAbsenceID
	}
	approver, err := uuid.Parse(approverID)
	if err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidUserID
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AbsenceResponse{}, absenceerrors.ErrAbsenceNotFound
		}
		return AbsenceResponse{}, err
	}
	if a.Status != StatusPending {
		return AbsenceResponse{}, absenceerrors.ErrNotPending
	}

	// No side effects to unwind: nothing was debited while pending.
	now := time.Now().UTC()
	a.Status = StatusRejected
	a.RejectedBy = &approver
	a.RejectedAt = &now
	a.RejectionReason = reason

	if err := s.repo.Update(ctx, a); err != nil {
		s.logger.Error("reject absence persist failed", zap.Error(err))
		return AbsenceResponse{}, err
	}

	s.logger.Info("reject absence success",
		zap.String("absence_id", id),
		zap.String("rejected_by", approverID),
	)
	return mapToResponse(*a), nil
}

// Cancel removes the absence and reverses its ledger side effects. Vacation
// taken restores itself because it is derived from approved rows.
func (s *service) Cancel(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return absenceerrors.ErrInvalidAbsenceID
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return absenceerrors.ErrAbsenceNotFound
		}
		return err
	}
	if a.Status == StatusRejected {
		return absenceerrors.ErrAlreadyRejected
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel absence begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		s.logger.Error("cancel absence delete failed", zap.Error(err))
		return err
	}
	if _, err := s.ledger.WithTx(tx).DeleteByReference(ctx, overtime.RefAbsence, id); err != nil {
		s.logger.Error("cancel absence ledger reversal failed", zap.Error(err))
		return err
	}
	if err := s.enqueueEvent(ctx, tx, a, events.EventTypeAbsenceCancelled); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel absence commit failed", zap.Error(err))
		return err
	}

	s.invalidateMonths(ctx, a)

	s.logger.Info("cancel absence success",
		zap.String("absence_id", id),
		zap.String("user_id", a.UserID.String()),
	)
	return nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateAbsenceRequest) (AbsenceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidAbsenceID
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AbsenceResponse{}, absenceerrors.ErrAbsenceNotFound
		}
		return AbsenceResponse{}, err
	}
	// Approved rows are immutable; cancel and recreate instead.
	if a.Status != StatusPending {
		return AbsenceResponse{}, absenceerrors.ErrNotPending
	}

	startStr := a.StartDate.Format("2006-01-02")
	endStr := a.EndDate.Format("2006-01-02")
	if req.StartDate != nil {
		startStr = *req.StartDate
	}
	if req.EndDate != nil {
		endStr = *req.EndDate
	}
	start, end, err := parseRange(startStr, endStr)
	if err != nil {
		return AbsenceResponse{}, err
	}
	if req.Reason != nil {
		a.Reason = *req.Reason
	}

	if req.StartDate != nil || req.EndDate != nil {
		emp, err := s.employees.FindByID(ctx, a.UserID.String())
		if err != nil {
			return AbsenceResponse{}, err
		}
		daysRequired, err := s.workingDays(ctx, emp.Region, start, end)
		if err != nil {
			return AbsenceResponse{}, err
		}
		if daysRequired == 0 {
			return AbsenceResponse{}, absenceerrors.ErrNoWorkingDays
		}

		overlaps, err := s.repo.HasOverlapping(ctx, a.UserID.String(), start, end, &id)
		if err != nil {
			return AbsenceResponse{}, err
		}
		if overlaps {
			return AbsenceResponse{}, absenceerrors.ErrOverlappingAbsence
		}

		a.StartDate = start
		a.EndDate = end
		a.DaysRequired = daysRequired
	}

	if err := s.repo.Update(ctx, a); err != nil {
		s.logger.Error("update absence persist failed", zap.Error(err))
		return AbsenceResponse{}, err
	}

	s.logger.Info("update absence success", zap.String("absence_id", id))
	return mapToResponse(*a), nil
}

func (s *service) GetByID(ctx context.Context, id string) (AbsenceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AbsenceResponse{}, absenceerrors.ErrInvalidAbsenceID
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AbsenceResponse{}, absenceerrors.ErrAbsenceNotFound
		}
		return AbsenceResponse{}, err
	}
	return mapToResponse(*a), nil
}

func (s *service) GetAllByUser(ctx context.Context, userID string) ([]AbsenceResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, absenceerrors.ErrInvalidUserID
	}
	rows, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := make([]AbsenceResponse, len(rows))
	for i, a := range rows {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

// workingDays counts the days an absence actually consumes, with weekends and
// regional holidays excluded.
func (s *service) workingDays(ctx context.Context, region string, start, end time.Time) (float64, error) {
	holidaySet, err := holiday.FetchDateSet(ctx, s.holidays, region, start.Year(), end.Year())
	if err != nil {
		return 0, err
	}
	return float64(workingtime.WorkingDays(start, end, holidaySet)), nil
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, a *Absence, eventType string) error {
	var payload []byte
	var err error
	switch eventType {
	case events.EventTypeAbsenceCancelled:
		payload, err = json.Marshal(events.AbsenceCancelledEvent{
			EventType:   eventType,
			AbsenceID:   a.ID.String(),
			UserID:      a.UserID.String(),
			AbsenceType: a.Type,
			OccurredAt:  time.Now().UTC(),
		})
	default:
		payload, err = json.Marshal(events.AbsenceApprovedEvent{
			EventType:    eventType,
			AbsenceID:    a.ID.String(),
			UserID:       a.UserID.String(),
			AbsenceType:  a.Type,
			StartDate:    a.StartDate.Format("2006-01-02"),
			EndDate:      a.EndDate.Format("2006-01-02"),
			DaysRequired: a.DaysRequired,
			OccurredAt:   time.Now().UTC(),
		})
	}
	if err != nil {
		return err
	}

	event := kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "absence",
		AggregateID:   a.ID.String(),
		EventType:     eventType,
		Topic:         events.AbsenceLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("enqueue absence event failed",
			zap.String("absence_id", a.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// invalidateMonths drops the cached monthly balances an absence can influence.
// Vacation absences never change worked or credited hours, so their months
// stay cached.
func (s *service) invalidateMonths(ctx context.Context, a *Absence) {
	if a.Type == TypeVacation {
		return
	}
	for m := firstOfMonth(a.StartDate); !m.After(a.EndDate); m = m.AddDate(0, 1, 0) {
		month := m.Format("2006-01")
		if err := s.months.InvalidateMonth(ctx, a.UserID.String(), month); err != nil {
			s.logger.Error("invalidate month after absence change failed",
				zap.String("user_id", a.UserID.String()),
				zap.String("month", month),
				zap.Error(err),
			)
		}
	}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, absenceerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, absenceerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, absenceerrors.ErrEndBeforeStart
	}
	return start, end, nil
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func mapToResponse(a Absence) AbsenceResponse {
	resp := AbsenceResponse{
		ID:              a.ID.String(),
		UserID:          a.UserID.String(),
		Type:            a.Type,
		StartDate:       a.StartDate.Format("2006-01-02"),
		EndDate:         a.EndDate.Format("2006-01-02"),
		DaysRequired:    a.DaysRequired,
		Status:          a.Status,
		Reason:          a.Reason,
		RejectionReason: a.RejectionReason,
	}
	if a.ApprovedBy != nil {
		v := a.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if a.ApprovedAt != nil {
		v := a.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if a.RejectedBy != nil {
		v := a.RejectedBy.String()
		resp.RejectedBy = &v
	}
	if a.RejectedAt != nil {
		v := a.RejectedAt.Format(time.RFC3339)
		resp.RejectedAt = &v
	}
	return resp
}
