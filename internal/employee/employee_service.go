package employee

import (
	"context"
	"database/sql"
	"errors"
	"time"

	employeeerrors "go-timetrack/internal/employee/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BalanceRecalculator is satisfied by the overtime service: monthly balance
// rows are dropped and lazily rebuilt after a contract change.
type BalanceRecalculator interface {
	RecalculateForUser(ctx context.Context, userID string) error
}

// EntitlementSink is satisfied by the vacation service: entitlement changes
// propagate to every existing year row, and onboarding seeds the rows.
type EntitlementSink interface {
	OnEntitlementChanged(ctx context.Context, userID string, days float64) error
	EnsureRows(ctx context.Context, userID string, entitlement float64) error
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	recalc      BalanceRecalculator
	entitlement EntitlementSink
	logger      *zap.Logger
}

func NewService(db *sql.DB, repo Repository, recalc BalanceRecalculator, entitlement EntitlementSink, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, recalc: recalc, entitlement: entitlement, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	hireDate, err := parseDate(req.HireDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
	}
	weeklyHours := req.WeeklyHours
	if weeklyHours == 0 && len(req.WorkSchedule) == 0 {
		weeklyHours = 40
	}
	if weeklyHours < 0 || weeklyHours > 60 {
		return EmployeeResponse{}, employeeerrors.ErrInvalidWeeklyHours
	}
	entitlement := req.VacationDaysPerYear
	if entitlement == 0 {
		entitlement = 30
	}
	region := req.Region
	if region == "" {
		region = "DE"
	}

	e := &Employee{
		ID:                  uuid.New(),
		FullName:            req.FullName,
		Email:               req.Email,
		WeeklyHours:         weeklyHours,
		WorkSchedule:        req.WorkSchedule,
		HireDate:            hireDate,
		VacationDaysPerYear: entitlement,
		Region:              region,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	// Seed vacation rows for the current and next year.
	if err := s.entitlement.EnsureRows(ctx, e.ID.String(), entitlement); err != nil {
		s.logger.Error("seed vacation balance rows failed",
			zap.String("employee_id", e.ID.String()),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}

	s.logger.Info("create employee success",
		zap.String("employee_id", e.ID.String()),
		zap.Float64("weekly_hours", weeklyHours),
	)
	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		resp[i] = mapToResponse(e)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	contractChanged := false
	entitlementChanged := false

	if req.FullName != nil {
		e.FullName = *req.FullName
	}
	if req.WeeklyHours != nil {
		if *req.WeeklyHours < 0 || *req.WeeklyHours > 60 {
			return EmployeeResponse{}, employeeerrors.ErrInvalidWeeklyHours
		}
		if *req.WeeklyHours != e.WeeklyHours {
			contractChanged = true
		}
		e.WeeklyHours = *req.WeeklyHours
	}
	if req.WorkSchedule != nil {
		e.WorkSchedule = req.WorkSchedule
		contractChanged = true
	}
	if req.HireDate != nil {
		hireDate, err := parseDate(*req.HireDate)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
		}
		if !hireDate.Equal(e.HireDate) {
			contractChanged = true
		}
		e.HireDate = hireDate
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
		}
		if endDate.Before(e.HireDate) {
			return EmployeeResponse{}, employeeerrors.ErrInvalidEndDate
		}
		e.EndDate = &endDate
		contractChanged = true
	}
	if req.VacationDaysPerYear != nil && *req.VacationDaysPerYear != e.VacationDaysPerYear {
		e.VacationDaysPerYear = *req.VacationDaysPerYear
		entitlementChanged = true
	}
	if req.Region != nil {
		e.Region = *req.Region
	}

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("update employee persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}

	// Contract changes invalidate every cached monthly balance; the rows are
	// rebuilt lazily on next read instead of being patched in place.
	if contractChanged {
		if err := s.recalc.RecalculateForUser(ctx, id); err != nil {
			s.logger.Error("recalculate after contract change failed",
				zap.String("employee_id", id),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}
	if entitlementChanged {
		if err := s.entitlement.OnEntitlementChanged(ctx, id, e.VacationDaysPerYear); err != nil {
			s.logger.Error("propagate entitlement change failed",
				zap.String("employee_id", id),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	s.logger.Info("update employee success",
		zap.String("employee_id", id),
		zap.Bool("contract_changed", contractChanged),
		zap.Bool("entitlement_changed", entitlementChanged),
	)
	return mapToResponse(*e), nil
}

func parseDate(v string) (time.Time, error) {
	return time.Parse("2006-01-02", v)
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                  e.ID.String(),
		FullName:            e.FullName,
		Email:               e.Email,
		WeeklyHours:         e.WeeklyHours,
		WorkSchedule:        e.WorkSchedule,
		HireDate:            e.HireDate.Format("2006-01-02"),
		VacationDaysPerYear: e.VacationDaysPerYear,
		Region:              e.Region,
	}
	if e.EndDate != nil {
		v := e.EndDate.Format("2006-01-02")
		resp.EndDate = &v
	}
	return resp
}
