package absence_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-timetrack/internal/absence"
	absenceerrors "go-timetrack/internal/absence/errors"
	"go-timetrack/internal/employee"
	"go-timetrack/internal/holiday"
	"go-timetrack/internal/messaging/kafka"
	"go-timetrack/internal/overtime"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAbsenceRepository struct {
	withTxFn               func(tx *sql.Tx) absence.Repository
	createFn               func(ctx context.Context, a *absence.Absence) error
	findByIDFn             func(ctx context.Context, id string) (*absence.Absence, error)
	findAllByUserFn        func(ctx context.Context, userID string) ([]absence.Absence, error)
	updateFn               func(ctx context.Context, a *absence.Absence) error
	deleteFn               func(ctx context.Context, id string) error
	hasOverlappingFn       func(ctx context.Context, userID string, start, end time.Time, excludeID *string) (bool, error)
	approvedVacationDaysFn func(ctx context.Context, userID string, from, to time.Time) (float64, error)
	approvedUnpaidDaysFn   func(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error)
}

func (f *fakeAbsenceRepository) WithTx(tx *sql.Tx) absence.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeAbsenceRepository) Create(ctx context.Context, a *absence.Absence) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeAbsenceRepository) FindByID(ctx context.Context, id string) (*absence.Absence, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAbsenceRepository) FindAllByUser(ctx context.Context, userID string) ([]absence.Absence, error) {
	if f.findAllByUserFn != nil {
		return f.findAllByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeAbsenceRepository) Update(ctx context.Context, a *absence.Absence) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, a)
	}
	return nil
}

func (f *fakeAbsenceRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeAbsenceRepository) HasOverlapping(ctx context.Context, userID string, start, end time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingFn != nil {
		return f.hasOverlappingFn(ctx, userID, start, end, excludeID)
	}
	return false, nil
}

func (f *fakeAbsenceRepository) ApprovedVacationDays(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	if f.approvedVacationDaysFn != nil {
		return f.approvedVacationDaysFn(ctx, userID, from, to)
	}
	return 0, nil
}

func (f *fakeAbsenceRepository) ApprovedUnpaidDays(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	if f.approvedUnpaidDaysFn != nil {
		return f.approvedUnpaidDaysFn(ctx, userID, from, to)
	}
	return nil, nil
}

type fakeEmployeeRepository struct {
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	return nil
}
func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return &employee.Employee{
		ID:          uuid.MustParse(id),
		WeeklyHours: 40,
		HireDate:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Region:      "DE",
	}, nil
}
func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	return nil
}

// fakeLedgerRepository backs a real overtime.Ledger so the credit path runs
// the actual chaining and idempotency logic.
type fakeLedgerRepository struct {
	createTransactionFn             func(ctx context.Context, t *overtime.Transaction) error
	deleteTransactionsByReferenceFn func(ctx context.Context, refType, refID string) (int64, error)
}

func (f *fakeLedgerRepository) WithTx(tx *sql.Tx) overtime.Repository { return f }
func (f *fakeLedgerRepository) CreateTransaction(ctx context.Context, t *overtime.Transaction) error {
	if f.createTransactionFn != nil {
		return f.createTransactionFn(ctx, t)
	}
	return nil
}
func (f *fakeLedgerRepository) TransactionExists(ctx context.Context, userID string, date time.Time, txType string, hours float64, refType *string, refID *string) (bool, error) {
	return false, nil
}
func (f *fakeLedgerRepository) LatestBalanceAfter(ctx context.Context, userID string) (float64, error) {
	return 0, nil
}
func (f *fakeLedgerRepository) TransactionsInRange(ctx context.Context, userID string, from, to time.Time, types []string) ([]overtime.Transaction, error) {
	return nil, nil
}
func (f *fakeLedgerRepository) DeleteTransactionsInRange(ctx context.Context, userID string, from, to time.Time, types []string) (int64, error) {
	return 0, nil
}
func (f *fakeLedgerRepository) DeleteTransactionsByReference(ctx context.Context, refType, refID string) (int64, error) {
	if f.deleteTransactionsByReferenceFn != nil {
		return f.deleteTransactionsByReferenceFn(ctx, refType, refID)
	}
	return 0, nil
}
func (f *fakeLedgerRepository) SumHoursInRange(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	return 0, nil
}
func (f *fakeLedgerRepository) FindMonthlyBalance(ctx context.Context, userID, month string) (*overtime.MonthlyBalance, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeLedgerRepository) CreateMonthlyBalance(ctx context.Context, b *overtime.MonthlyBalance) error {
	return nil
}
func (f *fakeLedgerRepository) DeleteMonthlyBalance(ctx context.Context, userID, month string) error {
	return nil
}
func (f *fakeLedgerRepository) DeleteMonthlyBalances(ctx context.Context, userID string) error {
	return nil
}

type fakeOutboxRepository struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error   { return nil }
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id, r string) error { return nil }

type fakeMonthInvalidator struct {
	months []string
}

func (f *fakeMonthInvalidator) InvalidateMonth(ctx context.Context, userID, month string) error {
	f.months = append(f.months, month)
	return nil
}

type fakeHolidayProvider struct {
	fn func(ctx context.Context, year int, region string) ([]holiday.Holiday, error)
}

func (f *fakeHolidayProvider) Holidays(ctx context.Context, year int, region string) ([]holiday.Holiday, error) {
	if f.fn != nil {
		return f.fn(ctx, year, region)
	}
	return nil, nil
}

type absenceServiceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	service    absence.Service
	repo       *fakeAbsenceRepository
	employees  *fakeEmployeeRepository
	ledgerRepo *fakeLedgerRepository
	outbox     *fakeOutboxRepository
	months     *fakeMonthInvalidator
	holidays   *fakeHolidayProvider
}

func setupAbsenceServiceTest(t *testing.T) *absenceServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeAbsenceRepository{}
	employees := &fakeEmployeeRepository{}
	ledgerRepo := &fakeLedgerRepository{}
	outbox := &fakeOutboxRepository{}
	months := &fakeMonthInvalidator{}
	holidays := &fakeHolidayProvider{}
	svc := absence.NewService(db, repo, employees, overtime.NewLedger(ledgerRepo), holidays, outbox, months)

	return &absenceServiceDeps{
		db:         db,
		sqlMock:    sqlMock,
		service:    svc,
		repo:       repo,
		employees:  employees,
		ledgerRepo: ledgerRepo,
		outbox:     outbox,
		months:     months,
		holidays:   holidays,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestAbsenceService_Submit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("success vacation stays pending", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		var saved *absence.Absence
		deps.repo.createFn = func(ctx context.Context, a *absence.Absence) error {
			saved = a
			return nil
		}

		resp, err := deps.service.Submit(ctx, absence.CreateAbsenceRequest{
			UserID:    userID,
			Type:      absence.TypeVacation,
			StartDate: "2027-09-01",
			EndDate:   "2027-09-03",
			Reason:    "family trip",
		})

		assert.NoError(t, err)
		assert.Equal(t, absence.StatusPending, resp.Status)
		// Wed to Fri, no holidays.
		assert.Equal(t, 3.0, resp.DaysRequired)
		assert.NotNil(t, saved)
		assert.Empty(t, deps.outbox.events, "pending requests emit nothing")
		assert.Empty(t, deps.months.months)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success sick auto-approves with ledger credit", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		var credited *overtime.Transaction
		deps.ledgerRepo.createTransactionFn = func(ctx context.Context, tr *overtime.Transaction) error {
			credited = tr
			return nil
		}

		resp, err := deps.service.Submit(ctx, absence.CreateAbsenceRequest{
			UserID:    userID,
			Type:      absence.TypeSick,
			StartDate: "2027-09-01",
			EndDate:   "2027-09-03",
		})

		assert.NoError(t, err)
		assert.Equal(t, absence.StatusApproved, resp.Status)
		assert.NotNil(t, resp.ApprovedAt)
		assert.Nil(t, resp.ApprovedBy)

		assert.NotNil(t, credited)
		assert.Equal(t, overtime.TypeSickCredit, credited.Type)
		// 3 working days at 8h contracted per day.
		assert.Equal(t, 24.0, credited.Hours)
		assert.NotNil(t, credited.ReferenceType)
		assert.Equal(t, overtime.RefAbsence, *credited.ReferenceType)
		assert.NotNil(t, credited.ReferenceID)
		assert.Equal(t, resp.ID, credited.ReferenceID.String())

		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "absence.approved", deps.outbox.events[0].EventType)
		assert.Equal(t, []string{"2027-09"}, deps.months.months)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success holiday shrinks days required", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.holidays.fn = func(ctx context.Context, year int, region string) ([]holiday.Holiday, error) {
			return []holiday.Holiday{{Date: time.Date(2027, 9, 2, 0, 0, 0, 0, time.UTC), Name: "Testtag"}}, nil
		}

		resp, err := deps.service.Submit(ctx, absence.CreateAbsenceRequest{
			UserID:    userID,
			Type:      absence.TypeVacation,
			StartDate: "2027-09-01",
			EndDate:   "2027-09-03",
		})

		assert.NoError(t, err)
		assert.Equal(t, 2.0, resp.DaysRequired)
	})

	t.Run("negative overlap conflict and back-to-back accepted", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		// Existing approved vacation 2027-09-01..2027-09-05.
		existingStart := time.Date(2027, 9, 1, 0, 0, 0, 0, time.UTC)
		existingEnd := time.Date(2027, 9, 5, 0, 0, 0, 0, time.UTC)
		deps.repo.hasOverlappingFn = func(ctx context.Context, uid string, start, end time.Time, excludeID *string) (bool, error) {
			return !(existingEnd.Before(start) || existingStart.After(end)), nil
		}

		_, err := deps.service.Submit(ctx, absence.CreateAbsenceRequest{
			UserID:    userID,
			Type:      absence.TypeVacation,
			StartDate: "2027-09-03",
			EndDate:   "2027-09-07",
		})
		assert.ErrorIs(t, err, absenceerrors.ErrOverlappingAbsence)

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.Submit(ctx, absence.CreateAbsenceRequest{
			UserID:    userID,
			Type:      absence.TypeVacation,
			StartDate: "2027-09-06",
			EndDate:   "2027-09-10",
		})
		assert.NoError(t, err)
		assert.Equal(t, absence.StatusPending, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Submit(ctx, absence.CreateAbsenceRequest{
			UserID:    userID,
			Type:      absence.TypeVacation,
			StartDate: "2027-09-05",
			EndDate:   "2027-09-01",
		})
		assert.ErrorIs(t, err, absenceerrors.ErrEndBeforeStart)
	})

	t.Run("negative weekend only range", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Submit(ctx, absence.CreateAbsenceRequest{
			UserID:    userID,
			Type:      absence.TypeVacation,
			StartDate: "2027-09-04",
			EndDate:   "2027-09-05",
		})
		assert.ErrorIs(t, err, absenceerrors.ErrNoWorkingDays)
	})

	t.Run("negative unknown user", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		deps.employees.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Submit(ctx, absence.CreateAbsenceRequest{
			UserID:    userID,
			Type:      absence.TypeVacation,
			StartDate: "2027-09-01",
			EndDate:   "2027-09-03",
		})
		assert.ErrorIs(t, err, absenceerrors.ErrUserNotFound)
	})
}

func TestAbsenceService_Approve(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	absenceID := uuid.New()
	approverID := uuid.New().String()

	pendingAbsence := func(absenceType string) *absence.Absence {
		return &absence.Absence{
			ID:           absenceID,
			UserID:       userID,
			Type:         absenceType,
			StartDate:    time.Date(2027, 9, 1, 0, 0, 0, 0, time.UTC),
			EndDate:      time.Date(2027, 9, 3, 0, 0, 0, 0, time.UTC),
			DaysRequired: 3,
			Status:       absence.StatusPending,
		}
	}

	t.Run("success overtime_comp credits ledger", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*absence.Absence, error) {
			return pendingAbsence(absence.TypeOvertimeComp), nil
		}

		var credited *overtime.Transaction
		deps.ledgerRepo.createTransactionFn = func(ctx context.Context, tr *overtime.Transaction) error {
			credited = tr
			return nil
		}

		resp, err := deps.service.Approve(ctx, absenceID.String(), approverID)

		assert.NoError(t, err)
		assert.Equal(t, absence.StatusApproved, resp.Status)
		assert.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, approverID, *resp.ApprovedBy)

		assert.NotNil(t, credited)
		assert.Equal(t, overtime.TypeOvertimeCompCredit, credited.Type)
		assert.Equal(t, 24.0, credited.Hours)
		assert.Equal(t, approverID, credited.CreatedBy.String())

		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, []string{"2027-09"}, deps.months.months)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success vacation needs no ledger action", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*absence.Absence, error) {
			return pendingAbsence(absence.TypeVacation), nil
		}
		deps.ledgerRepo.createTransactionFn = func(ctx context.Context, tr *overtime.Transaction) error {
			return assert.AnError
		}

		resp, err := deps.service.Approve(ctx, absenceID.String(), approverID)

		assert.NoError(t, err)
		assert.Equal(t, absence.StatusApproved, resp.Status)
		assert.Len(t, deps.outbox.events, 1)
		assert.Empty(t, deps.months.months, "vacation does not touch monthly balances")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already approved", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		a := pendingAbsence(absence.TypeVacation)
		a.Status = absence.StatusApproved
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*absence.Absence, error) {
			return a, nil
		}

		_, err := deps.service.Approve(ctx, absenceID.String(), approverID)
		assert.ErrorIs(t, err, absenceerrors.ErrNotPending)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Approve(ctx, absenceID.String(), approverID)
		assert.ErrorIs(t, err, absenceerrors.ErrAbsenceNotFound)
	})
}

func TestAbsenceService_Reject(t *testing.T) {
	ctx := context.Background()
	absenceID := uuid.New()
	approverID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*absence.Absence, error) {
			return &absence.Absence{
				ID:     absenceID,
				UserID: uuid.New(),
				Type:   absence.TypeVacation,
				Status: absence.StatusPending,
			}, nil
		}
		var saved *absence.Absence
		deps.repo.updateFn = func(ctx context.Context, a *absence.Absence) error {
			saved = a
			return nil
		}

		resp, err := deps.service.Reject(ctx, absenceID.String(), approverID, "short staffed")

		assert.NoError(t, err)
		assert.Equal(t, absence.StatusRejected, resp.Status)
		assert.Equal(t, "short staffed", resp.RejectionReason)
		assert.NotNil(t, saved.RejectedBy)
		assert.Empty(t, deps.outbox.events)
	})

	t.Run("negative not pending", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*absence.Absence, error) {
			return &absence.Absence{ID: absenceID, Status: absence.StatusApproved}, nil
		}

		_, err := deps.service.Reject(ctx, absenceID.String(), approverID, "late")
		assert.ErrorIs(t, err, absenceerrors.ErrNotPending)
	})
}

func TestAbsenceService_Cancel(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	absenceID := uuid.New()

	t.Run("success reverses ledger side effects", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*absence.Absence, error) {
			return &absence.Absence{
				ID:           absenceID,
				UserID:       userID,
				Type:         absence.TypeSick,
				StartDate:    time.Date(2027, 9, 29, 0, 0, 0, 0, time.UTC),
				EndDate:      time.Date(2027, 10, 1, 0, 0, 0, 0, time.UTC),
				DaysRequired: 3,
				Status:       absence.StatusApproved,
			}, nil
		}

		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			assert.Equal(t, absenceID.String(), id)
			deleted = true
			return nil
		}
		var reversedRef string
		deps.ledgerRepo.deleteTransactionsByReferenceFn = func(ctx context.Context, refType, refID string) (int64, error) {
			assert.Equal(t, overtime.RefAbsence, refType)
			reversedRef = refID
			return 1, nil
		}

		err := deps.service.Cancel(ctx, absenceID.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, absenceID.String(), reversedRef)
		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "absence.cancelled", deps.outbox.events[0].EventType)
		assert.Equal(t, []string{"2027-09", "2027-10"}, deps.months.months)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative rejected absence", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*absence.Absence, error) {
			return &absence.Absence{ID: absenceID, Status: absence.StatusRejected}, nil
		}

		err := deps.service.Cancel(ctx, absenceID.String())
		assert.ErrorIs(t, err, absenceerrors.ErrAlreadyRejected)
	})
}

func TestAbsenceService_Update(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	absenceID := uuid.New()

	t.Run("success pending dates recomputed", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*absence.Absence, error) {
			return &absence.Absence{
				ID:           absenceID,
				UserID:       userID,
				Type:         absence.TypeVacation,
				StartDate:    time.Date(2027, 9, 1, 0, 0, 0, 0, time.UTC),
				EndDate:      time.Date(2027, 9, 3, 0, 0, 0, 0, time.UTC),
				DaysRequired: 3,
				Status:       absence.StatusPending,
			}, nil
		}
		deps.repo.hasOverlappingFn = func(ctx context.Context, uid string, start, end time.Time, excludeID *string) (bool, error) {
			assert.NotNil(t, excludeID)
			assert.Equal(t, absenceID.String(), *excludeID)
			return false, nil
		}

		newEnd := "2027-09-08"
		resp, err := deps.service.Update(ctx, absenceID.String(), absence.UpdateAbsenceRequest{
			EndDate: &newEnd,
		})

		assert.NoError(t, err)
		// Wed 09-01 through Wed 09-08 spans one weekend.
		assert.Equal(t, 6.0, resp.DaysRequired)
		assert.Equal(t, "2027-09-08", resp.EndDate)
	})

	t.Run("negative approved is immutable", func(t *testing.T) {
		deps := setupAbsenceServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*absence.Absence, error) {
			return &absence.Absence{ID: absenceID, Status: absence.StatusApproved}, nil
		}

		newEnd := "2027-09-08"
		_, err := deps.service.Update(ctx, absenceID.String(), absence.UpdateAbsenceRequest{
			EndDate: &newEnd,
		})
		assert.ErrorIs(t, err, absenceerrors.ErrNotPending)
	})
}
