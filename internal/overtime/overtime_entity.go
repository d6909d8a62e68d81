package overtime

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types. Every credit or debit on a time account is one of these;
// corrections are new rows, never edits.
const (
	TypeEarned             = "earned"
	TypeCompensation       = "compensation"
	TypeCorrection         = "correction"
	TypeCarryover          = "carryover"
	TypeVacationCredit     = "vacation_credit"
	TypeSickCredit         = "sick_credit"
	TypeOvertimeCompCredit = "overtime_comp_credit"
	TypeSpecialCredit      = "special_credit"
	TypeUnpaidAdjustment   = "unpaid_adjustment"
)

// Reference types link a transaction to the business event that caused it.
const (
	RefTimeEntry = "time_entry"
	RefAbsence   = "absence"
	RefManual    = "manual"
	RefSystem    = "system"
)

// Transaction is one immutable row of the append-only ledger. BalanceBefore
// and BalanceAfter are 2-decimal snapshots satisfying
// BalanceAfter = BalanceBefore + Hours within 0.01h.
type Transaction struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_overtime_tx_user_date"`

	Date        time.Time `gorm:"type:date;not null;index:idx_overtime_tx_user_date"`
	Type        string    `gorm:"type:varchar(30);not null"`
	Hours       float64   `gorm:"not null"`
	Description string    `gorm:"type:text"`

	ReferenceType *string    `gorm:"type:varchar(20);index:idx_overtime_tx_reference"`
	ReferenceID   *uuid.UUID `gorm:"type:uuid;index:idx_overtime_tx_reference"`
	CreatedBy     *uuid.UUID `gorm:"type:uuid"`

	BalanceBefore float64 `gorm:"not null"`
	BalanceAfter  float64 `gorm:"not null"`

	CreatedAt time.Time
}

func (Transaction) TableName() string {
	return "overtime_transactions"
}

// MonthlyBalance caches the derived target/actual hours for one employee
// month. Rows are created lazily on first read and deleted wholesale when the
// underlying contract changes; they are never patched in place. The overtime
// value is always computed as ActualHours - TargetHours, never stored.
type MonthlyBalance struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_monthly_balance_user_month"`
	Month  string    `gorm:"type:varchar(7);not null;uniqueIndex:idx_monthly_balance_user_month"`

	TargetHours float64 `gorm:"not null"`
	ActualHours float64 `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MonthlyBalance) TableName() string {
	return "monthly_overtime_balances"
}

// Overtime is the derived value callers consume.
func (m MonthlyBalance) Overtime() float64 {
	return m.ActualHours - m.TargetHours
}
