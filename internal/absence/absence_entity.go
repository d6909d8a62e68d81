package absence

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeVacation     = "vacation"
	TypeSick         = "sick"
	TypeUnpaid       = "unpaid"
	TypeOvertimeComp = "overtime_comp"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Absence is one request row. DaysRequired counts working days only, with
// weekends and regional holidays excluded at submission time. Approved rows
// are immutable; the only way out is cancellation, which deletes the row and
// reverses its ledger side effects.
type Absence struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_absences_user_range"`

	Type      string    `gorm:"type:varchar(20);not null"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_absences_user_range"`
	EndDate   time.Time `gorm:"type:date;not null"`

	DaysRequired float64 `gorm:"not null"`
	Status       string  `gorm:"type:varchar(10);not null;default:'pending'"`
	Reason       string  `gorm:"type:text"`

	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectionReason string     `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Absence) TableName() string {
	return "absences"
}

func validType(t string) bool {
	switch t {
	case TypeVacation, TypeSick, TypeUnpaid, TypeOvertimeComp:
		return true
	}
	return false
}
