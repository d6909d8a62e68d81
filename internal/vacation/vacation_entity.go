package vacation

import (
	"time"

	"github.com/google/uuid"
)

// Balance is one employee-year row of vacation bookkeeping. Only entitlement
// and carryover are stored; taken and remaining are derived from the approved
// absence set on every read so cancellations can never desynchronize them.
type Balance struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vacation_balance_user_year"`
	Year   int       `gorm:"not null;uniqueIndex:idx_vacation_balance_user_year"`

	Entitlement float64 `gorm:"not null"`
	Carryover   float64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Balance) TableName() string {
	return "vacation_balances"
}
