package timeentry

import (
	"time"

	"github.com/google/uuid"
)

// TimeEntry is one worked block of time. StartTime and EndTime are wall-clock
// strings ("15:04") on Date; Hours is the net worked time with the break
// already deducted.
type TimeEntry struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_time_entries_user_date"`

	Date         time.Time `gorm:"type:date;not null;index:idx_time_entries_user_date"`
	StartTime    string    `gorm:"type:varchar(5);not null"`
	EndTime      string    `gorm:"type:varchar(5);not null"`
	BreakMinutes int       `gorm:"not null;default:0"`
	Hours        float64   `gorm:"not null"`
	Location     string    `gorm:"type:varchar(20);not null;default:'office'"`
	Description  string    `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

// StartsAt combines Date and StartTime into a point in time.
func (t TimeEntry) StartsAt() time.Time {
	return combine(t.Date, t.StartTime)
}

// EndsAt combines Date and EndTime. Entries never span midnight; an end
// before the start is rejected at the DTO layer.
func (t TimeEntry) EndsAt() time.Time {
	return combine(t.Date, t.EndTime)
}

func combine(date time.Time, clock string) time.Time {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
}
