package employee

import (
	"strings"
	"time"

	"go-timetrack/internal/workingtime"

	"github.com/google/uuid"
)

// Employee carries the profile fields the balance engine depends on:
// contracted hours, optional per-weekday schedule, hire/end dates and the
// annual vacation entitlement. Everything else about a person lives outside
// this service.
type Employee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName string    `gorm:"type:varchar(200);not null"`
	Email    string    `gorm:"type:varchar(200);uniqueIndex"`

	WeeklyHours  float64            `gorm:"not null;default:40"`
	WorkSchedule map[string]float64 `gorm:"serializer:json"`

	HireDate time.Time  `gorm:"type:date;not null"`
	EndDate  *time.Time `gorm:"type:date"`

	VacationDaysPerYear float64 `gorm:"not null;default:30"`
	Region              string  `gorm:"type:varchar(10);not null;default:'DE'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string {
	return "employees"
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// Schedule converts the stored profile into the calculator's schedule shape.
func (e Employee) Schedule() workingtime.Schedule {
	if len(e.WorkSchedule) == 0 {
		return workingtime.Schedule{WeeklyHours: e.WeeklyHours}
	}
	days := make(map[time.Weekday]float64, len(e.WorkSchedule))
	for name, hours := range e.WorkSchedule {
		if wd, ok := weekdayNames[strings.ToLower(name)]; ok {
			days[wd] = hours
		}
	}
	return workingtime.Schedule{Weekdays: days}
}
