package workingtime

import (
	"time"
)

// Schedule describes an employee's contracted working time. Either a uniform
// weekly-hours value spread over Mon-Fri, or an explicit per-weekday map for
// unequal part-time splits (e.g. 8h Monday, 2h Friday). When Weekdays is
// non-nil it takes precedence over WeeklyHours.
type Schedule struct {
	WeeklyHours float64
	Weekdays    map[time.Weekday]float64
}

// HoursOn returns the contracted hours for one weekday. Weekends carry zero
// hours unless the explicit weekday map says otherwise.
func (s Schedule) HoursOn(d time.Weekday) float64 {
	if s.Weekdays != nil {
		return s.Weekdays[d]
	}
	if d == time.Saturday || d == time.Sunday {
		return 0
	}
	return s.WeeklyHours / 5
}

// DailyHours is the average hours of one working day, used to convert
// absence days into ledger hour credits.
func (s Schedule) DailyHours() float64 {
	if s.Weekdays != nil {
		var total float64
		days := 0
		for _, h := range s.Weekdays {
			if h > 0 {
				total += h
				days++
			}
		}
		if days == 0 {
			return 0
		}
		return total / float64(days)
	}
	return s.WeeklyHours / 5
}

// DateKey renders a calendar day the way excluded-date sets are keyed.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// TargetHours sums contracted hours for every day in [from, to], excluding
// weekends (via the schedule), the supplied excluded dates (holidays, and
// unpaid-leave days when policy counts them), and days outside active
// employment. Days before hireDate and after endDate contribute zero.
// Pure: no I/O, deterministic for a given excluded set.
func TargetHours(sched Schedule, from, to time.Time, excluded map[string]struct{}, hireDate time.Time, endDate *time.Time) float64 {
	from = truncateDay(from)
	to = truncateDay(to)
	hire := truncateDay(hireDate)

	if !hire.IsZero() && from.Before(hire) {
		from = hire
	}
	if endDate != nil {
		end := truncateDay(*endDate)
		if to.After(end) {
			to = end
		}
	}

	var total float64
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if _, skip := excluded[DateKey(d)]; skip {
			continue
		}
		total += sched.HoursOn(d.Weekday())
	}
	return total
}

// WorkingDays counts Mon-Fri days in [from, to] that are not excluded.
// Used to derive how many vacation days an absence actually consumes.
func WorkingDays(from, to time.Time, excluded map[string]struct{}) int {
	from = truncateDay(from)
	to = truncateDay(to)

	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if _, skip := excluded[DateKey(d)]; skip {
			continue
		}
		count++
	}
	return count
}

func truncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
