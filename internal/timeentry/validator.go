package timeentry

import (
	"fmt"
	"time"
)

// ArbZG-derived thresholds. All of them produce advisory warnings only; the
// rules were deliberately downgraded from hard errors, and callers depend on
// entries always being acceptable.
const (
	regularDailyLimit   = 8.0
	statutoryDailyLimit = 10.0
	technicalDailyLimit = 24.0

	breakThresholdHours      = 6.0
	longBreakThresholdHours  = 9.0
	requiredBreakMinutes     = 30
	requiredLongBreakMinutes = 45

	minRestHours       = 11.0
	weeklyHoursWarning = 48.0
)

// ValidationResult always reports Valid=true: every check below is advisory.
// Errors stays empty and exists so the response shape is stable for clients
// that distinguish the two lists.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validate inspects a candidate entry against the user's existing entries and
// returns compliance warnings. Entries sharing the candidate's ID are treated
// as the row being edited and excluded from the aggregates. Pure function: no
// I/O, no side effects.
func Validate(candidate TimeEntry, existing []TimeEntry) ValidationResult {
	result := ValidationResult{
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
	}

	others := make([]TimeEntry, 0, len(existing))
	for _, e := range existing {
		if e.ID == candidate.ID {
			continue
		}
		others = append(others, e)
	}

	result.Warnings = append(result.Warnings, checkDailyHours(candidate, others)...)
	result.Warnings = append(result.Warnings, checkBreak(candidate)...)
	result.Warnings = append(result.Warnings, checkRestPeriod(candidate, others)...)
	result.Warnings = append(result.Warnings, checkWeeklyHours(candidate, others)...)

	return result
}

func checkDailyHours(candidate TimeEntry, others []TimeEntry) []string {
	total := candidate.Hours
	for _, e := range others {
		if sameDay(e.Date, candidate.Date) {
			total += e.Hours
		}
	}

	var warnings []string
	switch {
	case total > technicalDailyLimit:
		warnings = append(warnings, fmt.Sprintf(
			"daily total of %.2fh exceeds the technical 24h ceiling; the entry is almost certainly mistyped", total))
	case total > statutoryDailyLimit:
		warnings = append(warnings, fmt.Sprintf(
			"daily total of %.2fh exceeds the statutory 10h maximum (ArbZG sec. 3)", total))
	case total > regularDailyLimit:
		warnings = append(warnings, fmt.Sprintf(
			"daily total of %.2fh exceeds the regular 8h working day", total))
	}
	return warnings
}

func checkBreak(candidate TimeEntry) []string {
	var required int
	switch {
	case candidate.Hours > longBreakThresholdHours:
		required = requiredLongBreakMinutes
	case candidate.Hours > breakThresholdHours:
		required = requiredBreakMinutes
	default:
		return nil
	}

	if candidate.BreakMinutes >= required {
		return nil
	}
	return []string{fmt.Sprintf(
		"break of %dmin is below the %dmin required for %.2fh of work (ArbZG sec. 4)",
		candidate.BreakMinutes, required, candidate.Hours)}
}

func checkRestPeriod(candidate TimeEntry, others []TimeEntry) []string {
	start := candidate.StartsAt()

	// Most recent prior entry strictly before the candidate's start.
	var prev *TimeEntry
	for i := range others {
		end := others[i].EndsAt()
		if !end.Before(start) {
			continue
		}
		if prev == nil || end.After(prev.EndsAt()) {
			prev = &others[i]
		}
	}
	if prev == nil {
		return nil
	}

	rest := start.Sub(prev.EndsAt()).Hours()
	if rest >= minRestHours {
		return nil
	}

	earliest := prev.EndsAt().Add(time.Duration(minRestHours * float64(time.Hour)))
	return []string{fmt.Sprintf(
		"rest period of %.1fh since the previous entry is below the required 11h (ArbZG sec. 5); earliest compliant start is %s",
		rest, earliest.Format("2006-01-02 15:04"))}
}

func checkWeeklyHours(candidate TimeEntry, others []TimeEntry) []string {
	year, week := candidate.Date.ISOWeek()

	total := candidate.Hours
	for _, e := range others {
		y, w := e.Date.ISOWeek()
		if y == year && w == week {
			total += e.Hours
		}
	}

	if total <= weeklyHoursWarning {
		return nil
	}
	return []string{fmt.Sprintf(
		"weekly total of %.2fh exceeds the 48h limit (ArbZG sec. 3)", total)}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
