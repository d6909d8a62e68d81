package events

import "time"

const AbsenceLifecycleTopic = "timetrack.absence.lifecycle.v1"

const (
	EventTypeAbsenceApproved  = "absence.approved"
	EventTypeAbsenceCancelled = "absence.cancelled"
)

// AbsenceApprovedEvent is emitted when an absence reaches approved state,
// including sick leave auto-approvals.
type AbsenceApprovedEvent struct {
	EventType    string    `json:"event_type"`
	AbsenceID    string    `json:"absence_id"`
	UserID       string    `json:"user_id"`
	AbsenceType  string    `json:"absence_type"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	DaysRequired float64   `json:"days_required"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// AbsenceCancelledEvent is emitted when an absence is cancelled and its
// ledger side effects have been reversed.
type AbsenceCancelledEvent struct {
	EventType   string    `json:"event_type"`
	AbsenceID   string    `json:"absence_id"`
	UserID      string    `json:"user_id"`
	AbsenceType string    `json:"absence_type"`
	OccurredAt  time.Time `json:"occurred_at"`
}
