package absence

type CreateAbsenceRequest struct {
	UserID    string `json:"user_id" binding:"required,uuid"`
	Type      string `json:"type" binding:"required,oneof=vacation sick unpaid overtime_comp"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

type UpdateAbsenceRequest struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Reason    *string `json:"reason"`
}

type RejectAbsenceRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type AbsenceResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	Type         string  `json:"type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	DaysRequired float64 `json:"days_required"`
	Status       string  `json:"status"`
	Reason       string  `json:"reason,omitempty"`

	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectedBy      *string `json:"rejected_by,omitempty"`
	RejectedAt      *string `json:"rejected_at,omitempty"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
}
