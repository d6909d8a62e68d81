package overtime

type MonthlyOvertimeResponse struct {
	UserID      string  `json:"user_id"`
	Month       string  `json:"month"`
	TargetHours float64 `json:"target_hours"`
	ActualHours float64 `json:"actual_hours"`
	Overtime    float64 `json:"overtime"`
}

type CreateCorrectionRequest struct {
	UserID      string  `json:"user_id" binding:"required"`
	Date        string  `json:"date" binding:"required"`
	Hours       float64 `json:"hours" binding:"required"`
	Description string  `json:"description" binding:"required"`
	CreatedBy   string  `json:"created_by"`
}

type CorrectionResponse struct {
	// TransactionID is null when the ledger recognised the write as a
	// duplicate of an existing row.
	TransactionID *string `json:"transaction_id"`
	Created       bool    `json:"created"`
}

type TransactionResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Date          string  `json:"date"`
	Type          string  `json:"type"`
	Hours         float64 `json:"hours"`
	Description   string  `json:"description,omitempty"`
	ReferenceType *string `json:"reference_type,omitempty"`
	ReferenceID   *string `json:"reference_id,omitempty"`
	BalanceBefore float64 `json:"balance_before"`
	BalanceAfter  float64 `json:"balance_after"`
}
