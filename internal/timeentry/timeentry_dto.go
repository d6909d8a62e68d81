package timeentry

type CreateTimeEntryRequest struct {
	UserID       string `json:"user_id" binding:"required"`
	Date         string `json:"date" binding:"required"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	BreakMinutes int    `json:"break_minutes" binding:"min=0"`
	Location     string `json:"location" binding:"omitempty,oneof=office home travel"`
	Description  string `json:"description"`
}

type TimeEntryResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	Date         string  `json:"date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	BreakMinutes int     `json:"break_minutes"`
	Hours        float64 `json:"hours"`
	Location     string  `json:"location"`
	Description  string  `json:"description,omitempty"`
}
