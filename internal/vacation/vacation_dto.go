package vacation

type BalanceResponse struct {
	UserID      string  `json:"user_id"`
	Year        int     `json:"year"`
	Entitlement float64 `json:"entitlement"`
	Carryover   float64 `json:"carryover"`
	Taken       float64 `json:"taken"`
	Remaining   float64 `json:"remaining"`
}

type RolloverRequest struct {
	Year int `json:"year" binding:"required"`
}

type RolloverResponse struct {
	Year           int `json:"year"`
	UsersProcessed int `json:"users_processed"`
}
