package employee

type CreateEmployeeRequest struct {
	FullName            string             `json:"full_name" binding:"required"`
	Email               string             `json:"email" binding:"required,email"`
	WeeklyHours         float64            `json:"weekly_hours"`
	WorkSchedule        map[string]float64 `json:"work_schedule"`
	HireDate            string             `json:"hire_date" binding:"required"`
	VacationDaysPerYear float64            `json:"vacation_days_per_year"`
	Region              string             `json:"region"`
}

type UpdateEmployeeRequest struct {
	FullName            *string            `json:"full_name"`
	WeeklyHours         *float64           `json:"weekly_hours"`
	WorkSchedule        map[string]float64 `json:"work_schedule"`
	HireDate            *string            `json:"hire_date"`
	EndDate             *string            `json:"end_date"`
	VacationDaysPerYear *float64           `json:"vacation_days_per_year"`
	Region              *string            `json:"region"`
}

type EmployeeResponse struct {
	ID                  string             `json:"id"`
	FullName            string             `json:"full_name"`
	Email               string             `json:"email"`
	WeeklyHours         float64            `json:"weekly_hours"`
	WorkSchedule        map[string]float64 `json:"work_schedule,omitempty"`
	HireDate            string             `json:"hire_date"`
	EndDate             *string            `json:"end_date,omitempty"`
	VacationDaysPerYear float64            `json:"vacation_days_per_year"`
	Region              string             `json:"region"`
}
