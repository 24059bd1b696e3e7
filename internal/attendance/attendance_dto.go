package attendance

type ClockInRequest struct {
	Source string  `json:"source"`
	Notes  *string `json:"notes"`
}

type ClockOutRequest struct {
	Notes *string `json:"notes"`
}

// RecordDayRequest lets HR set a day that was not clocked, typically an
// absence or an approved leave.
type RecordDayRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	Date       string  `json:"date" binding:"required"`
	Status     string  `json:"status" binding:"required,oneof=PRESENT LATE ABSENT LEAVE"`
	Notes      *string `json:"notes"`
}

type ClosePeriodRequest struct {
	Month      int    `json:"month" binding:"required,min=1,max=12"`
	Year       int    `json:"year" binding:"required,min=2000"`
	EmployeeID string `json:"employee_id" binding:"omitempty,uuid"`
}

type GetAttendancesFilterRequest struct {
	Month      int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year       int    `form:"year" binding:"omitempty,min=2000"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	CompanyID      string  `json:"company_id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name,omitempty"`
	AttendanceDate string  `json:"attendance_date"`
	ClockIn        *string `json:"clock_in,omitempty"`
	ClockOut       *string `json:"clock_out,omitempty"`
	Status         string  `json:"status"`
	Source         string  `json:"source"`
	Notes          *string `json:"notes,omitempty"`
}

type MonthlySummaryResponse struct {
	EmployeeID  string `json:"employee_id"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	Present     int    `json:"present"`
	Late        int    `json:"late"`
	Absent      int    `json:"absent"`
	OnLeave     int    `json:"on_leave"`
	WorkingDays int    `json:"working_days"`
}
