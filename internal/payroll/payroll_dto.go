package payroll

import "github.com/shopspring/decimal"

type AttendanceInput struct {
	Present int `json:"present" binding:"min=0"`
	Absent  int `json:"absent" binding:"min=0"`
	Late    int `json:"late" binding:"min=0"`
	OnLeave int `json:"on_leave" binding:"min=0"`
}

type OvertimeInput struct {
	Hours      decimal.Decimal `json:"hours"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Amount     decimal.Decimal `json:"amount"`
}

type OverrideInput struct {
	AdminOverride  bool   `json:"admin_override"`
	OverrideReason string `json:"override_reason"`
}

type CreatePayrollRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Month      int    `json:"month" binding:"required,min=1,max=12"`
	Year       int    `json:"year" binding:"required,min=2000"`
	// Attendance dan BaselineSalary opsional, jika kosong diambil dari modul attendance / employee salary.
	Attendance              *AttendanceInput           `json:"attendance"`
	BaselineSalary          *decimal.Decimal           `json:"baseline_salary"`
	Allowances              map[string]decimal.Decimal `json:"allowances"`
	Bonus                   decimal.Decimal            `json:"bonus"`
	Overtime                *OvertimeInput             `json:"overtime"`
	StatutoryDeductions     map[string]decimal.Decimal `json:"statutory_deductions"`
	DiscretionaryDeductions map[string]decimal.Decimal `json:"discretionary_deductions"`
	PaymentMethod           string                     `json:"payment_method"`
	Remarks                 string                     `json:"remarks"`
}

type UpdatePayrollRequest struct {
	Version                 int64                      `json:"version" binding:"required,min=1"`
	Attendance              *AttendanceInput           `json:"attendance"`
	BaselineSalary          *decimal.Decimal           `json:"baseline_salary"`
	Allowances              map[string]decimal.Decimal `json:"allowances"`
	Bonus                   *decimal.Decimal           `json:"bonus"`
	Overtime                *OvertimeInput             `json:"overtime"`
	StatutoryDeductions     map[string]decimal.Decimal `json:"statutory_deductions"`
	DiscretionaryDeductions map[string]decimal.Decimal `json:"discretionary_deductions"`
	PaymentMethod           *string                    `json:"payment_method"`
	Remarks                 *string                    `json:"remarks"`
	OverrideInput
}

type RecalculatePayrollRequest struct {
	Version           int64 `json:"version" binding:"required,min=1"`
	RefreshAttendance bool  `json:"refresh_attendance"`
	OverrideInput
}

type TransitionStatusRequest struct {
	Version       int64  `json:"version" binding:"required,min=1"`
	Status        string `json:"status" binding:"required,oneof=Pending Processing Paid Failed"`
	Confirm       bool   `json:"confirm"`
	PaymentMethod string `json:"payment_method"`
	OverrideInput
}

type BulkRecalculateRequest struct {
	Month      int      `json:"month" binding:"required,min=1,max=12"`
	Year       int      `json:"year" binding:"required,min=2000"`
	PayrollIDs []string `json:"payroll_ids" binding:"omitempty,dive,uuid"`
}

type BulkMarkPaidRequest struct {
	PayrollIDs    []string `json:"payroll_ids" binding:"required,min=1,dive,uuid"`
	Confirm       bool     `json:"confirm"`
	PaymentMethod string   `json:"payment_method"`
}

type GetPayrollsFilterRequest struct {
	Month      int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year       int    `form:"year" binding:"omitempty,min=2000"`
	Status     string `form:"status"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
}

type PayrollQueryFilter struct {
	Month      int
	Year       int
	Status     string
	EmployeeID string
}

type AttendanceResponse struct {
	Present     int `json:"present"`
	Absent      int `json:"absent"`
	Late        int `json:"late"`
	OnLeave     int `json:"on_leave"`
	WorkingDays int `json:"working_days"`
}

type WarningResponse struct {
	Code      string          `json:"code"`
	Component string          `json:"component"`
	Original  decimal.Decimal `json:"original"`
	Applied   decimal.Decimal `json:"applied"`
}

type PayrollResponse struct {
	ID              string             `json:"id"`
	CompanyID       string             `json:"company_id"`
	EmployeeID      string             `json:"employee_id"`
	EmployeeName    string             `json:"employee_name,omitempty"`
	Month           int                `json:"month"`
	Year            int                `json:"year"`
	DaysInPeriod    int                `json:"days_in_period"`
	Attendance      AttendanceResponse `json:"attendance"`
	BaselineSalary  decimal.Decimal    `json:"baseline_salary"`
	ProrationFactor decimal.Decimal    `json:"proration_factor"`
	GrossSalary     decimal.Decimal    `json:"gross_salary"`
	TotalDeductions decimal.Decimal    `json:"total_deductions"`
	NetSalary       decimal.Decimal    `json:"net_salary"`
	PaymentStatus   string             `json:"payment_status"`
	PaymentMethod   string             `json:"payment_method,omitempty"`
	PaymentDate     *string            `json:"payment_date,omitempty"`
	Remarks         string             `json:"remarks,omitempty"`
	Locked          bool               `json:"locked"`
	Version         int64              `json:"version"`
	SettingsVersion int64              `json:"settings_version"`
	Warnings        []WarningResponse  `json:"warnings,omitempty"`
	CreatedBy       string             `json:"created_by"`
	CreatedAt       string             `json:"created_at"`
	UpdatedAt       string             `json:"updated_at"`
}

type ComponentResponse struct {
	Type        string           `json:"type"`
	Name        string           `json:"name"`
	InputAmount *decimal.Decimal `json:"input_amount,omitempty"`
	Amount      decimal.Decimal  `json:"amount"`
	Prorated    bool             `json:"prorated"`
}

type OvertimeResponse struct {
	Hours      decimal.Decimal `json:"hours"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Amount     decimal.Decimal `json:"amount"`
}

type EarningsBreakdown struct {
	EffectiveBaseline decimal.Decimal     `json:"effective_baseline"`
	ProratedBasic     decimal.Decimal     `json:"prorated_basic"`
	Allowances        []ComponentResponse `json:"allowances"`
	Bonus             decimal.Decimal     `json:"bonus"`
	Overtime          OvertimeResponse    `json:"overtime"`
	GrossSalary       decimal.Decimal     `json:"gross_salary"`
}

type DeductionsBreakdown struct {
	Statutory       []ComponentResponse `json:"statutory"`
	AbsentPenalty   decimal.Decimal     `json:"absent_penalty"`
	LatePenalty     decimal.Decimal     `json:"late_penalty"`
	LeaveDeduction  decimal.Decimal     `json:"leave_deduction"`
	Discretionary   []ComponentResponse `json:"discretionary"`
	TotalDeductions decimal.Decimal     `json:"total_deductions"`
}

type OverrideLogResponse struct {
	ActorID  string   `json:"actor_id"`
	Action   string   `json:"action"`
	Fields   []string `json:"fields,omitempty"`
	Reason   string   `json:"reason"`
	LoggedAt string   `json:"logged_at"`
}

type PayrollBreakdownResponse struct {
	PayrollID       string                `json:"payroll_id"`
	Status          string                `json:"status"`
	ProrationFactor decimal.Decimal       `json:"proration_factor"`
	Attendance      AttendanceResponse    `json:"attendance"`
	Earnings        EarningsBreakdown     `json:"earnings"`
	Deductions      DeductionsBreakdown   `json:"deductions"`
	NetSalary       decimal.Decimal       `json:"net_salary"`
	Warnings        []WarningResponse     `json:"warnings,omitempty"`
	OverrideLog     []OverrideLogResponse `json:"override_log"`
}

type BulkFailure struct {
	PayrollID string `json:"payroll_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

type BulkResultResponse struct {
	Succeeded []PayrollResponse `json:"succeeded"`
	Failed    []BulkFailure     `json:"failed"`
}
