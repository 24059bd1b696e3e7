package events

import "time"

const PayrollComputedTopic = "payroll.computed.v1"

const (
	TriggerCreate      = "create"
	TriggerEdit        = "edit"
	TriggerRecalculate = "recalculate"
	TriggerBulk        = "bulk_recalculate"
	TriggerScheduled   = "scheduled"
	TriggerAttendance  = "attendance_closed"
)

// PayrollComputedEvent carries the totals as decimal strings.
type PayrollComputedEvent struct {
	EventType       string    `json:"event_type"`
	RequestID       string    `json:"request_id,omitempty"`
	PayrollID       string    `json:"payroll_id"`
	CompanyID       string    `json:"company_id"`
	EmployeeID      string    `json:"employee_id"`
	Month           int       `json:"month"`
	Year            int       `json:"year"`
	GrossSalary     string    `json:"gross_salary"`
	TotalDeductions string    `json:"total_deductions"`
	NetSalary       string    `json:"net_salary"`
	SettingsVersion int64     `json:"settings_version"`
	Trigger         string    `json:"trigger"`
	Warnings        []string  `json:"warnings,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}
