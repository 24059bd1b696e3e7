package events

import "time"

const AttendancePeriodClosedTopic = "hr.attendance.period.closed.v1"

// AttendancePeriodClosedEvent is published by the attendance module once an
// employee's month is final. EmployeeID empty means every employee of the company.
type AttendancePeriodClosedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id,omitempty"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	ClosedBy   string    `json:"closed_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
