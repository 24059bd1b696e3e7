package events

import "time"

const PayrollStatusChangedTopic = "payroll.status.changed.v1"

type PayrollStatusChangedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	PayrollID     string    `json:"payroll_id"`
	CompanyID     string    `json:"company_id"`
	EmployeeID    string    `json:"employee_id"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	NetSalary     string    `json:"net_salary"`
	ActorID       string    `json:"actor_id"`
	Override      bool      `json:"override"`
	OccurredAt    time.Time `json:"occurred_at"`
}
