package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ComponentAllowance     = "ALLOWANCE"
	ComponentStatutory     = "STATUTORY"
	ComponentDiscretionary = "DISCRETIONARY"
)

type Payroll struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID    `gorm:"type:uuid;not null;index:idx_company_status"`
	EmployeeID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_employee_period"`
	Employee   *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`

	// Periode
	PeriodMonth  int `gorm:"not null;uniqueIndex:uq_payroll_employee_period"`
	PeriodYear   int `gorm:"not null;uniqueIndex:uq_payroll_employee_period"`
	DaysInPeriod int `gorm:"not null"`

	// Attendance counts, workingDays is never stored.
	PresentDays int `gorm:"not null;default:0"`
	AbsentDays  int `gorm:"not null;default:0"`
	LateDays    int `gorm:"not null;default:0"`
	LeaveDays   int `gorm:"not null;default:0"`

	BaselineSalary     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	EffectiveBaseline  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ProrationFactor    decimal.Decimal `gorm:"type:numeric(6,4);not null;default:0"`
	ProratedBasic      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Bonus              decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	OvertimeHours      decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	OvertimeMultiplier decimal.Decimal `gorm:"type:numeric(4,2);not null;default:0"`
	OvertimeAmount     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	AbsentPenalty      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	LatePenalty        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	LeaveDeduction     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	GrossSalary     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	NetSalary       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	// Workflow & Audit
	PaymentStatus string     `gorm:"type:varchar(20);not null;default:'Pending';index:idx_company_status"`
	PaymentMethod string     `gorm:"type:varchar(40)"`
	PaymentDate   *time.Time `gorm:"index"`
	Remarks       string     `gorm:"type:text"`
	SettingsVer   int64      `gorm:"column:settings_version;not null;default:0"`
	Version       int64      `gorm:"not null;default:1"`
	CreatedBy     uuid.UUID  `gorm:"type:uuid;not null"`
	UpdatedBy     *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Components   []PayrollComponent   `gorm:"foreignKey:PayrollID"`
	OverrideLogs []PayrollOverrideLog `gorm:"foreignKey:PayrollID"`
}

// PayrollComponent stores one named allowance or deduction. InputAmount is the
// value the caller supplied, Amount the value the engine applied.
// OriginalAmount is set only when a statutory value was clamped.
type PayrollComponent struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	CompanyID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	ComponentType  string           `gorm:"type:varchar(20);not null;index"`
	ComponentName  string           `gorm:"type:varchar(120);not null"`
	InputAmount    *decimal.Decimal `gorm:"type:numeric(14,2)"`
	Amount         decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	OriginalAmount *decimal.Decimal `gorm:"type:numeric(14,2)"`
	Prorated       bool             `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type PayrollOverrideLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID uuid.UUID `gorm:"type:uuid;not null;index"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	ActorID   string    `gorm:"type:varchar(64);not null"`
	Action    string    `gorm:"type:varchar(60);not null"`
	Fields    string    `gorm:"type:text"`
	Reason    string    `gorm:"type:text"`
	LoggedAt  time.Time `gorm:"not null;index"`
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
