package payrollsettings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollSettings is one company's payroll configuration. Allowance
// percentages and statutory rules are small maps kept as jsonb.
type PayrollSettings struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	ProrationFloor            decimal.Decimal `gorm:"type:numeric(5,4);not null"`
	FactorPrecision           int32           `gorm:"not null;default:4"`
	RoundingPlaces            int32           `gorm:"not null;default:2"`
	FallbackBaselineSalary    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	AbsentRatePerDay          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	LateRatePerDay            decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	LeaveRatePerDay           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	StandardHoursPerDay       decimal.Decimal `gorm:"type:numeric(4,2);not null"`
	DefaultOvertimeMultiplier decimal.Decimal `gorm:"type:numeric(4,2);not null"`
	AllowancePercentages      string          `gorm:"type:jsonb;not null;default:'{}'"`
	StatutoryRules            string          `gorm:"type:jsonb;not null;default:'{}'"`
	StoredValuePolicy         string          `gorm:"type:varchar(20);not null;default:'RECOMPUTE'"`

	Version   int64      `gorm:"not null;default:1"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
