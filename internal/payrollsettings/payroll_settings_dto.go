package payrollsettings

import "github.com/shopspring/decimal"

type StatutoryRuleInput struct {
	BaseRate decimal.Decimal `json:"base_rate"`
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
	Clamped  bool            `json:"clamped"`
}

// UpdateSettingsRequest replaces only the fields that are present. Version is
// the version the caller read, 0 when the company still runs on defaults.
type UpdateSettingsRequest struct {
	Version                   int64                         `json:"version" binding:"min=0"`
	ProrationFloor            *decimal.Decimal              `json:"proration_floor"`
	FactorPrecision           *int32                        `json:"factor_precision" binding:"omitempty,min=1,max=4"`
	RoundingPlaces            *int32                        `json:"rounding_places" binding:"omitempty,min=1,max=2"`
	FallbackBaselineSalary    *decimal.Decimal              `json:"fallback_baseline_salary"`
	AbsentRatePerDay          *decimal.Decimal              `json:"absent_rate_per_day"`
	LateRatePerDay            *decimal.Decimal              `json:"late_rate_per_day"`
	LeaveRatePerDay           *decimal.Decimal              `json:"leave_rate_per_day"`
	StandardHoursPerDay       *decimal.Decimal              `json:"standard_hours_per_day"`
	DefaultOvertimeMultiplier *decimal.Decimal              `json:"default_overtime_multiplier"`
	AllowancePercentages      map[string]decimal.Decimal    `json:"allowance_percentages"`
	Statutory                 map[string]StatutoryRuleInput `json:"statutory"`
	StoredValuePolicy         *string                       `json:"stored_value_policy" binding:"omitempty,oneof=RECOMPUTE PREFER_STORED"`
}

type SettingsResponse struct {
	CompanyID                 string                        `json:"company_id"`
	Version                   int64                         `json:"version"`
	IsDefault                 bool                          `json:"is_default"`
	ProrationFloor            decimal.Decimal               `json:"proration_floor"`
	FactorPrecision           int32                         `json:"factor_precision"`
	RoundingPlaces            int32                         `json:"rounding_places"`
	FallbackBaselineSalary    decimal.Decimal               `json:"fallback_baseline_salary"`
	AbsentRatePerDay          decimal.Decimal               `json:"absent_rate_per_day"`
	LateRatePerDay            decimal.Decimal               `json:"late_rate_per_day"`
	LeaveRatePerDay           decimal.Decimal               `json:"leave_rate_per_day"`
	StandardHoursPerDay       decimal.Decimal               `json:"standard_hours_per_day"`
	DefaultOvertimeMultiplier decimal.Decimal               `json:"default_overtime_multiplier"`
	AllowancePercentages      map[string]decimal.Decimal    `json:"allowance_percentages"`
	Statutory                 map[string]StatutoryRuleInput `json:"statutory"`
	StoredValuePolicy         string                        `json:"stored_value_policy"`
	UpdatedAt                 string                        `json:"updated_at,omitempty"`
}
