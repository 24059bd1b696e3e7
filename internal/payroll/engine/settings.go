package engine

import "github.com/shopspring/decimal"

const (
	AllowanceHousing = "housing"
	AllowanceMedical = "medical"
	AllowanceTravel  = "travel"
	AllowanceFood    = "food"

	StatutoryProfessionalTax = "professional_tax"
	StatutoryIncomeTax       = "income_tax"
	StatutoryProvidentFund   = "provident_fund"
	StatutoryHealthInsurance = "health_insurance"

	DiscretionaryLoanRepayment = "loan_repayment"
	DiscretionaryOther         = "other"
)

// Money is persisted as numeric(14,2) and the factor as numeric(6,4). Rounding
// finer than that would not survive a round trip through storage.
const (
	MaxRoundingPlaces  int32 = 2
	MaxFactorPrecision int32 = 4
)

// StoredValuePolicy decides whether totals already carried by a record are
// trusted or always recomputed.
type StoredValuePolicy string

const (
	PolicyRecompute    StoredValuePolicy = "RECOMPUTE"
	PolicyPreferStored StoredValuePolicy = "PREFER_STORED"
)

// StatutoryRule describes one mandated deduction. Value is round(base * factor),
// clamped to [Min, Max] when Clamped is set.
type StatutoryRule struct {
	BaseRate decimal.Decimal
	Min      decimal.Decimal
	Max      decimal.Decimal
	Clamped  bool
}

// Settings is the tenant's payroll configuration. The engine only reads it;
// callers hand in a snapshot and must not mutate it while a computation runs.
type Settings struct {
	Version int64

	ProrationFloor  decimal.Decimal
	FactorPrecision int32
	RoundingPlaces  int32

	FallbackBaselineSalary decimal.Decimal

	AbsentRatePerDay decimal.Decimal
	LateRatePerDay   decimal.Decimal
	LeaveRatePerDay  decimal.Decimal

	StandardHoursPerDay       decimal.Decimal
	DefaultOvertimeMultiplier decimal.Decimal

	// AllowancePercentages names the proration-sensitive allowances and their
	// share of the baseline salary. Every other allowance is fixed.
	AllowancePercentages map[string]decimal.Decimal
	Statutory            map[string]StatutoryRule

	StoredValuePolicy StoredValuePolicy
}

func DefaultSettings() Settings {
	statutoryClamp := func(base int64) StatutoryRule {
		return StatutoryRule{
			BaseRate: decimal.NewFromInt(base),
			Min:      decimal.NewFromInt(100),
			Max:      decimal.NewFromInt(280),
			Clamped:  true,
		}
	}

	return Settings{
		Version:                   1,
		ProrationFloor:            decimal.RequireFromString("0.1"),
		FactorPrecision:           4,
		RoundingPlaces:            2,
		FallbackBaselineSalary:    decimal.NewFromInt(15300),
		AbsentRatePerDay:          decimal.NewFromInt(100),
		LateRatePerDay:            decimal.NewFromInt(25),
		LeaveRatePerDay:           decimal.NewFromInt(45),
		StandardHoursPerDay:       decimal.NewFromInt(8),
		DefaultOvertimeMultiplier: decimal.RequireFromString("1.5"),
		AllowancePercentages: map[string]decimal.Decimal{
			AllowanceHousing: Percent(40),
			AllowanceMedical: Percent(10),
			AllowanceTravel:  Percent(5),
			AllowanceFood:    Percent(5),
		},
		Statutory: map[string]StatutoryRule{
			StatutoryProfessionalTax: statutoryClamp(200),
			StatutoryProvidentFund:   statutoryClamp(250),
			StatutoryHealthInsurance: statutoryClamp(150),
			StatutoryIncomeTax:       {BaseRate: decimal.Zero},
		},
		StoredValuePolicy: PolicyRecompute,
	}
}

// Clone returns a deep copy so a snapshot cannot observe later edits.
func (s Settings) Clone() Settings {
	out := s
	out.AllowancePercentages = copyAmounts(s.AllowancePercentages)
	if s.Statutory != nil {
		out.Statutory = make(map[string]StatutoryRule, len(s.Statutory))
		for k, v := range s.Statutory {
			out.Statutory[k] = v
		}
	}
	return out
}

// IsProrated reports whether the named allowance scales with attendance.
func (s Settings) IsProrated(allowance string) bool {
	_, ok := s.AllowancePercentages[allowance]
	return ok
}

// EffectiveRoundingPlaces is the money precision Compute actually applies.
// Unset falls back to 2 and nothing rounds finer than MaxRoundingPlaces.
func (s Settings) EffectiveRoundingPlaces() int32 {
	if s.RoundingPlaces <= 0 || s.RoundingPlaces > MaxRoundingPlaces {
		return MaxRoundingPlaces
	}
	return s.RoundingPlaces
}

// EffectiveFactorPrecision is the proration factor precision Compute applies.
func (s Settings) EffectiveFactorPrecision() int32 {
	if s.FactorPrecision <= 0 || s.FactorPrecision > MaxFactorPrecision {
		return MaxFactorPrecision
	}
	return s.FactorPrecision
}
