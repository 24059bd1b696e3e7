package payrollsettings

import (
	"encoding/json"
	"fmt"
	"time"

	"go-payroll/internal/payroll/engine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func toEngine(row PayrollSettings) (engine.Settings, error) {
	s := engine.Settings{
		Version:                   row.Version,
		ProrationFloor:            row.ProrationFloor,
		FactorPrecision:           row.FactorPrecision,
		RoundingPlaces:            row.RoundingPlaces,
		FallbackBaselineSalary:    row.FallbackBaselineSalary,
		AbsentRatePerDay:          row.AbsentRatePerDay,
		LateRatePerDay:            row.LateRatePerDay,
		LeaveRatePerDay:           row.LeaveRatePerDay,
		StandardHoursPerDay:       row.StandardHoursPerDay,
		DefaultOvertimeMultiplier: row.DefaultOvertimeMultiplier,
		AllowancePercentages:      map[string]decimal.Decimal{},
		Statutory:                 map[string]engine.StatutoryRule{},
		StoredValuePolicy:         engine.StoredValuePolicy(row.StoredValuePolicy),
	}

	if row.AllowancePercentages != "" {
		if err := json.Unmarshal([]byte(row.AllowancePercentages), &s.AllowancePercentages); err != nil {
			return engine.Settings{}, fmt.Errorf("decode allowance percentages: %w", err)
		}
	}
	if row.StatutoryRules != "" {
		if err := json.Unmarshal([]byte(row.StatutoryRules), &s.Statutory); err != nil {
			return engine.Settings{}, fmt.Errorf("decode statutory rules: %w", err)
		}
	}
	return s, nil
}

func fromEngine(companyID uuid.UUID, s engine.Settings) (PayrollSettings, error) {
	allowances, err := json.Marshal(s.AllowancePercentages)
	if err != nil {
		return PayrollSettings{}, err
	}
	statutory, err := json.Marshal(s.Statutory)
	if err != nil {
		return PayrollSettings{}, err
	}

	return PayrollSettings{
		CompanyID:                 companyID,
		ProrationFloor:            s.ProrationFloor,
		FactorPrecision:           s.FactorPrecision,
		RoundingPlaces:            s.RoundingPlaces,
		FallbackBaselineSalary:    s.FallbackBaselineSalary,
		AbsentRatePerDay:          s.AbsentRatePerDay,
		LateRatePerDay:            s.LateRatePerDay,
		LeaveRatePerDay:           s.LeaveRatePerDay,
		StandardHoursPerDay:       s.StandardHoursPerDay,
		DefaultOvertimeMultiplier: s.DefaultOvertimeMultiplier,
		AllowancePercentages:      string(allowances),
		StatutoryRules:            string(statutory),
		StoredValuePolicy:         string(s.StoredValuePolicy),
		Version:                   s.Version,
	}, nil
}

// apply overlays the fields present in req on a copy of s.
func (req UpdateSettingsRequest) apply(s engine.Settings) engine.Settings {
	out := s.Clone()
	setDecimal := func(dst *decimal.Decimal, v *decimal.Decimal) {
		if v != nil {
			*dst = *v
		}
	}

	setDecimal(&out.ProrationFloor, req.ProrationFloor)
	setDecimal(&out.FallbackBaselineSalary, req.FallbackBaselineSalary)
	setDecimal(&out.AbsentRatePerDay, req.AbsentRatePerDay)
	setDecimal(&out.LateRatePerDay, req.LateRatePerDay)
	setDecimal(&out.LeaveRatePerDay, req.LeaveRatePerDay)
	setDecimal(&out.StandardHoursPerDay, req.StandardHoursPerDay)
	setDecimal(&out.DefaultOvertimeMultiplier, req.DefaultOvertimeMultiplier)

	if req.FactorPrecision != nil {
		out.FactorPrecision = *req.FactorPrecision
	}
	if req.RoundingPlaces != nil {
		out.RoundingPlaces = *req.RoundingPlaces
	}
	if req.StoredValuePolicy != nil {
		out.StoredValuePolicy = engine.StoredValuePolicy(*req.StoredValuePolicy)
	}
	if req.AllowancePercentages != nil {
		out.AllowancePercentages = make(map[string]decimal.Decimal, len(req.AllowancePercentages))
		for name, pct := range req.AllowancePercentages {
			out.AllowancePercentages[name] = pct
		}
	}
	if req.Statutory != nil {
		out.Statutory = make(map[string]engine.StatutoryRule, len(req.Statutory))
		for name, rule := range req.Statutory {
			out.Statutory[name] = engine.StatutoryRule{
				BaseRate: rule.BaseRate,
				Min:      rule.Min,
				Max:      rule.Max,
				Clamped:  rule.Clamped,
			}
		}
	}
	return out
}

func mapToResponse(companyID string, s engine.Settings, isDefault bool, updatedAt time.Time) SettingsResponse {
	resp := SettingsResponse{
		CompanyID:                 companyID,
		Version:                   s.Version,
		IsDefault:                 isDefault,
		ProrationFloor:            s.ProrationFloor,
		FactorPrecision:           s.FactorPrecision,
		RoundingPlaces:            s.RoundingPlaces,
		FallbackBaselineSalary:    s.FallbackBaselineSalary,
		AbsentRatePerDay:          s.AbsentRatePerDay,
		LateRatePerDay:            s.LateRatePerDay,
		LeaveRatePerDay:           s.LeaveRatePerDay,
		StandardHoursPerDay:       s.StandardHoursPerDay,
		DefaultOvertimeMultiplier: s.DefaultOvertimeMultiplier,
		AllowancePercentages:      s.AllowancePercentages,
		Statutory:                 make(map[string]StatutoryRuleInput, len(s.Statutory)),
		StoredValuePolicy:         string(s.StoredValuePolicy),
	}
	for name, rule := range s.Statutory {
		resp.Statutory[name] = StatutoryRuleInput{
			BaseRate: rule.BaseRate,
			Min:      rule.Min,
			Max:      rule.Max,
			Clamped:  rule.Clamped,
		}
	}
	if !updatedAt.IsZero() {
		resp.UpdatedAt = updatedAt.Format(time.RFC3339)
	}
	return resp
}
