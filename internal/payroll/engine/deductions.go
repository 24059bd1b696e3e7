package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

type Deductions struct {
	Statutory      map[string]decimal.Decimal
	AbsentPenalty  decimal.Decimal
	LatePenalty    decimal.Decimal
	LeaveDeduction decimal.Decimal
	Discretionary  map[string]decimal.Decimal
	Total          decimal.Decimal
}

// AggregateDeductions combines attendance penalties, prorated statutory items
// and pass-through discretionary items. Penalties scale with day counts only.
func AggregateDeductions(rec Record, p Proration, s Settings) (Deductions, []Warning) {
	var warnings []Warning

	statutory := make(map[string]decimal.Decimal, len(s.Statutory))
	for _, name := range statutoryNames(rec, s) {
		rule, known := s.Statutory[name]
		base, explicit := rec.StatutoryBase[name]
		if !explicit {
			base = rule.BaseRate
		}

		value := base.Mul(p.Factor).Round(0)
		if known && rule.Clamped {
			clamped := clamp(value, rule.Min, rule.Max)
			if !clamped.Equal(value) {
				warnings = append(warnings, Warning{
					Code:      WarnDeductionOutOfRange,
					Component: name,
					Original:  value,
					Applied:   clamped,
				})
			}
			value = clamped
		}
		statutory[name] = value
	}

	d := Deductions{
		Statutory:      statutory,
		AbsentPenalty:  decimal.NewFromInt(int64(rec.Attendance.Absent)).Mul(s.AbsentRatePerDay),
		LatePenalty:    decimal.NewFromInt(int64(rec.Attendance.Late)).Mul(s.LateRatePerDay),
		LeaveDeduction: decimal.NewFromInt(int64(rec.Attendance.OnLeave)).Mul(s.LeaveRatePerDay),
		Discretionary:  copyAmounts(rec.Discretionary),
	}
	if d.Discretionary == nil {
		d.Discretionary = map[string]decimal.Decimal{}
	}

	total := sumValues(statutory).
		Add(d.AbsentPenalty).
		Add(d.LatePenalty).
		Add(d.LeaveDeduction).
		Add(sumValues(d.Discretionary))
	d.Total = roundTo(total, s.EffectiveRoundingPlaces())

	return d, warnings
}

func statutoryNames(rec Record, s Settings) []string {
	seen := make(map[string]struct{}, len(s.Statutory)+len(rec.StatutoryBase))
	names := make([]string, 0, len(seen))
	for name := range s.Statutory {
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for name := range rec.StatutoryBase {
		if _, ok := seen[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
