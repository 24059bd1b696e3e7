package engine

import "github.com/shopspring/decimal"

type Earnings struct {
	ProratedBasic  decimal.Decimal
	Allowances     map[string]decimal.Decimal
	Bonus          decimal.Decimal
	OvertimeAmount decimal.Decimal
	Gross          decimal.Decimal
}

// AggregateEarnings applies the proration factor to the baseline and the
// proration-sensitive allowances. Prorated allowances are always derived from
// the baseline percentage, never from a previously stored value.
func AggregateEarnings(rec Record, baseline decimal.Decimal, p Proration, s Settings) Earnings {
	places := s.EffectiveRoundingPlaces()

	allowances := make(map[string]decimal.Decimal, len(rec.Allowances)+len(s.AllowancePercentages))
	for name, amount := range rec.Allowances {
		if s.IsProrated(name) {
			continue
		}
		allowances[name] = amount
	}
	for name, pct := range s.AllowancePercentages {
		allowances[name] = roundTo(baseline.Mul(pct).Mul(p.Factor), places)
	}

	e := Earnings{
		ProratedBasic:  roundTo(baseline.Mul(p.Factor), places),
		Allowances:     allowances,
		Bonus:          rec.Bonus,
		OvertimeAmount: overtimeAmount(rec.Overtime, baseline, p, s),
	}
	e.Gross = roundTo(e.ProratedBasic.Add(sumValues(allowances)).Add(e.Bonus).Add(e.OvertimeAmount), places)
	return e
}

func overtimeAmount(ot Overtime, baseline decimal.Decimal, p Proration, s Settings) decimal.Decimal {
	if !ot.Hours.IsPositive() {
		return ot.Amount
	}

	multiplier := ot.Multiplier
	if !multiplier.IsPositive() {
		multiplier = s.DefaultOvertimeMultiplier
	}
	hoursPerDay := s.StandardHoursPerDay
	if !hoursPerDay.IsPositive() {
		hoursPerDay = decimal.NewFromInt(8)
	}

	hourly := baseline.Div(decimal.NewFromInt(int64(p.Days))).Div(hoursPerDay)
	return roundTo(ot.Hours.Mul(hourly).Mul(multiplier), s.EffectiveRoundingPlaces())
}
