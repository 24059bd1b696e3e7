package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Proration struct {
	WorkingDays int
	Days        int
	Factor      decimal.Decimal
}

// Prorate converts attendance into a working fraction in [floor, 1]. The floor
// guarantees a fully absent employee still receives a minimum share.
func Prorate(att Attendance, period Period, s Settings) (Proration, error) {
	if err := validatePeriod(period); err != nil {
		return Proration{}, err
	}
	if err := validateAttendance(att, period.Days); err != nil {
		return Proration{}, err
	}

	working := att.WorkingDays()
	factor := decimal.NewFromInt(int64(working)).
		DivRound(decimal.NewFromInt(int64(period.Days)), s.EffectiveFactorPrecision())

	if factor.LessThan(s.ProrationFloor) {
		factor = s.ProrationFloor
	}
	if factor.GreaterThan(one) {
		factor = one
	}

	return Proration{WorkingDays: working, Days: period.Days, Factor: factor}, nil
}

func validatePeriod(p Period) error {
	if p.Days <= 0 {
		return fmt.Errorf("%w: days in period must be positive, got %d", ErrInvalidPeriod, p.Days)
	}
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: month must be 1-12, got %d", ErrInvalidPeriod, p.Month)
	}
	return nil
}

func validateAttendance(a Attendance, days int) error {
	if a.Present < 0 || a.Absent < 0 || a.Late < 0 || a.OnLeave < 0 {
		return fmt.Errorf("%w: counts cannot be negative", ErrInvalidAttendance)
	}
	if a.WorkingDays() > days {
		return fmt.Errorf("%w: %d working days exceed %d days in period", ErrInvalidAttendance, a.WorkingDays(), days)
	}
	return nil
}
