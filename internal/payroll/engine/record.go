package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

type Period struct {
	Month int
	Year  int
	// Days is the number of calendar days in the period, derived by the caller.
	Days int
}

// DaysInMonth returns the calendar days of month/year.
func DaysInMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

type Attendance struct {
	Present int
	Absent  int
	Late    int
	OnLeave int
}

// WorkingDays is never stored; late days count as worked days.
func (a Attendance) WorkingDays() int {
	return a.Present + a.Late
}

type Overtime struct {
	Hours      decimal.Decimal
	Multiplier decimal.Decimal
	// Amount is derived from Hours when Hours > 0, otherwise it is a manual lump sum.
	Amount decimal.Decimal
}

type Warning struct {
	Code      string
	Component string
	Original  decimal.Decimal
	Applied   decimal.Decimal
}

type OverrideEntry struct {
	At      time.Time
	ActorID string
	Action  string
	Fields  []string
	Reason  string
}

// Record is one employee's payroll for one period. The source fields are
// inputs; Breakdown and Totals are produced only by Compute.
type Record struct {
	Period         Period
	Attendance     Attendance
	BaselineSalary decimal.Decimal
	Allowances     map[string]decimal.Decimal
	Bonus          decimal.Decimal
	Overtime       Overtime
	// StatutoryBase holds explicit statutory inputs; missing names fall back
	// to the settings base rate.
	StatutoryBase map[string]decimal.Decimal
	Discretionary map[string]decimal.Decimal

	Status        PaymentStatus
	PaymentMethod string
	PaymentDate   *time.Time
	Remarks       string
	OverrideLog   []OverrideEntry

	Breakdown Breakdown
	Totals    Totals
	Warnings  []Warning
}

type Breakdown struct {
	EffectiveBaseline decimal.Decimal
	Proration         Proration
	Earnings          Earnings
	Deductions        Deductions
}

func (r Record) clone() Record {
	out := r
	out.Allowances = copyAmounts(r.Allowances)
	out.StatutoryBase = copyAmounts(r.StatutoryBase)
	out.Discretionary = copyAmounts(r.Discretionary)
	if r.PaymentDate != nil {
		d := *r.PaymentDate
		out.PaymentDate = &d
	}
	if r.OverrideLog != nil {
		out.OverrideLog = make([]OverrideEntry, len(r.OverrideLog))
		for i, e := range r.OverrideLog {
			e.Fields = append([]string(nil), e.Fields...)
			out.OverrideLog[i] = e
		}
	}
	out.Warnings = append([]Warning(nil), r.Warnings...)
	out.Breakdown.Earnings.Allowances = copyAmounts(r.Breakdown.Earnings.Allowances)
	out.Breakdown.Deductions.Statutory = copyAmounts(r.Breakdown.Deductions.Statutory)
	out.Breakdown.Deductions.Discretionary = copyAmounts(r.Breakdown.Deductions.Discretionary)
	return out
}

func (r Record) appendOverride(entry OverrideEntry) Record {
	log := make([]OverrideEntry, 0, len(r.OverrideLog)+1)
	log = append(log, r.OverrideLog...)
	r.OverrideLog = append(log, entry)
	return r
}
