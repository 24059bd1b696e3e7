package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	FieldAttendance     = "attendance"
	FieldBaselineSalary = "baseline_salary"
	FieldAllowances     = "allowances"
	FieldBonus          = "bonus"
	FieldOvertime       = "overtime"
	FieldStatutory      = "statutory_deductions"
	FieldDiscretionary  = "discretionary_deductions"
	FieldPaymentMethod  = "payment_method"
	FieldRemarks        = "remarks"

	FieldPaymentStatus   = "payment_status"
	FieldGrossSalary     = "gross_salary"
	FieldTotalDeductions = "total_deductions"
	FieldNetSalary       = "net_salary"
	FieldProration       = "proration_factor"
)

var editableFields = map[string]bool{
	FieldAttendance:     true,
	FieldBaselineSalary: true,
	FieldAllowances:     true,
	FieldBonus:          true,
	FieldOvertime:       true,
	FieldStatutory:      true,
	FieldDiscretionary:  true,
	FieldPaymentMethod:  true,
	FieldRemarks:        true,
}

// CanEdit reports whether auth may change the given fields of rec. Derived
// fields and the payment status are never editable here.
func CanEdit(rec Record, fields []string, auth AuthContext) bool {
	for _, f := range fields {
		if !editableFields[f] {
			return false
		}
	}
	return !IsLocked(rec.Status) || auth.Override
}

// Edit carries field-level changes. Nil pointers and nil maps leave the field
// untouched; a non-nil map replaces the whole group.
type Edit struct {
	Attendance     *Attendance
	BaselineSalary *decimal.Decimal
	Allowances     map[string]decimal.Decimal
	Bonus          *decimal.Decimal
	Overtime       *Overtime
	StatutoryBase  map[string]decimal.Decimal
	Discretionary  map[string]decimal.Decimal
	PaymentMethod  *string
	Remarks        *string
}

func (e Edit) Fields() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(e.Attendance != nil, FieldAttendance)
	add(e.BaselineSalary != nil, FieldBaselineSalary)
	add(e.Allowances != nil, FieldAllowances)
	add(e.Bonus != nil, FieldBonus)
	add(e.Overtime != nil, FieldOvertime)
	add(e.StatutoryBase != nil, FieldStatutory)
	add(e.Discretionary != nil, FieldDiscretionary)
	add(e.PaymentMethod != nil, FieldPaymentMethod)
	add(e.Remarks != nil, FieldRemarks)
	sort.Strings(fields)
	return fields
}

func (e Edit) apply(rec Record) Record {
	out := rec.clone()
	if e.Attendance != nil {
		out.Attendance = *e.Attendance
	}
	if e.BaselineSalary != nil {
		out.BaselineSalary = *e.BaselineSalary
	}
	if e.Allowances != nil {
		out.Allowances = copyAmounts(e.Allowances)
	}
	if e.Bonus != nil {
		out.Bonus = *e.Bonus
	}
	if e.Overtime != nil {
		out.Overtime = *e.Overtime
	}
	if e.StatutoryBase != nil {
		out.StatutoryBase = copyAmounts(e.StatutoryBase)
	}
	if e.Discretionary != nil {
		out.Discretionary = copyAmounts(e.Discretionary)
	}
	if e.PaymentMethod != nil {
		out.PaymentMethod = *e.PaymentMethod
	}
	if e.Remarks != nil {
		out.Remarks = *e.Remarks
	}
	return out
}
