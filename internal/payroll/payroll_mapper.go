package payroll

import (
	"sort"
	"strings"
	"time"

	"go-payroll/internal/payroll/engine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// toRecord rebuilds the engine view of a stored payroll. Stored totals pass
// through RestoreTotals, so a tampered row surfaces as an invariant violation.
// Gross and deductions are each rounded before net is derived, so the check
// holds at storage precision whatever rounding the row was computed under.
func toRecord(p Payroll) (engine.Record, error) {
	rec := engine.Record{
		Period: engine.Period{Month: p.PeriodMonth, Year: p.PeriodYear, Days: p.DaysInPeriod},
		Attendance: engine.Attendance{
			Present: p.PresentDays,
			Absent:  p.AbsentDays,
			Late:    p.LateDays,
			OnLeave: p.LeaveDays,
		},
		BaselineSalary: p.BaselineSalary,
		Allowances:     map[string]decimal.Decimal{},
		Bonus:          p.Bonus,
		Overtime: engine.Overtime{
			Hours:      p.OvertimeHours,
			Multiplier: p.OvertimeMultiplier,
			Amount:     p.OvertimeAmount,
		},
		StatutoryBase: map[string]decimal.Decimal{},
		Discretionary: map[string]decimal.Decimal{},
		Status:        engine.PaymentStatus(p.PaymentStatus),
		PaymentMethod: p.PaymentMethod,
		Remarks:       p.Remarks,
	}
	if p.PaymentDate != nil {
		d := p.PaymentDate.UTC()
		rec.PaymentDate = &d
	}

	appliedAllowances := map[string]decimal.Decimal{}
	appliedStatutory := map[string]decimal.Decimal{}
	for _, c := range p.Components {
		switch c.ComponentType {
		case ComponentAllowance:
			appliedAllowances[c.ComponentName] = c.Amount
			if !c.Prorated {
				rec.Allowances[c.ComponentName] = valueOr(c.InputAmount, c.Amount)
			}
		case ComponentStatutory:
			appliedStatutory[c.ComponentName] = c.Amount
			if c.InputAmount != nil {
				rec.StatutoryBase[c.ComponentName] = *c.InputAmount
			}
		case ComponentDiscretionary:
			rec.Discretionary[c.ComponentName] = c.Amount
		}
	}

	for _, l := range p.OverrideLogs {
		rec.OverrideLog = append(rec.OverrideLog, engine.OverrideEntry{
			At:      l.LoggedAt.UTC(),
			ActorID: l.ActorID,
			Action:  l.Action,
			Fields:  splitFields(l.Fields),
			Reason:  l.Reason,
		})
	}

	if p.DaysInPeriod == 0 || !p.ProrationFactor.IsPositive() {
		return rec, nil
	}

	rec.Breakdown = engine.Breakdown{
		EffectiveBaseline: p.EffectiveBaseline,
		Proration: engine.Proration{
			WorkingDays: rec.Attendance.WorkingDays(),
			Days:        p.DaysInPeriod,
			Factor:      p.ProrationFactor,
		},
		Earnings: engine.Earnings{
			ProratedBasic:  p.ProratedBasic,
			Allowances:     appliedAllowances,
			Bonus:          p.Bonus,
			OvertimeAmount: p.OvertimeAmount,
			Gross:          p.GrossSalary,
		},
		Deductions: engine.Deductions{
			Statutory:      appliedStatutory,
			AbsentPenalty:  p.AbsentPenalty,
			LatePenalty:    p.LatePenalty,
			LeaveDeduction: p.LeaveDeduction,
			Discretionary:  copyDecimalMap(rec.Discretionary),
			Total:          p.TotalDeductions,
		},
	}

	totals, err := engine.RestoreTotals(p.GrossSalary, p.TotalDeductions, p.NetSalary, engine.MaxRoundingPlaces)
	if err != nil {
		return engine.Record{}, err
	}
	rec.Totals = totals
	return rec, nil
}

// applyRecord writes a computed record back onto the entity. Components are
// rebuilt from scratch; override logs are not touched here.
func applyRecord(p *Payroll, rec engine.Record, s engine.Settings) {
	p.PeriodMonth = rec.Period.Month
	p.PeriodYear = rec.Period.Year
	p.DaysInPeriod = rec.Period.Days
	p.PresentDays = rec.Attendance.Present
	p.AbsentDays = rec.Attendance.Absent
	p.LateDays = rec.Attendance.Late
	p.LeaveDays = rec.Attendance.OnLeave

	b := rec.Breakdown
	p.BaselineSalary = rec.BaselineSalary
	p.EffectiveBaseline = b.EffectiveBaseline
	p.ProrationFactor = b.Proration.Factor
	p.ProratedBasic = b.Earnings.ProratedBasic
	p.Bonus = rec.Bonus
	p.OvertimeHours = rec.Overtime.Hours
	p.OvertimeMultiplier = rec.Overtime.Multiplier
	p.OvertimeAmount = b.Earnings.OvertimeAmount
	p.AbsentPenalty = b.Deductions.AbsentPenalty
	p.LatePenalty = b.Deductions.LatePenalty
	p.LeaveDeduction = b.Deductions.LeaveDeduction

	p.GrossSalary = rec.Totals.Gross()
	p.TotalDeductions = rec.Totals.TotalDeductions()
	p.NetSalary = rec.Totals.Net()

	p.PaymentStatus = string(rec.Status)
	p.PaymentMethod = rec.PaymentMethod
	p.PaymentDate = rec.PaymentDate
	p.Remarks = rec.Remarks
	p.SettingsVer = s.Version

	p.Components = buildComponents(p.ID, p.CompanyID, rec, s)
}

func buildComponents(payrollID, companyID uuid.UUID, rec engine.Record, s engine.Settings) []PayrollComponent {
	var out []PayrollComponent
	add := func(kind, name string, input *decimal.Decimal, amount decimal.Decimal, prorated bool) {
		out = append(out, PayrollComponent{
			ID:            uuid.New(),
			PayrollID:     payrollID,
			CompanyID:     companyID,
			ComponentType: kind,
			ComponentName: name,
			InputAmount:   input,
			Amount:        amount,
			Prorated:      prorated,
		})
	}

	for _, name := range sortedKeys(rec.Breakdown.Earnings.Allowances) {
		prorated := s.IsProrated(name)
		var input *decimal.Decimal
		if v, ok := rec.Allowances[name]; ok && !prorated {
			input = &v
		}
		add(ComponentAllowance, name, input, rec.Breakdown.Earnings.Allowances[name], prorated)
	}
	clamped := map[string]decimal.Decimal{}
	for _, w := range rec.Warnings {
		if w.Code == engine.WarnDeductionOutOfRange {
			clamped[w.Component] = w.Original
		}
	}
	for _, name := range sortedKeys(rec.Breakdown.Deductions.Statutory) {
		var input *decimal.Decimal
		if v, ok := rec.StatutoryBase[name]; ok {
			input = &v
		}
		add(ComponentStatutory, name, input, rec.Breakdown.Deductions.Statutory[name], true)
		if v, ok := clamped[name]; ok {
			out[len(out)-1].OriginalAmount = &v
		}
	}
	for _, name := range sortedKeys(rec.Breakdown.Deductions.Discretionary) {
		v := rec.Breakdown.Deductions.Discretionary[name]
		add(ComponentDiscretionary, name, &v, v, false)
	}
	return out
}

// newOverrideLogs returns the entries appended by the engine since before.
func newOverrideLogs(p Payroll, before, after engine.Record) []PayrollOverrideLog {
	if len(after.OverrideLog) <= len(before.OverrideLog) {
		return nil
	}
	added := after.OverrideLog[len(before.OverrideLog):]
	logs := make([]PayrollOverrideLog, 0, len(added))
	for _, e := range added {
		logs = append(logs, PayrollOverrideLog{
			ID:        uuid.New(),
			PayrollID: p.ID,
			CompanyID: p.CompanyID,
			ActorID:   e.ActorID,
			Action:    e.Action,
			Fields:    strings.Join(e.Fields, ","),
			Reason:    e.Reason,
			LoggedAt:  e.At,
		})
	}
	return logs
}

func mapToResponse(p Payroll, warnings []engine.Warning) PayrollResponse {
	resp := PayrollResponse{
		ID:           p.ID.String(),
		CompanyID:    p.CompanyID.String(),
		EmployeeID:   p.EmployeeID.String(),
		Month:        p.PeriodMonth,
		Year:         p.PeriodYear,
		DaysInPeriod: p.DaysInPeriod,
		Attendance: AttendanceResponse{
			Present:     p.PresentDays,
			Absent:      p.AbsentDays,
			Late:        p.LateDays,
			OnLeave:     p.LeaveDays,
			WorkingDays: p.PresentDays + p.LateDays,
		},
		BaselineSalary:  p.BaselineSalary,
		ProrationFactor: p.ProrationFactor,
		GrossSalary:     p.GrossSalary,
		TotalDeductions: p.TotalDeductions,
		NetSalary:       p.NetSalary,
		PaymentStatus:   p.PaymentStatus,
		PaymentMethod:   p.PaymentMethod,
		Remarks:         p.Remarks,
		Locked:          engine.IsLocked(engine.PaymentStatus(p.PaymentStatus)),
		Version:         p.Version,
		SettingsVersion: p.SettingsVer,
		CreatedBy:       p.CreatedBy.String(),
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.Format(time.RFC3339),
	}
	if p.Employee != nil {
		resp.EmployeeName = p.Employee.FullName
	}
	if p.PaymentDate != nil {
		v := p.PaymentDate.Format(time.RFC3339)
		resp.PaymentDate = &v
	}
	resp.Warnings = mapWarnings(warnings)
	return resp
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	resp := make([]PayrollResponse, len(payrolls))
	for i, p := range payrolls {
		resp[i] = mapToResponse(p, storedWarnings(p))
	}
	return resp
}

// storedWarnings rebuilds the warnings of the last computation from the row:
// a fallback baseline shows as EffectiveBaseline differing from an unset
// BaselineSalary, a clamp as a statutory component carrying OriginalAmount.
// The order matches what Compute emits.
func storedWarnings(p Payroll) []engine.Warning {
	var out []engine.Warning
	if !p.BaselineSalary.IsPositive() && p.EffectiveBaseline.IsPositive() {
		out = append(out, engine.Warning{
			Code:      engine.WarnMissingBaseline,
			Component: engine.FieldBaselineSalary,
			Original:  p.BaselineSalary,
			Applied:   p.EffectiveBaseline,
		})
	}

	components := append([]PayrollComponent(nil), p.Components...)
	sort.SliceStable(components, func(i, j int) bool {
		return components[i].ComponentName < components[j].ComponentName
	})
	for _, c := range components {
		if c.ComponentType != ComponentStatutory || c.OriginalAmount == nil {
			continue
		}
		out = append(out, engine.Warning{
			Code:      engine.WarnDeductionOutOfRange,
			Component: c.ComponentName,
			Original:  *c.OriginalAmount,
			Applied:   c.Amount,
		})
	}
	return out
}

func mapWarnings(warnings []engine.Warning) []WarningResponse {
	var out []WarningResponse
	for _, w := range warnings {
		out = append(out, WarningResponse{
			Code:      w.Code,
			Component: w.Component,
			Original:  w.Original,
			Applied:   w.Applied,
		})
	}
	return out
}

// mapToBreakdown reads the persisted values verbatim, nothing is recomputed.
func mapToBreakdown(p Payroll) PayrollBreakdownResponse {
	resp := PayrollBreakdownResponse{
		PayrollID:       p.ID.String(),
		Status:          p.PaymentStatus,
		ProrationFactor: p.ProrationFactor,
		Attendance: AttendanceResponse{
			Present:     p.PresentDays,
			Absent:      p.AbsentDays,
			Late:        p.LateDays,
			OnLeave:     p.LeaveDays,
			WorkingDays: p.PresentDays + p.LateDays,
		},
		Earnings: EarningsBreakdown{
			EffectiveBaseline: p.EffectiveBaseline,
			ProratedBasic:     p.ProratedBasic,
			Allowances:        []ComponentResponse{},
			Bonus:             p.Bonus,
			Overtime: OvertimeResponse{
				Hours:      p.OvertimeHours,
				Multiplier: p.OvertimeMultiplier,
				Amount:     p.OvertimeAmount,
			},
			GrossSalary: p.GrossSalary,
		},
		Deductions: DeductionsBreakdown{
			Statutory:       []ComponentResponse{},
			AbsentPenalty:   p.AbsentPenalty,
			LatePenalty:     p.LatePenalty,
			LeaveDeduction:  p.LeaveDeduction,
			Discretionary:   []ComponentResponse{},
			TotalDeductions: p.TotalDeductions,
		},
		NetSalary:   p.NetSalary,
		Warnings:    mapWarnings(storedWarnings(p)),
		OverrideLog: []OverrideLogResponse{},
	}

	components := append([]PayrollComponent(nil), p.Components...)
	sort.SliceStable(components, func(i, j int) bool {
		return components[i].ComponentName < components[j].ComponentName
	})
	for _, c := range components {
		item := ComponentResponse{
			Type:        c.ComponentType,
			Name:        c.ComponentName,
			InputAmount: c.InputAmount,
			Amount:      c.Amount,
			Prorated:    c.Prorated,
		}
		switch c.ComponentType {
		case ComponentAllowance:
			resp.Earnings.Allowances = append(resp.Earnings.Allowances, item)
		case ComponentStatutory:
			resp.Deductions.Statutory = append(resp.Deductions.Statutory, item)
		case ComponentDiscretionary:
			resp.Deductions.Discretionary = append(resp.Deductions.Discretionary, item)
		}
	}

	for _, l := range p.OverrideLogs {
		resp.OverrideLog = append(resp.OverrideLog, OverrideLogResponse{
			ActorID:  l.ActorID,
			Action:   l.Action,
			Fields:   splitFields(l.Fields),
			Reason:   l.Reason,
			LoggedAt: l.LoggedAt.Format(time.RFC3339),
		})
	}
	return resp
}

func valueOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return *v
}

func splitFields(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyDecimalMap(m map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
