package engine

import (
	"fmt"
	"strings"
	"time"
)

// Compute derives the breakdown and totals of rec from its source fields.
// Under PolicyPreferStored a record that already carries verified totals is
// returned unchanged. Compute never mutates rec or s and is idempotent.
func Compute(rec Record, s Settings) (Record, error) {
	if s.StoredValuePolicy == PolicyPreferStored && rec.Totals.IsSet() {
		if err := rec.Totals.Verify(); err != nil {
			return Record{}, err
		}
		return rec.clone(), nil
	}
	return Recompute(rec, s)
}

// Recompute ignores any stored totals and always runs the full pipeline.
func Recompute(rec Record, s Settings) (Record, error) {
	var warnings []Warning

	baseline := rec.BaselineSalary
	if !baseline.IsPositive() {
		warnings = append(warnings, Warning{
			Code:      WarnMissingBaseline,
			Component: FieldBaselineSalary,
			Original:  baseline,
			Applied:   s.FallbackBaselineSalary,
		})
		baseline = s.FallbackBaselineSalary
	}

	p, err := Prorate(rec.Attendance, rec.Period, s)
	if err != nil {
		return Record{}, err
	}

	earnings := AggregateEarnings(rec, baseline, p, s)
	deductions, dedWarnings := AggregateDeductions(rec, p, s)
	warnings = append(warnings, dedWarnings...)

	totals := ResolveNet(earnings.Gross, deductions.Total, s.EffectiveRoundingPlaces())
	if err := totals.Verify(); err != nil {
		return Record{}, err
	}

	out := rec.clone()
	out.Breakdown = Breakdown{
		EffectiveBaseline: baseline,
		Proration:         p,
		Earnings:          earnings,
		Deductions:        deductions,
	}
	out.Totals = totals
	out.Warnings = warnings
	return out, nil
}

// Recalculate always runs Recompute behind the lifecycle lock, whatever the
// stored-value policy says: an explicit recalculation must refresh stale
// totals. A locked record is only recalculated under override, which appends
// one override log entry.
func Recalculate(rec Record, s Settings, auth AuthContext, now time.Time) (Record, error) {
	locked := IsLocked(rec.Status)
	if locked && !auth.Override {
		return Record{}, fmt.Errorf("%w: status %s", ErrRecordLocked, rec.Status)
	}

	out, err := Recompute(rec, s)
	if err != nil {
		return Record{}, err
	}

	if locked {
		out = out.appendOverride(OverrideEntry{
			At:      now.UTC(),
			ActorID: auth.ActorID,
			Action:  "recalculate",
			Reason:  overrideReason(auth, rec.Status, nil),
		})
	}
	return out, nil
}

// ApplyEdit applies field changes and recomputes every derived total together.
func ApplyEdit(rec Record, edit Edit, s Settings, auth AuthContext, now time.Time) (Record, error) {
	fields := edit.Fields()
	if len(fields) == 0 {
		return Record{}, ErrEmptyEdit
	}
	if !CanEdit(rec, fields, auth) {
		return Record{}, fmt.Errorf("%w: status %s", ErrRecordLocked, rec.Status)
	}

	out, err := Recompute(edit.apply(rec), s)
	if err != nil {
		return Record{}, err
	}

	if IsLocked(rec.Status) {
		out = out.appendOverride(OverrideEntry{
			At:      now.UTC(),
			ActorID: auth.ActorID,
			Action:  "edit",
			Fields:  fields,
			Reason:  overrideReason(auth, rec.Status, fields),
		})
	}
	return out, nil
}

func overrideReason(auth AuthContext, status PaymentStatus, fields []string) string {
	desc := fmt.Sprintf("changed while %s", status)
	if len(fields) > 0 {
		desc = fmt.Sprintf("%s changed while %s", strings.Join(fields, ", "), status)
	}
	if auth.Reason != "" {
		desc += ": " + auth.Reason
	}
	return desc
}
