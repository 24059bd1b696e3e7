package payroll

import (
	"testing"
	"time"

	"go-payroll/internal/payroll/engine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func aprilInput() engine.Record {
	return engine.Record{
		Period:         engine.Period{Month: 4, Year: 2026, Days: 30},
		Attendance:     engine.Attendance{Present: 27, Late: 1, Absent: 1, OnLeave: 1},
		BaselineSalary: decimal.NewFromInt(15300),
		Status:         engine.StatusPending,
	}
}

// storeNumeric mimics postgres numeric(14,2) columns on the money fields.
func storeNumeric(p *Payroll) {
	for _, v := range []*decimal.Decimal{&p.GrossSalary, &p.TotalDeductions, &p.NetSalary, &p.ProratedBasic, &p.Bonus} {
		*v = v.Round(2)
	}
	p.ProrationFactor = p.ProrationFactor.Round(4)
	for i := range p.Components {
		p.Components[i].Amount = p.Components[i].Amount.Round(2)
	}
}

func TestApplyRecordThenToRecord(t *testing.T) {
	rec := aprilInput()
	rec.Bonus = decimal.RequireFromString("0.005")
	rec.Discretionary = map[string]decimal.Decimal{engine.DiscretionaryOther: decimal.RequireFromString("0.004")}

	for _, places := range []int32{0, 1, 2, 3, 4} {
		s := engine.DefaultSettings()
		s.RoundingPlaces = places

		out, err := engine.Compute(rec, s)
		assert.NoError(t, err)

		p := Payroll{ID: uuid.New(), CompanyID: uuid.New(), EmployeeID: uuid.New()}
		applyRecord(&p, out, s)
		storeNumeric(&p)

		reloaded, err := toRecord(p)
		if assert.NoError(t, err, "places %d", places) {
			assert.True(t, reloaded.Totals.Net().Equal(out.Totals.Net()), "places %d", places)
			assert.True(t, reloaded.Totals.Gross().Equal(out.Totals.Gross()), "places %d", places)
		}
	}
}

func TestToRecord_SurvivesRoundingChange(t *testing.T) {
	out, err := engine.Compute(aprilInput(), engine.DefaultSettings())
	assert.NoError(t, err)

	p := Payroll{ID: uuid.New(), CompanyID: uuid.New(), EmployeeID: uuid.New()}
	applyRecord(&p, out, engine.DefaultSettings())

	// perusahaan kemudian pindah ke pembulatan 1 desimal
	oneDecimal := engine.DefaultSettings()
	oneDecimal.RoundingPlaces = 1

	before, err := toRecord(p)
	assert.NoError(t, err)

	after, err := engine.Recalculate(before, oneDecimal, engine.AuthContext{ActorID: "scheduler"}, time.Date(2026, 5, 1, 2, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, "22117.2", after.Totals.Net().String())
}

func TestToRecord_RejectsTamperedTotals(t *testing.T) {
	out, err := engine.Compute(aprilInput(), engine.DefaultSettings())
	assert.NoError(t, err)

	p := Payroll{ID: uuid.New(), CompanyID: uuid.New(), EmployeeID: uuid.New()}
	applyRecord(&p, out, engine.DefaultSettings())
	p.NetSalary = p.NetSalary.Add(decimal.NewFromInt(1))

	_, err = toRecord(p)

	assert.ErrorIs(t, err, engine.ErrInvariantViolation)
}

func TestStoredWarnings(t *testing.T) {
	rec := aprilInput()
	rec.BaselineSalary = decimal.Zero
	rec.StatutoryBase = map[string]decimal.Decimal{engine.StatutoryProfessionalTax: decimal.NewFromInt(500)}

	out, err := engine.Compute(rec, engine.DefaultSettings())
	assert.NoError(t, err)
	assert.Len(t, out.Warnings, 2)

	p := Payroll{ID: uuid.New(), CompanyID: uuid.New(), EmployeeID: uuid.New()}
	applyRecord(&p, out, engine.DefaultSettings())

	warnings := storedWarnings(p)
	if assert.Len(t, warnings, 2) {
		assert.Equal(t, engine.WarnMissingBaseline, warnings[0].Code)
		assert.Equal(t, "15300", warnings[0].Applied.String())

		assert.Equal(t, engine.WarnDeductionOutOfRange, warnings[1].Code)
		assert.Equal(t, engine.StatutoryProfessionalTax, warnings[1].Component)
		assert.Equal(t, "467", warnings[1].Original.String())
		assert.Equal(t, "280", warnings[1].Applied.String())
	}
	for i, w := range out.Warnings {
		assert.Equal(t, w.Code, warnings[i].Code)
		assert.Equal(t, w.Component, warnings[i].Component)
		assert.True(t, w.Applied.Equal(warnings[i].Applied))
	}

	breakdown := mapToBreakdown(p)
	assert.Len(t, breakdown.Warnings, 2)

	clean, err := engine.Compute(aprilInput(), engine.DefaultSettings())
	assert.NoError(t, err)
	applyRecord(&p, clean, engine.DefaultSettings())
	assert.Empty(t, storedWarnings(p))
}
