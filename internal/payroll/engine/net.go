package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Totals holds gross, total deductions and net. The fields are unexported so
// the three can only be produced together: by ResolveNet or by RestoreTotals,
// which verifies values loaded from storage.
type Totals struct {
	gross      decimal.Decimal
	deductions decimal.Decimal
	net        decimal.Decimal
	places     int32
	set        bool
}

func (t Totals) Gross() decimal.Decimal           { return t.gross }
func (t Totals) TotalDeductions() decimal.Decimal { return t.deductions }
func (t Totals) Net() decimal.Decimal             { return t.net }
func (t Totals) IsSet() bool                      { return t.set }

// ResolveNet derives net = round(gross - deductions). A negative net is legal.
func ResolveNet(gross, deductions decimal.Decimal, places int32) Totals {
	return Totals{
		gross:      gross,
		deductions: deductions,
		net:        roundTo(gross.Sub(deductions), places),
		places:     places,
		set:        true,
	}
}

// RestoreTotals admits persisted totals only when they satisfy the net equation.
func RestoreTotals(gross, deductions, net decimal.Decimal, places int32) (Totals, error) {
	t := Totals{gross: gross, deductions: deductions, net: net, places: places, set: true}
	if err := t.Verify(); err != nil {
		return Totals{}, err
	}
	return t, nil
}

func (t Totals) Verify() error {
	if !t.set {
		return nil
	}
	expected := roundTo(t.gross.Sub(t.deductions), t.places)
	if !expected.Equal(t.net) {
		return fmt.Errorf("%w: gross %s - deductions %s = %s, got net %s",
			ErrInvariantViolation, t.gross, t.deductions, expected, t.net)
	}
	return nil
}
