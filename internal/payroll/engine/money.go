package engine

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// roundTo rounds half away from zero.
func roundTo(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

func sumValues(m map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(v)
	}
	return total
}

func copyAmounts(m map[string]decimal.Decimal) map[string]decimal.Decimal {
	if m == nil {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Percent converts a whole-number percentage (40 for 40%) into a fraction.
func Percent(p int64) decimal.Decimal {
	return decimal.NewFromInt(p).Div(hundred)
}
