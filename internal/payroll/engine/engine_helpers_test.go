package engine_test

import (
	"testing"
	"time"

	"go-payroll/internal/payroll/engine"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func assertMoney(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, expected, actual.StringFixed(2), msgAndArgs...)
}

var fixedNow = time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC)

func aprilRecord() engine.Record {
	return engine.Record{
		Period:         engine.Period{Month: 4, Year: 2026, Days: 30},
		Attendance:     engine.Attendance{Present: 27, Late: 1, Absent: 1, OnLeave: 1},
		BaselineSalary: dec("15300"),
		Status:         engine.StatusPending,
	}
}
