package engine

import "errors"

var (
	ErrInvalidPeriod        = errors.New("invalid payroll period")
	ErrInvalidAttendance    = errors.New("invalid attendance counts")
	ErrRecordLocked         = errors.New("payroll record is locked")
	ErrInvariantViolation   = errors.New("payroll totals violate gross - deductions = net")
	ErrInvalidTransition    = errors.New("invalid payment status transition")
	ErrConfirmationRequired = errors.New("transition locks the record and requires confirmation")
	ErrInvalidStatus        = errors.New("unknown payment status")
	ErrEmptyEdit            = errors.New("edit does not change any field")
)

// Warning codes for numeric edge cases the engine recovers from locally.
const (
	WarnMissingBaseline     = "MISSING_BASELINE"
	WarnDeductionOutOfRange = "DEDUCTION_OUT_OF_RANGE"
)
