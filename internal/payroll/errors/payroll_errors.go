package payrollerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

const (
	CodeRecordLocked          = "RECORD_LOCKED"
	CodeInvariantViolation    = "INVARIANT_VIOLATION"
	CodeConfirmationRequired  = "CONFIRMATION_REQUIRED"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidPayrollID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll period, month must be 1-12 and days in period positive",
		http.StatusBadRequest,
	)
	ErrInvalidAttendance = apperror.New(
		apperror.CodeInvalidInput,
		"attendance counts cannot be negative and working days cannot exceed days in period",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this company",
		http.StatusBadRequest,
	)
	ErrPayrollAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"payroll already exists for this employee and period",
		http.StatusConflict,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrRecordLocked = apperror.New(
		CodeRecordLocked,
		"payroll is locked while Processing or Paid, admin override required",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid payment status transition",
		http.StatusBadRequest,
	)
	ErrConfirmationRequired = apperror.New(
		CodeConfirmationRequired,
		"this transition locks the payroll, resend with confirm=true",
		http.StatusPreconditionRequired,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payment status",
		http.StatusBadRequest,
	)
	ErrEmptyUpdate = apperror.New(
		apperror.CodeInvalidInput,
		"update does not change any field",
		http.StatusBadRequest,
	)
	ErrDeleteLocked = apperror.New(
		CodeRecordLocked,
		"payroll can only be deleted while status is Pending or Failed",
		http.StatusConflict,
	)
	ErrInvalidMoneyValue = apperror.New(
		apperror.CodeInvalidInput,
		"salary component values cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll status filter",
		http.StatusBadRequest,
	)
	ErrOverrideForbidden = apperror.New(
		apperror.CodeForbidden,
		"admin override is not permitted for this actor",
		http.StatusForbidden,
	)
	ErrOverrideReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"override_reason is required when admin_override is set",
		http.StatusBadRequest,
	)
	ErrConcurrentModification = apperror.New(
		CodeConcurrentModification,
		"payroll was modified by another request, reload and retry",
		http.StatusConflict,
	)
	ErrInvariantViolation = apperror.New(
		CodeInvariantViolation,
		"payroll totals are inconsistent",
		http.StatusInternalServerError,
	)
	ErrEmptyBulkSelection = apperror.New(
		apperror.CodeInvalidInput,
		"no payrolls matched the bulk selection",
		http.StatusBadRequest,
	)
)
