package payrollsettingserrors

import (
	"go-payroll/internal/shared/apperror"
	"net/http"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)

	ErrInvalidSettings = apperror.New(
		apperror.CodeInvalidInput,
		"Payroll settings are invalid",
		http.StatusBadRequest,
	)

	ErrVersionConflict = apperror.New(
		apperror.CodeConflict,
		"Payroll settings were changed by another request, reload and retry",
		http.StatusConflict,
	)
)
