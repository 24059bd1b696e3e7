package payroll

import (
	"errors"

	"go-payroll/internal/payroll/engine"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var engineErrors = []struct {
	target error
	mapped *apperror.AppError
}{
	{engine.ErrInvalidPeriod, payrollerrors.ErrInvalidPeriod},
	{engine.ErrInvalidAttendance, payrollerrors.ErrInvalidAttendance},
	{engine.ErrRecordLocked, payrollerrors.ErrRecordLocked},
	{engine.ErrInvariantViolation, payrollerrors.ErrInvariantViolation},
	{engine.ErrInvalidTransition, payrollerrors.ErrInvalidStatusTransition},
	{engine.ErrConfirmationRequired, payrollerrors.ErrConfirmationRequired},
	{engine.ErrInvalidStatus, payrollerrors.ErrInvalidStatus},
	{engine.ErrEmptyEdit, payrollerrors.ErrEmptyUpdate},
}

// mapEngineError keeps the engine's detail message behind the public error code.
func mapEngineError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	for _, e := range engineErrors {
		if errors.Is(err, e.target) {
			return apperror.Wrap(err, e.mapped.Code, e.mapped.Message, e.mapped.HTTPStatus)
		}
	}
	return err
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrPayrollNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return payrollerrors.ErrPayrollAlreadyExists
	}

	return err
}
