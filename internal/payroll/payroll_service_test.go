package payroll_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	kafkaMock "go-payroll/internal/messaging/kafka/mock"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payroll/engine"
	payrollerrors "go-payroll/internal/payroll/errors"
	payrollMock "go-payroll/internal/payroll/mock"
	"go-payroll/internal/rbac"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 4, 30, 9, 0, 0, 0, time.UTC)

type serviceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	service    payroll.Service
	repo       *payrollMock.MockRepository
	outbox     *kafkaMock.MockOutboxRepository
	settings   *payrollMock.MockSettingsProvider
	attendance *payrollMock.MockAttendanceSource
	baseline   *payrollMock.MockBaselineSource
	authorizer *payrollMock.MockOverrideAuthorizer
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	repo := payrollMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)
	settings := payrollMock.NewMockSettingsProvider(ctrl)
	attendance := payrollMock.NewMockAttendanceSource(ctrl)
	baseline := payrollMock.NewMockBaselineSource(ctrl)
	authorizer := payrollMock.NewMockOverrideAuthorizer(ctrl)

	svc := payroll.NewService(db, repo, payroll.Collaborators{
		Outbox:     outboxRepo,
		Settings:   settings,
		Attendance: attendance,
		Baseline:   baseline,
		Authorizer: authorizer,
		Clock:      func() time.Time { return fixedNow },
		// satu worker agar urutan ekspektasi sqlmock deterministik
		BulkLimit: 1,
	})

	settings.EXPECT().
		Snapshot(gomock.Any(), gomock.Any()).
		Return(engine.DefaultSettings(), nil).
		AnyTimes()

	return &serviceDeps{
		db:         db,
		sqlMock:    sqlMock,
		service:    svc,
		repo:       repo,
		outbox:     outboxRepo,
		settings:   settings,
		attendance: attendance,
		baseline:   baseline,
		authorizer: authorizer,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func expectOutbox(deps *serviceDeps, topic string) {
	deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
	deps.outbox.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
			if e.Topic != topic {
				return errors.New("unexpected topic " + e.Topic)
			}
			return kafka.ValidateOutboxEvent(e)
		})
}

func assertAppError(t *testing.T, expected *apperror.AppError, err error) {
	t.Helper()
	var appErr *apperror.AppError
	if assert.True(t, errors.As(err, &appErr), "expected *AppError, got %v", err) {
		assert.Equal(t, expected.Code, appErr.Code)
		assert.Equal(t, expected.Message, appErr.Message)
		assert.Equal(t, expected.HTTPStatus, appErr.HTTPStatus)
	}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func aprilCreate(employeeID string) payroll.CreatePayrollRequest {
	return payroll.CreatePayrollRequest{
		EmployeeID:     employeeID,
		Month:          4,
		Year:           2026,
		Attendance:     &payroll.AttendanceInput{Present: 27, Late: 1, Absent: 1, OnLeave: 1},
		BaselineSalary: decPtr("15300"),
	}
}

// storedPayroll mirrors the row persisted for the April fixture.
func storedPayroll(companyID string, status string, version int64) *payroll.Payroll {
	paidAt := fixedNow.Add(-24 * time.Hour)
	p := &payroll.Payroll{
		ID:                uuid.New(),
		CompanyID:         uuid.MustParse(companyID),
		EmployeeID:        uuid.New(),
		PeriodMonth:       4,
		PeriodYear:        2026,
		DaysInPeriod:      30,
		PresentDays:       27,
		AbsentDays:        1,
		LateDays:          1,
		LeaveDays:         1,
		BaselineSalary:    dec("15300"),
		EffectiveBaseline: dec("15300"),
		ProrationFactor:   dec("0.9333"),
		ProratedBasic:     dec("14279.49"),
		AbsentPenalty:     dec("100"),
		LatePenalty:       dec("25"),
		LeaveDeduction:    dec("45"),
		GrossSalary:       dec("22847.18"),
		TotalDeductions:   dec("730"),
		NetSalary:         dec("22117.18"),
		PaymentStatus:     status,
		Version:           version,
		CreatedBy:         uuid.New(),
	}
	if status == string(engine.StatusPaid) {
		p.PaymentDate = &paidAt
	}
	return p
}

func TestPayrollService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success - explicit attendance and baseline", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New().String()
		req := aprilCreate(employeeID)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmployeeBelongsToCompany(ctx, companyID, employeeID).Return(true, nil)
		deps.repo.EXPECT().HasPeriod(ctx, companyID, employeeID, 4, 2026).Return(false, nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, p *payroll.Payroll) error {
				assert.Equal(t, companyID, p.CompanyID.String())
				assert.Equal(t, "22847.18", p.GrossSalary.StringFixed(2))
				assert.Equal(t, "730.00", p.TotalDeductions.StringFixed(2))
				assert.Equal(t, "22117.18", p.NetSalary.StringFixed(2))
				assert.Equal(t, "0.9333", p.ProrationFactor.String())
				assert.Equal(t, "Pending", p.PaymentStatus)
				assert.Equal(t, int64(1), p.Version)
				// 4 prorated allowances + 4 statutory items
				assert.Len(t, p.Components, 8)
				return nil
			})
		expectOutbox(deps, events.PayrollComputedTopic)

		resp, err := deps.service.Create(ctx, companyID, actorID, req)

		assert.NoError(t, err)
		assert.Equal(t, "22117.18", resp.NetSalary.StringFixed(2))
		assert.Equal(t, 30, resp.DaysInPeriod)
		assert.Equal(t, 28, resp.Attendance.WorkingDays)
		assert.False(t, resp.Locked)
		assert.Empty(t, resp.Warnings)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success - attendance and baseline resolved from sources", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New().String()
		req := payroll.CreatePayrollRequest{EmployeeID: employeeID, Month: 4, Year: 2026}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmployeeBelongsToCompany(ctx, companyID, employeeID).Return(true, nil)
		deps.repo.EXPECT().HasPeriod(ctx, companyID, employeeID, 4, 2026).Return(false, nil)
		deps.attendance.EXPECT().
			MonthlyAttendance(ctx, companyID, employeeID, 4, 2026).
			Return(engine.Attendance{Present: 27, Late: 1, Absent: 1, OnLeave: 1}, nil)
		deps.baseline.EXPECT().
			EffectiveBaseSalary(ctx, companyID, employeeID, time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)).
			Return(decimal.Zero, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		expectOutbox(deps, events.PayrollComputedTopic)

		resp, err := deps.service.Create(ctx, companyID, actorID, req)

		assert.NoError(t, err)
		// fallback baseline equals the fixture baseline
		assert.Equal(t, "22117.18", resp.NetSalary.StringFixed(2))
		if assert.Len(t, resp.Warnings, 1) {
			assert.Equal(t, engine.WarnMissingBaseline, resp.Warnings[0].Code)
		}
	})

	t.Run("fail - duplicate period", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New().String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmployeeBelongsToCompany(ctx, companyID, employeeID).Return(true, nil)
		deps.repo.EXPECT().HasPeriod(ctx, companyID, employeeID, 4, 2026).Return(true, nil)

		_, err := deps.service.Create(ctx, companyID, actorID, aprilCreate(employeeID))

		assert.ErrorIs(t, err, payrollerrors.ErrPayrollAlreadyExists)
	})

	t.Run("fail - unique violation on insert", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New().String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmployeeBelongsToCompany(ctx, companyID, employeeID).Return(true, nil)
		deps.repo.EXPECT().HasPeriod(ctx, companyID, employeeID, 4, 2026).Return(false, nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_payroll_employee_period"})

		_, err := deps.service.Create(ctx, companyID, actorID, aprilCreate(employeeID))

		assert.ErrorIs(t, err, payrollerrors.ErrPayrollAlreadyExists)
	})

	t.Run("fail - employee outside company", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New().String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmployeeBelongsToCompany(ctx, companyID, employeeID).Return(false, nil)

		_, err := deps.service.Create(ctx, companyID, actorID, aprilCreate(employeeID))

		assert.ErrorIs(t, err, payrollerrors.ErrEmployeeNotInCompany)
	})

	t.Run("fail - working days exceed period", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New().String()
		req := aprilCreate(employeeID)
		req.Attendance = &payroll.AttendanceInput{Present: 30, Late: 1}

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmployeeBelongsToCompany(ctx, companyID, employeeID).Return(true, nil)
		deps.repo.EXPECT().HasPeriod(ctx, companyID, employeeID, 4, 2026).Return(false, nil)

		_, err := deps.service.Create(ctx, companyID, actorID, req)

		assertAppError(t, payrollerrors.ErrInvalidAttendance, err)
		assert.ErrorIs(t, err, engine.ErrInvalidAttendance)
	})

	t.Run("fail - negative component", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New().String()
		req := aprilCreate(employeeID)
		req.Bonus = dec("-1")

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().EmployeeBelongsToCompany(ctx, companyID, employeeID).Return(true, nil)
		deps.repo.EXPECT().HasPeriod(ctx, companyID, employeeID, 4, 2026).Return(false, nil)

		_, err := deps.service.Create(ctx, companyID, actorID, req)

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidMoneyValue)
	})

	t.Run("fail - invalid actor", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, companyID, "not-a-uuid", aprilCreate(uuid.New().String()))

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidActorID)
	})
}

func TestPayrollService_Update(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success - pending record recomputes totals", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Pending", 2)
		id := stored.ID.String()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(stored, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any(), int64(2)).
			DoAndReturn(func(_ context.Context, p *payroll.Payroll, v int64) error {
				assert.Equal(t, "23347.18", p.GrossSalary.StringFixed(2))
				assert.Equal(t, "22617.18", p.NetSalary.StringFixed(2))
				p.Version = v + 1
				return nil
			})
		deps.repo.EXPECT().ReplaceComponents(ctx, gomock.Any()).Return(nil)
		expectOutbox(deps, events.PayrollComputedTopic)

		resp, err := deps.service.Update(ctx, companyID, actorID, id, payroll.UpdatePayrollRequest{
			Version: 2,
			Bonus:   decPtr("500"),
		})

		assert.NoError(t, err)
		assert.Equal(t, "22617.18", resp.NetSalary.StringFixed(2))
		assert.Equal(t, int64(3), resp.Version)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("fail - paid record without override is locked", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Paid", 4)
		id := stored.ID.String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(stored, nil)

		_, err := deps.service.Update(ctx, companyID, actorID, id, payroll.UpdatePayrollRequest{
			Version: 4,
			Bonus:   decPtr("500"),
		})

		assertAppError(t, payrollerrors.ErrRecordLocked, err)
		assert.Equal(t, "22117.18", stored.NetSalary.StringFixed(2), "stored row must be untouched")
	})

	t.Run("success - paid record with override appends log", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Paid", 4)
		id := stored.ID.String()

		deps.authorizer.EXPECT().
			Enforce(rbac.EnforceRequest{EmployeeID: actorID, CompanyID: companyID, Resource: "payroll", Action: "override"}).
			Return(true, nil)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(stored, nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any(), int64(4)).Return(nil)
		deps.repo.EXPECT().ReplaceComponents(ctx, gomock.Any()).Return(nil)
		deps.repo.EXPECT().
			AppendOverrideLogs(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, logs []payroll.PayrollOverrideLog) error {
				if assert.Len(t, logs, 1) {
					assert.Equal(t, actorID, logs[0].ActorID)
					assert.Equal(t, "edit", logs[0].Action)
					assert.Equal(t, "bonus", logs[0].Fields)
					assert.Equal(t, "bonus changed while Paid: bank correction", logs[0].Reason)
					assert.Equal(t, fixedNow, logs[0].LoggedAt)
				}
				return nil
			})
		expectOutbox(deps, events.PayrollComputedTopic)

		resp, err := deps.service.Update(ctx, companyID, actorID, id, payroll.UpdatePayrollRequest{
			Version: 4,
			Bonus:   decPtr("500"),
			OverrideInput: payroll.OverrideInput{
				AdminOverride:  true,
				OverrideReason: "bank correction",
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, "Paid", resp.PaymentStatus)
		assert.True(t, resp.Locked)
		assert.Equal(t, "22617.18", resp.NetSalary.StringFixed(2))
	})

	t.Run("fail - override denied by rbac", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.authorizer.EXPECT().Enforce(gomock.Any()).Return(false, nil)

		_, err := deps.service.Update(ctx, companyID, actorID, uuid.New().String(), payroll.UpdatePayrollRequest{
			Version:       1,
			Bonus:         decPtr("500"),
			OverrideInput: payroll.OverrideInput{AdminOverride: true, OverrideReason: "fix"},
		})

		assert.ErrorIs(t, err, payrollerrors.ErrOverrideForbidden)
	})

	t.Run("fail - override without reason", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Update(ctx, companyID, actorID, uuid.New().String(), payroll.UpdatePayrollRequest{
			Version:       1,
			Bonus:         decPtr("500"),
			OverrideInput: payroll.OverrideInput{AdminOverride: true},
		})

		assert.ErrorIs(t, err, payrollerrors.ErrOverrideReasonRequired)
	})

	t.Run("fail - stale version", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Pending", 5)
		id := stored.ID.String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(stored, nil)

		_, err := deps.service.Update(ctx, companyID, actorID, id, payroll.UpdatePayrollRequest{
			Version: 4,
			Bonus:   decPtr("500"),
		})

		assert.ErrorIs(t, err, payrollerrors.ErrConcurrentModification)
	})

	t.Run("fail - concurrent writer wins the row", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Pending", 2)
		id := stored.ID.String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(stored, nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any(), int64(2)).Return(payrollerrors.ErrConcurrentModification)

		_, err := deps.service.Update(ctx, companyID, actorID, id, payroll.UpdatePayrollRequest{
			Version: 2,
			Bonus:   decPtr("500"),
		})

		assert.ErrorIs(t, err, payrollerrors.ErrConcurrentModification)
	})

	t.Run("fail - empty update", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Pending", 1)
		id := stored.ID.String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(stored, nil)

		_, err := deps.service.Update(ctx, companyID, actorID, id, payroll.UpdatePayrollRequest{Version: 1})

		assertAppError(t, payrollerrors.ErrEmptyUpdate, err)
	})

	t.Run("fail - tampered stored totals", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Pending", 1)
		stored.NetSalary = dec("99999")
		id := stored.ID.String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(stored, nil)

		_, err := deps.service.Update(ctx, companyID, actorID, id, payroll.UpdatePayrollRequest{
			Version: 1,
			Bonus:   decPtr("500"),
		})

		assertAppError(t, payrollerrors.ErrInvariantViolation, err)
	})
}

func TestPayrollService_Recalculate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success - refresh attendance", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Failed", 3)
		id := stored.ID.String()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(stored, nil)
		deps.attendance.EXPECT().
			MonthlyAttendance(ctx, companyID, stored.EmployeeID.String(), 4, 2026).
			Return(engine.Attendance{Present: 0, Absent: 30}, nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any(), int64(3)).Return(nil)
		deps.repo.EXPECT().ReplaceComponents(ctx, gomock.Any()).Return(nil)
		expectOutbox(deps, events.PayrollComputedTopic)

		resp, err := deps.service.Recalculate(ctx, companyID, actorID, id, payroll.RecalculatePayrollRequest{
			Version:           3,
			RefreshAttendance: true,
		})

		assert.NoError(t, err)
		assert.Equal(t, "0.1", resp.ProrationFactor.String())
		assert.Equal(t, 30, resp.Attendance.Absent)
		// floor + every statutory item hitting its minimum
		assert.Equal(t, "2448.00", resp.GrossSalary.StringFixed(2))
		assert.Equal(t, "3300.00", resp.TotalDeductions.StringFixed(2))
		assert.Equal(t, "-852.00", resp.NetSalary.StringFixed(2))
		assert.Len(t, resp.Warnings, 3)
	})

	t.Run("fail - processing record without override", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Processing", 3)
		id := stored.ID.String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(stored, nil)

		_, err := deps.service.Recalculate(ctx, companyID, actorID, id, payroll.RecalculatePayrollRequest{Version: 3})

		assertAppError(t, payrollerrors.ErrRecordLocked, err)
	})

	t.Run("fail - not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Recalculate(ctx, companyID, actorID, id, payroll.RecalculatePayrollRequest{Version: 1})

		assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)
	})
}

func TestPayrollService_TransitionStatus(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("fail - locking transition needs confirmation", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Pending", 1)
		id := stored.ID.String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(stored, nil)

		_, err := deps.service.TransitionStatus(ctx, companyID, actorID, id, payroll.TransitionStatusRequest{
			Version: 1,
			Status:  "Processing",
		})

		assertAppError(t, payrollerrors.ErrConfirmationRequired, err)
	})

	t.Run("success - confirmed pending to paid", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Pending", 1)
		id := stored.ID.String()
		rid := "REQ-PAY-1"
		ctx := contextutil.WithRequestID(context.Background(), rid)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(stored, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any(), int64(1)).
			DoAndReturn(func(_ context.Context, p *payroll.Payroll, v int64) error {
				assert.Equal(t, "Paid", p.PaymentStatus)
				assert.Equal(t, "bank_transfer", p.PaymentMethod)
				if assert.NotNil(t, p.PaymentDate) {
					assert.Equal(t, fixedNow, *p.PaymentDate)
				}
				assert.Equal(t, "22117.18", p.NetSalary.StringFixed(2))
				p.Version = v + 1
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
				assert.Equal(t, rid, e.RequestID)
				assert.Equal(t, events.PayrollStatusChangedTopic, e.Topic)
				var payload events.PayrollStatusChangedEvent
				assert.NoError(t, json.Unmarshal(e.Payload, &payload))
				assert.Equal(t, "Pending", payload.From)
				assert.Equal(t, "Paid", payload.To)
				assert.False(t, payload.Override)
				return nil
			})

		resp, err := deps.service.TransitionStatus(ctx, companyID, actorID, id, payroll.TransitionStatusRequest{
			Version:       1,
			Status:        "Paid",
			Confirm:       true,
			PaymentMethod: "bank_transfer",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Paid", resp.PaymentStatus)
		assert.True(t, resp.Locked)
		assert.NotNil(t, resp.PaymentDate)
	})

	t.Run("fail - paid back to pending without override", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Paid", 2)
		id := stored.ID.String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(stored, nil)

		_, err := deps.service.TransitionStatus(ctx, companyID, actorID, id, payroll.TransitionStatusRequest{
			Version: 2,
			Status:  "Pending",
		})

		assertAppError(t, payrollerrors.ErrRecordLocked, err)
	})

	t.Run("success - paid reversal under override", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Paid", 2)
		id := stored.ID.String()

		deps.authorizer.EXPECT().Enforce(gomock.Any()).Return(true, nil)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(stored, nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any(), int64(2)).Return(nil)
		deps.repo.EXPECT().
			AppendOverrideLogs(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, logs []payroll.PayrollOverrideLog) error {
				if assert.Len(t, logs, 1) {
					assert.Equal(t, "status Paid -> Pending", logs[0].Action)
					assert.Equal(t, "payment_status", logs[0].Fields)
				}
				return nil
			})
		expectOutbox(deps, events.PayrollStatusChangedTopic)

		resp, err := deps.service.TransitionStatus(ctx, companyID, actorID, id, payroll.TransitionStatusRequest{
			Version: 2,
			Status:  "Pending",
			OverrideInput: payroll.OverrideInput{
				AdminOverride:  true,
				OverrideReason: "payment bounced",
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, "Pending", resp.PaymentStatus)
		assert.Nil(t, resp.PaymentDate)
	})

	t.Run("fail - unknown status", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.TransitionStatus(ctx, companyID, actorID, uuid.New().String(), payroll.TransitionStatusRequest{
			Version: 1,
			Status:  "Archived",
		})

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatus)
	})
}

func TestPayrollService_BulkMarkPaid(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("fail - confirmation required up front", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.BulkMarkPaid(ctx, companyID, actorID, payroll.BulkMarkPaidRequest{
			PayrollIDs: []string{uuid.New().String()},
		})

		assert.ErrorIs(t, err, payrollerrors.ErrConfirmationRequired)
	})

	t.Run("partial - failures do not abort the batch", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		processing := storedPayroll(companyID, "Processing", 2)
		alreadyPaid := storedPayroll(companyID, "Paid", 5)

		// record 1 berhasil, record 2 ditolak
		expectTx(t, deps.sqlMock, true)
		expectTx(t, deps.sqlMock, false)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo).Times(2)
		deps.repo.EXPECT().FindByIDAndCompany(gomock.Any(), companyID, processing.ID.String()).Return(processing, nil)
		deps.repo.EXPECT().Update(gomock.Any(), processing, int64(2)).Return(nil)
		expectOutbox(deps, events.PayrollStatusChangedTopic)
		deps.repo.EXPECT().FindByIDAndCompany(gomock.Any(), companyID, alreadyPaid.ID.String()).Return(alreadyPaid, nil)

		resp, err := deps.service.BulkMarkPaid(ctx, companyID, actorID, payroll.BulkMarkPaidRequest{
			PayrollIDs:    []string{processing.ID.String(), alreadyPaid.ID.String(), processing.ID.String()},
			Confirm:       true,
			PaymentMethod: "bank_transfer",
		})

		assert.NoError(t, err)
		if assert.Len(t, resp.Succeeded, 1) {
			assert.Equal(t, "Paid", resp.Succeeded[0].PaymentStatus)
		}
		if assert.Len(t, resp.Failed, 1) {
			assert.Equal(t, alreadyPaid.ID.String(), resp.Failed[0].PayrollID)
			assert.Equal(t, apperror.CodeInvalidState, resp.Failed[0].Code)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPayrollService_BulkRecalculate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("locked records are reported, open ones recalculated", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		open := storedPayroll(companyID, "Pending", 1)
		locked := storedPayroll(companyID, "Paid", 1)

		deps.repo.EXPECT().
			FindAllByCompany(ctx, companyID, payroll.PayrollQueryFilter{Month: 4, Year: 2026}).
			Return([]payroll.Payroll{*open, *locked}, nil)

		expectTx(t, deps.sqlMock, true)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo).Times(2)
		deps.repo.EXPECT().FindByIDAndCompany(gomock.Any(), companyID, open.ID.String()).Return(open, nil)
		deps.repo.EXPECT().Update(gomock.Any(), open, int64(1)).Return(nil)
		deps.repo.EXPECT().ReplaceComponents(gomock.Any(), open).Return(nil)
		expectOutbox(deps, events.PayrollComputedTopic)
		deps.repo.EXPECT().FindByIDAndCompany(gomock.Any(), companyID, locked.ID.String()).Return(locked, nil)

		resp, err := deps.service.BulkRecalculate(ctx, companyID, actorID, payroll.BulkRecalculateRequest{Month: 4, Year: 2026})

		assert.NoError(t, err)
		assert.Len(t, resp.Succeeded, 1)
		if assert.Len(t, resp.Failed, 1) {
			assert.Equal(t, payrollerrors.CodeRecordLocked, resp.Failed[0].Code)
		}
	})

	t.Run("fail - nothing selected", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindAllByCompany(ctx, companyID, gomock.Any()).
			Return([]payroll.Payroll{}, nil)

		_, err := deps.service.BulkRecalculate(ctx, companyID, actorID, payroll.BulkRecalculateRequest{Month: 4, Year: 2026})

		assert.ErrorIs(t, err, payrollerrors.ErrEmptyBulkSelection)
	})
}

func TestPayrollService_RecalculateOpenPeriod(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	companyA := uuid.New().String()
	companyB := uuid.New().String()
	first := storedPayroll(companyA, "Pending", 1)
	second := storedPayroll(companyB, "Failed", 1)

	deps.repo.EXPECT().FindUnlockedByPeriod(ctx, 4, 2026).Return([]payroll.Payroll{*first, *second}, nil)

	for _, p := range []*payroll.Payroll{first, second} {
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, p.CompanyID.String(), p.ID.String()).Return(p, nil)
		deps.repo.EXPECT().Update(ctx, p, int64(1)).Return(nil)
		deps.repo.EXPECT().ReplaceComponents(ctx, p).Return(nil)
		expectOutbox(deps, events.PayrollComputedTopic)
	}

	updated, err := deps.service.RecalculateOpenPeriod(ctx, 4, 2026)

	assert.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_SyncAttendance(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("no payroll yet is a no-op", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New().String()
		deps.repo.EXPECT().
			FindByEmployeePeriod(ctx, companyID, employeeID, 4, 2026).
			Return(nil, gorm.ErrRecordNotFound)

		err := deps.service.SyncAttendance(ctx, events.AttendancePeriodClosedEvent{
			CompanyID:  companyID,
			EmployeeID: employeeID,
			Month:      4,
			Year:       2026,
		})

		assert.NoError(t, err)
	})

	t.Run("locked payroll is skipped", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Paid", 1)
		deps.repo.EXPECT().
			FindByEmployeePeriod(ctx, companyID, stored.EmployeeID.String(), 4, 2026).
			Return(stored, nil)

		err := deps.service.SyncAttendance(ctx, events.AttendancePeriodClosedEvent{
			CompanyID:  companyID,
			EmployeeID: stored.EmployeeID.String(),
			Month:      4,
			Year:       2026,
		})

		assert.NoError(t, err)
	})
}

func TestPayrollService_GetBreakdown(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	companyID := uuid.New().String()
	stored := storedPayroll(companyID, "Processing", 1)
	stored.Components = []payroll.PayrollComponent{
		{ComponentType: payroll.ComponentAllowance, ComponentName: "housing", Amount: dec("5711.80"), Prorated: true},
		{ComponentType: payroll.ComponentStatutory, ComponentName: "provident_fund", Amount: dec("233"), Prorated: true},
		{ComponentType: payroll.ComponentDiscretionary, ComponentName: "loan_repayment", Amount: dec("100")},
	}
	stored.OverrideLogs = []payroll.PayrollOverrideLog{
		{ActorID: "admin", Action: "recalculate", Reason: "changed while Processing", LoggedAt: fixedNow},
	}

	deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, stored.ID.String()).Return(stored, nil)

	resp, err := deps.service.GetBreakdown(ctx, companyID, stored.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, "Processing", resp.Status)
	assert.Equal(t, "22847.18", resp.Earnings.GrossSalary.StringFixed(2))
	assert.Equal(t, "22117.18", resp.NetSalary.StringFixed(2))
	assert.Len(t, resp.Earnings.Allowances, 1)
	assert.Len(t, resp.Deductions.Statutory, 1)
	assert.Len(t, resp.Deductions.Discretionary, 1)
	if assert.Len(t, resp.OverrideLog, 1) {
		assert.Equal(t, "recalculate", resp.OverrideLog[0].Action)
	}
}

func TestPayrollService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Pending", 1)
		id := stored.ID.String()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(stored, nil)
		deps.repo.EXPECT().Delete(ctx, companyID, id).Return(nil)

		assert.NoError(t, deps.service.Delete(ctx, companyID, id))
	})

	t.Run("fail - locked", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		stored := storedPayroll(companyID, "Paid", 1)
		id := stored.ID.String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(stored, nil)

		err := deps.service.Delete(ctx, companyID, id)

		assert.ErrorIs(t, err, payrollerrors.ErrDeleteLocked)
	})
}

func TestPayrollService_RenderPayslip(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	companyID := uuid.New().String()
	stored := storedPayroll(companyID, "Paid", 1)
	stored.PaymentMethod = "bank_transfer"

	deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, stored.ID.String()).Return(stored, nil)

	content, filename, err := deps.service.RenderPayslip(ctx, companyID, stored.ID.String())

	assert.NoError(t, err)
	assert.Contains(t, filename, "payslip-2026-04-")
	assert.True(t, len(content) > 4)
	assert.Equal(t, "%PDF", string(content[:4]))
}
