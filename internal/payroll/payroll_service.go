package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll/engine"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/rbac"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	defaultBulkLimit = 4
	systemActor      = "system"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreatePayrollRequest) (PayrollResponse, error)
	GetAll(ctx context.Context, companyID string, filter GetPayrollsFilterRequest) ([]PayrollResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error)
	GetBreakdown(ctx context.Context, companyID, id string) (PayrollBreakdownResponse, error)
	Update(ctx context.Context, companyID, actorID, id string, req UpdatePayrollRequest) (PayrollResponse, error)
	Recalculate(ctx context.Context, companyID, actorID, id string, req RecalculatePayrollRequest) (PayrollResponse, error)
	TransitionStatus(ctx context.Context, companyID, actorID, id string, req TransitionStatusRequest) (PayrollResponse, error)
	BulkRecalculate(ctx context.Context, companyID, actorID string, req BulkRecalculateRequest) (BulkResultResponse, error)
	BulkMarkPaid(ctx context.Context, companyID, actorID string, req BulkMarkPaidRequest) (BulkResultResponse, error)
	RecalculateOpenPeriod(ctx context.Context, month, year int) (int, error)
	SyncAttendance(ctx context.Context, event events.AttendancePeriodClosedEvent) error
	RenderPayslip(ctx context.Context, companyID, id string) ([]byte, string, error)
	Delete(ctx context.Context, companyID, id string) error
}

// SettingsProvider hands out an immutable settings snapshot per company.
type SettingsProvider interface {
	Snapshot(ctx context.Context, companyID string) (engine.Settings, error)
}

type AttendanceSource interface {
	MonthlyAttendance(ctx context.Context, companyID, employeeID string, month, year int) (engine.Attendance, error)
}

// BaselineSource returns zero when the employee has no salary on record.
type BaselineSource interface {
	EffectiveBaseSalary(ctx context.Context, companyID, employeeID string, asOf time.Time) (decimal.Decimal, error)
}

type OverrideAuthorizer interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

type Collaborators struct {
	Outbox     kafka.OutboxRepository
	Settings   SettingsProvider
	Attendance AttendanceSource
	Baseline   BaselineSource
	Authorizer OverrideAuthorizer
	Clock      func() time.Time
	BulkLimit  int
}

type service struct {
	db         *sql.DB
	repo       Repository
	outbox     kafka.OutboxRepository
	settings   SettingsProvider
	attendance AttendanceSource
	baseline   BaselineSource
	authorizer OverrideAuthorizer
	now        func() time.Time
	bulkLimit  int
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Collaborators, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}

	s := &service{
		db:         db,
		repo:       repo,
		outbox:     deps.Outbox,
		settings:   deps.Settings,
		attendance: deps.Attendance,
		baseline:   deps.Baseline,
		authorizer: deps.Authorizer,
		now:        deps.Clock,
		bulkLimit:  deps.BulkLimit,
		logger:     l,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.bulkLimit <= 0 {
		s.bulkLimit = defaultBulkLimit
	}
	return s
}

func (s *service) snapshot(ctx context.Context, companyID string) (engine.Settings, error) {
	if s.settings == nil {
		return engine.DefaultSettings(), nil
	}
	return s.settings.Snapshot(ctx, companyID)
}

func (s *service) authorize(companyID, actorID string, in OverrideInput) (engine.AuthContext, error) {
	auth := engine.AuthContext{ActorID: actorID}
	if !in.AdminOverride {
		return auth, nil
	}
	if strings.TrimSpace(in.OverrideReason) == "" {
		return engine.AuthContext{}, payrollerrors.ErrOverrideReasonRequired
	}
	if s.authorizer == nil {
		return engine.AuthContext{}, payrollerrors.ErrOverrideForbidden
	}

	allowed, err := s.authorizer.Enforce(rbac.EnforceRequest{
		EmployeeID: actorID,
		CompanyID:  companyID,
		Resource:   rbac.ResourcePayroll,
		Action:     rbac.ActionOverride,
	})
	if err != nil {
		return engine.AuthContext{}, err
	}
	if !allowed {
		return engine.AuthContext{}, payrollerrors.ErrOverrideForbidden
	}

	auth.Override = true
	auth.Reason = strings.TrimSpace(in.OverrideReason)
	return auth, nil
}

func (s *service) Create(
	ctx context.Context,
	companyID, actorID string,
	req CreatePayrollRequest,
) (PayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create payroll requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
	)

	companyUUID, employeeUUID, createdByUUID, err := validateCreateRequest(companyID, actorID, req)
	if err != nil {
		return PayrollResponse{}, err
	}

	settings, err := s.snapshot(ctx, companyID)
	if err != nil {
		s.logger.Error("create payroll load settings failed", zap.String("request_id", rid), zap.Error(err))
		return PayrollResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create payroll begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return PayrollResponse{}, err
	}
	if !belongs {
		return PayrollResponse{}, payrollerrors.ErrEmployeeNotInCompany
	}

	exists, err := qtx.HasPeriod(ctx, companyID, req.EmployeeID, req.Month, req.Year)
	if err != nil {
		return PayrollResponse{}, err
	}
	if exists {
		return PayrollResponse{}, payrollerrors.ErrPayrollAlreadyExists
	}

	rec, err := s.newRecord(ctx, companyID, req)
	if err != nil {
		return PayrollResponse{}, err
	}

	out, err := engine.Compute(rec, settings)
	if err != nil {
		s.logger.Warn("create payroll compute rejected",
			zap.String("employee_id", req.EmployeeID),
			zap.Error(err),
		)
		return PayrollResponse{}, mapEngineError(err)
	}

	payroll := &Payroll{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		Version:    1,
		CreatedBy:  createdByUUID,
	}
	applyRecord(payroll, out, settings)

	if err := qtx.Create(ctx, payroll); err != nil {
		s.logger.Error("create payroll persist failed", zap.String("request_id", rid), zap.Error(err))
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if err := s.publishComputed(ctx, tx, *payroll, out.Warnings, events.TriggerCreate); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create payroll commit failed", zap.String("request_id", rid), zap.Error(err))
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll created",
		zap.String("request_id", rid),
		zap.String("payroll_id", payroll.ID.String()),
		zap.String("net_salary", payroll.NetSalary.StringFixed(2)),
		zap.Int("warnings", len(out.Warnings)),
	)
	return mapToResponse(*payroll, out.Warnings), nil
}

// newRecord resolves attendance and baseline from their sources when the
// request leaves them out.
func (s *service) newRecord(ctx context.Context, companyID string, req CreatePayrollRequest) (engine.Record, error) {
	period := engine.Period{
		Month: req.Month,
		Year:  req.Year,
		Days:  engine.DaysInMonth(req.Month, req.Year),
	}

	var att engine.Attendance
	switch {
	case req.Attendance != nil:
		att = req.Attendance.toEngine()
	case s.attendance != nil:
		summary, err := s.attendance.MonthlyAttendance(ctx, companyID, req.EmployeeID, req.Month, req.Year)
		if err != nil {
			return engine.Record{}, err
		}
		att = summary
	}

	var baseline decimal.Decimal
	switch {
	case req.BaselineSalary != nil:
		baseline = *req.BaselineSalary
	case s.baseline != nil:
		periodEnd := time.Date(req.Year, time.Month(req.Month), period.Days, 0, 0, 0, 0, time.UTC)
		v, err := s.baseline.EffectiveBaseSalary(ctx, companyID, req.EmployeeID, periodEnd)
		if err != nil {
			return engine.Record{}, err
		}
		baseline = v
	}

	rec := engine.Record{
		Period:         period,
		Attendance:     att,
		BaselineSalary: baseline,
		Allowances:     req.Allowances,
		Bonus:          req.Bonus,
		StatutoryBase:  req.StatutoryDeductions,
		Discretionary:  req.DiscretionaryDeductions,
		Status:         engine.StatusPending,
		PaymentMethod:  req.PaymentMethod,
		Remarks:        req.Remarks,
	}
	if req.Overtime != nil {
		rec.Overtime = req.Overtime.toEngine()
	}

	if err := validateMoney(rec); err != nil {
		return engine.Record{}, err
	}
	return rec, nil
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
	filter GetPayrollsFilterRequest,
) ([]PayrollResponse, error) {
	if filter.Status != "" {
		if _, err := engine.ParseStatus(filter.Status); err != nil {
			return nil, payrollerrors.ErrInvalidStatusFilter
		}
	}

	payrolls, err := s.repo.FindAllByCompany(ctx, companyID, PayrollQueryFilter{
		Month:      filter.Month,
		Year:       filter.Year,
		Status:     filter.Status,
		EmployeeID: filter.EmployeeID,
	})
	if err != nil {
		return nil, err
	}

	return mapToListResponse(payrolls), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (PayrollResponse, error) {
	payroll, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*payroll, storedWarnings(*payroll)), nil
}

func (s *service) GetBreakdown(
	ctx context.Context,
	companyID, id string,
) (PayrollBreakdownResponse, error) {
	payroll, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollBreakdownResponse{}, mapRepositoryError(err)
	}

	return mapToBreakdown(*payroll), nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, actorID, id string,
	req UpdatePayrollRequest,
) (PayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(actorID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}

	auth, err := s.authorize(companyID, actorID, req.OverrideInput)
	if err != nil {
		return PayrollResponse{}, err
	}

	edit := req.toEdit()
	if err := validateEdit(edit); err != nil {
		return PayrollResponse{}, err
	}

	settings, err := s.snapshot(ctx, companyID)
	if err != nil {
		return PayrollResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update payroll begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	payroll, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if payroll.Version != req.Version {
		return PayrollResponse{}, payrollerrors.ErrConcurrentModification
	}

	before, err := toRecord(*payroll)
	if err != nil {
		return PayrollResponse{}, s.invariantFailure(payroll, err)
	}

	after, err := engine.ApplyEdit(before, edit, settings, auth, s.now())
	if err != nil {
		s.logger.Warn("update payroll rejected",
			zap.String("payroll_id", id),
			zap.String("status", payroll.PaymentStatus),
			zap.Error(err),
		)
		return PayrollResponse{}, mapEngineError(err)
	}

	if err := s.persist(ctx, qtx, payroll, before, after, settings, actorID); err != nil {
		return PayrollResponse{}, err
	}
	if err := s.publishComputed(ctx, tx, *payroll, after.Warnings, events.TriggerEdit); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update payroll commit failed", zap.String("request_id", rid), zap.Error(err))
		return PayrollResponse{}, err
	}

	if auth.Override {
		s.logger.Info("payroll edited under override",
			zap.String("request_id", rid),
			zap.String("payroll_id", id),
			zap.String("actor_id", actorID),
			zap.Strings("fields", edit.Fields()),
		)
	}
	return mapToResponse(*payroll, after.Warnings), nil
}

func (s *service) Recalculate(
	ctx context.Context,
	companyID, actorID, id string,
	req RecalculatePayrollRequest,
) (PayrollResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}

	auth, err := s.authorize(companyID, actorID, req.OverrideInput)
	if err != nil {
		return PayrollResponse{}, err
	}

	settings, err := s.snapshot(ctx, companyID)
	if err != nil {
		return PayrollResponse{}, err
	}

	version := req.Version
	return s.recalculateOne(ctx, companyID, id, recalcOptions{
		auth:              auth,
		settings:          settings,
		expectedVersion:   &version,
		refreshAttendance: req.RefreshAttendance,
		trigger:           events.TriggerRecalculate,
	})
}

type recalcOptions struct {
	auth              engine.AuthContext
	settings          engine.Settings
	expectedVersion   *int64
	refreshAttendance bool
	trigger           string
}

func (s *service) recalculateOne(ctx context.Context, companyID, id string, opts recalcOptions) (PayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("recalculate payroll begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	payroll, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if opts.expectedVersion != nil && payroll.Version != *opts.expectedVersion {
		return PayrollResponse{}, payrollerrors.ErrConcurrentModification
	}

	before, err := toRecord(*payroll)
	if err != nil {
		return PayrollResponse{}, s.invariantFailure(payroll, err)
	}

	input := before
	if opts.refreshAttendance && s.attendance != nil {
		att, err := s.attendance.MonthlyAttendance(ctx, companyID, payroll.EmployeeID.String(), payroll.PeriodMonth, payroll.PeriodYear)
		if err != nil {
			return PayrollResponse{}, err
		}
		input.Attendance = att
		// attendance changed, stored totals are no longer trustworthy
		input.Totals = engine.Totals{}
	}

	after, err := engine.Recalculate(input, opts.settings, opts.auth, s.now())
	if err != nil {
		return PayrollResponse{}, mapEngineError(err)
	}

	if err := s.persist(ctx, qtx, payroll, before, after, opts.settings, opts.auth.ActorID); err != nil {
		return PayrollResponse{}, err
	}
	if err := s.publishComputed(ctx, tx, *payroll, after.Warnings, opts.trigger); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("recalculate payroll commit failed", zap.String("request_id", rid), zap.Error(err))
		return PayrollResponse{}, err
	}

	s.logger.Debug("payroll recalculated",
		zap.String("request_id", rid),
		zap.String("payroll_id", id),
		zap.String("trigger", opts.trigger),
		zap.Int64("settings_version", opts.settings.Version),
	)
	return mapToResponse(*payroll, after.Warnings), nil
}

func (s *service) TransitionStatus(
	ctx context.Context,
	companyID, actorID, id string,
	req TransitionStatusRequest,
) (PayrollResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}

	to, err := engine.ParseStatus(req.Status)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidStatus
	}

	auth, err := s.authorize(companyID, actorID, req.OverrideInput)
	if err != nil {
		return PayrollResponse{}, err
	}

	version := req.Version
	return s.transitionOne(ctx, companyID, id, engine.TransitionRequest{
		To:            to,
		Confirmed:     req.Confirm,
		PaymentMethod: req.PaymentMethod,
	}, auth, &version)
}

func (s *service) transitionOne(
	ctx context.Context,
	companyID, id string,
	tr engine.TransitionRequest,
	auth engine.AuthContext,
	expectedVersion *int64,
) (PayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition payroll begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	payroll, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if expectedVersion != nil && payroll.Version != *expectedVersion {
		return PayrollResponse{}, payrollerrors.ErrConcurrentModification
	}

	before, err := toRecord(*payroll)
	if err != nil {
		return PayrollResponse{}, s.invariantFailure(payroll, err)
	}

	after, err := engine.Transition(before, tr, auth, s.now())
	if err != nil {
		return PayrollResponse{}, mapEngineError(err)
	}

	from := payroll.PaymentStatus
	if err := s.persistStatus(ctx, qtx, payroll, before, after, auth.ActorID); err != nil {
		return PayrollResponse{}, err
	}

	if err := s.publish(ctx, tx, payroll.ID.String(), events.PayrollStatusChangedTopic, events.PayrollStatusChangedEvent{
		EventType:     "payroll_status_changed",
		RequestID:     rid,
		PayrollID:     payroll.ID.String(),
		CompanyID:     payroll.CompanyID.String(),
		EmployeeID:    payroll.EmployeeID.String(),
		From:          from,
		To:            payroll.PaymentStatus,
		PaymentMethod: payroll.PaymentMethod,
		NetSalary:     payroll.NetSalary.StringFixed(2),
		ActorID:       auth.ActorID,
		Override:      len(after.OverrideLog) > len(before.OverrideLog),
		OccurredAt:    s.now().UTC(),
	}); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition payroll commit failed", zap.String("request_id", rid), zap.Error(err))
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll status changed",
		zap.String("request_id", rid),
		zap.String("payroll_id", id),
		zap.String("from", from),
		zap.String("to", payroll.PaymentStatus),
		zap.String("actor_id", auth.ActorID),
	)
	return mapToResponse(*payroll, storedWarnings(*payroll)), nil
}

func (s *service) BulkRecalculate(
	ctx context.Context,
	companyID, actorID string,
	req BulkRecalculateRequest,
) (BulkResultResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return BulkResultResponse{}, payrollerrors.ErrInvalidActorID
	}

	var (
		payrolls []Payroll
		err      error
	)
	if len(req.PayrollIDs) > 0 {
		payrolls, err = s.repo.FindByIDsAndCompany(ctx, companyID, req.PayrollIDs)
	} else {
		payrolls, err = s.repo.FindAllByCompany(ctx, companyID, PayrollQueryFilter{Month: req.Month, Year: req.Year})
	}
	if err != nil {
		return BulkResultResponse{}, err
	}

	ids := make([]string, 0, len(payrolls))
	for _, p := range payrolls {
		if p.PeriodMonth != req.Month || p.PeriodYear != req.Year {
			continue
		}
		ids = append(ids, p.ID.String())
	}
	if len(ids) == 0 {
		return BulkResultResponse{}, payrollerrors.ErrEmptyBulkSelection
	}

	// satu snapshot untuk seluruh batch
	settings, err := s.snapshot(ctx, companyID)
	if err != nil {
		return BulkResultResponse{}, err
	}

	auth := engine.AuthContext{ActorID: actorID}
	return s.runBulk(ctx, ids, func(ctx context.Context, id string) (PayrollResponse, error) {
		return s.recalculateOne(ctx, companyID, id, recalcOptions{
			auth:     auth,
			settings: settings,
			trigger:  events.TriggerBulk,
		})
	})
}

func (s *service) BulkMarkPaid(
	ctx context.Context,
	companyID, actorID string,
	req BulkMarkPaidRequest,
) (BulkResultResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return BulkResultResponse{}, payrollerrors.ErrInvalidActorID
	}
	if !req.Confirm {
		return BulkResultResponse{}, payrollerrors.ErrConfirmationRequired
	}
	if len(req.PayrollIDs) == 0 {
		return BulkResultResponse{}, payrollerrors.ErrEmptyBulkSelection
	}

	auth := engine.AuthContext{ActorID: actorID}
	tr := engine.TransitionRequest{
		To:            engine.StatusPaid,
		Confirmed:     true,
		PaymentMethod: req.PaymentMethod,
	}
	return s.runBulk(ctx, dedupe(req.PayrollIDs), func(ctx context.Context, id string) (PayrollResponse, error) {
		return s.transitionOne(ctx, companyID, id, tr, auth, nil)
	})
}

// runBulk processes every id in its own transaction. A failing record is
// reported and never aborts the rest of the batch.
func (s *service) runBulk(
	ctx context.Context,
	ids []string,
	fn func(ctx context.Context, id string) (PayrollResponse, error),
) (BulkResultResponse, error) {
	results := make([]*PayrollResponse, len(ids))
	failures := make([]*BulkFailure, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.bulkLimit)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			resp, err := fn(gctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				httpErr := apperror.ToHTTP(err)
				failures[i] = &BulkFailure{PayrollID: id, Code: httpErr.Code, Message: httpErr.Message}
				s.logger.Warn("bulk payroll item failed", zap.String("payroll_id", id), zap.Error(err))
				return nil
			}
			results[i] = &resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BulkResultResponse{}, err
	}

	out := BulkResultResponse{Succeeded: []PayrollResponse{}, Failed: []BulkFailure{}}
	for i := range ids {
		if results[i] != nil {
			out.Succeeded = append(out.Succeeded, *results[i])
		}
		if failures[i] != nil {
			out.Failed = append(out.Failed, *failures[i])
		}
	}
	return out, nil
}

// RecalculateOpenPeriod refreshes every unlocked payroll of the period across
// all companies with each company's current settings snapshot.
func (s *service) RecalculateOpenPeriod(ctx context.Context, month, year int) (int, error) {
	payrolls, err := s.repo.FindUnlockedByPeriod(ctx, month, year)
	if err != nil {
		return 0, err
	}

	snapshots := map[string]engine.Settings{}
	updated := 0
	for _, p := range payrolls {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		companyID := p.CompanyID.String()
		settings, ok := snapshots[companyID]
		if !ok {
			settings, err = s.snapshot(ctx, companyID)
			if err != nil {
				return updated, err
			}
			snapshots[companyID] = settings
		}

		if _, err := s.recalculateOne(ctx, companyID, p.ID.String(), recalcOptions{
			auth:     engine.AuthContext{ActorID: systemActor},
			settings: settings,
			trigger:  events.TriggerScheduled,
		}); err != nil {
			// a record locked between listing and recalculation is skipped
			s.logger.Warn("scheduled recalculation skipped payroll",
				zap.String("payroll_id", p.ID.String()),
				zap.Error(err),
			)
			continue
		}
		updated++
	}

	s.logger.Info("open period recalculated",
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("candidates", len(payrolls)),
		zap.Int("updated", updated),
	)
	return updated, nil
}

// SyncAttendance refreshes attendance counts of unlocked payrolls after the
// attendance module closes a month. Locked payrolls are left untouched.
func (s *service) SyncAttendance(ctx context.Context, event events.AttendancePeriodClosedEvent) error {
	var payrolls []Payroll
	if event.EmployeeID != "" {
		p, err := s.repo.FindByEmployeePeriod(ctx, event.CompanyID, event.EmployeeID, event.Month, event.Year)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		payrolls = append(payrolls, *p)
	} else {
		list, err := s.repo.FindAllByCompany(ctx, event.CompanyID, PayrollQueryFilter{Month: event.Month, Year: event.Year})
		if err != nil {
			return err
		}
		payrolls = list
	}

	settings, err := s.snapshot(ctx, event.CompanyID)
	if err != nil {
		return err
	}

	actor := event.ClosedBy
	if actor == "" {
		actor = systemActor
	}
	for _, p := range payrolls {
		if engine.IsLocked(engine.PaymentStatus(p.PaymentStatus)) {
			s.logger.Info("attendance closed for locked payroll, skipping",
				zap.String("payroll_id", p.ID.String()),
				zap.String("status", p.PaymentStatus),
			)
			continue
		}
		if _, err := s.recalculateOne(ctx, event.CompanyID, p.ID.String(), recalcOptions{
			auth:              engine.AuthContext{ActorID: actor},
			settings:          settings,
			refreshAttendance: true,
			trigger:           events.TriggerAttendance,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) Delete(
	ctx context.Context,
	companyID, id string,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	payroll, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if engine.IsLocked(engine.PaymentStatus(payroll.PaymentStatus)) {
		return payrollerrors.ErrDeleteLocked
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}

	return tx.Commit()
}

// persist writes the recomputed record guarded by the version read earlier.
func (s *service) persist(
	ctx context.Context,
	qtx Repository,
	payroll *Payroll,
	before, after engine.Record,
	settings engine.Settings,
	actorID string,
) error {
	expected := payroll.Version
	applyRecord(payroll, after, settings)
	payroll.UpdatedBy = actorUUID(actorID)

	if err := qtx.Update(ctx, payroll, expected); err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.ReplaceComponents(ctx, payroll); err != nil {
		return err
	}
	return s.appendLogs(ctx, qtx, payroll, before, after)
}

// persistStatus leaves the computed columns and components as stored.
func (s *service) persistStatus(
	ctx context.Context,
	qtx Repository,
	payroll *Payroll,
	before, after engine.Record,
	actorID string,
) error {
	expected := payroll.Version
	payroll.PaymentStatus = string(after.Status)
	payroll.PaymentMethod = after.PaymentMethod
	payroll.PaymentDate = after.PaymentDate
	payroll.UpdatedBy = actorUUID(actorID)

	if err := qtx.Update(ctx, payroll, expected); err != nil {
		return mapRepositoryError(err)
	}
	return s.appendLogs(ctx, qtx, payroll, before, after)
}

func (s *service) appendLogs(ctx context.Context, qtx Repository, payroll *Payroll, before, after engine.Record) error {
	logs := newOverrideLogs(*payroll, before, after)
	if len(logs) == 0 {
		return nil
	}
	if err := qtx.AppendOverrideLogs(ctx, logs); err != nil {
		return err
	}
	payroll.OverrideLogs = append(payroll.OverrideLogs, logs...)
	return nil
}

func (s *service) publishComputed(ctx context.Context, tx *sql.Tx, p Payroll, warnings []engine.Warning, trigger string) error {
	codes := make([]string, 0, len(warnings))
	for _, w := range warnings {
		codes = append(codes, w.Code+":"+w.Component)
	}
	return s.publish(ctx, tx, p.ID.String(), events.PayrollComputedTopic, events.PayrollComputedEvent{
		EventType:       "payroll_computed",
		RequestID:       contextutil.GetRequestID(ctx),
		PayrollID:       p.ID.String(),
		CompanyID:       p.CompanyID.String(),
		EmployeeID:      p.EmployeeID.String(),
		Month:           p.PeriodMonth,
		Year:            p.PeriodYear,
		GrossSalary:     p.GrossSalary.StringFixed(2),
		TotalDeductions: p.TotalDeductions.StringFixed(2),
		NetSalary:       p.NetSalary.StringFixed(2),
		SettingsVersion: p.SettingsVer,
		Trigger:         trigger,
		Warnings:        codes,
		OccurredAt:      s.now().UTC(),
	})
}

func (s *service) publish(ctx context.Context, tx *sql.Tx, aggregateID, topic string, event any) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	eventType := topic
	switch e := event.(type) {
	case events.PayrollComputedEvent:
		eventType = e.EventType
	case events.PayrollStatusChangedEvent:
		eventType = e.EventType
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "payroll",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("payroll outbox persist failed",
			zap.String("payroll_id", aggregateID),
			zap.String("topic", topic),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invariantFailure(p *Payroll, err error) error {
	s.logger.Error("stored payroll totals are inconsistent",
		zap.String("payroll_id", p.ID.String()),
		zap.String("gross_salary", p.GrossSalary.String()),
		zap.String("total_deductions", p.TotalDeductions.String()),
		zap.String("net_salary", p.NetSalary.String()),
		zap.Error(err),
	)
	return mapEngineError(err)
}

func validateCreateRequest(
	companyID, actorID string,
	req CreatePayrollRequest,
) (uuid.UUID, uuid.UUID, uuid.UUID, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, payrollerrors.ErrInvalidCompanyID
	}

	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, payrollerrors.ErrInvalidEmployeeID
	}

	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, payrollerrors.ErrInvalidActorID
	}

	if req.Month < 1 || req.Month > 12 || req.Year < 1 {
		return uuid.Nil, uuid.Nil, uuid.Nil, payrollerrors.ErrInvalidPeriod
	}

	return companyUUID, employeeUUID, createdByUUID, nil
}

func validateMoney(rec engine.Record) error {
	amounts := []decimal.Decimal{rec.BaselineSalary, rec.Bonus, rec.Overtime.Hours, rec.Overtime.Multiplier, rec.Overtime.Amount}
	for _, group := range []map[string]decimal.Decimal{rec.Allowances, rec.StatutoryBase, rec.Discretionary} {
		for _, v := range group {
			amounts = append(amounts, v)
		}
	}
	for _, v := range amounts {
		if v.IsNegative() {
			return payrollerrors.ErrInvalidMoneyValue
		}
	}
	return nil
}

func validateEdit(edit engine.Edit) error {
	rec := engine.Record{
		Allowances:    edit.Allowances,
		StatutoryBase: edit.StatutoryBase,
		Discretionary: edit.Discretionary,
	}
	if edit.BaselineSalary != nil {
		rec.BaselineSalary = *edit.BaselineSalary
	}
	if edit.Bonus != nil {
		rec.Bonus = *edit.Bonus
	}
	if edit.Overtime != nil {
		rec.Overtime = *edit.Overtime
	}
	return validateMoney(rec)
}

func actorUUID(actorID string) *uuid.UUID {
	id, err := uuid.Parse(actorID)
	if err != nil {
		return nil
	}
	return &id
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (a AttendanceInput) toEngine() engine.Attendance {
	return engine.Attendance{Present: a.Present, Absent: a.Absent, Late: a.Late, OnLeave: a.OnLeave}
}

func (o OvertimeInput) toEngine() engine.Overtime {
	return engine.Overtime{Hours: o.Hours, Multiplier: o.Multiplier, Amount: o.Amount}
}

func (r UpdatePayrollRequest) toEdit() engine.Edit {
	edit := engine.Edit{
		BaselineSalary: r.BaselineSalary,
		Allowances:     r.Allowances,
		Bonus:          r.Bonus,
		StatutoryBase:  r.StatutoryDeductions,
		Discretionary:  r.DiscretionaryDeductions,
		PaymentMethod:  r.PaymentMethod,
		Remarks:        r.Remarks,
	}
	if r.Attendance != nil {
		att := r.Attendance.toEngine()
		edit.Attendance = &att
	}
	if r.Overtime != nil {
		ot := r.Overtime.toEngine()
		edit.Overtime = &ot
	}
	return edit
}
