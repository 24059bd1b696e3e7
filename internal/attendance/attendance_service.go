package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	attendanceerrors "go-payroll/internal/attendance/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll/engine"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// clock in after 09:15 UTC is late
const (
	lateHour   = 9
	lateMinute = 15
	dateLayout = "2006-01-02"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (AttendanceResponse, error)
	RecordDay(ctx context.Context, companyID, actorID string, req RecordDayRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, companyID, actorID string, canReadAll bool, filter GetAttendancesFilterRequest) ([]AttendanceResponse, error)
	MonthlySummary(ctx context.Context, companyID, employeeID string, month, year int) (MonthlySummaryResponse, error)
	MonthlyAttendance(ctx context.Context, companyID, employeeID string, month, year int) (engine.Attendance, error)
	ClosePeriod(ctx context.Context, companyID, actorID string, req ClosePeriodRequest) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, clock func() time.Time, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if clock == nil {
		clock = time.Now
	}
	return &service{db: db, repo: repo, outbox: outbox, now: clock, logger: l}
}

func (s *service) ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest) (AttendanceResponse, error) {
	companyUUID, employeeUUID, err := parseIDs(companyID, employeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now().UTC()
	today := now.Truncate(24 * time.Hour)

	existing, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if err == nil && existing != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}

	status := StatusPresent
	if now.Hour() > lateHour || (now.Hour() == lateHour && now.Minute() > lateMinute) {
		status = StatusLate
	}

	source := req.Source
	if source == "" {
		source = "MANUAL"
	}

	row := &Attendance{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		EmployeeID:     employeeUUID,
		AttendanceDate: today,
		ClockIn:        &now,
		Status:         status,
		Source:         source,
		Notes:          req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest) (AttendanceResponse, error) {
	if _, _, err := parseIDs(companyID, employeeID); err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now().UTC()
	today := now.Truncate(24 * time.Hour)

	row, err := qtx.FindByEmployeeAndDate(ctx, companyID, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrClockInNotFound
		}
		return AttendanceResponse{}, err
	}
	if row.ClockIn == nil {
		return AttendanceResponse{}, attendanceerrors.ErrClockInNotFound
	}
	if row.ClockOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedOut
	}

	row.ClockOut = &now
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) RecordDay(ctx context.Context, companyID, actorID string, req RecordDayRequest) (AttendanceResponse, error) {
	companyUUID, employeeUUID, err := parseIDs(companyID, req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !validStatus(req.Status) {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDate
	}

	row := &Attendance{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		EmployeeID:     employeeUUID,
		AttendanceDate: date,
		Status:         req.Status,
		Source:         "HR",
		Notes:          req.Notes,
	}
	if actor, err := uuid.Parse(actorID); err == nil {
		row.RecordedBy = &actor
	}

	if err := s.repo.Upsert(ctx, row); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("record attendance day failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("date", req.Date),
			zap.Error(err),
		)
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, companyID, actorID string, canReadAll bool, filter GetAttendancesFilterRequest) ([]AttendanceResponse, error) {
	listFilter := ListFilter{EmployeeID: filter.EmployeeID}
	if !canReadAll {
		if _, err := uuid.Parse(actorID); err != nil {
			return nil, attendanceerrors.ErrInvalidEmployeeID
		}
		listFilter.EmployeeID = actorID
	}
	if filter.Month > 0 && filter.Year > 0 {
		listFilter.From, listFilter.To = monthRange(filter.Month, filter.Year)
	}

	rows, err := s.repo.FindAllByCompany(ctx, companyID, listFilter)
	if err != nil {
		return nil, err
	}
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) MonthlySummary(ctx context.Context, companyID, employeeID string, month, year int) (MonthlySummaryResponse, error) {
	a, err := s.MonthlyAttendance(ctx, companyID, employeeID, month, year)
	if err != nil {
		return MonthlySummaryResponse{}, err
	}
	return MonthlySummaryResponse{
		EmployeeID:  employeeID,
		Month:       month,
		Year:        year,
		Present:     a.Present,
		Late:        a.Late,
		Absent:      a.Absent,
		OnLeave:     a.OnLeave,
		WorkingDays: a.WorkingDays(),
	}, nil
}

// MonthlyAttendance aggregates the recorded days of one calendar month.
// Days without a row are not counted.
func (s *service) MonthlyAttendance(ctx context.Context, companyID, employeeID string, month, year int) (engine.Attendance, error) {
	if _, _, err := parseIDs(companyID, employeeID); err != nil {
		return engine.Attendance{}, err
	}
	if month < 1 || month > 12 || year < 2000 {
		return engine.Attendance{}, attendanceerrors.ErrInvalidPeriod
	}

	from, to := monthRange(month, year)
	counts, err := s.repo.CountByStatus(ctx, companyID, employeeID, from, to)
	if err != nil {
		return engine.Attendance{}, err
	}

	var a engine.Attendance
	for _, c := range counts {
		switch c.Status {
		case StatusPresent:
			a.Present += c.Total
		case StatusLate:
			a.Late += c.Total
		case StatusAbsent:
			a.Absent += c.Total
		case StatusLeave:
			a.OnLeave += c.Total
		default:
			s.logger.Warn("unknown attendance status ignored",
				zap.String("employee_id", employeeID),
				zap.String("status", c.Status),
			)
		}
	}
	return a, nil
}

// ClosePeriod announces that a month is final. Payroll records of that period
// are refreshed by the consumer of the event.
func (s *service) ClosePeriod(ctx context.Context, companyID, actorID string, req ClosePeriodRequest) error {
	if _, err := uuid.Parse(companyID); err != nil {
		return attendanceerrors.ErrInvalidEmployeeID
	}
	if req.EmployeeID != "" {
		if _, err := uuid.Parse(req.EmployeeID); err != nil {
			return attendanceerrors.ErrInvalidEmployeeID
		}
	}
	if req.Month < 1 || req.Month > 12 || req.Year < 2000 {
		return attendanceerrors.ErrInvalidPeriod
	}
	from, _ := monthRange(req.Month, req.Year)
	if from.After(s.now().UTC()) {
		return attendanceerrors.ErrInvalidPeriod
	}

	rid := contextutil.GetRequestID(ctx)
	payload, err := json.Marshal(events.AttendancePeriodClosedEvent{
		EventType:  "attendance_period_closed",
		RequestID:  rid,
		CompanyID:  companyID,
		EmployeeID: req.EmployeeID,
		Month:      req.Month,
		Year:       req.Year,
		ClosedBy:   actorID,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		return err
	}

	aggregateID := req.EmployeeID
	if aggregateID == "" {
		aggregateID = companyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "attendance",
		AggregateID:   aggregateID,
		EventType:     "attendance_period_closed",
		Topic:         events.AttendancePeriodClosedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("attendance outbox persist failed",
			zap.String("request_id", rid),
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("attendance period closed",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
	)
	return nil
}

func parseIDs(companyID, employeeID string) (uuid.UUID, uuid.UUID, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, attendanceerrors.ErrInvalidEmployeeID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, attendanceerrors.ErrInvalidEmployeeID
	}
	return companyUUID, employeeUUID, nil
}

func validStatus(status string) bool {
	switch status {
	case StatusPresent, StatusLate, StatusAbsent, StatusLeave:
		return true
	}
	return false
}

func monthRange(month, year int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, -1)
}

func mapToResponse(a Attendance) AttendanceResponse {
	res := AttendanceResponse{
		ID:             a.ID.String(),
		CompanyID:      a.CompanyID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format(dateLayout),
		Status:         a.Status,
		Source:         a.Source,
		Notes:          a.Notes,
	}
	if a.ClockIn != nil {
		v := a.ClockIn.Format(time.RFC3339)
		res.ClockIn = &v
	}
	if a.ClockOut != nil {
		v := a.ClockOut.Format(time.RFC3339)
		res.ClockOut = &v
	}
	if a.Employee != nil {
		res.EmployeeName = a.Employee.FullName
	}
	return res
}
