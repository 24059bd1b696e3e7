package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/shared/contextutil"

	"go.uber.org/zap"
)

// AttendanceSyncer refreshes payroll records of a closed attendance period.
type AttendanceSyncer interface {
	SyncAttendance(ctx context.Context, event events.AttendancePeriodClosedEvent) error
}

const maxSyncAttempts = 3

var syncRetryDelay = 2 * time.Second

// ConsumeAttendancePeriodClosed retries a failed refresh in place, since
// committing a later offset also commits this one. Malformed payloads and
// messages that exhaust their attempts are committed and dropped.
func ConsumeAttendancePeriodClosed(
	ctx context.Context,
	reader MessageReader,
	syncer AttendanceSyncer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_closed")
	log.Info("attendance period consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("attendance period consumer stopped")
				return
			}
			log.Error("fetch attendance period message failed", zap.Error(err))
			continue
		}

		var event events.AttendancePeriodClosedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil || event.CompanyID == "" {
			log.Error("decode attendance_period_closed event failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		rid := event.RequestID
		if rid == "" {
			rid = headerValue(msg, "request_id")
		}
		msgCtx := contextutil.WithRequestID(ctx, rid)

		if err := syncWithRetry(msgCtx, syncer, event); err != nil {
			if ctx.Err() != nil {
				log.Info("attendance period consumer stopped")
				return
			}
			log.Error("sync payroll attendance failed, dropping message",
				zap.String("request_id", rid),
				zap.String("company_id", event.CompanyID),
				zap.String("employee_id", event.EmployeeID),
				zap.Int("month", event.Month),
				zap.Int("year", event.Year),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit attendance period message failed", zap.Error(err))
			continue
		}

		log.Info("attendance period message handled",
			zap.String("request_id", rid),
			zap.String("company_id", event.CompanyID),
			zap.String("employee_id", event.EmployeeID),
			zap.Int("month", event.Month),
			zap.Int("year", event.Year),
		)
	}
}

func syncWithRetry(ctx context.Context, syncer AttendanceSyncer, event events.AttendancePeriodClosedEvent) error {
	var err error
	for attempt := 1; attempt <= maxSyncAttempts; attempt++ {
		if err = syncer.SyncAttendance(ctx, event); err == nil {
			return nil
		}
		if attempt == maxSyncAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(syncRetryDelay):
		}
	}
	return err
}
