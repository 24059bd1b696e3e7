package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type OpenPeriodRecalculator interface {
	RecalculateOpenPeriod(ctx context.Context, month, year int) (int, error)
}

// jobTimeout membatasi satu putaran recalculation.
const jobTimeout = 30 * time.Minute

type Scheduler struct {
	cron         *cron.Cron
	recalculator OpenPeriodRecalculator
	now          func() time.Time
	logger       *zap.Logger
}

func NewScheduler(recalculator OpenPeriodRecalculator, clock func() time.Time, logger ...*zap.Logger) *Scheduler {
	l := zap.L().Named("jobs.scheduler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("jobs.scheduler")
	}
	if clock == nil {
		clock = time.Now
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(time.UTC)),
		recalculator: recalculator,
		now:          clock,
		logger:       l,
	}
}

// Register menjadwalkan recalculation periode berjalan pada spec cron.
func (s *Scheduler) Register(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}
	s.logger.Info("payroll recalculation job registered", zap.String("spec", spec))
	return nil
}

// RunOnce recalculates the open payrolls of the current UTC month.
func (s *Scheduler) RunOnce(ctx context.Context) {
	now := s.now().UTC()
	month, year := int(now.Month()), now.Year()

	started := time.Now()
	updated, err := s.recalculator.RecalculateOpenPeriod(ctx, month, year)
	if err != nil {
		s.logger.Error("scheduled payroll recalculation failed",
			zap.Int("month", month),
			zap.Int("year", year),
			zap.Int("updated", updated),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("scheduled payroll recalculation finished",
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("updated", updated),
		zap.Duration("elapsed", time.Since(started)),
	)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}
