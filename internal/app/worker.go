package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-payroll/internal/config"
	"go-payroll/internal/jobs"
	"go-payroll/internal/messaging/kafka/producer"
	"go-payroll/internal/shared/connection"

	"go.uber.org/zap"
)

func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	if err := cfg.ValidateKafka(); err != nil {
		return err
	}

	gormDB, sqlDB, err := connectDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.ConnectRetries)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	if err := connection.ConnectKafkaWithRetry(cfg.KafkaBrokers, cfg.ConnectRetries); err != nil {
		return err
	}
	kafkaWriter := producer.NewWriter(cfg.KafkaBrokers)
	defer kafkaWriter.Close()

	svc, err := buildServices(cfg, sqlDB, gormDB, redisClient, zap.L())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		svc.outbox,
		kafkaWriter,
		logger,
		cfg.OutboxPollInterval,
	)

	var scheduler *jobs.Scheduler
	if cfg.SchedulerEnabled {
		scheduler = jobs.NewScheduler(svc.payroll, time.Now, logger)
		if err := scheduler.Register(cfg.RecalculateCron); err != nil {
			return err
		}
		scheduler.Start()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	if scheduler != nil {
		stopCtx, stop := context.WithTimeout(context.Background(), 30*time.Second)
		defer stop()
		scheduler.Stop(stopCtx)
	}

	return nil
}
