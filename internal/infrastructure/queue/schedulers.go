package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"portfolio-backend/internal/config"
	adminjob "portfolio-backend/internal/domains/admin/job"
	"portfolio-backend/internal/shared"
	"portfolio-backend/pkg/logger"
)

// Scheduler enqueues periodic maintenance tasks for the worker.
type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redis asynq.RedisConnOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redis,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerClearExpiredOTPsJob()
}

// ================================================
// Clear expired admin codes
// ================================================
func (s *Scheduler) registerClearExpiredOTPsJob() error {
	payload, err := json.Marshal(adminjob.ClearExpiredOTPsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeClearExpiredOTPs, payload)

	_, err = s.scheduler.Register(
		s.jobConfig.ClearExpiredOTPsCron,
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(1),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ClearExpiredOTPs job", err)
		return err
	}

	logger.Info("Registered ClearExpiredOTPs", map[string]interface{}{
		"cron": s.jobConfig.ClearExpiredOTPsCron,
	})
	return nil
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
