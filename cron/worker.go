// File: cron/worker.go
package cron

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"barberbook/config"
	"barberbook/services/session"
	"barberbook/utils"
)

const TypeSessionSweep = "session:sweep"

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisJobsDB,
	}
}

// InitSessionSweeper runs the background worker that purges revoked and
// stale sessions once a day.
func InitSessionSweeper(sessionSvc session.SessionService) {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSessionSweep, handleSessionSweep(sessionSvc))

	go func() {
		logger.Info("Starting session sweep worker")
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("Session sweep worker failed to start",
					zap.Int("attempt", attempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Fatal("Session sweep worker gave up")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	scheduler := asynq.NewScheduler(redisOpts(), nil)
	if _, err := scheduler.Register("@every 24h", asynq.NewTask(TypeSessionSweep, nil)); err != nil {
		logger.Error("Failed to register session sweep schedule", zap.Error(err))
		return
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("Session sweep scheduler stopped", zap.Error(err))
		}
	}()
}

func handleSessionSweep(sessionSvc session.SessionService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		deleted, err := sessionSvc.Sweep(ctx)
		if err != nil {
			utils.GetLogger().Error("Session sweep failed", zap.Error(err))
			return err
		}
		utils.GetLogger().Info("Session sweep completed", zap.Int64("deleted", deleted))
		return nil
	}
}
