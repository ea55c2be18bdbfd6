package reminder

import (
	"context"

	"partnerhub/pkg/config"
	"partnerhub/pkg/task"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RegisterCron enqueues the two reminder batch jobs on the configured specs.
// Cron only enqueues; the asynq worker executes, so a slow batch never blocks
// the cron goroutine.
func RegisterCron(lc fx.Lifecycle, cfg *config.Config, enq task.Enqueuer, svc *Service) error {
	c := cron.New()

	_, err := c.AddFunc(cfg.Reminder.GenerateSpec, func() {
		t, err := NewGenerateTask(svc.now())
		if err != nil {
			zap.L().Error("failed to build generate task", zap.Error(err))
			return
		}
		if _, err := enq.Enqueue(context.Background(), t); err != nil {
			zap.L().Error("failed to enqueue generate task", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	_, err = c.AddFunc(cfg.Reminder.ProcessSpec, func() {
		t, err := NewProcessTask(svc.now())
		if err != nil {
			zap.L().Error("failed to build process task", zap.Error(err))
			return
		}
		if _, err := enq.Enqueue(context.Background(), t); err != nil {
			zap.L().Error("failed to enqueue process task", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c.Start()
			zap.L().Info("reminder cron started",
				zap.String("generate_spec", cfg.Reminder.GenerateSpec),
				zap.String("process_spec", cfg.Reminder.ProcessSpec),
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			<-c.Stop().Done()
			return nil
		},
	})

	return nil
}

// RegisterHandlers binds the batch jobs to the asynq mux. Each handler runs
// under a redis run-lock so overlapping fires of the same job are skipped
// instead of double-sending.
func RegisterHandlers(mux *asynq.ServeMux, svc *Service) {
	mux.HandleFunc(TaskReminderGenerate, func(ctx context.Context, t *asynq.Task) error {
		return svc.runLocked(ctx, TaskReminderGenerate, func(ctx context.Context) error {
			_, err := svc.ProcessScheduledRequests(ctx)
			return err
		})
	})

	mux.HandleFunc(TaskReminderProcess, func(ctx context.Context, t *asynq.Task) error {
		return svc.runLocked(ctx, TaskReminderProcess, func(ctx context.Context) error {
			_, err := svc.ProcessReminders(ctx)
			return err
		})
	})
}

// runLocked wraps fn in a best-effort SETNX run-lock. With no redis client
// configured (tests) fn runs unlocked.
func (s *Service) runLocked(ctx context.Context, name string, fn func(context.Context) error) error {
	if s.redis == nil {
		return fn(ctx)
	}

	key := "partnerhub:runlock:" + name
	ok, err := s.redis.SetNX(ctx, key, "1", s.cfg.Reminder.RunLockTTL).Result()
	if err != nil {
		zap.L().Warn("failed to acquire run lock, running unlocked", zap.String("job", name), zap.Error(err))
		return fn(ctx)
	}
	if !ok {
		zap.L().Info("run lock held, skipping batch", zap.String("job", name))
		return nil
	}
	defer func() {
		if err := s.redis.Del(context.Background(), key).Err(); err != nil {
			zap.L().Warn("failed to release run lock", zap.String("job", name), zap.Error(err))
		}
	}()

	return fn(ctx)
}
