package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"lead_crm_backend/internal/email"
	"lead_crm_backend/platform/config"
	"lead_crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender email.Sender
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := RedisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := newWorker(sender, log)
	w.server = server
	return w, nil
}

func newWorker(sender email.Sender, log *logger.Logger) *Worker {
	w := &Worker{
		mux:    asynq.NewServeMux(),
		sender: sender,
		log:    log,
	}
	w.mux.HandleFunc(TaskLeadCreatedNotify, w.handleLeadCreatedNotify)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleLeadCreatedNotify(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadCreatedNotifyPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.Recipient == "" {
		return nil
	}

	err = w.sender.SendNewLeadEmail(ctx, payload.Recipient, email.LeadNotice{
		LeadID: payload.LeadID,
		Name:   payload.Name,
		Email:  payload.Email,
		Phone:  payload.Phone,
		Status: payload.Status,
		Source: payload.Source,
	})
	if err != nil {
		w.log.Warn("lead notification email failed",
			slog.String("lead_id", payload.LeadID),
			slog.String("error", err.Error()),
		)
		return err
	}

	w.log.LeadEvent("notification_sent", payload.LeadID)
	return nil
}
