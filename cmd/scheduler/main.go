package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lead_crm_backend/internal/email"
	"lead_crm_backend/internal/scheduler"
	"lead_crm_backend/platform/config"
	"lead_crm_backend/platform/logger"
)

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender := email.NewSender(cfg)
	if !cfg.IsEmailEnabled() {
		log.Warn("SMTP_HOST not configured; lead notification emails are dropped")
	}

	worker, err := scheduler.NewWorker(cfg, sender, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}
