package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/bootstrap"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/config"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, "worker", cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: app.WorkerMetrics.Handler(),
	}
	go func() {
		slog.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker_metrics_server_error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeEmailIngested(ctx, func(handlerCtx context.Context, emailID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, 2*time.Minute)
		defer cancel()

		if doc, lookupErr := app.Repo.GetByID(processCtx, emailID); lookupErr == nil {
			app.WorkerMetrics.ObserveQueueLag("worker", time.Since(doc.CreatedAt))
		}

		app.WorkerMetrics.StartEmail()
		start := time.Now()
		processErr := app.ProcessUC.ProcessByID(processCtx, emailID)
		app.WorkerMetrics.FinishEmail("worker", time.Since(start), processErr)

		if processErr != nil {
			slog.Error("email_processing_failed", "email_id", emailID, "error", processErr)
		}
		return processErr
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}
