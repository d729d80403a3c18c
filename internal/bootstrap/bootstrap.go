// Package bootstrap wires configuration, infrastructure and use cases for
// both binaries.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/config"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/normalize"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/ports"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/usecase"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/infrastructure/extractor/document"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/infrastructure/llm/ollama"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/infrastructure/model/linear"
	natsqueue "github.com/Kaio-Ribeiro/emailclassifier-ai/internal/infrastructure/queue/nats"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/infrastructure/reply"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/infrastructure/report"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/infrastructure/repository/postgres"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/infrastructure/resilience"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/infrastructure/storage/localfs"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Queue    ports.MessageQueue
	Repo     ports.AnalysisRepository
	Exporter ports.AnalysisExporter

	AnalyzeUC *usecase.AnalyzeEmailUseCase
	IngestUC  *usecase.IngestEmailUseCase
	ProcessUC *usecase.ProcessEmailUseCase

	HTTPMetrics   *metrics.HTTPServerMetrics
	WorkerMetrics *metrics.WorkerMetrics
	Pipeline      *metrics.PipelineMetrics

	closeFn func()
}

// New builds the full dependency graph. The service name selects which
// metrics registry hosts the shared pipeline collectors and labels every
// observation.
func New(ctx context.Context, service string, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewAnalysisRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsqueue.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	// Missing or malformed model artifacts are fatal at startup.
	classifier, err := linear.Load(cfg.ModelPath)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("load classification model: %w", err)
	}

	templates, err := reply.LoadTemplates(cfg.ReplyTemplatesPath)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("load reply templates: %w", err)
	}

	var (
		httpMetrics   *metrics.HTTPServerMetrics
		workerMetrics *metrics.WorkerMetrics
		pipeline      *metrics.PipelineMetrics
	)
	if service == "worker" {
		workerMetrics = metrics.NewWorkerMetrics(service)
		pipeline = metrics.NewPipelineMetrics(workerMetrics.Registry())
	} else {
		httpMetrics = metrics.NewHTTPServerMetrics(service)
		pipeline = metrics.NewPipelineMetrics(httpMetrics.Registry())
	}

	generator := ollama.New(
		cfg.OllamaURL,
		cfg.OllamaGenModel,
		time.Duration(cfg.OllamaTimeoutSeconds)*time.Second,
		executor,
	)
	responder := reply.NewResponder(generator, templates, func(category domain.Category) {
		pipeline.RecordFallback(service, category)
	})

	normalizer := normalize.New(cfg.AnalyzeMaxChars)
	extractor := document.New()

	analyzeUC := usecase.NewAnalyzeEmailUseCase(extractor, normalizer, classifier, responder, cfg.AnalyzeMinChars)
	ingestUC := usecase.NewIngestEmailUseCase(repo, storage, queue)
	processUC := usecase.NewProcessEmailUseCase(repo, storage, analyzeUC, func(result domain.AnalysisResult, duration time.Duration) {
		pipeline.ObserveAnalysis(service, "queue", result, duration)
	})
	exporter := report.NewExcelExporter(repo, cfg.ExportLimit)

	return &App{
		Config: cfg,

		Queue:    queue,
		Repo:     repo,
		Exporter: exporter,

		AnalyzeUC: analyzeUC,
		IngestUC:  ingestUC,
		ProcessUC: processUC,

		HTTPMetrics:   httpMetrics,
		WorkerMetrics: workerMetrics,
		Pipeline:      pipeline,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
