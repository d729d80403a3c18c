package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/ports"
)

// ProcessEmailUseCase runs the analysis pipeline for an uploaded email on
// the worker side and persists the outcome. The stored payload is removed
// after processing; uploads are transient by design. The optional
// onAnalyzed hook fires once per persisted result.
type ProcessEmailUseCase struct {
	repo       ports.AnalysisRepository
	storage    ports.ObjectStorage
	analyzer   ports.EmailAnalyzer
	onAnalyzed func(domain.AnalysisResult, time.Duration)
}

func NewProcessEmailUseCase(
	repo ports.AnalysisRepository,
	storage ports.ObjectStorage,
	analyzer ports.EmailAnalyzer,
	onAnalyzed func(domain.AnalysisResult, time.Duration),
) *ProcessEmailUseCase {
	return &ProcessEmailUseCase{
		repo:       repo,
		storage:    storage,
		analyzer:   analyzer,
		onAnalyzed: onAnalyzed,
	}
}

func (uc *ProcessEmailUseCase) ProcessByID(ctx context.Context, emailID string) error {
	start := time.Now()
	if err := uc.repo.UpdateStatus(ctx, emailID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	doc, result, err := uc.runPipeline(ctx, emailID)
	if err != nil {
		if failErr := uc.markFailed(ctx, emailID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveResult(ctx, doc.ID, *result); err != nil {
		if failErr := uc.markFailed(ctx, emailID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return fmt.Errorf("save analysis result: %w", err)
	}

	if err := uc.repo.UpdateStatus(ctx, emailID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}

	if uc.onAnalyzed != nil {
		uc.onAnalyzed(*result, time.Since(start))
	}
	uc.removePayload(ctx, doc)
	return nil
}

func (uc *ProcessEmailUseCase) runPipeline(ctx context.Context, emailID string) (*domain.EmailDocument, *domain.AnalysisResult, error) {
	doc, err := uc.repo.GetByID(ctx, emailID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch email by id: %w", err)
	}

	payload, err := uc.readPayload(ctx, doc)
	if err != nil {
		return nil, nil, err
	}

	result, err := uc.analyzer.Analyze(ctx, domain.FileInput(payload, doc.Extension))
	if err != nil {
		return nil, nil, err
	}
	return doc, result, nil
}

func (uc *ProcessEmailUseCase) readPayload(ctx context.Context, doc *domain.EmailDocument) ([]byte, error) {
	reader, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open stored payload: %w", err)
	}
	defer reader.Close()

	payload, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read stored payload: %w", err)
	}
	return payload, nil
}

func (uc *ProcessEmailUseCase) markFailed(ctx context.Context, emailID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.repo.UpdateStatus(ctx, emailID, domain.StatusFailed, processErr.Error())
}

func (uc *ProcessEmailUseCase) removePayload(ctx context.Context, doc *domain.EmailDocument) {
	if err := uc.storage.Remove(ctx, doc.StoragePath); err != nil {
		slog.Warn("payload_cleanup_failed", "email_id", doc.ID, "storage_path", doc.StoragePath, "error", err)
	}
}
