package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/ports"
)

type IngestEmailUseCase struct {
	repo    ports.AnalysisRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestEmailUseCase(
	repo ports.AnalysisRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestEmailUseCase {
	return &IngestEmailUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

func (uc *IngestEmailUseCase) Upload(
	ctx context.Context,
	filename string,
	body io.Reader,
) (*domain.EmailDocument, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".txt" && ext != ".pdf" {
		return nil, domain.WrapError(
			domain.ErrUnsupportedFormat,
			"ingest email",
			fmt.Errorf("extension %q, want .txt or .pdf", ext),
		)
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save email payload: %w", err)
	}

	doc := &domain.EmailDocument{
		ID:          id,
		Filename:    filename,
		Extension:   ext,
		StoragePath: storageKey,
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create email record: %w", err)
	}

	if err := uc.queue.PublishEmailIngested(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}

	return doc, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "email.bin"
	}
	return base
}
