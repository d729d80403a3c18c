package ports

import (
	"context"
	"io"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
)

// EmailAnalyzer is the inbound contract for the synchronous analysis pipeline.
type EmailAnalyzer interface {
	Analyze(ctx context.Context, input domain.RawInput) (*domain.AnalysisResult, error)
}

// EmailIngestor is the inbound contract for asynchronous email upload.
type EmailIngestor interface {
	Upload(ctx context.Context, filename string, body io.Reader) (*domain.EmailDocument, error)
}

// EmailProcessor is the inbound contract for worker-side processing.
type EmailProcessor interface {
	ProcessByID(ctx context.Context, emailID string) error
}

// EmailReader is the inbound read model for uploaded email state.
type EmailReader interface {
	GetByID(ctx context.Context, id string) (*domain.EmailDocument, error)
}
