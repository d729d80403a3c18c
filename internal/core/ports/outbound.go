package ports

import (
	"context"
	"io"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
)

// TextExtractor turns a file payload into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, input domain.RawInput) (string, error)
}

// EmailClassifier applies the pretrained model to normalized text.
// Implementations must be deterministic and safe for concurrent use.
type EmailClassifier interface {
	Classify(text string) (domain.ClassificationResult, error)
}

// ReplyGenerator produces a suggested reply for a classified email.
// Implementations handed to the orchestrator must resolve their own
// failures to a fallback reply instead of returning an error.
type ReplyGenerator interface {
	Generate(ctx context.Context, text string, category domain.Category) (string, error)
}

// AnalysisRepository persists uploaded emails and their analysis outcome.
type AnalysisRepository interface {
	Create(ctx context.Context, doc *domain.EmailDocument) error
	GetByID(ctx context.Context, id string) (*domain.EmailDocument, error)
	UpdateStatus(ctx context.Context, id string, status domain.EmailStatus, errMessage string) error
	SaveResult(ctx context.Context, id string, result domain.AnalysisResult) error
	ListCompleted(ctx context.Context, limit int) ([]domain.EmailDocument, error)
}

// ObjectStorage holds uploaded payloads between ingest and processing.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes email ingestion events.
type MessageQueue interface {
	PublishEmailIngested(ctx context.Context, emailID string) error
	SubscribeEmailIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// AnalysisExporter writes a report of completed analyses.
type AnalysisExporter interface {
	Export(ctx context.Context, w io.Writer) error
}
