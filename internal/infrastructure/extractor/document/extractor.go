// Package document turns uploaded .txt and .pdf payloads into plain text.
package document

import (
	"context"
	"fmt"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, input domain.RawInput) (string, error) {
	switch input.Extension {
	case ".txt":
		return extractPlainText(input.Payload)
	case ".pdf":
		return extractPDF(ctx, input.Payload)
	default:
		return "", domain.WrapError(
			domain.ErrUnsupportedFormat,
			"extract text",
			fmt.Errorf("extension %q, want .txt or .pdf", input.Extension),
		)
	}
}
