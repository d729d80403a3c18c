package usecase

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/normalize"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/ports"
)

const defaultMinChars = 10

// AnalyzeEmailUseCase runs the pipeline for a single request:
// extract (files only) -> normalize -> classify -> generate reply.
// Validation and extraction errors propagate; reply generation never
// fails past classification because the injected ReplyGenerator resolves
// its own failures to a fallback.
type AnalyzeEmailUseCase struct {
	extractor  ports.TextExtractor
	normalizer *normalize.Normalizer
	classifier ports.EmailClassifier
	responder  ports.ReplyGenerator
	minChars   int
}

func NewAnalyzeEmailUseCase(
	extractor ports.TextExtractor,
	normalizer *normalize.Normalizer,
	classifier ports.EmailClassifier,
	responder ports.ReplyGenerator,
	minChars int,
) *AnalyzeEmailUseCase {
	if minChars <= 0 {
		minChars = defaultMinChars
	}
	return &AnalyzeEmailUseCase{
		extractor:  extractor,
		normalizer: normalizer,
		classifier: classifier,
		responder:  responder,
		minChars:   minChars,
	}
}

func (uc *AnalyzeEmailUseCase) Analyze(ctx context.Context, input domain.RawInput) (*domain.AnalysisResult, error) {
	text, err := uc.sourceText(ctx, input)
	if err != nil {
		return nil, err
	}

	normalized, err := uc.normalizer.Normalize(text)
	if err != nil {
		return nil, fmt.Errorf("normalize email text: %w", err)
	}
	if got := utf8.RuneCountInString(normalized); got < uc.minChars {
		return nil, domain.WrapError(
			domain.ErrTextTooShort,
			"validate email text",
			fmt.Errorf("%d characters, minimum %d", got, uc.minChars),
		)
	}

	classification, err := uc.classifier.Classify(normalized)
	if err != nil {
		return nil, domain.WrapError(domain.ErrClassificationFailed, "classify email", err)
	}

	reply, err := uc.responder.Generate(ctx, normalized, classification.Category)
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	return &domain.AnalysisResult{
		Classification:    classification.Category,
		Confidence:        classification.Confidence,
		SuggestedResponse: reply,
	}, nil
}

func (uc *AnalyzeEmailUseCase) sourceText(ctx context.Context, input domain.RawInput) (string, error) {
	if !input.IsFile() {
		return input.Text, nil
	}
	text, err := uc.extractor.Extract(ctx, input)
	if err != nil {
		return "", fmt.Errorf("extract email text: %w", err)
	}
	return text, nil
}
