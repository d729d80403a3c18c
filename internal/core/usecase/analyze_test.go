package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/normalize"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/usecase"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/infrastructure/extractor/document"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/infrastructure/model/linear"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/infrastructure/reply"
)

// testModel mirrors the production artifact shape with a tiny vocabulary
// that separates support requests from pleasantries.
func testModel(t *testing.T) *linear.Model {
	t.Helper()
	model, err := linear.FromArtifact(linear.Artifact{
		Vocabulary: map[string]int{
			"suporte":  0,
			"sistema":  1,
			"urgente":  2,
			"erro":     3,
			"parabéns": 4,
			"feliz":    5,
			"festas":   6,
			"abraço":   7,
		},
		IDF:          []float64{1, 1, 1, 1, 1, 1, 1, 1},
		Coefficients: []float64{2.0, 1.5, 2.2, 1.8, -2.4, -1.9, -1.6, -1.5},
		Intercept:    0.1,
	})
	if err != nil {
		t.Fatalf("FromArtifact() error = %v", err)
	}
	return model
}

func testTemplates(t *testing.T) *reply.Templates {
	t.Helper()
	templates, err := reply.NewTemplates(
		"Olá! Recebemos sua mensagem e nossa equipe vai analisá-la em breve.",
		"Olá! Agradecemos a sua mensagem.",
	)
	if err != nil {
		t.Fatalf("NewTemplates() error = %v", err)
	}
	return templates
}

type generatorFake struct {
	reply string
	err   error
	calls int
}

func (g *generatorFake) Generate(context.Context, string, domain.Category) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type classifierSpy struct {
	calls int
}

func (c *classifierSpy) Classify(string) (domain.ClassificationResult, error) {
	c.calls++
	return domain.ClassificationResult{Category: domain.CategoryProductive, Confidence: 0.9}, nil
}

func newPipeline(t *testing.T, generator *generatorFake) *usecase.AnalyzeEmailUseCase {
	t.Helper()
	responder := reply.NewResponder(generator, testTemplates(t), nil)
	return usecase.NewAnalyzeEmailUseCase(
		document.New(),
		normalize.New(4000),
		testModel(t),
		responder,
		10,
	)
}

func TestAnalyzeSupportEmailIsProductive(t *testing.T) {
	generator := &generatorFake{reply: "Olá, já estamos verificando o sistema."}
	pipeline := newPipeline(t, generator)

	text := "Prezada equipe, o sistema está fora do ar desde esta manhã e precisamos de suporte urgente."
	result, err := pipeline.Analyze(context.Background(), domain.TextInput(text))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if result.Classification != domain.CategoryProductive {
		t.Fatalf("classification = %s, want productive", result.Classification)
	}
	if result.Confidence <= 0.5 || result.Confidence > 1 {
		t.Fatalf("confidence = %f, want in (0.5, 1]", result.Confidence)
	}
	if strings.TrimSpace(result.SuggestedResponse) == "" {
		t.Fatal("expected non-empty suggested response")
	}
}

func TestAnalyzeGreetingEmailIsUnproductive(t *testing.T) {
	generator := &generatorFake{reply: "Muito obrigado pela mensagem!"}
	pipeline := newPipeline(t, generator)

	text := "Parabéns pela promoção! Fico muito feliz por você."
	result, err := pipeline.Analyze(context.Background(), domain.TextInput(text))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if result.Classification != domain.CategoryUnproductive {
		t.Fatalf("classification = %s, want unproductive", result.Classification)
	}
	if result.Confidence <= 0.5 {
		t.Fatalf("confidence = %f, want > 0.5", result.Confidence)
	}
}

func TestAnalyzeRejectsShortTextBeforeClassification(t *testing.T) {
	classifier := &classifierSpy{}
	generator := &generatorFake{reply: "ok"}
	responder := reply.NewResponder(generator, testTemplates(t), nil)
	pipeline := usecase.NewAnalyzeEmailUseCase(
		document.New(),
		normalize.New(4000),
		classifier,
		responder,
		10,
	)

	_, err := pipeline.Analyze(context.Background(), domain.TextInput("oi"))
	if !domain.IsKind(err, domain.ErrTextTooShort) {
		t.Fatalf("error = %v, want ErrTextTooShort", err)
	}
	if classifier.calls != 0 {
		t.Fatalf("classifier called %d times for invalid input", classifier.calls)
	}
	if generator.calls != 0 {
		t.Fatalf("generator called %d times for invalid input", generator.calls)
	}
}

func TestAnalyzeFallsBackWhenGeneratorFails(t *testing.T) {
	fallbacks := 0
	generator := &generatorFake{err: errors.New("ollama timeout")}
	responder := reply.NewResponder(generator, testTemplates(t), func(domain.Category) {
		fallbacks++
	})
	pipeline := usecase.NewAnalyzeEmailUseCase(
		document.New(),
		normalize.New(4000),
		testModel(t),
		responder,
		10,
	)

	text := "O sistema apresenta erro ao emitir boleto, preciso de suporte."
	result, err := pipeline.Analyze(context.Background(), domain.TextInput(text))
	if err != nil {
		t.Fatalf("Analyze() error = %v, generator failure must not surface", err)
	}
	if result.SuggestedResponse != testTemplates(t).For(result.Classification) {
		t.Fatalf("suggested response %q, want the category template", result.SuggestedResponse)
	}
	if fallbacks != 1 {
		t.Fatalf("fallback hook fired %d times, want 1", fallbacks)
	}
}

func TestAnalyzeRejectsUnsupportedFileFormat(t *testing.T) {
	generator := &generatorFake{reply: "ok"}
	pipeline := newPipeline(t, generator)

	input := domain.FileInput([]byte("PK\x03\x04 zipped document"), ".docx")
	_, err := pipeline.Analyze(context.Background(), input)
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}
	if generator.calls != 0 {
		t.Fatalf("generator called %d times for unsupported format", generator.calls)
	}
}

func TestAnalyzeTxtFileEndToEnd(t *testing.T) {
	generator := &generatorFake{reply: "Olá, vamos priorizar o chamado."}
	pipeline := newPipeline(t, generator)

	payload := []byte("Bom dia,\n\no sistema  está com   erro e precisamos de suporte urgente.\n")
	result, err := pipeline.Analyze(context.Background(), domain.FileInput(payload, ".txt"))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.Classification != domain.CategoryProductive {
		t.Fatalf("classification = %s, want productive", result.Classification)
	}
	if result.SuggestedResponse != generator.reply {
		t.Fatalf("suggested response %q, want the generated one", result.SuggestedResponse)
	}
}

func TestAnalyzeIsDeterministicForSameInput(t *testing.T) {
	generator := &generatorFake{reply: "Olá, obrigado pelo contato."}
	pipeline := newPipeline(t, generator)

	text := "Preciso de suporte, o sistema está com erro urgente desde ontem."
	first, err := pipeline.Analyze(context.Background(), domain.TextInput(text))
	if err != nil {
		t.Fatalf("first Analyze() error = %v", err)
	}
	second, err := pipeline.Analyze(context.Background(), domain.TextInput(text))
	if err != nil {
		t.Fatalf("second Analyze() error = %v", err)
	}

	if first.Classification != second.Classification || first.Confidence != second.Confidence {
		t.Fatalf("classification drifted between runs: %+v vs %+v", first, second)
	}
}
