package normalize

import (
	"strings"
	"testing"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
)

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	n := New(0)
	got, err := n.Normalize("  Prezada   equipe,\n\no sistema\t está fora do ar.  ")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	want := "Prezada equipe, o sistema está fora do ar."
	if got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalizeRejectsEmptyInput(t *testing.T) {
	n := New(0)
	_, err := n.Normalize("   \n\t  ")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestNormalizeTruncatesAtRuneBoundary(t *testing.T) {
	n := New(5)
	got, err := n.Normalize("ação urgente")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got != "ação" {
		t.Fatalf("Normalize() = %q, want %q", got, "ação")
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := New(40)
	inputs := []string{
		"Olá,\n\n  tudo   bem?  ",
		strings.Repeat("palavra ", 20),
		"<p>Bom dia, <b>equipe</b></p>",
		"<p>escreva &lt;b&gt; para deixar o texto em negrito</p>",
	}
	for _, input := range inputs {
		once, err := n.Normalize(input)
		if err != nil {
			t.Fatalf("Normalize(%q) error = %v", input, err)
		}
		twice, err := n.Normalize(once)
		if err != nil {
			t.Fatalf("Normalize(Normalize(%q)) error = %v", input, err)
		}
		if once != twice {
			t.Fatalf("not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	n := New(100)
	input := strings.Repeat("texto com várias palavras ", 10)
	first, err := n.Normalize(input)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := n.Normalize(input)
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if again != first {
			t.Fatalf("non-deterministic truncation: %q != %q", again, first)
		}
	}
}

func TestNormalizeStripsHTML(t *testing.T) {
	n := New(0)
	got, err := n.Normalize(`<html><head><style>p{color:red}</style></head><body><p>Preciso de  suporte</p><br/>urgente</body></html>`)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got != "Preciso de suporte urgente" {
		t.Fatalf("Normalize() = %q", got)
	}
}

func TestNormalizeStripsEntityEncodedMarkup(t *testing.T) {
	n := New(0)
	got, err := n.Normalize("<p>escreva &lt;b&gt; para deixar o texto em negrito</p>")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	want := "escreva para deixar o texto em negrito"
	if got != want {
		t.Fatalf("Normalize() = %q, want %q", got, want)
	}

	again, err := n.Normalize(got)
	if err != nil {
		t.Fatalf("Normalize() second pass error = %v", err)
	}
	if again != got {
		t.Fatalf("second pass changed output: %q != %q", again, got)
	}
}

func TestNormalizeKeepsPlainTextAngleBrackets(t *testing.T) {
	n := New(0)
	got, err := n.Normalize("resultado: a < b e c > d")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got != "resultado: a < b e c > d" {
		t.Fatalf("Normalize() = %q", got)
	}
}
