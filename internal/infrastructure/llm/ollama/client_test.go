package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
)

func TestGenerateBuildsCategoryPrompt(t *testing.T) {
	var capturedPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		capturedPrompt, _ = payload["prompt"].(string)
		_, _ = w.Write([]byte(`{"response":"Recebemos sua mensagem."}`))
	}))
	defer server.Close()

	client := New(server.URL, "gen", time.Second, nil)
	reply, err := client.Generate(context.Background(), "o sistema caiu", domain.CategoryProductive)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if reply != "Recebemos sua mensagem." {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if !strings.Contains(capturedPrompt, "o sistema caiu") || !strings.Contains(capturedPrompt, "Produtivo") {
		t.Fatalf("unexpected prompt: %s", capturedPrompt)
	}
}

func TestBuildReplyPromptCutsSnippetOnRuneBoundary(t *testing.T) {
	// Multibyte runes make the byte length exceed the rune cap.
	long := strings.Repeat("solicitação ", 400)
	prompt := buildReplyPrompt(long, domain.CategoryProductive)
	if !utf8.ValidString(prompt) {
		t.Fatal("prompt contains a split rune")
	}

	var snippet string
	if idx := strings.Index(prompt, "Email:\n"); idx >= 0 {
		snippet = prompt[idx+len("Email:\n"):]
	}
	if got := utf8.RuneCountInString(snippet); got != maxPromptSnippet {
		t.Fatalf("snippet rune count = %d, want %d", got, maxPromptSnippet)
	}
}

func TestGenerateWrapsRetryableStatusAsTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, "gen", time.Second, nil)
	_, err := client.Generate(context.Background(), "texto", domain.CategoryProductive)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestGenerateTreatsEmptyBodyAsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"   "}`))
	}))
	defer server.Close()

	client := New(server.URL, "gen", time.Second, nil)
	_, err := client.Generate(context.Background(), "texto", domain.CategoryUnproductive)
	if err == nil {
		t.Fatalf("expected error for empty response body")
	}
}
