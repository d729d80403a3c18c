// Package ollama generates suggested email replies through an Ollama
// server's /api/generate endpoint.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/infrastructure/resilience"
)

const defaultTimeout = 20 * time.Second

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model string, timeout time.Duration, executor *resilience.Executor) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}
}

// Generate returns the model's reply suggestion. Callers wrap this client
// in a fallback responder; errors here are diagnostic, not user-facing.
func (c *Client) Generate(ctx context.Context, text string, category domain.Category) (string, error) {
	prompt := buildReplyPrompt(text, category)

	var reply string
	call := func(callCtx context.Context) error {
		out, err := c.generateText(callCtx, prompt)
		if err != nil {
			return err
		}
		reply = out
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "ollama.generate", call, classifyOllamaError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", wrapTemporaryIfNeeded("generate reply", err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("ollama generate: empty response body")
	}
	return reply, nil
}

func (c *Client) generateText(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
	}
	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}
