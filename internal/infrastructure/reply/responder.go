package reply

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/ports"
)

// Responder guarantees the pipeline always gets a non-empty reply: any
// failure or empty result from the inner generator resolves to the
// category template. It never returns an error.
type Responder struct {
	inner      ports.ReplyGenerator
	templates  *Templates
	onFallback func(domain.Category)
}

func NewResponder(inner ports.ReplyGenerator, templates *Templates, onFallback func(domain.Category)) *Responder {
	return &Responder{
		inner:      inner,
		templates:  templates,
		onFallback: onFallback,
	}
}

func (r *Responder) Generate(ctx context.Context, text string, category domain.Category) (string, error) {
	if r.inner != nil {
		reply, err := r.inner.Generate(ctx, text, category)
		switch {
		case err != nil:
			slog.Warn("reply_generation_degraded", "category", string(category), "error", err)
		case strings.TrimSpace(reply) == "":
			slog.Warn("reply_generation_degraded", "category", string(category), "error", "empty reply")
		default:
			return reply, nil
		}
	}

	if r.onFallback != nil {
		r.onFallback(category)
	}
	return r.templates.For(category), nil
}
