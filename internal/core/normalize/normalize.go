package normalize

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
)

const defaultMaxChars = 4000

// matches an opening or closing tag; plain text with stray "<" does not.
var tagPattern = regexp.MustCompile(`(?i)</?[a-z][a-z0-9]*(\s[^<>]*)?/?>`)

// Normalizer canonicalizes email text before classification and generation:
// markup stripped, whitespace runs collapsed to single spaces, trimmed, and
// hard-cut at a rune budget. The result of Normalize is a fixed point of
// Normalize.
type Normalizer struct {
	maxChars int
}

func New(maxChars int) *Normalizer {
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	return &Normalizer{maxChars: maxChars}
}

func (n *Normalizer) Normalize(text string) (string, error) {
	cleaned := text
	// The tokenizer unescapes entities in text nodes, so one pass over
	// "&lt;b&gt;" can surface a literal tag. Strip until no tag remains.
	for tagPattern.MatchString(cleaned) {
		stripped := stripMarkup(cleaned)
		if stripped == cleaned {
			break
		}
		cleaned = stripped
	}
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return "", domain.WrapError(domain.ErrEmptyInput, "normalize text", errors.New("no content after trimming"))
	}

	runes := []rune(cleaned)
	if len(runes) > n.maxChars {
		cleaned = strings.TrimRight(string(runes[:n.maxChars]), " ")
	}
	return cleaned, nil
}

// stripMarkup keeps text nodes only, skipping script and style bodies.
func stripMarkup(markup string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isNonContentTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isNonContentTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.WriteString(string(tokenizer.Text()))
				b.WriteByte(' ')
			}
		}
	}
}

func isNonContentTag(name string) bool {
	return name == "script" || name == "style"
}
