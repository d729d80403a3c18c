// Package linear applies a pretrained TF-IDF + logistic-regression pipeline
// to normalized email text. The artifact is fitted offline; this package
// only loads and evaluates it.
package linear

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
)

// Artifact is the serialized form of the fitted pipeline. Vocabulary maps
// terms to feature indices; IDF and Coefficients are indexed the same way.
// A positive decision score means productive.
type Artifact struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	Coefficients []float64      `json:"coefficients"`
	Intercept    float64        `json:"intercept"`
}

// Model is read-only after construction and safe for concurrent use.
type Model struct {
	vocab     map[string]int
	idf       []float64
	coef      []float64
	intercept float64
}

// Load reads the artifact from disk. Any failure here is fatal to the
// process: a service without a model must not accept requests.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrModelUnavailable, "read model artifact", err)
	}
	var artifact Artifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, domain.WrapError(domain.ErrModelUnavailable, "parse model artifact", err)
	}
	return FromArtifact(artifact)
}

func FromArtifact(artifact Artifact) (*Model, error) {
	if len(artifact.Vocabulary) == 0 {
		return nil, domain.WrapError(domain.ErrModelUnavailable, "validate model artifact",
			fmt.Errorf("empty vocabulary"))
	}
	if len(artifact.IDF) != len(artifact.Vocabulary) || len(artifact.Coefficients) != len(artifact.Vocabulary) {
		return nil, domain.WrapError(domain.ErrModelUnavailable, "validate model artifact",
			fmt.Errorf("vocabulary/idf/coefficients size mismatch: %d/%d/%d",
				len(artifact.Vocabulary), len(artifact.IDF), len(artifact.Coefficients)))
	}
	for term, idx := range artifact.Vocabulary {
		if idx < 0 || idx >= len(artifact.Coefficients) {
			return nil, domain.WrapError(domain.ErrModelUnavailable, "validate model artifact",
				fmt.Errorf("term %q has out-of-range index %d", term, idx))
		}
	}
	return &Model{
		vocab:     artifact.Vocabulary,
		idf:       artifact.IDF,
		coef:      artifact.Coefficients,
		intercept: artifact.Intercept,
	}, nil
}

// Classify is a pure function of text given the fixed model. Confidence is
// the sigmoid posterior of the predicted category; the complementary
// category's probability is exactly 1 minus it.
func (m *Model) Classify(text string) (domain.ClassificationResult, error) {
	termFreq := make(map[int]float64, 32)
	for _, token := range tokenize(text) {
		if idx, ok := m.vocab[token]; ok {
			termFreq[idx]++
		}
	}

	score := m.intercept
	if norm := l2Norm(termFreq, m.idf); norm > 0 {
		for idx, tf := range termFreq {
			score += (tf * m.idf[idx] / norm) * m.coef[idx]
		}
	}

	probability := 1.0 / (1.0 + math.Exp(-score))
	if probability >= 0.5 {
		return domain.ClassificationResult{
			Category:   domain.CategoryProductive,
			Confidence: probability,
		}, nil
	}
	return domain.ClassificationResult{
		Category:   domain.CategoryUnproductive,
		Confidence: 1 - probability,
	}, nil
}

func l2Norm(termFreq map[int]float64, idf []float64) float64 {
	var sum float64
	for idx, tf := range termFreq {
		w := tf * idf[idx]
		sum += w * w
	}
	return math.Sqrt(sum)
}

// tokenize lowercases and splits on anything that is not a letter or digit,
// keeping accented characters intact for Portuguese text.
func tokenize(s string) []string {
	out := make([]string, 0, 32)
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}
