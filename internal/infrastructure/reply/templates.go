// Package reply resolves the suggested response for a classified email,
// degrading to fixed per-category templates when generation fails.
package reply

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
)

// Templates holds the per-category fallback replies. They live in a data
// file so operators can change wording without a deploy.
type Templates struct {
	byCategory map[domain.Category]string
}

type templatesFile struct {
	Productive   string `yaml:"productive"`
	Unproductive string `yaml:"unproductive"`
}

func LoadTemplates(path string) (*Templates, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reply templates: %w", err)
	}
	var file templatesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse reply templates: %w", err)
	}
	return NewTemplates(file.Productive, file.Unproductive)
}

func NewTemplates(productive, unproductive string) (*Templates, error) {
	productive = strings.TrimSpace(productive)
	unproductive = strings.TrimSpace(unproductive)
	if productive == "" || unproductive == "" {
		return nil, fmt.Errorf("reply templates: both categories need a non-empty template")
	}
	return &Templates{
		byCategory: map[domain.Category]string{
			domain.CategoryProductive:   productive,
			domain.CategoryUnproductive: unproductive,
		},
	}, nil
}

func (t *Templates) For(category domain.Category) string {
	if tmpl, ok := t.byCategory[category]; ok {
		return tmpl
	}
	return t.byCategory[domain.CategoryUnproductive]
}
