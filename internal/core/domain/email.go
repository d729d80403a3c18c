package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Category is the two-valued classification outcome of the pipeline.
type Category string

const (
	CategoryProductive   Category = "productive"
	CategoryUnproductive Category = "unproductive"
)

// Label returns the Portuguese label the web layer serializes.
func (c Category) Label() string {
	switch c {
	case CategoryProductive:
		return "Produtivo"
	case CategoryUnproductive:
		return "Improdutivo"
	default:
		return string(c)
	}
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Label())
}

// RawInput is either directly submitted text or an uploaded file payload.
// Extension is empty for direct text and ".txt"/".pdf" for files.
type RawInput struct {
	Text      string
	Payload   []byte
	Extension string
}

func TextInput(text string) RawInput {
	return RawInput{Text: text}
}

func FileInput(payload []byte, extension string) RawInput {
	return RawInput{
		Payload:   payload,
		Extension: strings.ToLower(strings.TrimSpace(extension)),
	}
}

func (in RawInput) IsFile() bool {
	return in.Extension != "" || in.Payload != nil
}

// ClassificationResult is immutable once produced by the classifier.
// Confidence is the posterior probability of the predicted category.
type ClassificationResult struct {
	Category   Category
	Confidence float64
}

// AnalysisResult is the final artifact of one pipeline run. It is always
// fully populated: a degraded suggested response is acceptable, a missing
// one is not.
type AnalysisResult struct {
	Classification    Category `json:"classification"`
	Confidence        float64  `json:"confidence"`
	SuggestedResponse string   `json:"suggested_response"`
}

type EmailStatus string

const (
	StatusUploaded   EmailStatus = "uploaded"
	StatusProcessing EmailStatus = "processing"
	StatusReady      EmailStatus = "ready"
	StatusFailed     EmailStatus = "failed"
)

// EmailDocument tracks an uploaded email through the asynchronous
// ingest/process path.
type EmailDocument struct {
	ID                string      `json:"id"`
	Filename          string      `json:"filename"`
	Extension         string      `json:"extension"`
	StoragePath       string      `json:"storage_path"`
	Category          Category    `json:"category,omitempty"`
	Confidence        float64     `json:"confidence,omitempty"`
	SuggestedResponse string      `json:"suggested_response,omitempty"`
	Status            EmailStatus `json:"status"`
	Error             string      `json:"error,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}
