package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
)

type fakeRepo struct {
	docs      []domain.EmailDocument
	err       error
	gotLimit  int
	listCalls int
}

func (f *fakeRepo) Create(context.Context, *domain.EmailDocument) error { return nil }
func (f *fakeRepo) GetByID(context.Context, string) (*domain.EmailDocument, error) {
	return nil, domain.ErrEmailNotFound
}
func (f *fakeRepo) UpdateStatus(context.Context, string, domain.EmailStatus, string) error {
	return nil
}
func (f *fakeRepo) SaveResult(context.Context, string, domain.AnalysisResult) error { return nil }
func (f *fakeRepo) ListCompleted(_ context.Context, limit int) ([]domain.EmailDocument, error) {
	f.listCalls++
	f.gotLimit = limit
	return f.docs, f.err
}

func TestExcelExporterWritesWorkbook(t *testing.T) {
	created := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{docs: []domain.EmailDocument{
		{
			ID:                "abc-123",
			Filename:          "suporte.txt",
			Category:          domain.CategoryProductive,
			Confidence:        0.9731,
			SuggestedResponse: "Olá, recebemos sua solicitação.",
			Status:            domain.StatusReady,
			CreatedAt:         created,
		},
		{
			ID:         "def-456",
			Filename:   "parabens.pdf",
			Category:   domain.CategoryUnproductive,
			Confidence: 0.88,
			Status:     domain.StatusReady,
			CreatedAt:  created,
		},
	}}

	var buf bytes.Buffer
	exporter := NewExcelExporter(repo, 50)
	if err := exporter.Export(context.Background(), &buf); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if repo.gotLimit != 50 {
		t.Fatalf("limit = %d, want 50", repo.gotLimit)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][2] != "Classificação" {
		t.Fatalf("unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "abc-123" || rows[1][2] != "Produtivo" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[2][2] != "Improdutivo" {
		t.Fatalf("unexpected second row category: %v", rows[2])
	}
}

func TestExcelExporterDefaultsLimit(t *testing.T) {
	repo := &fakeRepo{}
	exporter := NewExcelExporter(repo, 0)

	var buf bytes.Buffer
	if err := exporter.Export(context.Background(), &buf); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if repo.gotLimit != 1000 {
		t.Fatalf("limit = %d, want default 1000", repo.gotLimit)
	}
}

func TestExcelExporterPropagatesRepoError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("db down")}
	exporter := NewExcelExporter(repo, 10)

	var buf bytes.Buffer
	if err := exporter.Export(context.Background(), &buf); err == nil {
		t.Fatal("expected error, got nil")
	}
	if buf.Len() != 0 {
		t.Fatalf("writer received %d bytes despite error", buf.Len())
	}
}
