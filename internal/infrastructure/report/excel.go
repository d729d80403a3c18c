// Package report renders completed analyses as downloadable workbooks.
package report

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/ports"
)

const sheetName = "Analyses"

var headers = []string{"ID", "Arquivo", "Classificação", "Confiança", "Resposta sugerida", "Criado em"}

// ExcelExporter writes completed analyses to an xlsx workbook.
type ExcelExporter struct {
	repo  ports.AnalysisRepository
	limit int
}

func NewExcelExporter(repo ports.AnalysisRepository, limit int) *ExcelExporter {
	if limit <= 0 {
		limit = 1000
	}
	return &ExcelExporter{repo: repo, limit: limit}
}

func (e *ExcelExporter) Export(ctx context.Context, w io.Writer) error {
	docs, err := e.repo.ListCompleted(ctx, e.limit)
	if err != nil {
		return fmt.Errorf("list completed analyses: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for row, doc := range docs {
		values := []any{
			doc.ID,
			doc.Filename,
			doc.Category.Label(),
			strconv.FormatFloat(doc.Confidence, 'f', 4, 64),
			doc.SuggestedResponse,
			doc.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("write row %d: %w", row+1, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
