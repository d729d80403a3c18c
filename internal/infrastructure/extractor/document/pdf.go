package document

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
)

// extractPDF walks pages in ascending order. A page whose text cannot be
// extracted contributes an empty string; only failure to open the document
// is an error.
func extractPDF(ctx context.Context, payload []byte) (string, error) {
	reader, err := openPDF(payload)
	if err != nil {
		return "", domain.WrapError(domain.ErrCorruptDocument, "open pdf", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		pages = append(pages, pageText(reader.Page(i)))
	}
	return strings.Join(pages, "\n"), nil
}

// the pdf library panics on some malformed cross-reference tables, so the
// open is fenced with recover.
func openPDF(payload []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()
	return pdf.NewReader(bytes.NewReader(payload), int64(len(payload)))
}

func pageText(page pdf.Page) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()
	if page.V.IsNull() {
		return ""
	}
	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}
