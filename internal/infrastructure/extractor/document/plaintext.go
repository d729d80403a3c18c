package document

import (
	"bytes"
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/Kaio-Ribeiro/emailclassifier-ai/internal/core/domain"
)

// extractPlainText decodes a .txt payload as UTF-8, falling back to
// Latin-1 the way legacy mail exports are usually encoded. Payloads with
// NUL bytes are binary files with a .txt name.
func extractPlainText(payload []byte) (string, error) {
	if bytes.IndexByte(payload, 0) >= 0 {
		return "", domain.WrapError(
			domain.ErrCorruptDocument,
			"decode text file",
			errors.New("payload contains NUL bytes"),
		)
	}
	if utf8.Valid(payload) {
		return string(payload), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(payload)
	if err != nil {
		return "", domain.WrapError(domain.ErrCorruptDocument, "decode text file", err)
	}
	return string(decoded), nil
}
