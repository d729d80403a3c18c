package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat    = errors.New("unsupported file format")
	ErrCorruptDocument      = errors.New("document cannot be read")
	ErrEmptyInput           = errors.New("empty input")
	ErrTextTooShort         = errors.New("text below minimum length")
	ErrClassificationFailed = errors.New("classification failed")
	ErrModelUnavailable     = errors.New("classification model unavailable")
	ErrEmailNotFound        = errors.New("email not found")
	ErrTemporary            = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
