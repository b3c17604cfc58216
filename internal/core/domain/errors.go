package domain

import (
	"errors"
	"fmt"
)

// Sentinel kinds checked with IsKind. The HTTP adapter maps the first
// three to 404, 400, and 403; ErrTemporary marks failures the
// resilience executor may retry, like an embedding backend still
// loading its model.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTemporary        = errors.New("temporary failure")
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
