package docModel

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat rejects a content type outside the allow-list before
// any extraction starts. Request-fatal.
var ErrUnsupportedFormat = errors.New("unsupported content type")

// ExtractionError marks a malformed PDF or word-processing stream. Fatal for
// the whole request, surfaced with the offending filename.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %q: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func NewExtractionError(filename string, err error) *ExtractionError {
	return &ExtractionError{Filename: filename, Err: err}
}
