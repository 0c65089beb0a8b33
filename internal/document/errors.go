package document

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a missing file or directory.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedFormat reports a file extension with no extractor.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// FetchError reports a failed URL fetch, either a transport error or a
// non-2xx response. StatusCode is zero when no response arrived.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError reports a parser failure on a whole document. Failures on
// a single page inside an otherwise readable document are logged and skipped
// instead.
type ExtractionError struct {
	Path   string
	Format string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s from %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
