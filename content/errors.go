package content

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a slug does not resolve to a post.
var ErrNotFound = errors.New("content: post not found")

// FetchError reports an unreachable store or a response that could not be
// turned into the post schema.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("content: %s (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("content: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SchemaError describes a document that decoded as JSON but does not match
// the expected shape.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch at %s: %s", e.Path, e.Reason)
}
