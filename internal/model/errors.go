package model

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// FetchError means the careers page could not be retrieved: network failure,
// non-200 status, or an unsupported content type. Never retried by the core.
type FetchError struct {
	URL        string
	StatusCode int // zero when the request never got a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ModelInvocationError means the LLM call failed at the transport or auth
// layer, before any response content was available.
type ModelInvocationError struct {
	Err error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model invocation: %v", e.Err)
}

func (e *ModelInvocationError) Unwrap() error { return e.Err }

// ExtractionParseError means the model's extraction response was not parsable
// as a JSON object or array of objects. Terminal for the current run.
type ExtractionParseError struct {
	Detail string
}

func (e *ExtractionParseError) Error() string {
	return "context too big or malformed, unable to parse job JSON: " + e.Detail
}

// SourceNotFoundError means the portfolio source file is missing or
// unparsable. Fatal at startup.
type SourceNotFoundError struct {
	Path string
	Err  error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("portfolio source %s: %v", e.Path, e.Err)
}

func (e *SourceNotFoundError) Unwrap() error { return e.Err }

// IndexOpenError means the persistent similarity index could not be opened
// or created. Fatal at startup.
type IndexOpenError struct {
	Path string
	Err  error
}

func (e *IndexOpenError) Error() string {
	return fmt.Sprintf("open portfolio index %s: %v", e.Path, e.Err)
}

func (e *IndexOpenError) Unwrap() error { return e.Err }

// IsTimeout reports whether err was caused by an external call exceeding
// its deadline rather than failing outright.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return os.IsTimeout(err)
}
