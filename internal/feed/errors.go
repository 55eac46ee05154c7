package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the feed could not be reached.
	ErrUnavailable = errors.New("feed: unavailable")
	// ErrStatus means the server answered with a non-success status.
	ErrStatus = errors.New("feed: unexpected status")
	// ErrMalformedBody means the response body is not a usable feed.
	ErrMalformedBody = errors.New("feed: malformed body")
)

// FetchError describes a failed fetch.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap exposes the underlying error.
func (e *FetchError) Unwrap() error { return e.Err }

// Kind returns a short label for metrics.
func (e *FetchError) Kind() string {
	switch {
	case errors.Is(e.Err, ErrStatus):
		return "status"
	case errors.Is(e.Err, ErrMalformedBody):
		return "malformed"
	default:
		return "unavailable"
	}
}
