package domain

import (
	"errors"
	"fmt"
)

// ErrNoEnclosure indicates a feed item carries nothing to download
var ErrNoEnclosure = errors.New("item has no enclosure")

// FetchError is returned when the feed itself could not be retrieved
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch feed %q: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch feed %q: unexpected status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError is returned when the feed body is not a recognizable feed
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse feed %q: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EnclosureFetchError is a per-item download failure. It never aborts a run.
type EnclosureFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *EnclosureFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("download %q: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("download %q: unexpected status %d", e.URL, e.StatusCode)
}

func (e *EnclosureFetchError) Unwrap() error { return e.Err }

// FilesystemError wraps a failure creating or finalizing a local file
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// IsFatal reports whether err should abort the whole run rather than a
// single item.
func IsFatal(err error) bool {
	var fe *FetchError
	var pe *ParseError
	return errors.As(err, &fe) || errors.As(err, &pe)
}
