package session

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyURL is returned when the submitted URL is blank
	ErrEmptyURL = errors.New("empty URL")
	// ErrInvalidURL is returned when the URL does not look like a YouTube video
	ErrInvalidURL = errors.New("invalid YouTube URL")
	// ErrNoFormats is returned when the video offers no selectable quality
	ErrNoFormats = errors.New("no formats available")
	// ErrInvalidSelection is returned for a non-numeric or out of range choice
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrCancelled is returned when the user declines the confirmation
	ErrCancelled = errors.New("download cancelled")
	// ErrExitRequested is returned when the user typed an exit word
	ErrExitRequested = errors.New("exit requested")
	// ErrBusy is returned when a command arrives while an operation is in flight
	ErrBusy = errors.New("operation in progress")
	// ErrWrongState is returned for commands issued out of order
	ErrWrongState = errors.New("command not allowed in current state")
)

// MetadataFetchError wraps a failure of the extractor metadata query
type MetadataFetchError struct {
	URL string
	Err error
}

func (e *MetadataFetchError) Error() string {
	return fmt.Sprintf("failed to fetch video info for %s: %v", e.URL, e.Err)
}

func (e *MetadataFetchError) Unwrap() error { return e.Err }

// DownloadError wraps a failure of the extractor download
type DownloadError struct {
	URL      string
	Selector string
	Err      error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download of %s (format %s) failed: %v", e.URL, e.Selector, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// UnhandledError carries a recovered panic value
type UnhandledError struct {
	Value any
}

func (e *UnhandledError) Error() string {
	return fmt.Sprintf("unexpected error: %v", e.Value)
}

func (e *UnhandledError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsRecoverable reports whether the session can go on after err
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}
	var unhandled *UnhandledError
	return !errors.Is(err, ErrExitRequested) && !errors.As(err, &unhandled)
}
