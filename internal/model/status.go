package model

// SessionState represents the position of an interactive session in its
// lookup/download cycle
type SessionState string

const (
	// StateIdle means no lookup is in progress
	StateIdle SessionState = "Idle"

	// StateAwaitingURL means the session waits for the user to submit a URL
	StateAwaitingURL SessionState = "AwaitingURL"

	// StateValidating means the submitted URL is being shape-checked
	StateValidating SessionState = "Validating"

	// StateFetchingInfo means the extractor metadata query is running
	StateFetchingInfo SessionState = "FetchingInfo"

	// StatePresentingOptions means the quality menu is ready to be rendered
	StatePresentingOptions SessionState = "PresentingOptions"

	// StateAwaitingSelection means the menu was shown and a choice is expected
	StateAwaitingSelection SessionState = "AwaitingSelection"

	// StateConfirming means a quality was chosen and a yes/no answer is expected
	StateConfirming SessionState = "Confirming"

	// StateDownloading means the extractor download call is running
	StateDownloading SessionState = "Downloading"

	// StateCompleted means the last download succeeded
	StateCompleted SessionState = "Completed"

	// StateFailed means the last download failed
	StateFailed SessionState = "Failed"

	// StateTerminated means the user asked to leave the session
	StateTerminated SessionState = "Terminated"
)

// String returns the string representation of SessionState
func (s SessionState) String() string {
	return string(s)
}

// IsBusy returns true while the session runs a step that must not be interrupted
// by another command
func (s SessionState) IsBusy() bool {
	return s == StateValidating || s == StateFetchingInfo || s == StateDownloading
}

// AcceptsLookup returns true if a new lookup may be started from this state
func (s SessionState) AcceptsLookup() bool {
	return !s.IsBusy() && s != StateTerminated
}
