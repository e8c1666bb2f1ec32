package model

import "testing"

func TestSessionState_IsBusy(t *testing.T) {
	tests := []struct {
		state    SessionState
		expected bool
	}{
		{StateIdle, false},
		{StateAwaitingURL, false},
		{StateValidating, true},
		{StateFetchingInfo, true},
		{StatePresentingOptions, false},
		{StateAwaitingSelection, false},
		{StateConfirming, false},
		{StateDownloading, true},
		{StateCompleted, false},
		{StateFailed, false},
		{StateTerminated, false},
	}

	for _, test := range tests {
		result := test.state.IsBusy()
		if result != test.expected {
			t.Errorf("SessionState(%s).IsBusy() = %v, expected %v", test.state, result, test.expected)
		}
	}
}

func TestSessionState_AcceptsLookup(t *testing.T) {
	tests := []struct {
		state    SessionState
		expected bool
	}{
		{StateIdle, true},
		{StateAwaitingURL, true},
		{StateFetchingInfo, false},
		{StateAwaitingSelection, true},
		{StateConfirming, true},
		{StateDownloading, false},
		{StateCompleted, true},
		{StateFailed, true},
		{StateTerminated, false},
	}

	for _, test := range tests {
		result := test.state.AcceptsLookup()
		if result != test.expected {
			t.Errorf("SessionState(%s).AcceptsLookup() = %v, expected %v", test.state, result, test.expected)
		}
	}
}

func TestSessionState_String(t *testing.T) {
	state := StateAwaitingSelection
	expected := "AwaitingSelection"
	result := state.String()

	if result != expected {
		t.Errorf("SessionState.String() = %s, expected %s", result, expected)
	}
}
