package main

import (
	"testing"

	"dartgrab/internal/models"
)

// TestLatestSessionKeepsResultOnWriteFailure covers the case where a
// collection finished but writing its artifacts errored: the fresh result
// must replace the old session, not be discarded with the error
func TestLatestSessionKeepsResultOnWriteFailure(t *testing.T) {
	prev := &models.SessionResult{Year: "2022"}
	next := &models.SessionResult{
		Year:    "2023",
		Filings: []models.FilingRecord{{AccessionNumber: "20230515000222"}},
	}

	if got := latestSession(prev, next); got != next {
		t.Errorf("latestSession() kept the stale session %v", got)
	}
}

func TestLatestSessionKeepsPrevWhenRunProducedNothing(t *testing.T) {
	prev := &models.SessionResult{Year: "2022"}

	if got := latestSession(prev, nil); got != prev {
		t.Errorf("latestSession() = %v, want previous session kept", got)
	}
	if got := latestSession(nil, nil); got != nil {
		t.Errorf("latestSession(nil, nil) = %v, want nil", got)
	}
}
