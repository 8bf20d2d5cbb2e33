// Package stagedomain holds the stage lifecycle rules: draft, published and
// locked, moving strictly forward. Which stage is current is tracked
// separately and is not a lifecycle state.
package stagedomain

import (
	"github.com/matchday-pool/predictor/app/domainerr"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusLocked    Status = "locked"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusLocked:
		return true
	}
	return false
}

// Transition is the outcome of a lifecycle check. Changed is false when the
// stage is already in the target state and the call is a no-op.
type Transition struct {
	From    Status
	To      Status
	Changed bool
}

// CanPublish allows draft to published. Publishing again is a no-op;
// publishing a locked stage is rejected.
func CanPublish(current Status) (Transition, *domainerr.Error) {
	switch current {
	case StatusDraft:
		return Transition{From: current, To: StatusPublished, Changed: true}, nil
	case StatusPublished:
		return Transition{From: current, To: StatusPublished}, nil
	case StatusLocked:
		return Transition{}, domainerr.New(domainerr.StageLocked, "stage is locked and cannot be published")
	default:
		return Transition{}, invalidStatus(current)
	}
}

// CanLock allows locking only when the stage holds exactly the required
// number of matches. An already locked stage is a no-op.
func CanLock(current Status, matchesRequired, matchCount int) (Transition, *domainerr.Error) {
	if !current.Valid() {
		return Transition{}, invalidStatus(current)
	}
	if current == StatusLocked {
		return Transition{From: current, To: StatusLocked}, nil
	}
	if matchCount != matchesRequired {
		return Transition{}, domainerr.New(domainerr.MatchCountMismatch,
			"stage requires %d matches but has %d", matchesRequired, matchCount).
			WithDetail("required", matchesRequired).
			WithDetail("actual", matchCount)
	}
	return Transition{From: current, To: StatusLocked, Changed: true}, nil
}

// AllowsFixtureEdit reports whether tours and matches of a stage in status
// s may be created, edited or deleted.
func AllowsFixtureEdit(s Status) *domainerr.Error {
	if s == StatusLocked {
		return domainerr.New(domainerr.StageLocked, "stage is locked; fixtures are frozen")
	}
	return nil
}

// AllowsResultEntry reports whether match results may be recorded.
// Results follow publication; a locked stage still accepts them.
func AllowsResultEntry(s Status) *domainerr.Error {
	if s == StatusDraft {
		return domainerr.New(domainerr.StageNotPublished, "stage is not published yet")
	}
	return nil
}

// AllowsPredictions reports whether participants may submit predictions.
func AllowsPredictions(s Status) *domainerr.Error {
	if s == StatusDraft {
		return domainerr.New(domainerr.StageNotPublished, "stage is not published yet")
	}
	return nil
}

func invalidStatus(s Status) *domainerr.Error {
	return domainerr.New(domainerr.InvalidTransition, "unknown stage status %q", s)
}
