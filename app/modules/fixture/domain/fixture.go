package fixturedomain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matchday-pool/predictor/app/domainerr"
)

type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchLive      MatchStatus = "live"
	MatchFinished  MatchStatus = "finished"
	MatchCanceled  MatchStatus = "canceled"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchScheduled, MatchLive, MatchFinished, MatchCanceled:
		return true
	}
	return false
}

// ValidateTeams rejects a match between a team and itself.
func ValidateTeams(home, away uuid.UUID) *domainerr.Error {
	if home == uuid.Nil || away == uuid.Nil {
		return domainerr.New(domainerr.InvalidInput, "both teams are required")
	}
	if home == away {
		return domainerr.New(domainerr.SameTeams, "home and away team must differ")
	}
	return nil
}

// ValidateScorePair requires both sides set or both unset, and no negatives.
func ValidateScorePair(home, away *int) *domainerr.Error {
	if (home == nil) != (away == nil) {
		return domainerr.New(domainerr.InvalidScore, "home and away must both be set or both be empty")
	}
	if home != nil && (*home < 0 || *away < 0) {
		return domainerr.New(domainerr.InvalidScore, "scores cannot be negative")
	}
	return nil
}

// ValidateSchedule requires a kickoff and a deadline.
func ValidateSchedule(kickoff, deadline time.Time) *domainerr.Error {
	if kickoff.IsZero() || deadline.IsZero() {
		return domainerr.New(domainerr.InvalidInput, "kickoff_at and deadline_at are required")
	}
	return nil
}

// ValidateResult checks a result update. Scores without a status change are
// fine, but only a finished match is ever scored.
func ValidateResult(status MatchStatus, home, away *int) *domainerr.Error {
	if !status.Valid() {
		return domainerr.New(domainerr.InvalidInput, "unknown match status %q", status)
	}
	return ValidateScorePair(home, away)
}

// PredictionWindowOpen reports whether a prediction may still be written at now.
func PredictionWindowOpen(status MatchStatus, deadline, now time.Time) *domainerr.Error {
	if status != MatchScheduled {
		return domainerr.New(domainerr.MatchNotOpen, "match is %s", status)
	}
	if !now.Before(deadline) {
		return domainerr.New(domainerr.DeadlinePassed, "prediction deadline passed at %s", deadline.UTC().Format(time.RFC3339))
	}
	return nil
}

// ValidateName trims s and rejects empty names.
func ValidateName(field, s string) (string, *domainerr.Error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", domainerr.New(domainerr.InvalidInput, "%s is required", field)
	}
	return s, nil
}
