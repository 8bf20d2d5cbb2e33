// Package domainerr is the reason-coded rejection every service returns as
// the Failure half of an OperationResult.
package domainerr

import (
	"errors"
	"fmt"
)

type Code string

const (
	NotFinished        Code = "not_finished"
	IncompleteScore    Code = "incomplete_score"
	MatchNotFound      Code = "match_not_found"
	StageNotFound      Code = "stage_not_found"
	TourNotFound       Code = "tour_not_found"
	TeamNotFound       Code = "team_not_found"
	ParticipantMissing Code = "participant_not_found"
	StageLocked        Code = "stage_locked"
	StageNotPublished  Code = "stage_not_published"
	MatchCountMismatch Code = "match_count_mismatch"
	InvalidTransition  Code = "invalid_transition"
	SameTeams          Code = "same_teams"
	InvalidScore       Code = "invalid_score"
	InvalidInput       Code = "invalid_input"
	TourStageMismatch  Code = "tour_stage_mismatch"
	DeadlinePassed     Code = "deadline_passed"
	MatchNotOpen       Code = "match_not_open"
	Conflict           Code = "conflict"
)

// Error is a domain rejection. It is never used for infrastructure failures.
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithDetail returns e with key set in its details.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Is matches any *Error with the same code, so errors.Is(err, domainerr.New(code, ""))
// and CodeOf both work through wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
